package echo

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	app "github.com/mohammadpnp/employee-registry/internal/application/employee"
)

type EmployeeHandler struct {
	list   app.ListEmployees
	create app.CreateEmployee
	get    app.GetEmployee
	update app.UpdateEmployee
	remove app.DeleteEmployee
}

type employeeRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	CPF   string `json:"cpf"`
	City  string `json:"city"`
	State string `json:"state"`
}

func NewEmployeeHandler(list app.ListEmployees, create app.CreateEmployee, get app.GetEmployee, update app.UpdateEmployee, remove app.DeleteEmployee) *EmployeeHandler {
	return &EmployeeHandler{
		list:   list,
		create: create,
		get:    get,
		update: update,
		remove: remove,
	}
}

func (h *EmployeeHandler) Index(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c, "missing authenticated user")
	}

	out, err := h.list.Execute(c.Request().Context(), app.ListEmployeesInput{
		UserID: userID,
		Page:   pageFromQuery(c),
	})
	if err != nil {
		return internalError(c, "failed to list employees")
	}
	return c.JSON(http.StatusOK, out)
}

func (h *EmployeeHandler) Store(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c, "missing authenticated user")
	}

	var req employeeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	out, err := h.create.Execute(c.Request().Context(), app.CreateEmployeeInput{
		UserID: userID,
		Name:   req.Name,
		Email:  req.Email,
		CPF:    req.CPF,
		City:   req.City,
		State:  req.State,
	})
	if err != nil {
		return employeeError(c, err, "failed to create employee")
	}
	return c.JSON(http.StatusCreated, apiResponse{Data: out})
}

func (h *EmployeeHandler) Show(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c, "missing authenticated user")
	}
	employeeID, err := parseEmployeeID(c)
	if err != nil {
		return badRequest(c, "id must be an integer")
	}

	out, err := h.get.Execute(c.Request().Context(), app.GetEmployeeInput{
		UserID:     userID,
		EmployeeID: employeeID,
	})
	if err != nil {
		return employeeError(c, err, "failed to get employee")
	}
	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *EmployeeHandler) Update(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c, "missing authenticated user")
	}
	employeeID, err := parseEmployeeID(c)
	if err != nil {
		return badRequest(c, "id must be an integer")
	}

	var req employeeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	out, err := h.update.Execute(c.Request().Context(), app.UpdateEmployeeInput{
		UserID:     userID,
		EmployeeID: employeeID,
		Name:       req.Name,
		Email:      req.Email,
		CPF:        req.CPF,
		City:       req.City,
		State:      req.State,
	})
	if err != nil {
		return employeeError(c, err, "failed to update employee")
	}
	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *EmployeeHandler) Destroy(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c, "missing authenticated user")
	}
	employeeID, err := parseEmployeeID(c)
	if err != nil {
		return badRequest(c, "id must be an integer")
	}

	err = h.remove.Execute(c.Request().Context(), app.DeleteEmployeeInput{
		UserID:     userID,
		EmployeeID: employeeID,
	})
	if err != nil {
		return employeeError(c, err, "failed to delete employee")
	}
	return c.JSON(http.StatusOK, apiResponse{})
}

func employeeError(c echo.Context, err error, fallback string) error {
	var validationErr *app.ValidationError
	switch {
	case errors.Is(err, app.ErrEmployeeNotFound):
		return c.JSON(http.StatusNotFound, apiResponse{Error: &errorBody{
			Code:    "not_found",
			Message: "employee not found",
		}})
	case errors.Is(err, app.ErrNotOwner):
		return c.JSON(http.StatusForbidden, apiResponse{Error: &errorBody{
			Code:    "forbidden",
			Message: "employee belongs to another user",
		}})
	case errors.As(err, &validationErr):
		return c.JSON(http.StatusUnprocessableEntity, apiResponse{Error: &errorBody{
			Code:    "validation_failed",
			Message: "the given data was invalid",
			Errors:  validationErr.Errors,
		}})
	default:
		return internalError(c, fallback)
	}
}

func parseEmployeeID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func pageFromQuery(c echo.Context) app.Page {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	perPage, _ := strconv.Atoi(c.QueryParam("per_page"))
	return app.Page{Number: page, PerPage: perPage}
}
