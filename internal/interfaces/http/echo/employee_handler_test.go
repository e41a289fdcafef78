package echo_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	app "github.com/mohammadpnp/employee-registry/internal/application/employee"
	domain "github.com/mohammadpnp/employee-registry/internal/domain/employee"
)

func TestEmployeeIndexRequiresAuth(t *testing.T) {
	t.Parallel()

	server, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil)
	if rec := doRequest(server, req); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestEmployeeIndex(t *testing.T) {
	t.Parallel()

	server, tokens, handlers := newTestServer(t)
	handlers.list.output = app.ListEmployeesOutput{
		Data: []app.EmployeeOutput{{ID: 1, Name: "Alice", CPF: "529.982.247-25"}},
		Meta: app.PageMeta{CurrentPage: 1, PerPage: 15},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees?page=1&per_page=15", nil)
	req.Header.Set(echo.HeaderAuthorization, bearerFor(t, tokens, uuid.New()))

	rec := doRequest(server, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}

	var got app.ListEmployeesOutput
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unexpected json: %v", err)
	}
	if len(got.Data) != 1 || got.Data[0].CPF != "529.982.247-25" {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestEmployeeStoreCreated(t *testing.T) {
	t.Parallel()

	server, tokens, handlers := newTestServer(t)
	handlers.create.output = app.EmployeeOutput{ID: 7, Name: "Alice"}

	userID := uuid.New()
	body := []byte(`{"name":"Alice","email":"alice@example.com","cpf":"52998224725","city":"Austin","state":"TX"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/employees", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, bearerFor(t, tokens, userID))

	rec := doRequest(server, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}
	if handlers.create.input.UserID != userID {
		t.Fatal("expected the authenticated user on the input")
	}
}

func TestEmployeeStoreValidationFailure(t *testing.T) {
	t.Parallel()

	server, tokens, handlers := newTestServer(t)
	errs := domain.ValidationErrors{}
	errs.Add("cpf", "The cpf must be a valid CPF.")
	handlers.create.err = &app.ValidationError{Errors: errs}

	body := []byte(`{"name":"Alice","email":"alice@example.com","cpf":"123","city":"Austin","state":"TX"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/employees", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, bearerFor(t, tokens, uuid.New()))

	rec := doRequest(server, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body)
	}

	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unexpected json: %v", err)
	}
	errBody, ok := got["error"].(map[string]any)
	if !ok {
		t.Fatalf("unexpected error payload: %#v", got["error"])
	}
	fields, ok := errBody["errors"].(map[string]any)
	if !ok || fields["cpf"] == nil {
		t.Fatalf("expected cpf errors in payload, got %#v", errBody["errors"])
	}
}

func TestEmployeeShowNotFound(t *testing.T) {
	t.Parallel()

	server, tokens, handlers := newTestServer(t)
	handlers.get.err = app.ErrEmployeeNotFound

	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees/99", nil)
	req.Header.Set(echo.HeaderAuthorization, bearerFor(t, tokens, uuid.New()))

	if rec := doRequest(server, req); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestEmployeeShowForbidden(t *testing.T) {
	t.Parallel()

	server, tokens, handlers := newTestServer(t)
	handlers.get.err = app.ErrNotOwner

	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees/1", nil)
	req.Header.Set(echo.HeaderAuthorization, bearerFor(t, tokens, uuid.New()))

	if rec := doRequest(server, req); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestEmployeeShowBadID(t *testing.T) {
	t.Parallel()

	server, tokens, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees/abc", nil)
	req.Header.Set(echo.HeaderAuthorization, bearerFor(t, tokens, uuid.New()))

	if rec := doRequest(server, req); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestEmployeeDestroy(t *testing.T) {
	t.Parallel()

	server, tokens, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/employees/5", nil)
	req.Header.Set(echo.HeaderAuthorization, bearerFor(t, tokens, uuid.New()))

	if rec := doRequest(server, req); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
