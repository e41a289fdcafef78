package echo

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	app "github.com/mohammadpnp/employee-registry/internal/application/employee"
)

type BulkHandler struct {
	bulkStore app.StartBulkStore
	history   app.BulkHistory
	cancel    app.BulkCancel
}

func NewBulkHandler(bulkStore app.StartBulkStore, history app.BulkHistory, cancel app.BulkCancel) *BulkHandler {
	return &BulkHandler{bulkStore: bulkStore, history: history, cancel: cancel}
}

// Store accepts the multipart CSV upload and answers as soon as every
// row is enqueued; row processing is asynchronous.
func (h *BulkHandler) Store(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c, "missing authenticated user")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "a csv file is required")
	}
	if ext := strings.ToLower(filepath.Ext(fileHeader.Filename)); ext != ".csv" && ext != ".txt" {
		return badRequest(c, "file must be a csv")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return badRequest(c, "unable to read uploaded file")
	}
	defer src.Close()

	out, err := h.bulkStore.Execute(c.Request().Context(), app.StartBulkStoreInput{
		UserID:   userID,
		Filename: fileHeader.Filename,
		File:     src,
	})
	if err != nil {
		return internalError(c, "failed to start bulk import")
	}
	return c.JSON(http.StatusAccepted, apiResponse{Data: out})
}

// Cancel marks the batch cancelled. Jobs already running finish; jobs
// not yet claimed become no-ops.
func (h *BulkHandler) Cancel(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c, "missing authenticated user")
	}

	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "batch_id must be a valid UUID")
	}

	out, err := h.cancel.Execute(c.Request().Context(), app.BulkCancelInput{
		UserID:  userID,
		BatchID: batchID,
	})
	if err != nil {
		if errors.Is(err, app.ErrBatchNotFound) {
			return c.JSON(http.StatusNotFound, apiResponse{Error: &errorBody{
				Code:    "not_found",
				Message: "batch not found",
			}})
		}
		return internalError(c, "failed to cancel bulk import")
	}
	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *BulkHandler) History(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c, "missing authenticated user")
	}

	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "batch_id must be a valid UUID")
	}

	out, err := h.history.Execute(c.Request().Context(), app.BulkHistoryInput{
		UserID:  userID,
		BatchID: batchID,
		Page:    pageFromQuery(c),
	})
	if err != nil {
		if errors.Is(err, app.ErrBatchNotFound) {
			return c.JSON(http.StatusNotFound, apiResponse{Error: &errorBody{
				Code:    "not_found",
				Message: "batch not found",
			}})
		}
		return internalError(c, "failed to load bulk history")
	}
	return c.JSON(http.StatusOK, out)
}
