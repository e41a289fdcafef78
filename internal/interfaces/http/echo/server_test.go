package echo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	authapp "github.com/mohammadpnp/employee-registry/internal/application/auth"
	app "github.com/mohammadpnp/employee-registry/internal/application/employee"
	httpecho "github.com/mohammadpnp/employee-registry/internal/interfaces/http/echo"
)

type fakeLogin struct {
	output authapp.TokenPairOutput
	err    error
}

func (f *fakeLogin) Execute(ctx context.Context, in authapp.LoginInput) (authapp.TokenPairOutput, error) {
	if f.err != nil {
		return authapp.TokenPairOutput{}, f.err
	}
	return f.output, nil
}

type fakeRefresh struct {
	output authapp.TokenPairOutput
	err    error
}

func (f *fakeRefresh) Execute(ctx context.Context, in authapp.RefreshInput) (authapp.TokenPairOutput, error) {
	if f.err != nil {
		return authapp.TokenPairOutput{}, f.err
	}
	return f.output, nil
}

type fakeList struct {
	output app.ListEmployeesOutput
	err    error
}

func (f *fakeList) Execute(ctx context.Context, in app.ListEmployeesInput) (app.ListEmployeesOutput, error) {
	return f.output, f.err
}

type fakeCreate struct {
	output app.EmployeeOutput
	err    error
	input  app.CreateEmployeeInput
}

func (f *fakeCreate) Execute(ctx context.Context, in app.CreateEmployeeInput) (app.EmployeeOutput, error) {
	f.input = in
	if f.err != nil {
		return app.EmployeeOutput{}, f.err
	}
	return f.output, nil
}

type fakeGet struct {
	output app.EmployeeOutput
	err    error
}

func (f *fakeGet) Execute(ctx context.Context, in app.GetEmployeeInput) (app.EmployeeOutput, error) {
	if f.err != nil {
		return app.EmployeeOutput{}, f.err
	}
	return f.output, nil
}

type fakeUpdate struct {
	output app.EmployeeOutput
	err    error
}

func (f *fakeUpdate) Execute(ctx context.Context, in app.UpdateEmployeeInput) (app.EmployeeOutput, error) {
	if f.err != nil {
		return app.EmployeeOutput{}, f.err
	}
	return f.output, nil
}

type fakeDelete struct {
	err error
}

func (f *fakeDelete) Execute(ctx context.Context, in app.DeleteEmployeeInput) error {
	return f.err
}

type fakeBulkStore struct {
	output app.StartBulkStoreOutput
	err    error
	input  app.StartBulkStoreInput
}

func (f *fakeBulkStore) Execute(ctx context.Context, in app.StartBulkStoreInput) (app.StartBulkStoreOutput, error) {
	f.input = in
	if f.err != nil {
		return app.StartBulkStoreOutput{}, f.err
	}
	return f.output, nil
}

type fakeBulkHistory struct {
	output app.BulkHistoryOutput
	err    error
}

func (f *fakeBulkHistory) Execute(ctx context.Context, in app.BulkHistoryInput) (app.BulkHistoryOutput, error) {
	if f.err != nil {
		return app.BulkHistoryOutput{}, f.err
	}
	return f.output, nil
}

type fakeBulkCancel struct {
	output app.BulkCancelOutput
	err    error
	input  app.BulkCancelInput
}

func (f *fakeBulkCancel) Execute(ctx context.Context, in app.BulkCancelInput) (app.BulkCancelOutput, error) {
	f.input = in
	if f.err != nil {
		return app.BulkCancelOutput{}, f.err
	}
	return f.output, nil
}

type testHandlers struct {
	login       *fakeLogin
	refresh     *fakeRefresh
	list        *fakeList
	create      *fakeCreate
	get         *fakeGet
	update      *fakeUpdate
	remove      *fakeDelete
	bulkStore   *fakeBulkStore
	bulkHistory *fakeBulkHistory
	bulkCancel  *fakeBulkCancel
}

func newTestServer(t *testing.T) (*echo.Echo, *authapp.TokenService, *testHandlers) {
	t.Helper()

	tokens := authapp.NewTokenService(authapp.TokenServiceConfig{
		Secret:         []byte("test-secret"),
		Issuer:         "employee-registry",
		AccessTokenTTL: time.Minute,
	})

	handlers := &testHandlers{
		login:       &fakeLogin{},
		refresh:     &fakeRefresh{},
		list:        &fakeList{},
		create:      &fakeCreate{},
		get:         &fakeGet{},
		update:      &fakeUpdate{},
		remove:      &fakeDelete{},
		bulkStore:   &fakeBulkStore{},
		bulkHistory: &fakeBulkHistory{},
		bulkCancel:  &fakeBulkCancel{},
	}

	server := echo.New()
	httpecho.RegisterRoutes(
		server,
		httpecho.NewAuthHandler(handlers.login, handlers.refresh),
		httpecho.NewEmployeeHandler(handlers.list, handlers.create, handlers.get, handlers.update, handlers.remove),
		httpecho.NewBulkHandler(handlers.bulkStore, handlers.bulkHistory, handlers.bulkCancel),
		httpecho.AuthMiddleware(tokens),
	)
	return server, tokens, handlers
}

func bearerFor(t *testing.T, tokens *authapp.TokenService, userID uuid.UUID) string {
	t.Helper()

	signed, err := tokens.IssueAccess(userID, "test")
	if err != nil {
		t.Fatalf("issue access token: %v", err)
	}
	return "Bearer " + signed
}

func doRequest(server *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}
