package bootstrap

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	authapp "github.com/mohammadpnp/employee-registry/internal/application/auth"
	app "github.com/mohammadpnp/employee-registry/internal/application/employee"
	"github.com/mohammadpnp/employee-registry/internal/config"
	infrafile "github.com/mohammadpnp/employee-registry/internal/infrastructure/file"
	"github.com/mohammadpnp/employee-registry/internal/infrastructure/repository"
	httpecho "github.com/mohammadpnp/employee-registry/internal/interfaces/http/echo"
)

// NewHTTPServer wires repositories, use cases and handlers into an
// echo server. The reporter is shared with the import worker so the
// zero-row settle path and the queue-driven one deliver the same
// notification.
func NewHTTPServer(cfg *config.Config, db *gorm.DB, pool *pgxpool.Pool, tokens *authapp.TokenService, reporter app.SettledNotifier) *echo.Echo {
	server := echo.New()
	server.HideBanner = true

	server.Use(middleware.Recover())
	server.Use(middleware.RequestID())
	server.Use(middleware.BodyLimit("10M"))

	userRepo := repository.NewUserRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	ledger := repository.NewBatchHistoryRepository(db)
	batches := repository.NewBatchRepository(pool)
	storage := infrafile.NewLocalStorage(cfg.UploadBaseDir)

	login := authapp.NewLogin(userRepo, tokens)
	refresh := authapp.NewRefresh(tokens)
	authHandler := httpecho.NewAuthHandler(login, refresh)

	employeeHandler := httpecho.NewEmployeeHandler(
		app.NewListEmployees(employeeRepo),
		app.NewCreateEmployee(employeeRepo),
		app.NewGetEmployee(employeeRepo),
		app.NewUpdateEmployee(employeeRepo),
		app.NewDeleteEmployee(employeeRepo),
	)

	bulkStore := app.NewStartBulkStore(storage, ledger, batches, reporter)
	bulkHistory := app.NewBulkHistory(ledger, batches)
	bulkCancel := app.NewBulkCancel(batches)
	bulkHandler := httpecho.NewBulkHandler(bulkStore, bulkHistory, bulkCancel)

	httpecho.RegisterRoutes(server, authHandler, employeeHandler, bulkHandler, httpecho.AuthMiddleware(tokens))

	server.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	server.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return server
}
