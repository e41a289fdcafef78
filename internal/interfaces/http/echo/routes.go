package echo

import e "github.com/labstack/echo/v4"

func RegisterRoutes(server *e.Echo, auth *AuthHandler, employees *EmployeeHandler, bulk *BulkHandler, authRequired e.MiddlewareFunc) {
	api := server.Group("/api/v1")

	api.POST("/auth/login", auth.Login)
	api.POST("/auth/refresh", auth.Refresh)
	api.POST("/auth/logout", auth.Logout, authRequired)

	protected := api.Group("/employees", authRequired)
	protected.GET("", employees.Index)
	protected.POST("", employees.Store)
	protected.POST("/bulk-store", bulk.Store)
	// same :id segment as the CRUD routes; echo requires one param
	// name per position
	protected.GET("/:id/bulk-history", bulk.History)
	protected.POST("/:id/bulk-cancel", bulk.Cancel)
	protected.GET("/:id", employees.Show)
	protected.PUT("/:id", employees.Update)
	protected.DELETE("/:id", employees.Destroy)
}
