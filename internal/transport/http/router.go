package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/crm_dashboard/internal/handlers"
	authmw "github.com/Skotchmaster/crm_dashboard/internal/middleware/auth"
	metricsmw "github.com/Skotchmaster/crm_dashboard/internal/middleware/metrics"
)

type Deps struct {
	AuthHandler         *handlers.AuthHandler
	ProductHandler      *handlers.ProductHandler
	SearchHandler       *handlers.SearchHandler
	CustomerHandler     *handlers.CustomerHandler
	DashboardHandler    *handlers.DashboardHandler
	SettingsHandler     *handlers.SettingsHandler
	NotificationHandler *handlers.NotificationHandler

	Guard   *authmw.Guard
	Metrics *metricsmw.Metrics

	CSRF bool
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}

	v1 := e.Group("/api/v1")
	if d.CSRF {
		v1.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
			TokenLookup:    "header:X-CSRF-Token",
			CookieName:     "XSRF-TOKEN",
			CookiePath:     "/",
			CookieSameSite: http.SameSiteLaxMode,
		}))
	}

	auth := v1.Group("/auth")
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/signup", d.AuthHandler.Signup)
	auth.POST("/logout", d.AuthHandler.Logout)
	auth.POST("/init", d.AuthHandler.Init)
	auth.GET("/session", d.AuthHandler.GetSession)

	protected := v1.Group("", d.Guard.RequireSession)

	protected.GET("/dashboard", d.DashboardHandler.Dashboard)
	protected.GET("/analytics", d.DashboardHandler.Analytics)

	products := protected.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/search", d.SearchHandler.Search)
	products.POST("", d.ProductHandler.CreateProduct)
	products.PUT("/:id", d.ProductHandler.UpdateProduct)
	products.DELETE("/:id", d.ProductHandler.DeleteProduct)

	customers := protected.Group("/customers")
	customers.GET("", d.CustomerHandler.ListCustomers)
	customers.GET("/stats", d.CustomerHandler.Stats)
	customers.POST("/reset", d.CustomerHandler.Reset)
	customers.POST("", d.CustomerHandler.CreateCustomer)
	customers.GET("/:id", d.CustomerHandler.GetCustomer)
	customers.PUT("/:id", d.CustomerHandler.UpdateCustomer)
	customers.DELETE("/:id", d.CustomerHandler.DeleteCustomer)

	settings := protected.Group("/settings")
	settings.GET("", d.SettingsHandler.GetSettings)
	settings.PUT("/profile", d.SettingsHandler.UpdateProfile)
	settings.PUT("/notifications", d.SettingsHandler.UpdateNotifications)

	protected.GET("/notifications", d.NotificationHandler.Drain)

	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "not found"})
	})
}
