package server

import (
	"context"
	"log/slog"
	"net/http"

	"garments-store/internal/handler"
	"garments-store/internal/middleware"
	"garments-store/internal/service"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo           *echo.Echo
	log            *slog.Logger
	authn          middleware.Authenticator
	userService    service.UserService
	userHandler    *handler.UserHandler
	productHandler *handler.ProductHandler
	orderHandler   *handler.OrderHandler
	paymentHandler *handler.PaymentHandler
}

type Services struct {
	Users    service.UserService
	Products service.ProductService
	Orders   service.OrderService
	Payments service.PaymentService
}

func NewServer(services Services, authn middleware.Authenticator, log *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Binder = &strictBinder{}
	e.Validator = newRequestValidator()
	e.HTTPErrorHandler = newErrorHandler(log)

	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error.Error())
			}
			log.LogAttrs(c.Request().Context(), slog.LevelInfo, "request", slog.Group("http", attrs...))
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	s := &Server{
		echo:           e,
		log:            log,
		authn:          authn,
		userService:    services.Users,
		userHandler:    handler.NewUserHandler(services.Users),
		productHandler: handler.NewProductHandler(services.Products),
		orderHandler:   handler.NewOrderHandler(services.Orders, services.Users),
		paymentHandler: handler.NewPaymentHandler(services.Payments, services.Users),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	auth := middleware.Authenticate(s.authn)
	registered := middleware.Authorize(s.userService)
	managerOnly := middleware.Authorize(s.userService, middleware.ManagerOnly)
	managerActive := middleware.Authorize(s.userService, middleware.ManagerActive)
	adminOnly := middleware.Authorize(s.userService, middleware.AdminOnly)

	s.echo.GET("/api/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// -------- products --------
	s.echo.GET("/products", s.productHandler.List)
	s.echo.GET("/products/:id", s.productHandler.Get)
	s.echo.GET("/products/by-email/:email", s.productHandler.ListByOwner, auth)
	s.echo.POST("/products", s.productHandler.Create, auth, managerOnly)
	s.echo.PATCH("/products/:id", s.productHandler.Update, auth, managerActive)
	s.echo.DELETE("/products/:id", s.productHandler.Delete, auth, managerActive)

	// -------- orders --------
	s.echo.POST("/orders", s.orderHandler.Create, auth)
	s.echo.GET("/orders/:id", s.orderHandler.Get, auth, registered)
	s.echo.GET("/orders/pending", s.orderHandler.ListPending, auth, managerActive)
	s.echo.GET("/orders/approved", s.orderHandler.ListApproved, auth, managerActive)
	s.echo.GET("/my-orders", s.orderHandler.ListMine, auth)
	s.echo.DELETE("/my-orders/:id", s.orderHandler.Cancel, auth)
	s.echo.PATCH("/my-orders/:id/approve", s.orderHandler.Approve, auth, managerActive)
	s.echo.PATCH("/my-orders/:id/reject", s.orderHandler.Reject, auth, managerActive)

	// -------- payments --------
	s.echo.POST("/create-checkout-session", s.paymentHandler.CreateCheckoutSession, auth)
	s.echo.PATCH("/payment-success", s.paymentHandler.PaymentSuccess)
	s.echo.GET("/payments", s.paymentHandler.ListPayments, auth)

	// -------- users --------
	s.echo.POST("/users", s.userHandler.Register, auth)
	s.echo.GET("/users", s.userHandler.List, auth, adminOnly)
	s.echo.GET("/users/:email/role", s.userHandler.GetRole, auth)
	s.echo.PATCH("/users/:id/status", s.userHandler.UpdateStatus, auth, adminOnly)
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
