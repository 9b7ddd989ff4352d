package handler

import (
	"net/http"

	"garments-store/internal/dto"
	"garments-store/internal/middleware"
	"garments-store/internal/service"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	orderService service.OrderService
	userService  service.UserService
}

func NewOrderHandler(orderService service.OrderService, userService service.UserService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		userService:  userService,
	}
}

func (h *OrderHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.orderService.Create(ctx, middleware.Email(c), &req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.orderService.Get(ctx, middleware.User(c), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) ListMine(c echo.Context) error {
	ctx := c.Request().Context()

	var query dto.ListOrdersQuery
	if err := bindAndValidate(c, &query); err != nil {
		return err
	}

	email, err := scopeEmail(c, h.userService, query.Email)
	if err != nil {
		return err
	}

	orders, err := h.orderService.ListForBuyer(ctx, email)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) ListPending(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.orderService.ListPending(ctx, middleware.Email(c))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) ListApproved(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.orderService.ListApproved(ctx, middleware.Email(c))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) Approve(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.orderService.Approve(ctx, middleware.User(c), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) Reject(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.orderService.Reject(ctx, middleware.User(c), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) Cancel(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.orderService.Cancel(ctx, middleware.Email(c), c.Param("id")); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}
