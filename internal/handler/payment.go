package handler

import (
	"net/http"
	"regexp"
	"strings"

	"garments-store/internal/dto"
	"garments-store/internal/middleware"
	"garments-store/internal/service"

	"github.com/labstack/echo/v4"
)

// sessionIDPattern matches gateway session ids; PayPal order ids are
// upper-case alphanumerics.
var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

type PaymentHandler struct {
	paymentService service.PaymentService
	userService    service.UserService
}

func NewPaymentHandler(paymentService service.PaymentService, userService service.UserService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		userService:    userService,
	}
}

func (h *PaymentHandler) CreateCheckoutSession(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CheckoutSessionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	caller := middleware.Email(c)
	if req.Email != "" && !strings.EqualFold(req.Email, caller) {
		return echo.NewHTTPError(http.StatusForbidden, "checkout email does not match the signed-in user")
	}

	res, err := h.paymentService.CreateCheckoutSession(ctx, caller, &req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, res)
}

// PaymentSuccess is hit by the storefront after the gateway redirects the
// buyer back. The response is informational; success is only reported for
// a paid session.
func (h *PaymentHandler) PaymentSuccess(c echo.Context) error {
	ctx := c.Request().Context()

	var query dto.PaymentSuccessQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &query); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}

	sessionID := query.SessionID
	if sessionID == "" {
		sessionID = query.Token
	}
	if sessionID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing session_id")
	}
	if !sessionIDPattern.MatchString(sessionID) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid session_id")
	}

	res, err := h.paymentService.ConfirmPayment(ctx, sessionID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, res)
}

func (h *PaymentHandler) ListPayments(c echo.Context) error {
	ctx := c.Request().Context()

	var query dto.ListPaymentsQuery
	if err := bindAndValidate(c, &query); err != nil {
		return err
	}

	email, err := scopeEmail(c, h.userService, query.Email)
	if err != nil {
		return err
	}

	payments, err := h.paymentService.ListPayments(ctx, email)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, payments)
}
