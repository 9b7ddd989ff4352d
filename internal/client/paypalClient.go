package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"garments-store/internal/config"
	"garments-store/internal/model"

	"github.com/shopspring/decimal"
)

const (
	SessionStatusPaid   = "paid"
	SessionStatusUnpaid = "unpaid"
)

type CheckoutSessionRequest struct {
	AmountMinor   int64 // unit amount in minor units, quantity is always 1
	Currency      string
	ProductID     string
	ProductName   string
	OrderID       string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
}

// CheckoutSession is the gateway-neutral view of a hosted checkout.
type CheckoutSession struct {
	ID            string
	URL           string
	PaymentStatus string
	TransactionID string
	AmountTotal   decimal.Decimal
	Currency      string
	CustomerEmail string
	Metadata      map[string]string
}

type CheckoutClient interface {
	CreateSession(ctx context.Context, req *CheckoutSessionRequest) (*CheckoutSession, error)
	// GetSession returns the authoritative state of a session. Approved but
	// uncaptured PayPal orders are captured first.
	GetSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
}

type paypalClientImpl struct {
	httpClient         *http.Client
	baseApiURL         string
	paypalClientID     string
	paypalClientSecret string
}

func NewPaypalClient(paypalCfg *config.Paypal) CheckoutClient {
	return &paypalClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL:         strings.TrimRight(paypalCfg.BaseApiURL, "/"),
		paypalClientID:     paypalCfg.ClientID,
		paypalClientSecret: paypalCfg.ClientSecret,
	}
}

func (c *paypalClientImpl) getAccessToken(ctx context.Context) (string, error) {
	auth := base64.StdEncoding.EncodeToString(
		[]byte(c.paypalClientID + ":" + c.paypalClientSecret),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseApiURL+"/v1/oauth2/token",
		bytes.NewBufferString("grant_type=client_credentials"))
	if err != nil {
		return "", fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("paypal oauth error %d: %s", resp.StatusCode, string(b))
	}

	var token model.PayPalToken
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("decode paypal token: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("paypal returned an empty access token")
	}

	return token.AccessToken, nil
}

func (c *paypalClientImpl) CreateSession(ctx context.Context, in *CheckoutSessionRequest) (*CheckoutSession, error) {
	accessToken, err := c.getAccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get paypal access token: %w", err)
	}

	value := decimal.New(in.AmountMinor, -2).StringFixed(2)
	amount := map[string]interface{}{
		"currency_code": in.Currency,
		"value":         value,
		"breakdown": map[string]interface{}{
			"item_total": map[string]string{
				"currency_code": in.Currency,
				"value":         value,
			},
		},
	}

	payload := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{
			{
				"reference_id": in.OrderID,
				"custom_id":    in.ProductID,
				"description":  in.ProductName,
				"amount":       amount,
				"items": []map[string]interface{}{
					{
						"name":     in.ProductName,
						"sku":      in.ProductID,
						"quantity": "1",
						"unit_amount": map[string]string{
							"currency_code": in.Currency,
							"value":         value,
						},
					},
				},
			},
		},
		"payer": map[string]string{
			"email_address": in.CustomerEmail,
		},
		"application_context": map[string]string{
			"return_url":  in.SuccessURL,
			"cancel_url":  in.CancelURL,
			"user_action": "PAY_NOW",
		},
	}

	var result model.PaypalOrder
	if err := c.do(ctx, accessToken, http.MethodPost, "/v2/checkout/orders", payload, &result); err != nil {
		return nil, fmt.Errorf("paypal create order: %w", err)
	}

	approveURL := _extractApproveURL(result.Links)
	if approveURL == "" {
		return nil, fmt.Errorf("paypal order %s has no approve link", result.ID)
	}

	return &CheckoutSession{
		ID:            result.ID,
		URL:           approveURL,
		PaymentStatus: SessionStatusUnpaid,
		Currency:      in.Currency,
		CustomerEmail: in.CustomerEmail,
		Metadata: map[string]string{
			"orderId":     in.OrderID,
			"productId":   in.ProductID,
			"productName": in.ProductName,
		},
	}, nil
}

func (c *paypalClientImpl) GetSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	if strings.Trim(sessionID, ".") == "" {
		return nil, fmt.Errorf("invalid paypal order id %q", sessionID)
	}

	accessToken, err := c.getAccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get paypal access token: %w", err)
	}

	var order model.PaypalOrder
	if err := c.getOrder(ctx, accessToken, sessionID, &order); err != nil {
		return nil, err
	}

	if order.Status == "APPROVED" {
		path := fmt.Sprintf("/v2/checkout/orders/%s/capture", url.PathEscape(sessionID))
		captureErr := c.do(ctx, accessToken, http.MethodPost, path, nil, nil)
		if err := c.getOrder(ctx, accessToken, sessionID, &order); err != nil {
			return nil, err
		}
		// a concurrent confirmation may have captured it first
		if captureErr != nil && order.Status != "COMPLETED" {
			return nil, fmt.Errorf("paypal capture order: %w", captureErr)
		}
	}

	return toCheckoutSession(&order), nil
}

func (c *paypalClientImpl) getOrder(ctx context.Context, accessToken, orderID string, out *model.PaypalOrder) error {
	path := fmt.Sprintf("/v2/checkout/orders/%s", url.PathEscape(orderID))
	if err := c.do(ctx, accessToken, http.MethodGet, path, nil, out); err != nil {
		return fmt.Errorf("paypal get order: %w", err)
	}
	return nil
}

func (c *paypalClientImpl) do(ctx context.Context, accessToken, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal req payload: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseApiURL+path, body)
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("paypal error %d: %s", resp.StatusCode, string(b))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode paypal response: %w", err)
	}
	return nil
}

func toCheckoutSession(order *model.PaypalOrder) *CheckoutSession {
	session := &CheckoutSession{
		ID:            order.ID,
		URL:           _extractApproveURL(order.Links),
		PaymentStatus: SessionStatusUnpaid,
		CustomerEmail: order.Payer.Email,
		Metadata:      map[string]string{},
	}

	if len(order.PurchaseUnits) == 0 {
		return session
	}

	unit := order.PurchaseUnits[0]
	session.Metadata["orderId"] = unit.ReferenceID
	session.Metadata["productId"] = unit.CustomID
	session.Metadata["productName"] = unit.Description
	session.Currency = unit.Amount.Currency
	if amount, err := decimal.NewFromString(unit.Amount.Value); err == nil {
		session.AmountTotal = amount
	}

	if order.Status != "COMPLETED" || len(unit.Payments.Captures) == 0 {
		return session
	}

	capture := unit.Payments.Captures[0]
	session.TransactionID = capture.ID
	if capture.Status == "COMPLETED" {
		session.PaymentStatus = SessionStatusPaid
	}
	if amount, err := decimal.NewFromString(capture.Amount.Value); err == nil {
		session.AmountTotal = amount
		session.Currency = capture.Amount.Currency
	}

	return session
}

func _extractApproveURL(links []model.PaypalLink) string {
	for _, link := range links {
		if link.Rel == "approve" || link.Rel == "payer-action" {
			return link.Href
		}
	}
	return ""
}
