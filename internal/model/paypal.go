package model

// PayPal Orders v2 wire types. Only the fields the checkout flow reads.

type Payer struct {
	PayerID string `json:"payer_id"`
	Email   string `json:"email_address"`
}

type PaypalLink struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

type Amount struct {
	Currency string `json:"currency_code"`
	Value    string `json:"value"`
}

type Capture struct {
	ID     string `json:"id"`
	Status string `json:"status"` // COMPLETED, PENDING, DECLINED, ...
	Amount Amount `json:"amount"`
}

type Payments struct {
	Captures []Capture `json:"captures"`
}

type PurchaseUnit struct {
	ReferenceID string   `json:"reference_id"` // local order id
	CustomID    string   `json:"custom_id"`    // product id
	Description string   `json:"description"`  // product name
	Amount      Amount   `json:"amount"`
	Payments    Payments `json:"payments"`
}

// PaypalOrder is the body of GET /v2/checkout/orders/{id} and of the
// capture response.
type PaypalOrder struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"` // CREATED, APPROVED, COMPLETED, VOIDED, PAYER_ACTION_REQUIRED
	Links         []PaypalLink   `json:"links"`
	Payer         Payer          `json:"payer"`
	PurchaseUnits []PurchaseUnit `json:"purchase_units"`
}

type PayPalToken struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}
