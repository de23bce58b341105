package gateway

import "net/url"

// Hosted checkout endpoints. The sandbox accepts any store credentials
// registered for testing; the live endpoints require production credentials.
const (
	sandboxSessionURL    = "https://sandbox.sslcommerz.com/gwprocess/v4/api.php"
	liveSessionURL       = "https://securepay.sslcommerz.com/gwprocess/v4/api.php"
	sandboxValidationURL = "https://sandbox.sslcommerz.com/validator/api/validationserverAPI.php"
	liveValidationURL    = "https://securepay.sslcommerz.com/validator/api/validationserverAPI.php"
)

// Gateway status values treated as proof of a settled transaction.
const (
	StatusValid     = "VALID"
	StatusValidated = "VALIDATED"
	StatusFailed    = "FAILED"
	StatusSuccess   = "SUCCESS"
)

// IsSettledStatus reports whether a gateway status field confirms the
// transaction. Anything else, including unknown values, is not proof.
func IsSettledStatus(status string) bool {
	return status == StatusValid || status == StatusValidated
}

// SessionRequest carries everything the gateway needs to open a hosted
// payment session. Customer and shipping fields are snapshots taken from the
// order document, never from a live profile.
type SessionRequest struct {
	TransactionID string
	Amount        string
	Currency      string

	SuccessURL string
	FailURL    string
	CancelURL  string
	IPNURL     string

	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	AddressLine   string
	City          string
	PostalCode    string
	Country       string

	ProductName     string
	ProductCategory string
	ProductProfile  string

	// Pass-through fields echoed back on every callback; OrderID is the only
	// way the bridge can recover context when the gateway omits its own ids.
	OrderID string
	UserID  string
}

// formValues renders the request as the form-encoded payload the gateway
// expects. Field names are fixed by the gateway's wire protocol.
func (r SessionRequest) formValues(storeID, storePassword string) url.Values {
	values := url.Values{}
	values.Set("store_id", storeID)
	values.Set("store_passwd", storePassword)
	values.Set("total_amount", r.Amount)
	values.Set("currency", r.Currency)
	values.Set("tran_id", r.TransactionID)

	values.Set("success_url", r.SuccessURL)
	values.Set("fail_url", r.FailURL)
	values.Set("cancel_url", r.CancelURL)
	values.Set("ipn_url", r.IPNURL)

	values.Set("cus_name", r.CustomerName)
	values.Set("cus_email", r.CustomerEmail)
	values.Set("cus_phone", r.CustomerPhone)
	values.Set("cus_add1", r.AddressLine)
	values.Set("cus_city", r.City)
	values.Set("cus_postcode", r.PostalCode)
	values.Set("cus_country", r.Country)

	values.Set("shipping_method", "YES")
	values.Set("ship_name", r.CustomerName)
	values.Set("ship_add1", r.AddressLine)
	values.Set("ship_city", r.City)
	values.Set("ship_postcode", r.PostalCode)
	values.Set("ship_country", r.Country)

	values.Set("product_name", r.ProductName)
	values.Set("product_category", r.ProductCategory)
	values.Set("product_profile", r.ProductProfile)

	values.Set("value_a", r.OrderID)
	values.Set("value_b", r.UserID)

	return values
}

// SessionResponse is the gateway's answer to a session-initiation request.
type SessionResponse struct {
	Status         string `json:"status"`
	FailedReason   string `json:"failedreason"`
	SessionKey     string `json:"sessionkey"`
	GatewayPageURL string `json:"GatewayPageURL"`
}

// ValidationResponse is the gateway's answer to a val_id lookup. value_a and
// value_b echo the pass-through fields from the original session request.
type ValidationResponse struct {
	Status    string `json:"status"`
	TranID    string `json:"tran_id"`
	ValID     string `json:"val_id"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	OrderID   string `json:"value_a"`
	UserID    string `json:"value_b"`
	CardType  string `json:"card_type"`
	CardBrand string `json:"card_brand"`
	RiskLevel string `json:"risk_level"`
}
