package dto

// CheckoutRequest represents a subscription checkout submission
type CheckoutRequest struct {
	Plan  string `json:"plan" form:"plan" binding:"required"`
	Cycle string `json:"cycle" form:"cycle"`
}

// CheckoutResponse represents the payment provider handoff for a checkout
type CheckoutResponse struct {
	ClientSecret string `json:"client_secret,omitempty"`
	RedirectURL  string `json:"redirect_url,omitempty"`
}

// PortalResponse represents a customer portal handoff
type PortalResponse struct {
	URL string `json:"url"`
}
