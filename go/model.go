package dscommerceserver

// TokenRequest is the password grant body, accepted as JSON or form data.
type TokenRequest struct {
	GrantType string `json:"grant_type" form:"grant_type"`
	Username  string `json:"username" form:"username"`
	Password  string `json:"password" form:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Scope       string `json:"scope,omitempty"`
}

type HealthStatus struct {
	Status string `json:"status"`
}

// OrderItemInput is one requested order line.
type OrderItemInput struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// OrderInput is the body of an order placement.
type OrderInput struct {
	Items []OrderItemInput `json:"items"`
}
