package model

// UserClaims carries the identity fields read from the commerce platform's
// JWT. The gateway never validates the signature; the platform rejects a bad
// token on the next API call.
type UserClaims struct {
	Subject string `json:"sub"`
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
}

// Session is the per-request view of who the caller is. It is assembled by
// the session middleware and consumed read-only by services; the cart store
// reads Token only to attach it to outbound stock checks.
type Session struct {
	IsAuthenticated bool
	Token           string
	User            *UserClaims

	// CartKey identifies the cart owner: "user:<sub>" for authenticated
	// callers, "guest:<uuid>" otherwise.
	CartKey string
}
