package model

// Usage summarizes the account's Stream storage plan in minutes.
// RemainingMinutes is always TotalMinutes - UsedMinutes.
type Usage struct {
	TotalMinutes     int64 `json:"total_minutes"`
	UsedMinutes      int64 `json:"used_minutes"`
	RemainingMinutes int64 `json:"remaining_minutes"`
}

// SigningKey is a URL-signing key pair as returned by key creation.
// PEM and JWK are shown exactly once by Cloudflare; listing keys later
// returns only the ID.
type SigningKey struct {
	ID  string `json:"id"`
	PEM string `json:"pem,omitempty"`
	JWK string `json:"jwk,omitempty"`
}
