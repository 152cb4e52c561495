package entities

import "time"

// AdminToken is the unforgeable capability record backing admin checks.
// One token exists for the lifetime of the faucet; authorization is resolved
// by comparing a caller against Holder, never against a copied address field.
type AdminToken struct {
	TokenID  string
	Holder   string
	IssuedAt time.Time
}
