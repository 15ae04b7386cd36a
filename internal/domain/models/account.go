package models

// Role values stored on accounts. Capability checks happen in the HTTP
// layer; the engines only care that an account row exists.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Account is the wallet side of the ledger: one row per user, mutated only
// through debit/credit operations issued by the booking, cancellation and
// wallet services.
type Account struct {
	ID            int64  `json:"id"`
	Username      string `json:"username"`
	Role          string `json:"role"`
	WalletBalance int64  `json:"-"` // paise
	LoyaltyPoints int64  `json:"loyaltyPoints"`
}
