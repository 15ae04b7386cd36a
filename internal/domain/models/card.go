package models

// MetroCard is the secondary balance, 1:1 with an account and auto-created
// on first access. Its balance is independent of the wallet except through
// the auto-recharge rule.
type MetroCard struct {
	CardNumber          int64 `json:"cardNumber"`
	AccountID           int64 `json:"-"`
	Balance             int64 `json:"-"` // paise
	AutoRechargeEnabled bool  `json:"autoRechargeEnabled"`
	MinBalanceThreshold int64 `json:"-"` // paise, > 0
}
