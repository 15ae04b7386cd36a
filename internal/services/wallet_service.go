package services

import (
	"database/sql"

	"github.com/ronitparmar24/metro-ticket-booking-system/internal/domain"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/domain/models"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/repositories"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/utils"
)

const (
	// per-recharge ceiling, Rs 5000
	maxRechargePaise = 5000 * 100

	redeemPoints      = 50
	redeemCreditPaise = 20 * 100
)

// WalletService handles recharges, balance reads, the audit trail and
// loyalty redemption. Recharge is an unconditional credit; there is no
// payment gateway behind it.
type WalletService struct {
	Accounts      repositories.AccountRepository
	History       repositories.HistoryRepository
	Notifications repositories.NotificationRepository
	DB            *sql.DB

	RequestID string
}

func (s WalletService) Recharge(accountID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, domain.ValidationError{Field: "amount", Msg: "must be positive"}
	}
	if amount > maxRechargePaise {
		return 0, domain.ValidationError{Field: "amount", Msg: "maximum recharge amount is Rs. 5000"}
	}

	var newBalance int64
	for attempt := 0; ; attempt++ {
		acct, err := s.Accounts.GetByID(accountID)
		if err != nil {
			return 0, err
		}
		newBalance = acct.WalletBalance + amount
		ok, err := s.Accounts.UpdateBalance(accountID, acct.WalletBalance, newBalance)
		if err != nil {
			return 0, domain.InternalError{Msg: "failed to update wallet balance", Err: err}
		}
		if ok {
			break
		}
		if attempt+1 >= maxBalanceRetries {
			return 0, domain.InternalError{Msg: "wallet busy, please retry"}
		}
	}

	if err := s.History.Insert(s.DB, accountID, amount, repositories.EntryCredit, "Wallet Recharge"); err != nil {
		utils.LogEvent(s.RequestID, "wallet", "history", "wallet history warning: "+err.Error())
	}
	return newBalance, nil
}

func (s WalletService) Balance(accountID int64) (int64, error) {
	acct, err := s.Accounts.GetByID(accountID)
	if err != nil {
		return 0, err
	}
	return acct.WalletBalance, nil
}

func (s WalletService) Transactions(accountID int64, limit int) ([]models.WalletEntry, error) {
	return s.History.ListByAccount(accountID, limit)
}

// RedeemPoints trades 50 loyalty points for a Rs 20 wallet credit. The
// conditional points deduction gates the commit, so concurrent redeems
// cannot overspend points or double-credit.
func (s WalletService) RedeemPoints(accountID int64) (int64, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return 0, domain.InternalError{Msg: "failed to redeem points", Err: err}
	}

	spent, err := s.Accounts.SpendLoyaltyPoints(tx, accountID, redeemPoints)
	if err != nil {
		_ = tx.Rollback()
		return 0, domain.InternalError{Msg: "failed to redeem points", Err: err}
	}
	if !spent {
		_ = tx.Rollback()
		return 0, domain.ValidationError{Field: "points", Msg: "need 50 points to redeem"}
	}

	if err := s.Accounts.Credit(tx, accountID, redeemCreditPaise); err != nil {
		_ = tx.Rollback()
		return 0, domain.InternalError{Msg: "failed to redeem points", Err: err}
	}

	var newBalance int64
	if err := tx.QueryRow(`SELECT wallet_balance FROM accounts WHERE id = ?`, accountID).Scan(&newBalance); err != nil {
		_ = tx.Rollback()
		return 0, domain.InternalError{Msg: "failed to redeem points", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return 0, domain.InternalError{Msg: "failed to redeem points", Err: err}
	}

	if err := s.History.Insert(s.DB, accountID, redeemCreditPaise, repositories.EntryCredit, "Loyalty Redemption"); err != nil {
		utils.LogEvent(s.RequestID, "wallet", "history", "wallet history warning: "+err.Error())
	}
	if err := s.Notifications.Insert(s.DB, accountID, "Redeemed 50 Green Points for Rs. 20 credit"); err != nil {
		utils.LogEvent(s.RequestID, "wallet", "notify", "notification warning: "+err.Error())
	}
	return newBalance, nil
}
