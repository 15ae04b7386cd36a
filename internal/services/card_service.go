package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/ronitparmar24/metro-ticket-booking-system/internal/domain"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/domain/models"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/repositories"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/utils"
)

const (
	// default threshold for freshly created cards, Rs 50
	defaultThresholdPaise = 50 * 100
	// auto-recharge floor, Rs 100
	minAutoRechargePaise = 100 * 100
)

// CardService manages the secondary metro-card balance. The card only
// touches the wallet through the auto-recharge rule, which runs at most
// once per debit and never pushes the wallet negative.
type CardService struct {
	Cards    repositories.CardRepository
	Accounts repositories.AccountRepository
	History  repositories.HistoryRepository
	DB       *sql.DB

	RequestID string
}

// GetOrCreate returns the account's card, creating one on first access
// with zero balance, auto-recharge off and the default threshold.
func (s CardService) GetOrCreate(accountID int64) (models.MetroCard, error) {
	card, err := s.Cards.GetByAccountID(accountID)
	if err == nil {
		return card, nil
	}
	var nf domain.NotFoundError
	if !errors.As(err, &nf) {
		return models.MetroCard{}, err
	}
	if _, err := s.Cards.Create(accountID, 0, defaultThresholdPaise); err != nil {
		return models.MetroCard{}, domain.InternalError{Msg: "failed to create metro card", Err: err}
	}
	return s.Cards.GetByAccountID(accountID)
}

func (s CardService) Recharge(accountID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, domain.ValidationError{Field: "amount", Msg: "must be positive"}
	}
	card, err := s.GetOrCreate(accountID)
	if err != nil {
		return 0, err
	}
	newBalance, err := s.creditCard(card.CardNumber, amount)
	if err != nil {
		return 0, err
	}
	return newBalance, nil
}

// Debit charges the card and, when auto-recharge is enabled and the
// balance fell below the threshold, attempts exactly one wallet-funded
// top-up. A wallet that cannot cover the top-up is not an error; the
// debit itself already succeeded.
func (s CardService) Debit(accountID, amount int64) (models.MetroCard, bool, error) {
	if amount <= 0 {
		return models.MetroCard{}, false, domain.ValidationError{Field: "amount", Msg: "must be positive"}
	}

	card, err := s.GetOrCreate(accountID)
	if err != nil {
		return models.MetroCard{}, false, err
	}

	var balance int64
	for attempt := 0; ; attempt++ {
		if amount > card.Balance {
			return models.MetroCard{}, false, domain.InsufficientFundsError{
				RequiredPaise: amount, AvailablePaise: card.Balance,
			}
		}
		balance = card.Balance - amount
		ok, err := s.Cards.UpdateBalanceCAS(card.CardNumber, card.Balance, balance)
		if err != nil {
			return models.MetroCard{}, false, domain.InternalError{Msg: "failed to debit metro card", Err: err}
		}
		if ok {
			break
		}
		if attempt+1 >= maxBalanceRetries {
			return models.MetroCard{}, false, domain.InternalError{Msg: "card busy, please retry"}
		}
		if card, err = s.Cards.GetByAccountID(accountID); err != nil {
			return models.MetroCard{}, false, err
		}
	}

	recharged := false
	if card.AutoRechargeEnabled && balance < card.MinBalanceThreshold {
		recharged = s.tryAutoRecharge(accountID, card)
	}

	card, err = s.Cards.GetByAccountID(accountID)
	if err != nil {
		return models.MetroCard{}, recharged, err
	}
	return card, recharged, nil
}

// tryAutoRecharge pulls max(threshold*2, 100) from the wallet when the
// wallet can cover it. One attempt per debit, no retry loop.
func (s CardService) tryAutoRecharge(accountID int64, card models.MetroCard) bool {
	amount := card.MinBalanceThreshold * 2
	if amount < minAutoRechargePaise {
		amount = minAutoRechargePaise
	}

	acct, err := s.Accounts.GetByID(accountID)
	if err != nil || acct.WalletBalance < amount {
		return false
	}
	ok, err := s.Accounts.UpdateBalance(accountID, acct.WalletBalance, acct.WalletBalance-amount)
	if err != nil || !ok {
		return false
	}

	if _, err := s.creditCard(card.CardNumber, amount); err != nil {
		// put the wallet back; the card was never credited
		if cerr := s.Accounts.Credit(s.DB, accountID, amount); cerr != nil {
			utils.LogEvent(s.RequestID, "card", "auto_recharge",
				fmt.Sprintf("LEDGER INCONSISTENCY account_id=%d wallet short by %s", accountID, utils.FormatRs(amount)))
		}
		return false
	}

	if err := s.History.Insert(s.DB, accountID, amount, repositories.EntryDebit, "Metro Card Auto-Recharge"); err != nil {
		utils.LogEvent(s.RequestID, "card", "history", "wallet history warning: "+err.Error())
	}
	utils.LogEvent(s.RequestID, "card", "auto_recharge",
		fmt.Sprintf("account_id=%d recharged %s from wallet", accountID, utils.FormatRs(amount)))
	return true
}

// SetAutoRecharge persists the flag and threshold together so an enabled
// flag can never pair with a stale or zero threshold. The balance is left
// alone; a debit committing concurrently with the toggle must survive it.
func (s CardService) SetAutoRecharge(accountID int64, enabled bool, threshold int64) (models.MetroCard, error) {
	if threshold <= 0 {
		return models.MetroCard{}, domain.ValidationError{Field: "threshold", Msg: "must be positive"}
	}
	card, err := s.GetOrCreate(accountID)
	if err != nil {
		return models.MetroCard{}, err
	}
	if err := s.Cards.SetAutoRecharge(card.CardNumber, enabled, threshold); err != nil {
		return models.MetroCard{}, domain.InternalError{Msg: "failed to update auto-recharge", Err: err}
	}
	return s.Cards.GetByAccountID(accountID)
}

func (s CardService) creditCard(cardNumber, amount int64) (int64, error) {
	for attempt := 0; ; attempt++ {
		card, err := s.cardByNumber(cardNumber)
		if err != nil {
			return 0, err
		}
		newBalance := card.Balance + amount
		ok, err := s.Cards.UpdateBalanceCAS(cardNumber, card.Balance, newBalance)
		if err != nil {
			return 0, domain.InternalError{Msg: "failed to credit metro card", Err: err}
		}
		if ok {
			return newBalance, nil
		}
		if attempt+1 >= maxBalanceRetries {
			return 0, domain.InternalError{Msg: "card busy, please retry"}
		}
	}
}

func (s CardService) cardByNumber(cardNumber int64) (models.MetroCard, error) {
	var c models.MetroCard
	err := s.DB.QueryRow(`
		SELECT card_number, account_id, balance, auto_recharge_enabled, min_balance_threshold
		FROM metro_cards WHERE card_number = ? LIMIT 1
	`, cardNumber).Scan(&c.CardNumber, &c.AccountID, &c.Balance, &c.AutoRechargeEnabled, &c.MinBalanceThreshold)
	if err != nil {
		return models.MetroCard{}, err
	}
	return c, nil
}
