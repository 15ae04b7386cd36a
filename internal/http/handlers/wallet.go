package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ronitparmar24/metro-ticket-booking-system/internal/http/middleware"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/services"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/utils"
)

// WalletHandler serves wallet balance, recharge, history and loyalty redemption.
type WalletHandler struct {
	Wallet services.WalletService
}

// GET /api/wallet
func (h WalletHandler) Balance(c *gin.Context) {
	balance, err := h.Wallet.Balance(middleware.AccountID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": utils.PaiseToRupees(balance)})
}

type rechargeRequest struct {
	Amount float64 `json:"amount"`
}

// POST /api/wallet/recharge
func (h WalletHandler) Recharge(c *gin.Context) {
	var req rechargeRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	svc := h.Wallet
	svc.RequestID = middleware.GetRequestID(c)

	balance, err := svc.Recharge(middleware.AccountID(c), utils.RupeesToPaise(req.Amount))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": utils.PaiseToRupees(balance)})
}

// GET /api/wallet/transactions?limit=
func (h WalletHandler) Transactions(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := h.Wallet.Transactions(middleware.AccountID(c), limit)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	out := make([]gin.H, 0, len(entries))
	for _, e := range entries {
		out = append(out, gin.H{
			"amount":      utils.PaiseToRupees(e.Amount),
			"type":        e.Type,
			"description": e.Description,
			"date":        utils.FormatDateTime(e.Date),
		})
	}
	c.JSON(http.StatusOK, gin.H{"transactions": out})
}

// POST /api/wallet/redeem-points
func (h WalletHandler) RedeemPoints(c *gin.Context) {
	svc := h.Wallet
	svc.RequestID = middleware.GetRequestID(c)

	balance, err := svc.RedeemPoints(middleware.AccountID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": utils.PaiseToRupees(balance)})
}
