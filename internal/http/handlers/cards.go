package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ronitparmar24/metro-ticket-booking-system/internal/domain/models"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/http/middleware"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/services"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/utils"
)

// CardHandler serves the metro card endpoints.
type CardHandler struct {
	Cards services.CardService
}

func cardJSON(card models.MetroCard) gin.H {
	return gin.H{
		"card_number":           card.CardNumber,
		"balance":               utils.PaiseToRupees(card.Balance),
		"auto_recharge_enabled": card.AutoRechargeEnabled,
		"min_balance_threshold": utils.PaiseToRupees(card.MinBalanceThreshold),
	}
}

// GET /api/card
func (h CardHandler) Get(c *gin.Context) {
	svc := h.Cards
	svc.RequestID = middleware.GetRequestID(c)

	card, err := svc.GetOrCreate(middleware.AccountID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"card": cardJSON(card)})
}

type cardAmountRequest struct {
	Amount float64 `json:"amount"`
}

// POST /api/card/recharge
func (h CardHandler) Recharge(c *gin.Context) {
	var req cardAmountRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	svc := h.Cards
	svc.RequestID = middleware.GetRequestID(c)

	balance, err := svc.Recharge(middleware.AccountID(c), utils.RupeesToPaise(req.Amount))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": utils.PaiseToRupees(balance)})
}

// POST /api/card/debit
func (h CardHandler) Debit(c *gin.Context) {
	var req cardAmountRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	svc := h.Cards
	svc.RequestID = middleware.GetRequestID(c)

	card, autoRecharged, err := svc.Debit(middleware.AccountID(c), utils.RupeesToPaise(req.Amount))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"card":           cardJSON(card),
		"auto_recharged": autoRecharged,
	})
}

type autoRechargeRequest struct {
	Enabled   bool    `json:"enabled"`
	Threshold float64 `json:"threshold"`
}

// PUT /api/card/auto-recharge
func (h CardHandler) SetAutoRecharge(c *gin.Context) {
	var req autoRechargeRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	svc := h.Cards
	svc.RequestID = middleware.GetRequestID(c)

	card, err := svc.SetAutoRecharge(middleware.AccountID(c), req.Enabled, utils.RupeesToPaise(req.Threshold))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"card": cardJSON(card)})
}
