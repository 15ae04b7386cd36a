package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ronitparmar24/metro-ticket-booking-system/internal/domain"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/services"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/utils"
)

// FareHandler serves fare quotes.
type FareHandler struct {
	Fare services.FareService
}

// GET /api/fares/quote?source=&destination=&passengers=
func (h FareHandler) Quote(c *gin.Context) {
	source := c.Query("source")
	destination := c.Query("destination")
	if source == "" || destination == "" {
		RespondDomainError(c, domain.ValidationError{Field: "source", Msg: "source and destination are required"})
		return
	}

	passengers := 1
	if raw := c.Query("passengers"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			RespondDomainError(c, domain.ValidationError{Field: "passengers", Msg: "passengers must be a positive number"})
			return
		}
		passengers = n
	}

	q, err := h.Fare.Quote(source, destination, passengers, time.Now())
	if err != nil {
		RespondDomainError(c, domain.InternalError{Msg: "failed to resolve route", Err: err})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"fare":        utils.PaiseToRupees(q.Fare),
		"single_fare": utils.PaiseToRupees(q.SingleFare),
		"distance":    q.DistanceKm,
		"time":        q.ETAMinutes,
		"is_peak":     q.Peak,
		"passengers":  q.Passengers,
	})
}
