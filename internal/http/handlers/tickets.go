package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ronitparmar24/metro-ticket-booking-system/internal/domain"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/http/middleware"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/repositories"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/services"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/utils"
)

// TicketHandler serves booking, listing, cancellation and receipts.
type TicketHandler struct {
	Booking      services.BookingService
	Cancellation services.CancellationService
	Docs         services.DocsService
	Tickets      repositories.TicketRepository
}

type bookRequest struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Passengers  int    `json:"passengers"`
	TravelDate  string `json:"travel_date"`
}

// POST /api/tickets
func (h TicketHandler) Book(c *gin.Context) {
	var req bookRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	svc := h.Booking
	svc.RequestID = middleware.GetRequestID(c)

	t, err := svc.Book(middleware.AccountID(c), req.Source, req.Destination, req.Passengers, req.TravelDate)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"ticket_id":   t.ID,
		"source":      t.Source,
		"destination": t.Destination,
		"passengers":  t.Passengers,
		"fare":        utils.PaiseToRupees(t.Fare),
		"distance":    t.DistanceKm,
		"travel_date": utils.FormatDate(t.TravelDate),
		"booked_at":   utils.FormatDateTime(t.BookingTime),
	})
}

// GET /api/tickets?filter=all|upcoming|past
func (h TicketHandler) List(c *gin.Context) {
	filter := c.DefaultQuery("filter", repositories.TicketFilterAll)
	switch filter {
	case repositories.TicketFilterAll, repositories.TicketFilterUpcoming, repositories.TicketFilterPast:
	default:
		RespondDomainError(c, domain.ValidationError{Field: "filter", Msg: "filter must be all, upcoming or past"})
		return
	}

	tickets, err := h.Tickets.ListByAccount(middleware.AccountID(c), filter)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	out := make([]gin.H, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, gin.H{
			"ticket_id":   t.ID,
			"source":      t.Source,
			"destination": t.Destination,
			"passengers":  t.Passengers,
			"fare":        utils.PaiseToRupees(t.Fare),
			"distance":    t.DistanceKm,
			"travel_date": utils.FormatDate(t.TravelDate),
			"booked_at":   utils.FormatDateTime(t.BookingTime),
			"cancelled":   t.Cancelled,
		})
	}
	c.JSON(http.StatusOK, gin.H{"tickets": out})
}

// POST /api/tickets/:id/cancel
func (h TicketHandler) Cancel(c *gin.Context) {
	ticketID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || ticketID <= 0 {
		RespondDomainError(c, domain.ValidationError{Field: "id", Msg: "invalid ticket id"})
		return
	}

	svc := h.Cancellation
	svc.RequestID = middleware.GetRequestID(c)

	res, err := svc.Cancel(ticketID, middleware.AccountID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ticket_id":   res.TicketID,
		"refund":      utils.PaiseToRupees(res.Refund),
		"new_balance": utils.PaiseToRupees(res.NewBalance),
	})
}

// GET /api/tickets/:id/pdf
func (h TicketHandler) PDF(c *gin.Context) {
	ticketID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || ticketID <= 0 {
		RespondDomainError(c, domain.ValidationError{Field: "id", Msg: "invalid ticket id"})
		return
	}

	svc := h.Docs
	svc.RequestID = middleware.GetRequestID(c)

	data, filename, err := svc.GenerateTicketPDF(ticketID, middleware.AccountID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
