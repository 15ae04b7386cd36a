package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"

	"github.com/ronitparmar24/metro-ticket-booking-system/internal/domain"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/repositories"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/utils"
)

// DocsService renders the downloadable ticket receipt.
type DocsService struct {
	Tickets  repositories.TicketRepository
	Accounts repositories.AccountRepository

	RequestID string
	Loader    func(ticketID, accountID int64) (ticketDocData, error)
}

type ticketDocData struct {
	TicketID    int64
	Username    string
	Source      string
	Destination string
	Passengers  int
	FarePaise   int64
	TravelDate  string
	BookingDate string
	Cancelled   bool
}

func (s DocsService) GenerateTicketPDF(ticketID, accountID int64) ([]byte, string, error) {
	data, err := s.loadTicketDocData(ticketID, accountID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_ticket", fmt.Sprintf("ticket_id=%d", ticketID))
	return buildTicketPDF(data)
}

func (s DocsService) loadTicketDocData(ticketID, accountID int64) (ticketDocData, error) {
	if s.Loader != nil {
		return s.Loader(ticketID, accountID)
	}

	t, err := s.Tickets.GetByID(ticketID)
	if err != nil {
		return ticketDocData{}, err
	}
	if t.AccountID != accountID {
		return ticketDocData{}, domain.ForbiddenError{Resource: "ticket"}
	}
	acct, err := s.Accounts.GetByID(accountID)
	if err != nil {
		return ticketDocData{}, err
	}

	return ticketDocData{
		TicketID:    t.ID,
		Username:    acct.Username,
		Source:      t.Source,
		Destination: t.Destination,
		Passengers:  t.Passengers,
		FarePaise:   t.Fare,
		TravelDate:  utils.FormatDate(t.TravelDate),
		BookingDate: utils.FormatDateTime(t.BookingTime),
		Cancelled:   t.Cancelled,
	}, nil
}

func buildTicketPDF(d ticketDocData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Metro Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "METRO TICKET")
	pdf.Ln(12)

	status := "CONFIRMED"
	if d.Cancelled {
		status = "CANCELLED"
	}

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Ticket ID   : #%d", d.TicketID),
		fmt.Sprintf("Passenger   : %s", d.Username),
		fmt.Sprintf("From        : %s", strings.ToUpper(d.Source)),
		fmt.Sprintf("To          : %s", strings.ToUpper(d.Destination)),
		fmt.Sprintf("Passengers  : %d", d.Passengers),
		fmt.Sprintf("Travel Date : %s", d.TravelDate),
		fmt.Sprintf("Booked At   : %s", d.BookingDate),
		fmt.Sprintf("Status      : %s", status),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Total: %s", utils.FormatRs(d.FarePaise)))

	pdf.Ln(14)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please carry a valid ID along with this ticket. Valid only for the travel date shown above.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("ticket_%d.pdf", d.TicketID), nil
}
