package services

import (
	"testing"
)

func TestDocsServiceGenerateTicketPDF(t *testing.T) {
	loader := func(ticketID, accountID int64) (ticketDocData, error) {
		return ticketDocData{
			TicketID:    ticketID,
			Username:    "rider",
			Source:      "alpha",
			Destination: "gamma",
			Passengers:  2,
			FarePaise:   9000,
			TravelDate:  "2026-03-11",
			BookingDate: "2026-03-10 12:00:00",
		}, nil
	}

	svc := DocsService{Loader: loader}

	pdf, filename, err := svc.GenerateTicketPDF(7, 1)
	if err != nil {
		t.Fatalf("GenerateTicketPDF returned error: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatalf("GenerateTicketPDF returned empty data")
	}
	if filename != "ticket_7.pdf" {
		t.Fatalf("filename = %q, want ticket_7.pdf", filename)
	}
}

func TestDocsServiceCancelledTicket(t *testing.T) {
	loader := func(ticketID, accountID int64) (ticketDocData, error) {
		return ticketDocData{TicketID: ticketID, Username: "rider", Cancelled: true}, nil
	}

	svc := DocsService{Loader: loader}

	pdf, _, err := svc.GenerateTicketPDF(8, 1)
	if err != nil {
		t.Fatalf("GenerateTicketPDF returned error: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatalf("GenerateTicketPDF returned empty data")
	}
}
