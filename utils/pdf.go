package utils

import (
	"bytes"
	"fmt"
	"time"

	"bus_ticketing/model"

	"github.com/phpdave11/gofpdf"
)

const ticketTimeLayout = "02/01/2006 15:04"

// GenerateTicketPDF renders a one-page e-ticket with the boarding QR.
func GenerateTicketPDF(ticket *model.Ticket, qr *model.QRTicket, loc *time.Location) ([]byte, error) {
	png, err := DecodeDataURL(qr.QRImage)
	if err != nil {
		return nil, fmt.Errorf("decode qr image: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 12, "BUS E-TICKET")
	pdf.Ln(14)

	pdf.SetDrawColor(220, 220, 220)
	pdf.Line(12, pdf.GetY(), 136, pdf.GetY())
	pdf.Ln(6)

	section(pdf, "TRIP")
	row(pdf, "Booking", fmt.Sprintf("#%d", ticket.ID))
	row(pdf, "From", ticket.DepartureStation)
	row(pdf, "To", ticket.ArrivalStation)
	row(pdf, "Departure", ticket.DepartureTime.In(loc).Format(ticketTimeLayout))
	row(pdf, "Seat", ticket.SeatNumber)
	if ticket.PassengerName != "" {
		row(pdf, "Passenger", ticket.PassengerName)
	}
	row(pdf, "Price", fmt.Sprintf("%.0f", ticket.Price))
	row(pdf, "Payment", ticket.PaymentStatus)
	pdf.Ln(4)

	y := pdf.GetY()
	pdf.RegisterImageOptionsReader("qr", gofpdf.ImageOptions{ImageType: "png"}, bytes.NewReader(png))
	pdf.ImageOptions("qr", 39, y, 70, 0, false, gofpdf.ImageOptions{ImageType: "png"}, 0, "")

	pdf.SetY(y + 74)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 6, "Valid until "+qr.ExpiresAt.In(loc).Format(ticketTimeLayout)+". Show this code when boarding.", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(0, 8, title, "", 1, "L", true, 0, "")
	pdf.Ln(2)
}

func row(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(30, 6, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}
