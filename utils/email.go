package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"time"

	"bus_ticketing/config"
	"bus_ticketing/logger"
	"bus_ticketing/model"

	"gopkg.in/gomail.v2"
)

var ticketMailTemplate = template.Must(template.New("ticket").Parse(`
<p>Hello {{.Name}},</p>
<p>Your boarding QR code for booking #{{.TicketID}} ({{.From}} to {{.To}}, departing {{.Departure}}) is attached.</p>
<p>The code is valid until {{.ExpiresAt}}.</p>
`))

type ticketMailData struct {
	Name      string
	TicketID  uint
	From      string
	To        string
	Departure string
	ExpiresAt string
}

// Mailer sends e-ticket emails. A Mailer without an SMTP host only logs.
type Mailer struct {
	cfg config.SMTP
	loc *time.Location
}

func NewMailer(cfg config.SMTP, loc *time.Location) *Mailer {
	return &Mailer{cfg: cfg, loc: loc}
}

func (m *Mailer) Enabled() bool {
	return m != nil && m.cfg.Host != ""
}

// SendTicketQR mails the QR image asynchronously so the request is not delayed.
func (m *Mailer) SendTicketQR(to, name string, ticket *model.Ticket, qr *model.QRTicket) {
	if !m.Enabled() || to == "" {
		return
	}
	go func() {
		if err := m.sendTicketQR(to, name, ticket, qr); err != nil {
			logger.Log.Error("failed to send ticket email", "ticketId", ticket.ID, "error", err)
		}
	}()
}

func (m *Mailer) sendTicketQR(to, name string, ticket *model.Ticket, qr *model.QRTicket) error {
	png, err := DecodeDataURL(qr.QRImage)
	if err != nil {
		return fmt.Errorf("decode qr image: %w", err)
	}

	var body bytes.Buffer
	err = ticketMailTemplate.Execute(&body, ticketMailData{
		Name:      name,
		TicketID:  ticket.ID,
		From:      ticket.DepartureStation,
		To:        ticket.ArrivalStation,
		Departure: ticket.DepartureTime.In(m.loc).Format(ticketTimeLayout),
		ExpiresAt: qr.ExpiresAt.In(m.loc).Format(ticketTimeLayout),
	})
	if err != nil {
		return fmt.Errorf("render ticket email: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Your bus ticket #%d", ticket.ID))
	msg.SetBody("text/html", body.String())
	msg.Attach(fmt.Sprintf("ticket-%d.png", ticket.ID), gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(png)
		return err
	}))

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	return d.DialAndSend(msg)
}
