package mailer

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"
	"time"

	"github.com/care-xyz/api/internal/models"
)

// Mailer delivers the booking confirmation invoice. Implementations make a
// single attempt; retry and failure policy belong to the caller.
type Mailer interface {
	SendBookingInvoice(to string, booking *models.Booking) error
}

const invoiceSubject = "Booking Confirmation - Care.xyz"

const invoiceHTML = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #4F46E5;">Booking Invoice</h2>
  <div style="background-color: #f3f4f6; padding: 20px; border-radius: 8px;">
    <p><strong>Service:</strong> {{.ServiceName}}</p>
    <p><strong>Duration:</strong> {{.Duration}} hours</p>
    <p><strong>Total Cost:</strong> ${{printf "%.2f" .TotalCost}}</p>
    <p><strong>Status:</strong> {{.Status}}</p>
    <p><strong>Date:</strong> {{.Date}}</p>
  </div>
  <p style="margin-top: 20px; font-size: 14px; color: #6b7280;">Thank you for choosing Care.xyz!</p>
</div>`

type invoiceData struct {
	ServiceName string
	Duration    int
	TotalCost   float64
	Status      string
	Date        string
}

// SMTPMailer sends HTML mail over implicit-TLS SMTP (port 465 style).
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
	tmpl     *template.Template
}

func NewSMTPMailer(host, port, username, password, from string) *SMTPMailer {
	if from == "" {
		from = username
	}
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		tmpl:     template.Must(template.New("invoice").Parse(invoiceHTML)),
	}
}

func (m *SMTPMailer) SendBookingInvoice(to string, booking *models.Booking) error {
	var body bytes.Buffer
	err := m.tmpl.Execute(&body, invoiceData{
		ServiceName: booking.ServiceName,
		Duration:    booking.Duration,
		TotalCost:   booking.TotalCost,
		Status:      booking.Status,
		Date:        time.Now().Format("1/2/2006"),
	})
	if err != nil {
		return fmt.Errorf("failed to render invoice: %v", err)
	}

	return m.send(to, invoiceSubject, body.String())
}

func (m *SMTPMailer) send(to, subject, body string) error {
	msg := []byte(
		fmt.Sprintf("From: %s\r\n", m.from) +
			fmt.Sprintf("To: %s\r\n", to) +
			fmt.Sprintf("Subject: %s\r\n", subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=\"utf-8\"\r\n" +
			"\r\n" +
			body,
	)

	serverAddr := m.host + ":" + m.port

	tlsConfig := &tls.Config{
		ServerName: m.host,
	}

	conn, err := tls.Dial("tcp", serverAddr, tlsConfig)
	if err != nil {
		return fmt.Errorf("failed to dial mail relay: %v", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		return fmt.Errorf("failed to open SMTP session: %v", err)
	}
	defer client.Quit()

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP auth failed: %v", err)
	}

	if err := client.Mail(m.from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}
