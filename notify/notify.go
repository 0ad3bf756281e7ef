// Package notify sends the order confirmation mail.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/junaidrashid-git/food-delivery-api/config"
	"github.com/junaidrashid-git/food-delivery-api/models"
	"gopkg.in/gomail.v2"
)

type Mailer interface {
	OrderConfirmation(ctx context.Context, order models.Order) error
}

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`
<h2>Olá, {{.CustomerName}}!</h2>
<p>Recebemos o seu pedido <strong>#{{.ID}}</strong>.</p>
<table>
{{range .Items}}<tr><td>{{.Quantity}}x</td><td>{{if .Product}}{{.Product.Name}}{{else}}{{.ProductID}}{{end}}</td><td>R$ {{.Price.StringFixed 2}}</td></tr>
{{end}}</table>
<p>Total: <strong>R$ {{.Total.StringFixed 2}}</strong></p>
`))

// SMTPMailer delivers mail through an SMTP relay.
type SMTPMailer struct {
	from string
	send func(m ...*gomail.Message) error
}

func NewSMTPMailer(cfg config.SMTP) *SMTPMailer {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	return &SMTPMailer{from: cfg.From, send: dialer.DialAndSend}
}

// Message builds the confirmation for order.
func (m *SMTPMailer) Message(order models.Order) (*gomail.Message, error) {
	var body bytes.Buffer
	if err := confirmationTmpl.Execute(&body, order); err != nil {
		return nil, fmt.Errorf("failed to render confirmation: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", order.CustomerEmail)
	msg.SetHeader("Subject", fmt.Sprintf("Pedido #%s recebido", shortID(order.ID)))
	msg.SetBody("text/html", body.String())
	return msg, nil
}

// OrderConfirmation mails the customer. Orders without an email are skipped.
// It returns once the relay accepts the message or ctx is done; gomail's
// dialer cannot be cancelled, so an abandoned send finishes in the background.
func (m *SMTPMailer) OrderConfirmation(ctx context.Context, order models.Order) error {
	if order.CustomerEmail == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := m.Message(order)
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- m.send(msg) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("order confirmation for %s: %w", shortID(order.ID), ctx.Err())
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Noop is used when SMTP is not configured.
type Noop struct{}

func (Noop) OrderConfirmation(context.Context, models.Order) error { return nil }

func New(cfg config.SMTP) Mailer {
	if !cfg.Enabled() {
		return Noop{}
	}
	return NewSMTPMailer(cfg)
}
