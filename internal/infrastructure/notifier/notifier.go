// Package notifier hands order confirmations to the email pipeline.
package notifier

import (
	"context"
	"fmt"

	"github.com/oksasatya/adcart-backend/config"
	"github.com/oksasatya/adcart-backend/internal/application"
	"github.com/oksasatya/adcart-backend/pkg/mailer"
	mailtpl "github.com/oksasatya/adcart-backend/pkg/mailer/templates"
)

// Publisher puts a JSON message on the email queue.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// MailSender delivers a rendered email.
type MailSender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Queue publishes an order_confirmation job for cmd/email_worker.
type Queue struct {
	Pub Publisher
	Cfg *config.Config
}

func NewQueue(pub Publisher, cfg *config.Config) *Queue {
	return &Queue{Pub: pub, Cfg: cfg}
}

func (q *Queue) OrderPlaced(ctx context.Context, c application.OrderConfirmation) error {
	job := confirmationJob(q.Cfg, c)
	if err := q.Pub.PublishJSON(ctx, job); err != nil {
		return fmt.Errorf("publish confirmation: %w", err)
	}
	return nil
}

// Direct renders and sends the confirmation in-process, for deployments
// without a queue.
type Direct struct {
	Mail MailSender
	Cfg  *config.Config
}

func NewDirect(mail MailSender, cfg *config.Config) *Direct {
	return &Direct{Mail: mail, Cfg: cfg}
}

func (d *Direct) OrderPlaced(ctx context.Context, c application.OrderConfirmation) error {
	job := confirmationJob(d.Cfg, c)
	subject, text, html, err := job.Content()
	if err != nil {
		return fmt.Errorf("render confirmation: %w", err)
	}
	if err := d.Mail.Send(ctx, job.To, subject, text, html); err != nil {
		return fmt.Errorf("send confirmation: %w", err)
	}
	return nil
}

func confirmationJob(cfg *config.Config, c application.OrderConfirmation) *mailer.EmailJob {
	data := mailtpl.NewOrderConfirmationData(cfg, c.Name, c.To,
		mailtpl.WithOrder(mailtpl.OrderLine{
			OrderNumber: c.OrderNumber,
			ProductName: c.ProductName,
			ImageURL:    c.ImageURL,
			Quantity:    c.Quantity,
			Total:       c.Total,
		}),
		mailtpl.WithDelivery(mailtpl.Delivery{
			Label:      c.Address.Label,
			City:       c.Address.City,
			State:      c.Address.State,
			PostalCode: c.Address.PostalCode,
			MobileNo:   c.Address.MobileNo,
		}),
		mailtpl.WithTime(c.PlacedAt),
	)
	return &mailer.EmailJob{To: c.To, Template: mailtpl.OrderConfirmation, Data: data}
}

var (
	_ application.OrderNotifier = (*Queue)(nil)
	_ application.OrderNotifier = (*Direct)(nil)
)
