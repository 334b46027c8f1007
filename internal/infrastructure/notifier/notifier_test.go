package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/adcart-backend/config"
	"github.com/oksasatya/adcart-backend/internal/application"
	"github.com/oksasatya/adcart-backend/internal/domain/entity"
	"github.com/oksasatya/adcart-backend/pkg/mailer"
)

type capturePublisher struct {
	bodies [][]byte
	err    error
}

func (p *capturePublisher) PublishJSON(_ context.Context, body any) error {
	if p.err != nil {
		return p.err
	}
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	p.bodies = append(p.bodies, b)
	return nil
}

type captureSender struct {
	to, subject, text, html string
}

func (s *captureSender) Send(_ context.Context, to, subject, text, html string) error {
	s.to, s.subject, s.text, s.html = to, subject, text, html
	return nil
}

func confirmation() application.OrderConfirmation {
	return application.OrderConfirmation{
		To:          "asha@example.com",
		Name:        "Asha",
		OrderNumber: 1715760000123456,
		ProductName: "Lamp",
		Total:       30,
		Quantity:    1,
		Address:     entity.DeliveryAddress{City: "Pune", State: "MH", PostalCode: "411001", MobileNo: "9999"},
		PlacedAt:    time.Date(2024, 5, 15, 8, 0, 0, 0, time.UTC),
	}
}

func TestQueue_PublishesTemplateJob(t *testing.T) {
	pub := &capturePublisher{}
	q := NewQueue(pub, &config.Config{AppName: "AdCart"})

	require.NoError(t, q.OrderPlaced(context.Background(), confirmation()))
	require.Len(t, pub.bodies, 1)

	// decode the way the worker does
	var job mailer.EmailJob
	require.NoError(t, json.Unmarshal(pub.bodies[0], &job))
	assert.Equal(t, "order_confirmation", job.Template)
	assert.Equal(t, "1715760000123456", job.Data["OrderNo"])

	subject, _, _, err := job.Content()
	require.NoError(t, err)
	assert.Equal(t, "AdCart: order #1715760000123456 confirmed", subject)
}

func TestQueue_PublishError(t *testing.T) {
	q := NewQueue(&capturePublisher{err: errors.New("closed")}, nil)
	assert.Error(t, q.OrderPlaced(context.Background(), confirmation()))
}

func TestDirect_Sends(t *testing.T) {
	s := &captureSender{}
	d := NewDirect(s, &config.Config{AppName: "AdCart"})

	require.NoError(t, d.OrderPlaced(context.Background(), confirmation()))
	assert.Equal(t, "asha@example.com", s.to)
	assert.Contains(t, s.text, "Pune, MH 411001")
	assert.Contains(t, s.html, "Lamp")
}
