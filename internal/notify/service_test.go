package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storelab-be/internal/orders"
)

type sentMail struct {
	email      string
	orderID    string
	totalCents int
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) SendConfirmation(ctx context.Context, email, orderID string, totalCents int) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{email, orderID, totalCents})
	return nil
}

func confirmedMessage(t *testing.T, eventType string) kafkago.Message {
	t.Helper()
	payload, err := json.Marshal(orders.OrderConfirmedPayload{
		OrderID:    "ord_1",
		UserEmail:  "demo@storelab.dev",
		TotalCents: 5878,
		Status:     string(orders.StatusConfirmed),
	})
	require.NoError(t, err)
	env := orders.Envelope{
		EventID:       "evt_1",
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      "storelab-api",
		CorrelationID: "ord_1",
		Payload:       payload,
	}
	value, err := json.Marshal(env)
	require.NoError(t, err)
	return kafkago.Message{Key: []byte("ord_1"), Value: value}
}

func TestHandleOrderConfirmed_SendsMail(t *testing.T) {
	mailer := &fakeMailer{}
	svc := &Service{Mailer: mailer, ServiceName: "storelab-worker"}

	err := svc.HandleOrderConfirmed(context.Background(), confirmedMessage(t, orders.EventOrderConfirmed))

	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "demo@storelab.dev", mailer.sent[0].email)
	assert.Equal(t, "ord_1", mailer.sent[0].orderID)
	assert.Equal(t, 5878, mailer.sent[0].totalCents)
}

func TestHandleOrderConfirmed_IgnoresOtherEventTypes(t *testing.T) {
	mailer := &fakeMailer{}
	svc := &Service{Mailer: mailer}

	err := svc.HandleOrderConfirmed(context.Background(), confirmedMessage(t, "OrderCancelled"))

	require.NoError(t, err)
	assert.Empty(t, mailer.sent, "unrelated events are acked without side effects")
}

func TestHandleOrderConfirmed_BadEnvelope(t *testing.T) {
	mailer := &fakeMailer{}
	svc := &Service{Mailer: mailer}

	err := svc.HandleOrderConfirmed(context.Background(), kafkago.Message{Value: []byte("{not json")})

	require.Error(t, err, "malformed envelope is retried, not swallowed")
	assert.Empty(t, mailer.sent)
}

func TestHandleOrderConfirmed_MailerFailurePropagates(t *testing.T) {
	mailer := &fakeMailer{err: assert.AnError}
	svc := &Service{Mailer: mailer}

	err := svc.HandleOrderConfirmed(context.Background(), confirmedMessage(t, orders.EventOrderConfirmed))

	assert.ErrorIs(t, err, assert.AnError)
}
