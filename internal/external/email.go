package external

import (
	"context"
	"time"

	"go.uber.org/zap"

	"storelab-be/internal/logger"
)

// MailerStub pretends to send a confirmation email. v1 pays the delay
// inline; v2 offloads it to the worker.
type MailerStub struct {
	Delay LatencyProfile
}

func NewMailerStub() *MailerStub {
	return &MailerStub{Delay: LatencyProfile{Base: 200 * time.Millisecond}}
}

func (m *MailerStub) SendConfirmation(ctx context.Context, email, orderID string, totalCents int) error {
	if err := m.Delay.wait(ctx); err != nil {
		return err
	}
	logger.FromCtx(ctx).Info("confirmation sent",
		zap.String("email", email),
		zap.String("order_id", orderID),
		zap.Int("total_cents", totalCents),
	)
	return nil
}
