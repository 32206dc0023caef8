package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "storelab-be/internal/kafka"
	"storelab-be/internal/orders"
	"storelab-be/internal/redisx"
)

type Mailer interface {
	SendConfirmation(ctx context.Context, email, orderID string, totalCents int) error
}

// Service consumes order-confirmed events and sends the confirmation
// mail the v2 checkout deferred.
type Service struct {
	Redis       *redis.Client // optional; dedups redelivered events
	Mailer      Mailer
	ServiceName string
}

// HandleOrderConfirmed is installed as the consumer handler.
func (s *Service) HandleOrderConfirmed(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderConfirmed {
		return nil
	}

	if s.Redis != nil {
		dkey := fmt.Sprintf(redisx.KeyDedup, "notify", env.EventID)
		if exists, _ := redisx.Exists(ctx, s.Redis, dkey); exists {
			return nil
		}
		_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
	}

	p, err := kafkax.UnwrapPayload[orders.OrderConfirmedPayload](env.Payload)
	if err != nil {
		return err
	}
	return s.Mailer.SendConfirmation(ctx, p.UserEmail, p.OrderID, p.TotalCents)
}
