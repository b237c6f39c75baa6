package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sachiniyer/order-assistant/internal/domain"
	"github.com/sachiniyer/order-assistant/internal/queue"
	"github.com/sachiniyer/order-assistant/internal/service"
	"github.com/sachiniyer/order-assistant/internal/store/memory"
)

func TestOrderEventWorkerWritesAudit(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop().Sugar()

	orders := memory.NewOrderRepository()
	require.NoError(t, orders.Set(ctx, domain.NewOrder("o-1")))
	audits := service.NewAuditService(orders, memory.NewOrderAuditRepository(), logger)

	broker := queue.NewMemoryBroker(0, time.Millisecond)
	w := NewOrderEventWorker(audits, broker, logger)
	require.NoError(t, w.Start())
	defer w.Stop()

	payload, err := json.Marshal(domain.OrderEvent{
		EventType: domain.EventTurnCompleted,
		OrderID:   "o-1",
		Input:     "two fries",
	})
	require.NoError(t, err)
	require.NoError(t, broker.Publish(ctx, queue.QueueOrderEvents, payload))

	assert.Eventually(t, func() bool {
		got, err := audits.GetOrderAudit(ctx, "o-1", 10)
		return err == nil && len(got) == 1 && got[0].Input == "two fries" && !got[0].Timestamp.IsZero()
	}, time.Second, 5*time.Millisecond)
}

func TestOrderEventWorkerRejectsGarbage(t *testing.T) {
	ctx := context.Background()
	broker := queue.NewMemoryBroker(0, time.Millisecond)
	w := NewOrderEventWorker(nil, broker, zap.NewNop().Sugar())
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, broker.Publish(ctx, queue.QueueOrderEvents, []byte("not json")))

	assert.Eventually(t, func() bool {
		return len(broker.DeadLetters(queue.QueueOrderEvents)) == 1
	}, time.Second, 5*time.Millisecond)
}
