package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sachiniyer/order-assistant/internal/domain"
	"github.com/sachiniyer/order-assistant/internal/repo"
	"github.com/sachiniyer/order-assistant/internal/store/memory"
)

func TestAuditService(t *testing.T) {
	ctx := context.Background()
	orders := memory.NewOrderRepository()
	require.NoError(t, orders.Set(ctx, domain.NewOrder("o-1")))

	svc := NewAuditService(orders, memory.NewOrderAuditRepository(), zap.NewNop().Sugar())

	ts := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, svc.ProcessOrderEvent(ctx, domain.OrderEvent{
		EventType:    domain.EventTurnCompleted,
		OrderID:      "o-1",
		Input:        "a latte",
		Reply:        "what milk?",
		ItemCount:    1,
		MessageCount: 3,
		Timestamp:    ts,
	}))

	audits, err := svc.GetOrderAudit(ctx, "o-1", 0)
	require.NoError(t, err)
	require.Len(t, audits, 1)
	assert.Equal(t, "a latte", audits[0].Input)
	assert.Equal(t, "what milk?", audits[0].Reply)
	assert.Equal(t, ts, audits[0].Timestamp)

	_, err = svc.GetOrderAudit(ctx, "o-2", 10)
	assert.ErrorIs(t, err, repo.ErrOrderNotFound)
}
