package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sachiniyer/order-assistant/internal/domain"
	"github.com/sachiniyer/order-assistant/internal/repo"
)

func TestOrderRepositoryGetMissing(t *testing.T) {
	r := NewOrderRepository()

	_, err := r.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, repo.ErrOrderNotFound)
}

func TestOrderRepositoryIsolatesCopies(t *testing.T) {
	ctx := context.Background()
	r := NewOrderRepository()

	order := domain.NewOrder("o-1")
	order.Items = append(order.Items, domain.OrderItem{ID: "i-1", ItemName: "Burger", OptionKeys: []string{"size"}, OptionValues: [][]string{{"small"}}})
	require.NoError(t, r.Set(ctx, order))

	order.Items[0].OptionValues[0][0] = "large"
	order.AddMessage(domain.RoleUser, "hi")

	got, err := r.Get(ctx, "o-1")
	require.NoError(t, err)
	assert.Equal(t, "small", got.Items[0].OptionValues[0][0])
	assert.Empty(t, got.Messages)

	got.Items = nil
	again, err := r.Get(ctx, "o-1")
	require.NoError(t, err)
	assert.Len(t, again.Items, 1)
}

func TestOrderRepositorySetReplaces(t *testing.T) {
	ctx := context.Background()
	r := NewOrderRepository()

	order := domain.NewOrder("o-1")
	require.NoError(t, r.Set(ctx, order))
	created := order.CreatedAt

	order.AddMessage(domain.RoleAssistant, "welcome")
	require.NoError(t, r.Set(ctx, order))

	got, err := r.Get(ctx, "o-1")
	require.NoError(t, err)
	assert.Len(t, got.Messages, 1)
	assert.Equal(t, created, got.CreatedAt)
}

func TestOrderRepositoryCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewOrderRepository()
	assert.ErrorIs(t, r.Set(ctx, domain.NewOrder("o-1")), context.Canceled)
}

func TestOrderAuditNewestFirst(t *testing.T) {
	ctx := context.Background()
	r := NewOrderAuditRepository()

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, event := range []string{domain.EventOrderStarted, domain.EventTurnCompleted, domain.EventTurnFailed} {
		require.NoError(t, r.Create(ctx, &domain.OrderAudit{
			OrderID:   "o-1",
			EventType: event,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, r.Create(ctx, &domain.OrderAudit{OrderID: "o-2", EventType: domain.EventOrderStarted}))

	audits, err := r.GetByOrderID(ctx, "o-1", 2)
	require.NoError(t, err)
	require.Len(t, audits, 2)
	assert.Equal(t, domain.EventTurnFailed, audits[0].EventType)
	assert.Equal(t, domain.EventTurnCompleted, audits[1].EventType)
	assert.False(t, audits[0].ID.IsZero())

	none, err := r.GetByOrderID(ctx, "o-3", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}
