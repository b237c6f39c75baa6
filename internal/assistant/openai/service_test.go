package openai

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sachiniyer/order-assistant/internal/domain"
	"github.com/sachiniyer/order-assistant/internal/menutest"
)

func TestInstructionsEmbedMenu(t *testing.T) {
	menu := menutest.Cafe()

	instructions, err := Instructions(menu)
	require.NoError(t, err)

	idx := strings.Index(instructions, "{")
	require.Positive(t, idx)

	var embedded domain.Menu
	require.NoError(t, json.Unmarshal([]byte(instructions[idx:]), &embedded))
	assert.Equal(t, menu, &embedded)
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(Config{APIKey: "  "}, zap.NewNop().Sugar())
	assert.Error(t, err)

	s, err := New(Config{APIKey: "sk-test"}, zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, s.model)
}
