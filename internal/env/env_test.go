package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetters(t *testing.T) {
	t.Setenv("TEST_STRING", "value")
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_BAD_INT", "forty")
	t.Setenv("TEST_BOOL", "false")
	t.Setenv("TEST_DURATION", "250ms")
	t.Setenv("TEST_LIST", " a, ,b ,c")

	assert.Equal(t, "value", GetString("TEST_STRING", "x"))
	assert.Equal(t, "x", GetString("TEST_UNSET", "x"))

	assert.Equal(t, 42, GetInt("TEST_INT", 1))
	assert.Equal(t, 1, GetInt("TEST_BAD_INT", 1))
	assert.Equal(t, 1, GetInt("TEST_UNSET", 1))

	assert.False(t, GetBool("TEST_BOOL", true))
	assert.True(t, GetBool("TEST_UNSET", true))

	assert.Equal(t, 250*time.Millisecond, GetDuration("TEST_DURATION", time.Second))
	assert.Equal(t, time.Second, GetDuration("TEST_STRING", time.Second))

	assert.Equal(t, []string{"a", "b", "c"}, GetList("TEST_LIST"))
	assert.Nil(t, GetList("TEST_UNSET"))
}
