package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sachiniyer/order-assistant/internal/domain"
)

const menuJSON = `{"items": [
  {"itemName": "Fries", "itemType": "side", "options": {
    "size": {"required": true, "minimum": 1, "maximum": 1, "choices": {"small": {"price": 0}, "large": {"price": 1}}}
  }}
]}`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeMenu(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "menu.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestMenuCheck(t *testing.T) {
	out, err := run(t, "menu", "check", "--file", writeMenu(t, menuJSON))
	require.NoError(t, err)
	assert.Contains(t, out, "1 items")
	assert.Contains(t, out, "size: required, 1-1 of 2 choices")
}

func TestMenuCheckInconsistent(t *testing.T) {
	bad := `{"items": [{"itemName": "Fries", "options": {"size": {"required": {"option": "style", "value": "x"}, "minimum": 0, "maximum": 1, "choices": {}}}}]}`

	_, err := run(t, "menu", "check", "--file", writeMenu(t, bad))
	assert.ErrorContains(t, err, `depends on unknown option "style"`)
}

func TestValidate(t *testing.T) {
	path := writeMenu(t, menuJSON)

	out, err := run(t, "validate", "--file", path, "--item", `{"itemName":"Fries","optionKeys":["size"],"optionValues":[["large"]]}`)
	require.NoError(t, err)

	var verdict domain.Verdict
	require.NoError(t, json.Unmarshal([]byte(out), &verdict))
	assert.Equal(t, domain.Complete("item is valid"), verdict)

	out, err = run(t, "validate", "--file", path, "--item", `{"itemName":"Fries","optionKeys":[],"optionValues":[]}`)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &verdict))
	assert.Equal(t, domain.Incomplete("required option missing size"), verdict)
}

func TestOrderShowMemoryStore(t *testing.T) {
	t.Setenv("ORDER_STORE", "memory")

	_, err := run(t, "order", "show", "missing")
	assert.ErrorContains(t, err, "order not found")
}
