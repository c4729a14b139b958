package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("LEGISAI_CONFIG", "")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestToolsCommand(t *testing.T) {
	out := execute(t, "tools", "--json=false")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 18)
	assert.True(t, strings.HasPrefix(lines[0], "search_bills"))
	assert.Contains(t, out, "get_senators_by_state")
	assert.Contains(t, out, "state*")
}

func TestToolsCommandJSON(t *testing.T) {
	out := execute(t, "tools", "--json")

	dec := json.NewDecoder(strings.NewReader(out))
	var first map[string]any
	require.NoError(t, dec.Decode(&first))
	assert.Equal(t, "search_bills", first["name"])
	params, ok := first["parameters"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "object", params["type"])
}

func TestAskRequiresQuestion(t *testing.T) {
	rootCmd.SetArgs([]string{"ask"})
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	assert.Error(t, rootCmd.Execute())
}
