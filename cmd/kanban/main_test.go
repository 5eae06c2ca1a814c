package main

import (
	"io"
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func captureStdout(t *testing.T, fn func() error) string {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	require.NoError(t, fn())
	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestPrintMutationWrapsInSuccessEnvelope(t *testing.T) {
	viper.Set("json", true)
	t.Cleanup(func() { viper.Set("json", false) })

	out := captureStdout(t, func() error {
		return printMutation("board", map[string]string{"id": "b1"}, func() {})
	})
	require.JSONEq(t, `{"success": true, "board": {"id": "b1"}}`, out)
}

func TestPrintMutationRendersTableWithoutJSON(t *testing.T) {
	viper.Set("json", false)

	rendered := false
	out := captureStdout(t, func() error {
		return printMutation("board", nil, func() { rendered = true })
	})
	require.True(t, rendered)
	require.Empty(t, out)
}
