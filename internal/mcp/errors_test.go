package mcp_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fulsomenko/kanban-sub000/internal/domain"
	"github.com/fulsomenko/kanban-sub000/internal/mcp"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		err  error
		code string
	}{
		{domain.NotFoundf("Card abc"), "NOT_FOUND"},
		{domain.SelfReference(), "SELF_REFERENCE"},
		{domain.CycleDetected("a", "b"), "CYCLE_DETECTED"},
		{domain.Validationf("bad input"), "VALIDATION"},
		{domain.Conflict("kanban.json", nil), "CONFLICT"},
	}
	for _, tc := range cases {
		mapped := mcp.MapError(tc.err)
		require.NotNil(t, mapped, "error %v", tc.err)
		require.Equal(t, tc.code, mapped.Code)
		require.NotEmpty(t, mapped.Message)
	}
}

func TestMapErrorPassesThroughUnknown(t *testing.T) {
	require.Nil(t, mcp.MapError(nil))
	require.Nil(t, mcp.MapError(errors.New("plumbing failure")))
	require.Nil(t, mcp.MapError(domain.IOf(nil, "disk gone")))
}
