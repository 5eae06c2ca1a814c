package view_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fulsomenko/kanban-sub000/internal/view"
)

func TestGetPageInfoEmpty(t *testing.T) {
	p := &view.Page{TotalItems: 0, ViewportHeight: 10}
	info := p.GetPageInfo()
	require.Empty(t, info.VisibleIndices)
	require.False(t, info.HasAbove)
	require.False(t, info.HasBelow)
	require.Zero(t, info.TotalPages)

	zeroViewport := &view.Page{TotalItems: 5, ViewportHeight: 0}
	require.Empty(t, zeroViewport.GetPageInfo().VisibleIndices)
}

func TestGetPageInfoWindowing(t *testing.T) {
	p := &view.Page{TotalItems: 10, ViewportHeight: 4, Offset: 4}
	info := p.GetPageInfo()

	require.Equal(t, []int{4, 5, 6, 7}, info.VisibleIndices)
	require.True(t, info.HasAbove)
	require.Equal(t, 4, info.AboveCount)
	require.True(t, info.HasBelow)
	require.Equal(t, 2, info.BelowCount)
	require.Equal(t, 2, info.CurrentPage)
	require.Equal(t, 3, info.TotalPages)
}

func TestGetPageInfoClampsOffset(t *testing.T) {
	p := &view.Page{TotalItems: 5, ViewportHeight: 4, Offset: 100}
	info := p.GetPageInfo()
	require.Equal(t, []int{1, 2, 3, 4}, info.VisibleIndices)

	p.Offset = -3
	info = p.GetPageInfo()
	require.Equal(t, []int{0, 1, 2, 3}, info.VisibleIndices)
}

func TestScrollToVisible(t *testing.T) {
	p := &view.Page{TotalItems: 20, ViewportHeight: 5}

	p.ScrollToVisible(10)
	require.Equal(t, 6, p.Offset, "scrolls just enough to reveal the index")

	p.ScrollToVisible(3)
	require.Equal(t, 3, p.Offset)

	// Out-of-range indices clamp instead of panicking.
	p.ScrollToVisible(99)
	require.Equal(t, 15, p.Offset)
	p.ScrollToVisible(-5)
	require.Equal(t, 0, p.Offset)
}

func TestNavigateClamps(t *testing.T) {
	p := &view.Page{TotalItems: 3, ViewportHeight: 2}

	cursor := p.NavigateUp(0)
	require.Zero(t, cursor)

	cursor = p.NavigateDown(0)
	require.Equal(t, 1, cursor)
	cursor = p.NavigateDown(cursor)
	require.Equal(t, 2, cursor)
	cursor = p.NavigateDown(cursor)
	require.Equal(t, 2, cursor, "clamps at the last item")
	require.Equal(t, 1, p.Offset)
}

func TestNavigateOnEmptyList(t *testing.T) {
	p := &view.Page{TotalItems: 0, ViewportHeight: 5}
	require.Zero(t, p.NavigateDown(0))
	require.Zero(t, p.NavigateUp(0))
	require.Zero(t, p.Offset)
}
