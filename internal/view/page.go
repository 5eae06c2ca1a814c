package view

// Page is a scrollable viewport over a virtual list, shared by all
// layouts.
type Page struct {
	TotalItems     int
	ViewportHeight int
	Offset         int
}

// PageInfo describes what the viewport currently shows.
type PageInfo struct {
	VisibleIndices []int
	HasAbove       bool
	AboveCount     int
	HasBelow       bool
	BelowCount     int
	CurrentPage    int
	TotalPages     int
}

// GetPageInfo reports the visible window. Zero items or a zero viewport
// yield an empty window.
func (p *Page) GetPageInfo() PageInfo {
	if p.TotalItems <= 0 || p.ViewportHeight <= 0 {
		return PageInfo{}
	}
	p.clamp()
	end := p.Offset + p.ViewportHeight
	if end > p.TotalItems {
		end = p.TotalItems
	}
	visible := make([]int, 0, end-p.Offset)
	for i := p.Offset; i < end; i++ {
		visible = append(visible, i)
	}
	totalPages := (p.TotalItems + p.ViewportHeight - 1) / p.ViewportHeight
	return PageInfo{
		VisibleIndices: visible,
		HasAbove:       p.Offset > 0,
		AboveCount:     p.Offset,
		HasBelow:       end < p.TotalItems,
		BelowCount:     p.TotalItems - end,
		CurrentPage:    p.Offset/p.ViewportHeight + 1,
		TotalPages:     totalPages,
	}
}

// ScrollToVisible snaps the viewport so idx is just in view.
func (p *Page) ScrollToVisible(idx int) {
	if p.ViewportHeight <= 0 {
		return
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= p.TotalItems && p.TotalItems > 0 {
		idx = p.TotalItems - 1
	}
	if idx < p.Offset {
		p.Offset = idx
	} else if idx >= p.Offset+p.ViewportHeight {
		p.Offset = idx - p.ViewportHeight + 1
	}
	p.clamp()
}

// NavigateUp moves the cursor up one item, clamping at the top, and
// returns the new cursor.
func (p *Page) NavigateUp(cursor int) int {
	if cursor > 0 {
		cursor--
	}
	p.ScrollToVisible(cursor)
	return cursor
}

// NavigateDown moves the cursor down one item, clamping at the end, and
// returns the new cursor.
func (p *Page) NavigateDown(cursor int) int {
	if cursor < p.TotalItems-1 {
		cursor++
	}
	p.ScrollToVisible(cursor)
	return cursor
}

func (p *Page) clamp() {
	max := p.TotalItems - p.ViewportHeight
	if max < 0 {
		max = 0
	}
	if p.Offset > max {
		p.Offset = max
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}
