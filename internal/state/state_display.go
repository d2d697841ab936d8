package state

// VisibleLines is the number of listing rows on screen.
func (s *AppState) VisibleLines() int {
	if s.PageSize > 0 {
		return s.PageSize
	}
	lines := s.ScreenHeight - ListChromeLines
	if lines < 1 {
		return 1
	}
	return lines
}

func (s *AppState) clampSelection() {
	if len(s.Entries) == 0 {
		s.SelectedIndex = 0
		return
	}
	if s.SelectedIndex < 0 {
		s.SelectedIndex = 0
	}
	if s.SelectedIndex >= len(s.Entries) {
		s.SelectedIndex = len(s.Entries) - 1
	}
}

func (s *AppState) updateScrollVisibility() {
	visibleLines := s.VisibleLines()
	idx := s.SelectedIndex

	if idx < s.ScrollOffset {
		s.ScrollOffset = idx
	} else if idx >= s.ScrollOffset+visibleLines {
		s.ScrollOffset = idx - visibleLines + 1
	}
	s.clampScroll(visibleLines)
}

func (s *AppState) centerScrollOnSelection() {
	visibleLines := s.VisibleLines()
	s.ScrollOffset = s.SelectedIndex - visibleLines/2
	s.clampScroll(visibleLines)
}

func (s *AppState) clampScroll(visibleLines int) {
	maxOffset := len(s.Entries) - visibleLines
	if maxOffset < 0 {
		maxOffset = 0
	}
	if s.ScrollOffset < 0 {
		s.ScrollOffset = 0
	}
	if s.ScrollOffset > maxOffset {
		s.ScrollOffset = maxOffset
	}
}
