package inventory

// Selection is the set of card ids targeted by a bulk operation. It is
// only populated while select mode is active.
type Selection struct {
	ids map[string]struct{}
}

func NewSelection() Selection {
	return Selection{ids: make(map[string]struct{})}
}

// Toggle adds the id if absent and removes it if present.
func (s *Selection) Toggle(id string) {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
	} else {
		s.ids[id] = struct{}{}
	}
}

func (s *Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *Selection) Count() int {
	return len(s.ids)
}

// IDs returns the selected ids in unspecified order.
func (s *Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	return out
}

func (s *Selection) Clear() {
	s.ids = make(map[string]struct{})
}

// Controller-level selection operations. Select mode and the per-card
// admin controls are mutually exclusive; the UI state machine enforces
// the transitions.

// EnterSelectMode switches the admin UI into select mode.
func (c *Controller) EnterSelectMode() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ui.BeginSelect()
}

// ExitSelectMode leaves select mode and always clears the selection.
func (c *Controller) ExitSelectMode() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection.Clear()
	c.ui.EndSelect()
}

// ToggleSelect toggles an id's membership in the selection set.
func (c *Controller) ToggleSelect(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ui.Mode != Selecting {
		return errNotSelecting
	}
	c.selection.Toggle(id)
	return nil
}

// Selected returns the current selection set.
func (c *Controller) Selected() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection.IDs()
}

// SelectMode reports whether select mode is active.
func (c *Controller) SelectMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ui.Mode == Selecting
}

// State returns the current UI state for callers that render it.
func (c *Controller) State() UIState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ui
}
