package inventory

import "errors"

var (
	errNotSelecting  = errors.New("select mode is not active")
	errNoConfirmable = errors.New("no delete confirmation is pending")
)

// BeginEdit opens the card form for the given id ("" for a new card).
func (c *Controller) BeginEdit(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ui.BeginEdit(id)
}

// CloseEdit closes the card form. Draft handling is the caller's
// concern; the controller only tracks the modal state.
func (c *Controller) CloseEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ui.EndEdit()
}

// ConfirmDelete opens the delete confirmation for a card id, or for the
// whole selection when target is SelectionTarget.
func (c *Controller) ConfirmDelete(target string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ui.BeginConfirmDelete(target)
}

// CancelDelete dismisses a pending confirmation without deleting.
func (c *Controller) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ui.ResolveConfirmDelete()
}

// PerformConfirmedDelete executes the pending delete confirmation,
// routing the SelectionTarget sentinel through the bulk path.
func (c *Controller) PerformConfirmedDelete() error {
	c.mu.Lock()
	ids := c.selection.IDs()
	target := c.ui.ResolveConfirmDelete()
	c.mu.Unlock()

	switch target {
	case "":
		return errNoConfirmable
	case SelectionTarget:
		return c.BulkDelete(ids)
	default:
		return c.Delete(target)
	}
}
