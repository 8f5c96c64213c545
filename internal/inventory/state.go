package inventory

import "fmt"

// Mode is the admin UI state. Modeling it as a tagged variant instead of
// independent booleans keeps illegal combinations (select mode while a
// card is being edited, two modals at once) unrepresentable.
type Mode int

const (
	Viewing Mode = iota
	Selecting
	EditingCard
	ConfirmingDelete
	BulkEditing
)

func (m Mode) String() string {
	switch m {
	case Viewing:
		return "viewing"
	case Selecting:
		return "selecting"
	case EditingCard:
		return "editing"
	case ConfirmingDelete:
		return "confirming-delete"
	case BulkEditing:
		return "bulk-editing"
	}
	return "unknown"
}

// SelectionTarget is the delete-confirmation target meaning "the current
// selection" rather than a single card id.
const SelectionTarget = "selection"

// UIState is the current mode plus its payload: the card being edited,
// or the delete target (a card id or SelectionTarget).
type UIState struct {
	Mode         Mode   `json:"mode"`
	EditingID    string `json:"editing_id,omitempty"`
	DeleteTarget string `json:"delete_target,omitempty"`
}

// BeginSelect enters select mode from the plain viewing state.
func (s *UIState) BeginSelect() error {
	if s.Mode != Viewing {
		return fmt.Errorf("cannot enter select mode while %s", s.Mode)
	}
	s.Mode = Selecting
	return nil
}

// EndSelect returns to viewing from select mode or a bulk operation.
func (s *UIState) EndSelect() {
	if s.Mode == Selecting || s.Mode == BulkEditing {
		*s = UIState{}
	}
}

// BeginEdit opens the card form. An empty id means a new card.
func (s *UIState) BeginEdit(id string) error {
	if s.Mode != Viewing {
		return fmt.Errorf("cannot open card form while %s", s.Mode)
	}
	s.Mode = EditingCard
	s.EditingID = id
	return nil
}

// EndEdit closes the card form.
func (s *UIState) EndEdit() {
	if s.Mode == EditingCard {
		*s = UIState{}
	}
}

// BeginConfirmDelete opens the delete confirmation for a card id, or for
// the current selection when target is SelectionTarget (only legal from
// select mode).
func (s *UIState) BeginConfirmDelete(target string) error {
	if target == SelectionTarget {
		if s.Mode != Selecting {
			return fmt.Errorf("no active selection to delete")
		}
	} else if s.Mode != Viewing {
		return fmt.Errorf("cannot confirm delete while %s", s.Mode)
	}
	s.Mode = ConfirmingDelete
	s.DeleteTarget = target
	return nil
}

// ResolveConfirmDelete closes the confirmation dialog. The caller
// performs the actual deletion when confirmed.
func (s *UIState) ResolveConfirmDelete() string {
	if s.Mode != ConfirmingDelete {
		return ""
	}
	target := s.DeleteTarget
	*s = UIState{}
	return target
}
