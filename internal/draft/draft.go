// Package draft persists an in-progress "add card" form so it can be
// resumed after the form is closed. Drafts apply only to new cards,
// never to edits of an existing card.
package draft

import (
	"errors"
	"strings"

	"github.com/Swift-Studio-Web/pokemon-card-catalog/internal/kv"
	"github.com/Swift-Studio-Web/pokemon-card-catalog/internal/models"
)

const draftKey = "card_draft"

// ErrDraftForEdit is returned when a caller tries to save a draft while
// editing an existing card.
var ErrDraftForEdit = errors.New("drafts apply only to new cards")

// FormState is the add/edit form as the operator left it. Meta holds the
// raw comma-separated tag text, split only on save.
type FormState struct {
	Name    string `json:"name"`
	Image   string `json:"image"`
	Meta    string `json:"meta"`
	Section string `json:"section"`
}

// Empty reports whether nothing has been typed into the form.
func (f FormState) Empty() bool {
	return f.Name == "" && f.Image == "" && f.Meta == ""
}

// Tags splits the raw tag text into the card's meta list.
func (f FormState) Tags() []string {
	var tags []string
	for _, t := range strings.Split(f.Meta, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// CloseAction is the operator's choice when closing a dirty form.
type CloseAction int

const (
	KeepEditing CloseAction = iota
	Discard
	SaveDraft
)

// Manager reads and writes the draft record in the key-value store.
type Manager struct {
	store kv.Store
}

func NewManager(store kv.Store) *Manager {
	return &Manager{store: store}
}

// HasUnsavedChanges reports whether closing the form would lose work.
// For edits, any field differing from the original counts; for new
// cards, any non-empty field counts.
func HasUnsavedChanges(form FormState, original *models.Card) bool {
	if original == nil {
		return !form.Empty()
	}
	return form.Name != original.Name ||
		form.Image != original.ImageURL ||
		form.Meta != strings.Join(original.Meta, ", ") ||
		form.Section != original.Section
}

// Save writes the form state as the draft record.
func (m *Manager) Save(form FormState) error {
	return m.store.Set(draftKey, form)
}

// Load returns the draft record, if one exists, to pre-fill a freshly
// opened create form.
func (m *Manager) Load() (FormState, bool) {
	var form FormState
	found, err := m.store.Get(draftKey, &form)
	if err != nil || !found {
		return FormState{}, false
	}
	return form, true
}

// Clear removes the draft record. Called on successful save, explicit
// discard, and clean closes.
func (m *Manager) Clear() error {
	return m.store.Delete(draftKey)
}

// Close resolves the form-close flow. It returns true when the form
// should actually close. A clean form closes silently, clearing any
// stale draft; a dirty one closes per the operator's choice.
func (m *Manager) Close(form FormState, original *models.Card, action CloseAction) (bool, error) {
	if !HasUnsavedChanges(form, original) {
		return true, m.Clear()
	}

	switch action {
	case KeepEditing:
		return false, nil
	case Discard:
		return true, m.Clear()
	case SaveDraft:
		if original != nil {
			return false, ErrDraftForEdit
		}
		return true, m.Save(form)
	}
	return false, nil
}
