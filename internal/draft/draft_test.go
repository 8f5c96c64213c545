package draft

import (
	"reflect"
	"testing"

	"github.com/Swift-Studio-Web/pokemon-card-catalog/internal/kv"
	"github.com/Swift-Studio-Web/pokemon-card-catalog/internal/models"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(kv.NewMemStore())
}

func TestHasUnsavedChangesNewCard(t *testing.T) {
	// A brand-new, untouched form has nothing to lose.
	form := FormState{}
	if HasUnsavedChanges(form, nil) {
		t.Error("Empty new form should have no unsaved changes")
	}

	// A single typed character makes it dirty.
	form.Name = "P"
	if !HasUnsavedChanges(form, nil) {
		t.Error("Form with a typed name should have unsaved changes")
	}

	if !HasUnsavedChanges(FormState{Image: "data:image/png;base64,AA"}, nil) {
		t.Error("Form with an image should have unsaved changes")
	}
	if !HasUnsavedChanges(FormState{Meta: "Raw"}, nil) {
		t.Error("Form with tag text should have unsaved changes")
	}
}

func TestHasUnsavedChangesEdit(t *testing.T) {
	original := &models.Card{
		Name:     "Pikachu",
		ImageURL: "https://x/pikachu.png",
		Meta:     []string{"Raw", "English"},
		Section:  models.SectionForSale,
	}

	clean := FormState{
		Name:    "Pikachu",
		Image:   "https://x/pikachu.png",
		Meta:    "Raw, English",
		Section: models.SectionForSale,
	}
	if HasUnsavedChanges(clean, original) {
		t.Error("Unmodified edit form should have no unsaved changes")
	}

	dirty := clean
	dirty.Name = "Pikachu Illustrator"
	if !HasUnsavedChanges(dirty, original) {
		t.Error("Edited name should count as unsaved changes")
	}

	dirty = clean
	dirty.Section = models.SectionWanted
	if !HasUnsavedChanges(dirty, original) {
		t.Error("Changed section should count as unsaved changes")
	}
}

func TestDraftRoundTrip(t *testing.T) {
	m := testManager(t)

	want := FormState{
		Name:    "Charizard",
		Image:   "data:image/png;base64,AAAA",
		Meta:    "PSA 10, Japanese",
		Section: models.SectionWanted,
	}
	if err := m.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, found := m.Load()
	if !found {
		t.Fatal("Expected a draft")
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}

func TestDraftClear(t *testing.T) {
	m := testManager(t)

	m.Save(FormState{Name: "Snorlax"})
	if err := m.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	if _, found := m.Load(); found {
		t.Error("Draft should be gone after clear")
	}
}

func TestCloseCleanFormClearsStaleDraft(t *testing.T) {
	m := testManager(t)
	m.Save(FormState{Name: "stale"})

	closed, err := m.Close(FormState{}, nil, KeepEditing)
	if err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !closed {
		t.Error("A clean form should close silently")
	}
	if _, found := m.Load(); found {
		t.Error("Closing a clean form should clear any stale draft")
	}
}

func TestCloseDirtyForm(t *testing.T) {
	m := testManager(t)
	form := FormState{Name: "Mewtwo", Meta: "PSA 9"}

	t.Run("keep editing", func(t *testing.T) {
		closed, err := m.Close(form, nil, KeepEditing)
		if err != nil || closed {
			t.Errorf("KeepEditing should not close: closed=%v err=%v", closed, err)
		}
	})

	t.Run("save draft", func(t *testing.T) {
		closed, err := m.Close(form, nil, SaveDraft)
		if err != nil || !closed {
			t.Fatalf("SaveDraft should close: closed=%v err=%v", closed, err)
		}
		got, found := m.Load()
		if !found || got.Name != "Mewtwo" {
			t.Errorf("Expected saved draft, got found=%v %+v", found, got)
		}
	})

	t.Run("discard", func(t *testing.T) {
		closed, err := m.Close(form, nil, Discard)
		if err != nil || !closed {
			t.Fatalf("Discard should close: closed=%v err=%v", closed, err)
		}
		if _, found := m.Load(); found {
			t.Error("Discard should clear the draft")
		}
	})
}

// TestCloseEditNeverOffersDraft: drafts exist only for new cards.
func TestCloseEditNeverOffersDraft(t *testing.T) {
	m := testManager(t)
	original := &models.Card{Name: "Pikachu", ImageURL: "u"}
	form := FormState{Name: "Renamed", Image: "u"}

	closed, err := m.Close(form, original, SaveDraft)
	if err != ErrDraftForEdit {
		t.Errorf("Expected ErrDraftForEdit, got %v", err)
	}
	if closed {
		t.Error("Form should stay open when the draft save is rejected")
	}
	if _, found := m.Load(); found {
		t.Error("No draft should be written for an edit")
	}
}

func TestTags(t *testing.T) {
	form := FormState{Meta: " PSA 10 , Japanese ,, 1998 "}
	want := []string{"PSA 10", "Japanese", "1998"}
	if got := form.Tags(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	if got := (FormState{}).Tags(); got != nil {
		t.Errorf("Empty tag text should yield nil, got %v", got)
	}
}
