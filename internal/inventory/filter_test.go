package inventory

import (
	"reflect"
	"testing"

	"github.com/Swift-Studio-Web/pokemon-card-catalog/internal/models"
)

func testCatalog() []models.Card {
	return []models.Card{
		{ID: "1", Name: "Piplup", Meta: []string{"Raw", "English", "Ultra Prism"}, Section: models.SectionForSale},
		{ID: "2", Name: "Pikachu", Meta: []string{"Raw", "English", "Base Set"}, Section: models.SectionForSale},
		{ID: "3", Name: "Mewtwo", Meta: []string{"PSA 9"}, Section: models.SectionForSale},
		{ID: "4", Name: "Charizard", Meta: []string{"BGS 9.5", "Japanese"}, Section: models.SectionWanted},
		{ID: "5", Name: "Snorlax", Meta: []string{"CGC 8", "Japanese"}, Section: models.SectionForSale},
	}
}

func names(cards []models.Card) []string {
	out := []string{}
	for _, c := range cards {
		out = append(out, c.Name)
	}
	return out
}

func TestVisibleSection(t *testing.T) {
	got := Visible(testCatalog(), models.SectionWanted, FilterAll, "")
	if want := []string{"Charizard"}; !reflect.DeepEqual(names(got), want) {
		t.Errorf("Expected %v, got %v", want, names(got))
	}
}

func TestVisibleSlabsFilter(t *testing.T) {
	// Slabs is a composite filter matching psa, bgs, or cgc in any meta
	// entry, case-insensitively.
	got := Visible(testCatalog(), models.SectionForSale, FilterSlabs, "")
	if want := []string{"Mewtwo", "Snorlax"}; !reflect.DeepEqual(names(got), want) {
		t.Errorf("Expected %v, got %v", want, names(got))
	}
}

func TestVisibleSlabsExample(t *testing.T) {
	cards := []models.Card{
		{Name: "Pikachu", Meta: []string{"Raw", "English"}, Section: models.SectionForSale},
		{Name: "Mewtwo", Meta: []string{"PSA 9"}, Section: models.SectionForSale},
	}
	got := Visible(cards, models.SectionForSale, FilterSlabs, "")
	if len(got) != 1 || got[0].Name != "Mewtwo" {
		t.Errorf("Expected [Mewtwo], got %v", names(got))
	}
}

func TestVisiblePlainFilter(t *testing.T) {
	got := Visible(testCatalog(), models.SectionForSale, "Raw", "")
	if want := []string{"Piplup", "Pikachu"}; !reflect.DeepEqual(names(got), want) {
		t.Errorf("Expected %v, got %v", want, names(got))
	}

	// Filter values match meta case-insensitively.
	got = Visible(testCatalog(), models.SectionForSale, "japanese", "")
	if want := []string{"Snorlax"}; !reflect.DeepEqual(names(got), want) {
		t.Errorf("Expected %v, got %v", want, names(got))
	}
}

func TestVisibleSearchQuery(t *testing.T) {
	t.Run("matches name", func(t *testing.T) {
		got := Visible(testCatalog(), models.SectionForSale, FilterAll, "pika")
		if want := []string{"Pikachu"}; !reflect.DeepEqual(names(got), want) {
			t.Errorf("Expected %v, got %v", want, names(got))
		}
	})

	t.Run("matches meta", func(t *testing.T) {
		got := Visible(testCatalog(), models.SectionForSale, FilterAll, "base set")
		if want := []string{"Pikachu"}; !reflect.DeepEqual(names(got), want) {
			t.Errorf("Expected %v, got %v", want, names(got))
		}
	})

	t.Run("composes with filter", func(t *testing.T) {
		got := Visible(testCatalog(), models.SectionForSale, FilterSlabs, "cgc")
		if want := []string{"Snorlax"}; !reflect.DeepEqual(names(got), want) {
			t.Errorf("Expected %v, got %v", want, names(got))
		}
	})
}

// TestVisibleIsPure verifies the filter is a pure function: same inputs,
// same ordered output, no mutation of the input slice.
func TestVisibleIsPure(t *testing.T) {
	cards := testCatalog()
	before := make([]models.Card, len(cards))
	copy(before, cards)

	first := Visible(cards, models.SectionForSale, FilterSlabs, "")
	second := Visible(cards, models.SectionForSale, FilterSlabs, "")

	if !reflect.DeepEqual(first, second) {
		t.Error("Repeated calls with the same inputs should return the same result")
	}
	if !reflect.DeepEqual(cards, before) {
		t.Error("Visible should not mutate its input")
	}
}

func TestVisibleEmptyResultIsNotNil(t *testing.T) {
	got := Visible(nil, models.SectionForSale, FilterAll, "")
	if got == nil {
		t.Error("Expected empty slice, got nil")
	}
}
