// Package inventory owns the in-memory card collection and mediates all
// mutations against the durable card store. The cache exists for
// rendering; the store remains the source of truth and failed remote
// writes never corrupt the cache (toggle-sold excepted, see ToggleSold).
package inventory

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/Swift-Studio-Web/pokemon-card-catalog/internal/models"
)

// ErrMissingFields blocks submission of a card without a name or image.
// No remote call is attempted.
var ErrMissingFields = errors.New("card name and image are required")

// CardStore is the durable collection the controller mediates access to.
// *store.Store satisfies it.
type CardStore interface {
	ListCards() ([]models.Card, error)
	InsertCard(c *models.Card) error
	UpdateCard(c *models.Card) error
	SetSold(id string, sold bool) error
	SetSoldBulk(ids []string, sold bool) error
	DeleteCard(id string) error
	DeleteCards(ids []string) error
}

// Uploader turns an inline-encoded image into a stable URL.
// *storage.Storage satisfies it.
type Uploader interface {
	UploadDataURI(ctx context.Context, dataURI string) (string, error)
}

// IsInline reports whether an image reference still needs uploading.
type IsInline func(imageRef string) bool

// Controller caches the collection and applies the catalog's view state.
// The HTTP surface is concurrent, so the cache is mutex-guarded even
// though each admin client serializes its own operations.
type Controller struct {
	store    CardStore
	uploader Uploader // nil when blob storage is not configured
	isInline IsInline

	mu            sync.Mutex
	cards         []models.Card
	loading       bool
	activeSection string
	activeFilter  string
	searchQuery   string

	selection Selection
	ui        UIState
}

// NewController creates a controller over the given store. The uploader
// may be nil; inline images are then stored as-is.
func NewController(store CardStore, uploader Uploader, isInline IsInline) *Controller {
	if isInline == nil {
		isInline = func(string) bool { return false }
	}
	return &Controller{
		store:         store,
		uploader:      uploader,
		isInline:      isInline,
		loading:       true,
		activeSection: models.SectionForSale,
		activeFilter:  FilterAll,
		selection:     NewSelection(),
	}
}

// LoadAll fetches the full collection, newest first. A fetch failure is
// logged and leaves the cache empty; there is no retry.
func (c *Controller) LoadAll() {
	cards, err := c.store.ListCards()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		log.Printf("inventory: load failed: %v", err)
		c.cards = nil
		return
	}
	c.cards = cards
}

// Loading reports whether the initial fetch has completed.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Save persists a new card (isEdit false) or an edit of an existing one.
// Inline-encoded images are uploaded first; an upload failure falls back
// to storing the inline encoding. The cache is only mutated once the
// store accepts the write.
func (c *Controller) Save(ctx context.Context, card models.Card, isEdit bool) (*models.Card, error) {
	if !card.Persistable() {
		return nil, ErrMissingFields
	}

	if c.uploader != nil && c.isInline(card.ImageURL) {
		url, err := c.uploader.UploadDataURI(ctx, card.ImageURL)
		if err != nil {
			log.Printf("inventory: image upload failed, keeping inline encoding: %v", err)
		} else {
			card.ImageURL = url
		}
	}

	if isEdit {
		if err := c.store.UpdateCard(&card); err != nil {
			log.Printf("inventory: update failed: %v", err)
			return nil, err
		}
	} else {
		if err := c.store.InsertCard(&card); err != nil {
			log.Printf("inventory: insert failed: %v", err)
			return nil, err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if isEdit {
		for i := range c.cards {
			if c.cards[i].ID == card.ID {
				c.cards[i] = card
				break
			}
		}
	} else {
		c.cards = append([]models.Card{card}, c.cards...)
	}
	return &card, nil
}

// ToggleSold flips a card's sold flag. The local flip is applied
// unconditionally; a store failure is logged and the cache keeps the
// optimistic value until the next full load.
func (c *Controller) ToggleSold(id string) bool {
	c.mu.Lock()
	var sold bool
	found := false
	for i := range c.cards {
		if c.cards[i].ID == id {
			c.cards[i].Sold = !c.cards[i].Sold
			sold = c.cards[i].Sold
			found = true
			break
		}
	}
	c.mu.Unlock()

	if !found {
		return false
	}
	if err := c.store.SetSold(id, sold); err != nil {
		log.Printf("inventory: toggle sold failed for %s: %v", id, err)
	}
	return true
}

// Delete removes a single card. The cache entry goes away only when the
// store confirms the delete.
func (c *Controller) Delete(id string) error {
	if err := c.store.DeleteCard(id); err != nil {
		log.Printf("inventory: delete failed for %s: %v", id, err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked([]string{id})
	return nil
}

// BulkDelete removes every selected card in one store call, then clears
// the selection and exits select mode.
func (c *Controller) BulkDelete(ids []string) error {
	if err := c.store.DeleteCards(ids); err != nil {
		log.Printf("inventory: bulk delete failed: %v", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(ids)
	c.selection.Clear()
	c.ui.EndSelect()
	return nil
}

// BulkSetSold applies the sold flag to every selected card in one
// batched store call, then exits select mode.
func (c *Controller) BulkSetSold(ids []string, sold bool) error {
	if err := c.store.SetSoldBulk(ids, sold); err != nil {
		log.Printf("inventory: bulk sold update failed: %v", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	for i := range c.cards {
		if _, ok := set[c.cards[i].ID]; ok {
			c.cards[i].Sold = sold
		}
	}
	c.selection.Clear()
	c.ui.EndSelect()
	return nil
}

// removeLocked drops the given ids from the cache. Caller holds the mutex.
func (c *Controller) removeLocked(ids []string) {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	kept := c.cards[:0]
	for _, card := range c.cards {
		if _, ok := set[card.ID]; !ok {
			kept = append(kept, card)
		}
	}
	c.cards = kept
}

// Cards returns a copy of the cached collection.
func (c *Controller) Cards() []models.Card {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Card, len(c.cards))
	copy(out, c.cards)
	return out
}

// Get returns the cached card with the given id.
func (c *Controller) Get(id string) (models.Card, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, card := range c.cards {
		if card.ID == id {
			return card, true
		}
	}
	return models.Card{}, false
}

// SetView updates the active section, filter, and search query.
func (c *Controller) SetView(section, filter, query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if section != "" {
		c.activeSection = section
	}
	if filter != "" {
		c.activeFilter = filter
	}
	c.searchQuery = query
}

// VisibleCards applies the active view state to the cache.
func (c *Controller) VisibleCards() []models.Card {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Visible(c.cards, c.activeSection, c.activeFilter, c.searchQuery)
}
