package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Swift-Studio-Web/pokemon-card-catalog/internal/models"

	"github.com/google/uuid"
)

// Store is the durable card collection. It is the sole arbiter of
// persisted state; callers keep their own cached copies for rendering.
type Store struct {
	db      *sql.DB
	backend DataBackend
}

// New creates a new Store from a Config.
// Use ConfigFromEnv() to create config from environment variables.
func New(cfg Config) (*Store, error) {
	backend, err := NewDataBackend(cfg)
	if err != nil {
		return nil, err
	}

	db, err := backend.Connect()
	if err != nil {
		return nil, err
	}

	log.Printf("Database: %s", backend.Description())

	store := &Store{db: db, backend: backend}
	if err := store.migrate(); err != nil {
		return nil, err
	}

	return store, nil
}

// Backend returns the data backend
func (s *Store) Backend() DataBackend {
	return s.backend
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS cards (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		image_url TEXT NOT NULL,
		meta TEXT DEFAULT '[]',
		sold INTEGER DEFAULT 0,
		section TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_cards_section ON cards(section);
	CREATE INDEX IF NOT EXISTS idx_cards_created_at ON cards(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Card operations

// InsertCard stores a new card, assigning id and created_at.
// A caller-provided id is kept (client-generated fallback).
func (s *Store) InsertCard(c *models.Card) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.CreatedAt = time.Now()

	meta, err := json.Marshal(c.Meta)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(
		`INSERT INTO cards (id, name, image_url, meta, sold, section, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.ImageURL, string(meta), c.Sold, c.Section, c.CreatedAt,
	)
	return err
}

func (s *Store) GetCard(id string) (*models.Card, error) {
	var c models.Card
	var meta string

	err := s.db.QueryRow(
		`SELECT id, name, image_url, meta, sold, section, created_at FROM cards WHERE id = ?`,
		id,
	).Scan(&c.ID, &c.Name, &c.ImageURL, &meta, &c.Sold, &c.Section, &c.CreatedAt)

	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(meta), &c.Meta); err != nil {
		c.Meta = []string{}
	}

	return &c, nil
}

// ListCards returns the full collection, newest first.
func (s *Store) ListCards() ([]models.Card, error) {
	rows, err := s.db.Query(
		`SELECT id, name, image_url, meta, sold, section, created_at FROM cards ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		var c models.Card
		var meta string
		if err := rows.Scan(&c.ID, &c.Name, &c.ImageURL, &meta, &c.Sold, &c.Section, &c.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(meta), &c.Meta); err != nil {
			c.Meta = []string{}
		}
		cards = append(cards, c)
	}

	return cards, rows.Err()
}

func (s *Store) UpdateCard(c *models.Card) error {
	meta, err := json.Marshal(c.Meta)
	if err != nil {
		return err
	}

	res, err := s.db.Exec(
		`UPDATE cards SET name = ?, image_url = ?, meta = ?, sold = ?, section = ? WHERE id = ?`,
		c.Name, c.ImageURL, string(meta), c.Sold, c.Section, c.ID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("card not found: %s", c.ID)
	}
	return nil
}

// SetSold updates a single card's sold flag.
func (s *Store) SetSold(id string, sold bool) error {
	_, err := s.db.Exec(`UPDATE cards SET sold = ? WHERE id = ?`, sold, id)
	return err
}

// SetSoldBulk applies the sold flag to every id in one statement.
func (s *Store) SetSoldBulk(ids []string, sold bool) error {
	if len(ids) == 0 {
		return nil
	}

	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, sold)
	for _, id := range ids {
		args = append(args, id)
	}

	query := `UPDATE cards SET sold = ? WHERE id IN (` + placeholders(len(ids)) + `)`
	_, err := s.db.Exec(query, args...)
	return err
}

func (s *Store) DeleteCard(id string) error {
	_, err := s.db.Exec(`DELETE FROM cards WHERE id = ?`, id)
	return err
}

// DeleteCards removes every id in one statement.
func (s *Store) DeleteCards(ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	query := `DELETE FROM cards WHERE id IN (` + placeholders(len(ids)) + `)`
	_, err := s.db.Exec(query, args...)
	return err
}

func (s *Store) CountCards() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM cards`).Scan(&n)
	return n, err
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
