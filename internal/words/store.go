package words

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/breach-party/backend/internal/engine"
)

// WordDeck is one named deck. Words are stored newline-separated; a deck
// must hold at least a full board's worth to be usable.
type WordDeck struct {
	ID    uint   `gorm:"primaryKey"`
	Name  string `gorm:"uniqueIndex;size:64"`
	Words string
}

type Store struct {
	db *gorm.DB
}

func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open word store: %w", err)
	}
	if err := db.AutoMigrate(&WordDeck{}); err != nil {
		return nil, fmt.Errorf("migrate word store: %w", err)
	}
	return &Store{db: db}, nil
}

// Deck loads a deck by name.
func (s *Store) Deck(name string) ([]string, error) {
	var deck WordDeck
	if err := s.db.Where("name = ?", name).First(&deck).Error; err != nil {
		return nil, fmt.Errorf("load deck %q: %w", name, err)
	}
	words := strings.Fields(deck.Words)
	if len(words) < engine.BoardSize {
		return nil, fmt.Errorf("deck %q has %d words, need %d", name, len(words), engine.BoardSize)
	}
	return words, nil
}

// SaveDeck upserts a deck by name.
func (s *Store) SaveDeck(name string, words []string) error {
	deck := WordDeck{Name: name, Words: strings.Join(words, "\n")}
	err := s.db.Where("name = ?", name).
		Assign(WordDeck{Words: deck.Words}).
		FirstOrCreate(&deck).Error
	if err != nil {
		return fmt.Errorf("save deck %q: %w", name, err)
	}
	return nil
}
