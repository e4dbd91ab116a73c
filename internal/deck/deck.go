// Package deck holds flashcard decks: the built-in character primer and
// decks loaded from YAML files.
package deck

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

//go:embed builtin.yml
var builtinYAML []byte

// Card is one flashcard.
type Card struct {
	ID      string `yaml:"id"`
	Hanzi   string `yaml:"hanzi"`
	Pinyin  string `yaml:"pinyin"`
	English string `yaml:"english"`
	Unit    int    `yaml:"unit"`
}

// Deck is an ordered set of cards.
type Deck struct {
	Name  string `yaml:"name"`
	Cards []Card `yaml:"cards"`
}

// Builtin returns the deck shipped with the binary.
func Builtin() Deck {
	d, err := Parse(builtinYAML)
	if err != nil {
		panic(fmt.Sprintf("built-in deck: %v", err))
	}
	return d
}

// Load reads a deck from a YAML file. A leading ~ is expanded.
func Load(path string) (Deck, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return Deck{}, fmt.Errorf("expand %q: %w", path, err)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return Deck{}, fmt.Errorf("read deck: %w", err)
	}
	d, err := Parse(data)
	if err != nil {
		return Deck{}, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Parse decodes and validates a YAML deck.
// Cards without an id get one derived from their position; cards without a
// unit belong to unit 1.
func Parse(data []byte) (Deck, error) {
	var d Deck
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Deck{}, fmt.Errorf("%w: %v", ErrInvalidDeck, err)
	}
	if len(d.Cards) == 0 {
		return Deck{}, ErrEmptyDeck
	}

	seen := make(map[string]bool, len(d.Cards))
	for i := range d.Cards {
		c := &d.Cards[i]
		c.Hanzi = strings.TrimSpace(c.Hanzi)
		c.ID = strings.TrimSpace(c.ID)

		if c.Hanzi == "" {
			return Deck{}, fmt.Errorf("%w: card %d has no hanzi", ErrInvalidCard, i+1)
		}
		if c.ID == "" {
			c.ID = fmt.Sprintf("card-%d", i+1)
		}
		if seen[c.ID] {
			return Deck{}, fmt.Errorf("%w: %s", ErrDuplicateID, c.ID)
		}
		seen[c.ID] = true

		switch {
		case c.Unit == 0:
			c.Unit = 1
		case c.Unit < 0:
			return Deck{}, fmt.Errorf("%w: card %s has unit %d", ErrInvalidCard, c.ID, c.Unit)
		}
	}
	return d, nil
}

// Units returns the distinct units of the deck in ascending order.
func (d Deck) Units() []int {
	var units []int
	for _, c := range d.Cards {
		if !slices.Contains(units, c.Unit) {
			units = append(units, c.Unit)
		}
	}
	slices.Sort(units)
	return units
}

// Filter keeps the cards of the given units, in deck order.
// With no units every card is kept.
func (d Deck) Filter(units ...int) Deck {
	if len(units) == 0 {
		return d
	}
	out := Deck{Name: d.Name}
	for _, c := range d.Cards {
		if slices.Contains(units, c.Unit) {
			out.Cards = append(out.Cards, c)
		}
	}
	return out
}

// Len returns the number of cards.
func (d Deck) Len() int {
	return len(d.Cards)
}
