package deck

import "errors"

var (
	// ErrInvalidDeck is returned when a deck file is not valid YAML.
	ErrInvalidDeck = errors.New("invalid deck")

	// ErrEmptyDeck is returned when a deck has no cards.
	ErrEmptyDeck = errors.New("deck has no cards")

	// ErrInvalidCard is returned for a card missing required fields.
	ErrInvalidCard = errors.New("invalid card")

	// ErrDuplicateID is returned when two cards share an id.
	ErrDuplicateID = errors.New("duplicate card id")
)
