package speech

import (
	"strings"
)

// Voice is a snapshot of one voice reported by the host.
type Voice struct {
	ID           string // Host-specific identifier used to address the voice
	Name         string // Human-readable name
	Lang         string // Language tag (e.g., "zh-CN")
	Default      bool   // Host marks this as its default voice
	LocalService bool   // Synthesized on the device rather than over the network
}

// Family is the language grouping a sequence is spoken in.
type Family int

const (
	// Mandarin selects Chinese voices through scored ranking.
	Mandarin Family = iota
	// English selects English voices through a priority chain.
	English
)

// String returns the family name.
func (f Family) String() string {
	switch f {
	case Mandarin:
		return "mandarin"
	case English:
		return "english"
	default:
		return "unknown"
	}
}

// FallbackLang returns the tag put on utterances when no voice matched.
func (f Family) FallbackLang() string {
	if f == English {
		return "en-US"
	}
	return "zh-CN"
}

// ParseFamily maps user input such as "zh", "cmn", "en" to a Family.
func ParseFamily(s string) (Family, bool) {
	switch normalizeTag(s) {
	case "zh", "cmn", "mandarin", "chinese":
		return Mandarin, true
	case "en", "english":
		return English, true
	default:
		return Mandarin, false
	}
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}
