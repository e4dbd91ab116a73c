package espeak

import (
	"math"
	"strconv"

	"github.com/dgnsrekt/cardvoice/internal/speech"
)

// espeak-ng speaks 175 words per minute at its default speed.
const baseWordsPerMinute = 175

func clampRound(v float64, lo, hi int) int {
	n := int(math.Round(v))
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// prosodyArgs maps the multipliers of an utterance onto espeak-ng flags.
func prosodyArgs(u speech.Utterance) []string {
	return []string{
		"-s", strconv.Itoa(clampRound(baseWordsPerMinute*u.Rate, 80, 450)),
		"-p", strconv.Itoa(clampRound(50*u.Pitch, 0, 99)),
		"-a", strconv.Itoa(clampRound(100*u.Volume, 0, 200)),
	}
}

// voiceArg picks the -v value: the chosen voice, else the utterance language.
func voiceArg(u speech.Utterance) string {
	if u.Voice != nil && u.Voice.ID != "" {
		return u.Voice.ID
	}
	return normalizeLang(u.Lang)
}
