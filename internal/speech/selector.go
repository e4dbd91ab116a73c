package speech

import (
	"strings"
)

// candidate is a voice with its normalized tag and name, computed once.
type candidate struct {
	voice Voice
	lang  string
	name  string
}

func newCandidate(v Voice) candidate {
	return candidate{
		voice: v,
		lang:  normalizeTag(v.Lang),
		name:  strings.ToLower(strings.TrimSpace(v.Name)),
	}
}

func (c candidate) nameHas(words ...string) bool {
	for _, w := range words {
		if strings.Contains(c.name, w) {
			return true
		}
	}
	return false
}

// signal contributes one independent term to a Mandarin score.
type signal struct {
	name  string
	score func(c candidate) int
}

// when builds a signal that adds weight if pred holds.
func when(name string, weight int, pred func(c candidate) bool) signal {
	return signal{name: name, score: func(c candidate) int {
		if pred(c) {
			return weight
		}
		return 0
	}}
}

// tagTiers ranks exact tags by regional preference; the first match wins.
var tagTiers = []struct {
	tag   string
	score int
}{
	{"cmn-hans-cn", 110},
	{"zh-cn", 105},
	{"zh-hans-cn", 103},
	{"cmn-hans", 95},
	{"zh-hans", 92},
	{"cmn", 90},
	{"zh", 80},
}

func tagTier(c candidate) int {
	for _, t := range tagTiers {
		if c.lang == t.tag {
			return t.score
		}
	}
	switch {
	case strings.HasPrefix(c.lang, "cmn-"):
		return 70
	case strings.HasPrefix(c.lang, "zh-"):
		return 60
	}
	return 0
}

var mandarinSignals = []signal{
	{name: "tag", score: tagTier},
	when("default", 2, func(c candidate) bool { return c.voice.Default }),
	when("local", 1, func(c candidate) bool { return c.voice.LocalService }),
	when("mandarin", 8, func(c candidate) bool {
		return c.nameHas("mandarin", "putonghua", "普通话", "国语")
	}),
	when("beijing", 4, func(c candidate) bool { return c.nameHas("beijing", "北京") }),
	when("mainland", 3, func(c candidate) bool {
		return c.nameHas("china", "mainland", "中国", "大陆")
	}),
	when("taiwan", -12, func(c candidate) bool {
		return c.lang == "zh-tw" || c.nameHas("taiwan", "台湾")
	}),
	when("hong kong", -12, func(c candidate) bool {
		return c.lang == "zh-hk" || c.nameHas("hong kong", "hongkong", "香港")
	}),
	when("cantonese", -18, func(c candidate) bool {
		return c.nameHas("cantonese", "粤") || strings.HasPrefix(c.lang, "yue")
	}),
}

func isMandarinFamily(lang string) bool {
	return lang == "zh" || strings.HasPrefix(lang, "zh-") ||
		lang == "cmn" || strings.HasPrefix(lang, "cmn-")
}

func scoreCandidate(c candidate) int {
	total := 0
	for _, s := range mandarinSignals {
		total += s.score(c)
	}
	return total
}

// ScoreMandarin returns the ranking score of v as a Mandarin voice.
// The second result is false when v is not a Chinese-family voice at all.
func ScoreMandarin(v Voice) (int, bool) {
	c := newCandidate(v)
	if !isMandarinFamily(c.lang) {
		return 0, false
	}
	return scoreCandidate(c), true
}

// PickMandarin returns the highest scoring Chinese-family voice.
// Ties keep the earlier voice.
func PickMandarin(voices []Voice) (Voice, bool) {
	var (
		best      Voice
		bestScore int
		found     bool
	)
	for _, v := range voices {
		score, ok := ScoreMandarin(v)
		if !ok {
			continue
		}
		if !found || score > bestScore {
			best, bestScore, found = v, score, true
		}
	}
	return best, found
}

// PickEnglish prefers en-US, then any regional English, then any English voice.
func PickEnglish(voices []Voice) (Voice, bool) {
	var english []Voice
	for _, v := range voices {
		if strings.HasPrefix(normalizeTag(v.Lang), "en") {
			english = append(english, v)
		}
	}
	for _, v := range english {
		if normalizeTag(v.Lang) == "en-us" {
			return v, true
		}
	}
	for _, v := range english {
		if strings.HasPrefix(normalizeTag(v.Lang), "en-") {
			return v, true
		}
	}
	if len(english) > 0 {
		return english[0], true
	}
	return Voice{}, false
}

// PickVoice dispatches to the selection strategy of the family.
func PickVoice(family Family, voices []Voice) (Voice, bool) {
	if family == English {
		return PickEnglish(voices)
	}
	return PickMandarin(voices)
}
