package main

import (
	"strings"
	"testing"

	"github.com/dgnsrekt/cardvoice/internal/speech"
	"github.com/dgnsrekt/cardvoice/internal/speech/hosts/mock"
	runewidth "github.com/mattn/go-runewidth"
)

func familyPtr(f speech.Family) *speech.Family { return &f }

func TestBuildVoiceRowsMandarin(t *testing.T) {
	rows := buildVoiceRows(mock.DefaultVoices(), familyPtr(speech.Mandarin), "")

	// Mei-Jia, Sin-ji, Ting-Ting, both Google voices.
	if len(rows) != 5 {
		t.Fatalf("Expected 5 Mandarin candidates, got %d", len(rows))
	}
	if rows[0].voice.ID != "google-putonghua" || !rows[0].picked {
		t.Errorf("Expected picked google-putonghua first, got %+v", rows[0])
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].score > rows[i-1].score {
			t.Errorf("Expected descending scores, got %d after %d", rows[i].score, rows[i-1].score)
		}
		if rows[i].picked {
			t.Errorf("Expected only one picked Mandarin voice, got %s", rows[i].voice.Name)
		}
	}
}

func TestBuildVoiceRowsEnglish(t *testing.T) {
	rows := buildVoiceRows(mock.DefaultVoices(), familyPtr(speech.English), "")

	if len(rows) != 2 {
		t.Fatalf("Expected 2 English voices, got %d", len(rows))
	}
	if rows[0].voice.Name != "Samantha" || !rows[0].picked {
		t.Errorf("Expected Samantha picked, got %+v", rows[0])
	}
	if rows[1].picked || rows[1].scored {
		t.Errorf("Expected Daniel unpicked and unscored, got %+v", rows[1])
	}
}

func TestBuildVoiceRowsAll(t *testing.T) {
	rows := buildVoiceRows(mock.DefaultVoices(), nil, "")

	if len(rows) != len(mock.DefaultVoices()) {
		t.Fatalf("Expected every voice, got %d", len(rows))
	}
	picked := 0
	for i, r := range rows {
		if r.voice != mock.DefaultVoices()[i] {
			t.Errorf("Expected catalog order at %d, got %s", i, r.voice.Name)
		}
		if r.picked {
			picked++
		}
	}
	if picked != 2 {
		t.Errorf("Expected one pick per family, got %d", picked)
	}
}

func TestBuildVoiceRowsMatch(t *testing.T) {
	rows := buildVoiceRows(mock.DefaultVoices(), nil, "goog")

	if len(rows) != 2 {
		t.Fatalf("Expected both Google voices, got %d", len(rows))
	}
	for _, r := range rows {
		if !strings.HasPrefix(r.voice.Name, "Google") {
			t.Errorf("Unexpected match %s", r.voice.Name)
		}
	}

	if rows := buildVoiceRows(mock.DefaultVoices(), nil, "zzz"); len(rows) != 0 {
		t.Errorf("Expected no matches, got %d", len(rows))
	}
}

func TestLanguageName(t *testing.T) {
	if name := languageName("zh-CN"); !strings.Contains(name, "Chinese") {
		t.Errorf("Expected a Chinese language name, got %q", name)
	}
	if name := languageName("not a tag!"); name != "" {
		t.Errorf("Expected empty name for invalid tag, got %q", name)
	}
}

func TestRenderVoiceRows(t *testing.T) {
	rows := buildVoiceRows(mock.DefaultVoices(), familyPtr(speech.Mandarin), "")
	out := renderVoiceRows(rows, false)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	if len(lines) != len(rows)+1 {
		t.Fatalf("Expected header plus %d rows, got %d lines", len(rows), len(lines))
	}
	if !strings.HasPrefix(lines[0], "  NAME") {
		t.Errorf("Unexpected header: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "* Google") || !strings.HasSuffix(lines[1], "116") {
		t.Errorf("Expected picked row with score, got %q", lines[1])
	}

	// Columns line up even with wide characters.
	scoreColumn := 2 + nameColumnWidth + tagColumnWidth + languageColumnWidth
	for _, line := range lines[1:] {
		if w := runewidth.StringWidth(line); w < scoreColumn {
			t.Errorf("Expected score column at %d, line %q is %d wide", scoreColumn, line, w)
		}
	}
}

func TestCellTruncates(t *testing.T) {
	got := cell("A very long voice name that keeps going", 12)
	if runewidth.StringWidth(got) != 12 {
		t.Errorf("Expected width 12, got %d (%q)", runewidth.StringWidth(got), got)
	}
	if !strings.Contains(got, "…") {
		t.Errorf("Expected ellipsis, got %q", got)
	}
}
