package main

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/dgnsrekt/cardvoice/internal/speech"
	"github.com/dustin/go-humanize/english"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const (
	nameColumnWidth     = 32
	tagColumnWidth      = 12
	languageColumnWidth = 26
)

var (
	voicesLang  string
	voicesMatch string

	voicesCmd = &cobra.Command{
		Use:     "voices",
		Short:   "List the voices the host offers",
		Long:    paragraph(fmt.Sprintf("\n%s the voice catalog, waiting briefly for hosts that load it late. Mandarin candidates show their ranking score and the voice that would be picked is marked.", keyword("List"))),
		Example: paragraph("cardvoice voices\ncardvoice voices --lang zh\ncardvoice voices --match google"),
		Args:    cobra.NoArgs,
		RunE:    runVoices,
	}
)

func init() {
	voicesCmd.Flags().StringVarP(&voicesLang, "lang", "l", "", "only list zh or en voices")
	voicesCmd.Flags().StringVarP(&voicesMatch, "match", "m", "", "fuzzy filter on voice names")
}

func runVoices(cmd *cobra.Command, _ []string) error {
	var family *speech.Family
	if voicesLang != "" {
		f, ok := speech.ParseFamily(voicesLang)
		if !ok {
			return fmt.Errorf("unknown language %q: use zh or en", voicesLang)
		}
		family = &f
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	host, err := newHost(cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer func() { _ = host.Close() }()

	if !host.Available() {
		return nil
	}

	resolver := speech.NewCatalogResolver(host, cfg.Speech.PollInterval)
	voices := resolver.Resolve(cmd.Context(), cfg.Speech.ResolveTimeout)

	rows := buildVoiceRows(voices, family, voicesMatch)
	styled := term.IsTerminal(int(os.Stdout.Fd())) //nolint:gosec
	fmt.Fprint(cmd.OutOrStdout(), renderVoiceRows(rows, styled))
	fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", english.Plural(len(rows), "voice", ""))
	return nil
}

// voiceRow is one line of the voices table.
type voiceRow struct {
	voice    speech.Voice
	language string
	score    int
	scored   bool
	picked   bool
}

// buildVoiceRows filters the catalog and marks the voices the selector picks.
// Mandarin listings are ordered by score, highest first.
func buildVoiceRows(voices []speech.Voice, family *speech.Family, match string) []voiceRow {
	picked := make(map[speech.Voice]bool)
	for _, f := range []speech.Family{speech.Mandarin, speech.English} {
		if v, ok := speech.PickVoice(f, voices); ok {
			picked[v] = true
		}
	}

	var rows []voiceRow
	for _, v := range voices {
		score, scored := speech.ScoreMandarin(v)
		if family != nil {
			switch *family {
			case speech.Mandarin:
				if !scored {
					continue
				}
			case speech.English:
				if !strings.HasPrefix(strings.ToLower(v.Lang), "en") {
					continue
				}
			}
		}
		rows = append(rows, voiceRow{
			voice:    v,
			language: languageName(v.Lang),
			score:    score,
			scored:   scored,
			picked:   picked[v],
		})
	}

	if match != "" {
		names := make([]string, len(rows))
		for i, r := range rows {
			names[i] = r.voice.Name
		}
		keep := make(map[int]bool)
		for _, m := range fuzzy.Find(match, names) {
			keep[m.Index] = true
		}
		filtered := rows[:0]
		for i, r := range rows {
			if keep[i] {
				filtered = append(filtered, r)
			}
		}
		rows = filtered
	}

	if family != nil && *family == speech.Mandarin {
		slices.SortStableFunc(rows, func(a, b voiceRow) int {
			return b.score - a.score
		})
	}
	return rows
}

// languageName returns the English display name of a language tag, such as
// "Chinese (China)" for zh-CN, or "" when the tag does not parse.
func languageName(tag string) string {
	t, err := language.Parse(tag)
	if err != nil {
		return ""
	}
	return display.English.Tags().Name(t)
}

func renderVoiceRows(rows []voiceRow, styled bool) string {
	var b strings.Builder

	header := "  " + cell("NAME", nameColumnWidth) + cell("TAG", tagColumnWidth) + cell("LANGUAGE", languageColumnWidth) + "SCORE"
	if styled {
		header = headerStyle.Render(header)
	}
	b.WriteString(header + "\n")

	for _, r := range rows {
		mark := "  "
		if r.picked {
			mark = "* "
		}
		score := "-"
		if r.scored {
			score = strconv.Itoa(r.score)
		}

		line := mark + cell(r.voice.Name, nameColumnWidth) + cell(r.voice.Lang, tagColumnWidth) + cell(r.language, languageColumnWidth) + score
		if styled {
			switch {
			case r.picked:
				line = pickedStyle.Render(line)
			case !r.voice.LocalService:
				line = dimStyle.Render(line)
			}
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// cell truncates s to fit width display columns, leaving one for spacing,
// and pads it. Wide CJK characters count twice.
func cell(s string, width int) string {
	s = truncate.StringWithTail(s, uint(width-1), "…") //nolint:gosec
	return runewidth.FillRight(s, width)
}
