package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/cardvoice/internal/deck"
	"github.com/dgnsrekt/cardvoice/internal/speech"
	"github.com/dustin/go-humanize/english"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"golang.org/x/time/rate"
)

var (
	deckUnits    []int
	deckEnglish  bool
	deckInterval time.Duration
	deckRate     float64
	deckPitch    float64
	deckVolume   float64

	deckCmd = &cobra.Command{
		Use:     "deck [FILE]",
		Short:   "Play a flashcard deck",
		Long:    paragraph(fmt.Sprintf("\n%s every card of a deck: the hanzi in Mandarin, then optionally the English gloss. Without FILE the built-in primer is used.", keyword("Play"))),
		Example: paragraph("cardvoice deck\ncardvoice deck --unit 1 --unit 2 --english\ncardvoice deck ~/decks/hsk1.yml --interval 3s"),
		Args:    cobra.MaximumNArgs(1),
		RunE:    runDeck,
	}
)

func init() {
	deckCmd.Flags().IntSliceVarP(&deckUnits, "unit", "u", nil, "only play these units (repeatable)")
	deckCmd.Flags().BoolVarP(&deckEnglish, "english", "e", false, "speak the English gloss after each card")
	deckCmd.Flags().DurationVarP(&deckInterval, "interval", "i", 0, "minimum time between cards")
	addProsodyFlags(deckCmd.Flags(), &deckRate, &deckPitch, &deckVolume)
}

func runDeck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := cfg.Deck.Path
	if len(args) == 1 {
		path = args[0]
	}
	units := cfg.Deck.Units
	if cmd.Flags().Changed("unit") {
		units = deckUnits
	}
	interval := cfg.Deck.Interval
	if cmd.Flags().Changed("interval") {
		interval = deckInterval
	}
	withEnglish := cfg.Deck.English
	if cmd.Flags().Changed("english") {
		withEnglish = deckEnglish
	}

	d := deck.Builtin()
	if path != "" {
		if d, err = deck.Load(path); err != nil {
			return fmt.Errorf("unable to load deck: %w", err)
		}
	}
	d = d.Filter(units...)
	if d.Len() == 0 {
		return fmt.Errorf("no cards in units %v", units)
	}

	host, err := newHost(cfg, io.Discard)
	if err != nil {
		return err
	}
	defer func() { _ = host.Close() }()

	seq := speech.NewSequencer(host, cfg.SequencerConfig())
	defer seq.Stop()

	player := &deckPlayer{
		host:    host,
		seq:     seq,
		opts:    prosodyOptions(cmd.Flags(), cfg),
		english: withEnglish,
		limiter: newCardLimiter(interval),
		out:     cmd.OutOrStdout(),
		styled:  term.IsTerminal(int(os.Stdout.Fd())), //nolint:gosec
	}

	log.Info("Playing deck", "name", d.Name, "cards", d.Len(), "units", units)
	played, err := player.play(cmd.Context(), d)
	fmt.Fprintf(cmd.OutOrStdout(), "\nPlayed %s\n", english.Plural(played, "card", ""))
	return err
}

// newCardLimiter allows one card per interval. A zero interval never waits.
func newCardLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// drainer waits for queued utterances to be spoken.
type drainer interface {
	Drain(ctx context.Context) error
}

// deckPlayer speaks cards one at a time. Every sequence is awaited and
// drained before the next one starts, so a card is never cut off by the
// following one.
type deckPlayer struct {
	host    drainer
	seq     *speech.Sequencer
	opts    speech.Options
	english bool
	limiter *rate.Limiter
	out     io.Writer
	styled  bool
}

func (p *deckPlayer) play(ctx context.Context, d deck.Deck) (int, error) {
	played := 0
	for i, card := range d.Cards {
		if err := p.limiter.Wait(ctx); err != nil {
			return played, err
		}

		fmt.Fprintln(p.out, formatCard(i+1, d.Len(), card, p.styled))

		if err := p.speak(ctx, card.Hanzi, speech.Mandarin); err != nil {
			return played, err
		}
		if p.english && card.English != "" {
			if err := p.speak(ctx, card.English, speech.English); err != nil {
				return played, err
			}
		}
		played++
	}
	return played, nil
}

func (p *deckPlayer) speak(ctx context.Context, text string, family speech.Family) error {
	if err := p.seq.Speak(ctx, []string{text}, family, p.opts); err != nil {
		return fmt.Errorf("unable to speak %q: %w", text, err)
	}
	return p.host.Drain(ctx)
}

func formatCard(n, total int, c deck.Card, styled bool) string {
	counter := fmt.Sprintf("%*d/%d", len(fmt.Sprint(total)), n, total)
	hanzi := runewidth.FillRight(c.Hanzi, 6)
	pinyin := runewidth.FillRight(c.Pinyin, 10)
	if styled {
		counter = dimStyle.Render(counter)
		hanzi = hanziStyle.Render(hanzi)
	}
	return fmt.Sprintf("%s  %s %s %s", counter, hanzi, pinyin, c.English)
}
