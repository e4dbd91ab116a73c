package main

import (
	"fmt"

	"github.com/dgnsrekt/cardvoice/internal/config"
	"github.com/dgnsrekt/cardvoice/internal/speech"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	sayLang   string
	sayRate   float64
	sayPitch  float64
	sayVolume float64

	sayCmd = &cobra.Command{
		Use:     "say [flags] TEXT...",
		Short:   "Speak texts in order",
		Long:    paragraph(fmt.Sprintf("\n%s each text in order with the best Mandarin or English voice. Blank texts are skipped.", keyword("Speak"))),
		Example: paragraph("cardvoice say 你好 再见\ncardvoice say --lang en --rate 0.8 hello goodbye"),
		Args:    cobra.MinimumNArgs(1),
		RunE:    runSay,
	}
)

func init() {
	sayCmd.Flags().StringVarP(&sayLang, "lang", "l", "zh", "language family: zh or en")
	addProsodyFlags(sayCmd.Flags(), &sayRate, &sayPitch, &sayVolume)
}

// addProsodyFlags registers --rate, --pitch and --volume. They only override
// the configuration when given on the command line.
func addProsodyFlags(flags *pflag.FlagSet, rate, pitch, volume *float64) {
	flags.Float64Var(rate, "rate", speech.DefaultRate, "speech rate multiplier")
	flags.Float64Var(pitch, "pitch", speech.DefaultPitch, "pitch multiplier")
	flags.Float64Var(volume, "volume", speech.DefaultVolume, "volume level (0.0 to 1.0)")
}

// prosodyOptions merges the configured prosody with the flags that were set.
func prosodyOptions(flags *pflag.FlagSet, cfg config.Config) speech.Options {
	opts := cfg.SpeechOptions()
	if flags.Changed("rate") {
		opts.Rate = speech.Float(mustFloat(flags, "rate"))
	}
	if flags.Changed("pitch") {
		opts.Pitch = speech.Float(mustFloat(flags, "pitch"))
	}
	if flags.Changed("volume") {
		opts.Volume = speech.Float(mustFloat(flags, "volume"))
	}
	return opts
}

func mustFloat(flags *pflag.FlagSet, name string) float64 {
	v, _ := flags.GetFloat64(name)
	return v
}

func runSay(cmd *cobra.Command, args []string) error {
	family, ok := speech.ParseFamily(sayLang)
	if !ok {
		return fmt.Errorf("unknown language %q: use zh or en", sayLang)
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

	ctx := cmd.Context()
	seq := speech.NewSequencer(host, cfg.SequencerConfig())
	defer seq.Stop()

	if err := seq.Speak(ctx, args, family, prosodyOptions(cmd.Flags(), cfg)); err != nil {
		return fmt.Errorf("unable to speak: %w", err)
	}
	if err := host.Drain(ctx); err != nil {
		return fmt.Errorf("playback interrupted: %w", err)
	}
	return nil
}
