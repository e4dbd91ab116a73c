package speech

// Default prosody applied when Options leaves a field unset.
const (
	DefaultRate   = 0.95
	DefaultPitch  = 1.0
	DefaultVolume = 1.0
)

// Options overrides prosody for one sequence. A nil field keeps its default,
// so a zero volume can still be requested explicitly.
type Options struct {
	Rate   *float64 // Speech speed multiplier
	Pitch  *float64 // Pitch multiplier
	Volume *float64 // Volume level (0.0 to 1.0)
}

// Prosody is the resolved set of parameters carried by every utterance.
type Prosody struct {
	Rate   float64
	Pitch  float64
	Volume float64
}

// Float returns a pointer to v, for filling Options literals.
func Float(v float64) *float64 {
	return &v
}

// Prosody resolves the options against the defaults.
func (o Options) Prosody() Prosody {
	p := Prosody{
		Rate:   DefaultRate,
		Pitch:  DefaultPitch,
		Volume: DefaultVolume,
	}
	if o.Rate != nil {
		p.Rate = *o.Rate
	}
	if o.Pitch != nil {
		p.Pitch = *o.Pitch
	}
	if o.Volume != nil {
		p.Volume = *o.Volume
	}
	return p
}

// Utterance is one unit of text handed to the host playback queue.
type Utterance struct {
	Text   string
	Voice  *Voice // nil lets the host use its default voice
	Lang   string
	Rate   float64
	Pitch  float64
	Volume float64
}
