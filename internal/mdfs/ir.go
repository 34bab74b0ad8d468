package mdfs

// Meta is the parsed header portion of an .mdfs source file.
type Meta struct {
	Title             *string
	Artist            *string
	Version           *string
	Tags              []string
	SoundManifest     *string
	SoundManifestLine int
}

// ParsedSource is the flat intermediate representation produced by the
// parser: a header plus an ordered track.
type ParsedSource struct {
	Meta     Meta
	MetaLine int
	Track    []TrackLine
}

// TrackLineKind discriminates the two TrackLine variants.
type TrackLineKind int

const (
	TrackLineDirective TrackLineKind = iota
	TrackLineStep
)

// DirectiveKind discriminates the two track directives.
type DirectiveKind int

const (
	DirectiveBpm DirectiveKind = iota
	DirectiveDiv
)

// Directive is a @bpm/@div track directive.
type Directive struct {
	Kind DirectiveKind
	Bpm  float64
	Div  uint32
}

// RevSpec carries the optional @rev_every/@rev_at tail of an MSS/HMSS
// start line.
type RevSpec struct {
	Every *int
	At    []int
}

func (r RevSpec) IsEmpty() bool {
	return r.Every == nil && len(r.At) == 0
}

// SoundSpecKind discriminates the three SoundSpec variants.
type SoundSpecKind int

const (
	SoundSpecNone SoundSpecKind = iota
	SoundSpecSingle
	SoundSpecPerLane
)

// SoundSpec is the tail-colon sound specification on a step line.
type SoundSpec struct {
	Kind    SoundSpecKind
	Single  string
	PerLane [8]*string
}

// TrackLine is a tagged variant: either a Directive or a Step. Exactly one
// of the Directive/Step-specific fields is meaningful, selected by Kind.
type TrackLine struct {
	Kind TrackLineKind
	Line int

	// Directive variant
	Directive Directive

	// Step variant
	Cells [8]byte
	Sound SoundSpec
	Rev   RevSpec
}
