package mdfs

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MdfChart is the final compiled chart.
type MdfChart struct {
	Meta         Metadata          `json:"meta"`
	Resources    map[string]string `json:"resources"`
	VisualEvents []VisualEvent     `json:"visual_events"`
	SpeedEvents  []SpeedEvent      `json:"speed_events"`
	Notes        []Note            `json:"notes"`
	BgmEvents    []BgmEvent        `json:"bgm_events"`
}

// MarshalIndent renders the chart as pretty-printed JSON, the format the CLI
// writes to disk.
func (c *MdfChart) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// UnmarshalChart parses MDF JSON back into an MdfChart (used by the
// simulate CLI verb when handed an already-compiled chart).
func UnmarshalChart(data []byte) (*MdfChart, error) {
	var c MdfChart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Metadata is MdfChart's header.
type Metadata struct {
	Title           string   `json:"title"`
	Artist          string   `json:"artist"`
	Version         string   `json:"version"`
	TotalDurationUs uint64   `json:"total_duration_us"`
	Tags            []string `json:"tags"`
}

// VisualEvent and SpeedEvent are emitted empty by this core but must be
// present in the wire format.
type VisualEvent struct {
	TimeUs        uint64  `json:"time_us"`
	Bpm           float64 `json:"bpm"`
	IsMeasureLine bool    `json:"is_measure_line"`
	BeatN         uint32  `json:"beat_n"`
	BeatD         uint32  `json:"beat_d"`
}

type SpeedEvent struct {
	TimeUs     uint64  `json:"time_us"`
	ScrollRate float64 `json:"scroll_rate"`
}

// NoteKindTag discriminates the seven NoteKind variants by their wire tag.
type NoteKindTag string

const (
	NoteTap  NoteKindTag = "tap"
	NoteCN   NoteKindTag = "cn"
	NoteHCN  NoteKindTag = "hcn"
	NoteBSS  NoteKindTag = "bss"
	NoteHBSS NoteKindTag = "hbss"
	NoteMSS  NoteKindTag = "mss"
	NoteHMSS NoteKindTag = "hmss"
)

// NoteKind is a tagged union: Tap carries no extra data, the hold kinds carry
// EndTimeUs, and the multi-spin scratch kinds (mss/hmss) additionally carry
// ReverseCheckpointsUs. Only the fields relevant to Tag are meaningful.
type NoteKind struct {
	Tag                  NoteKindTag
	EndTimeUs            uint64
	ReverseCheckpointsUs []uint64
}

func (k NoteKind) isHold() bool {
	return k.Tag != NoteTap
}

// Note is a single playable event.
type Note struct {
	TimeUs  uint64
	Col     uint8
	Kind    NoteKind
	SoundID *string
}

// noteWire is the flattened JSON shape: Note's fields plus NoteKind's, with
// "type" as the discriminator, mirroring #[serde(tag = "type")].
// EndTimeUs/ReverseCheckpointsUs use omitempty for decode-side leniency, but
// MarshalJSON below always supplies them explicitly for the variants that
// carry them so an emitted mss/hmss note always has an array (possibly
// empty), never a missing field.
type noteWire struct {
	TimeUs               uint64      `json:"time_us"`
	Col                  uint8       `json:"col"`
	Type                 NoteKindTag `json:"type"`
	EndTimeUs            *uint64     `json:"end_time_us,omitempty"`
	ReverseCheckpointsUs []uint64    `json:"reverse_checkpoints_us,omitempty"`
	SoundID              *string     `json:"sound_id"`
}

// MarshalJSON implements the tagged-union wire format: the "type" field sits
// inline with time_us/col/sound_id rather than nested.
func (n Note) MarshalJSON() ([]byte, error) {
	w := noteWire{
		TimeUs:  n.TimeUs,
		Col:     n.Col,
		Type:    n.Kind.Tag,
		SoundID: n.SoundID,
	}
	if n.Kind.isHold() {
		end := n.Kind.EndTimeUs
		w.EndTimeUs = &end
	}
	if n.Kind.Tag == NoteMSS || n.Kind.Tag == NoteHMSS {
		cps := n.Kind.ReverseCheckpointsUs
		if cps == nil {
			cps = []uint64{}
		}
		return json.Marshal(struct {
			TimeUs               uint64      `json:"time_us"`
			Col                  uint8       `json:"col"`
			Type                 NoteKindTag `json:"type"`
			EndTimeUs            uint64      `json:"end_time_us"`
			ReverseCheckpointsUs []uint64    `json:"reverse_checkpoints_us"`
			SoundID              *string     `json:"sound_id"`
		}{n.TimeUs, n.Col, n.Kind.Tag, *w.EndTimeUs, cps, n.SoundID})
	}
	return json.Marshal(w)
}

// UnmarshalJSON accepts an absent reverse_checkpoints_us as empty.
func (n *Note) UnmarshalJSON(data []byte) error {
	var w noteWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	n.TimeUs = w.TimeUs
	n.Col = w.Col
	n.SoundID = w.SoundID
	n.Kind = NoteKind{Tag: w.Type}
	switch w.Type {
	case NoteTap:
	case NoteCN, NoteHCN, NoteBSS, NoteHBSS, NoteMSS, NoteHMSS:
		if w.EndTimeUs == nil {
			return fmt.Errorf("note type %q missing end_time_us", w.Type)
		}
		n.Kind.EndTimeUs = *w.EndTimeUs
		if w.Type == NoteMSS || w.Type == NoteHMSS {
			n.Kind.ReverseCheckpointsUs = w.ReverseCheckpointsUs
		}
	default:
		return fmt.Errorf("unknown note type %q", w.Type)
	}
	return nil
}

// BgmEvent is a background-sound trigger.
type BgmEvent struct {
	TimeUs  uint64 `json:"time_us"`
	SoundID string `json:"sound_id"`
}
