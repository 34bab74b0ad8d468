package mdfs

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunSimulationEmptyChart(t *testing.T) {
	var buf bytes.Buffer
	chart := &MdfChart{}
	require.NoError(t, RunSimulation(&buf, chart))
	require.Equal(t, "Chart is empty.\n", buf.String())
}

func TestRunSimulationPrintsNotesAndBgm(t *testing.T) {
	var buf bytes.Buffer
	chart := &MdfChart{
		Meta: Metadata{TotalDurationUs: 1000},
		Notes: []Note{
			{TimeUs: 0, Col: 2, Kind: NoteKind{Tag: NoteTap}},
			{TimeUs: 500, Col: 0, Kind: NoteKind{Tag: NoteMSS, EndTimeUs: 1000, ReverseCheckpointsUs: []uint64{750}}},
		},
		BgmEvents: []BgmEvent{{TimeUs: 0, SoundID: "SE1"}},
	}
	require.NoError(t, RunSimulation(&buf, chart))
	out := buf.String()
	require.True(t, strings.Contains(out, "Simulation Start (1000 us total)"))
	require.True(t, strings.Contains(out, "BGM x1"))
}
