package mdfs

import (
	"fmt"
	"io"
	"sort"
)

// RunSimulation prints a human-readable timeline of a compiled chart's notes
// and BGM events to w, one line per distinct time point, for manual chart
// review without a full game runtime. Supplements the compiler proper; it
// performs no validation of its own.
func RunSimulation(w io.Writer, chart *MdfChart) error {
	timeSet := make(map[uint64]struct{})

	for _, n := range chart.Notes {
		timeSet[n.TimeUs] = struct{}{}
		if n.Kind.isHold() {
			timeSet[n.Kind.EndTimeUs] = struct{}{}
		}
		if n.Kind.Tag == NoteMSS || n.Kind.Tag == NoteHMSS {
			for _, cp := range n.Kind.ReverseCheckpointsUs {
				timeSet[cp] = struct{}{}
			}
		}
	}
	for _, ve := range chart.VisualEvents {
		timeSet[ve.TimeUs] = struct{}{}
	}
	for _, be := range chart.BgmEvents {
		timeSet[be.TimeUs] = struct{}{}
	}

	if len(timeSet) == 0 {
		_, err := fmt.Fprintln(w, "Chart is empty.")
		return err
	}

	timePoints := make([]uint64, 0, len(timeSet))
	for t := range timeSet {
		timePoints = append(timePoints, t)
	}
	sort.Slice(timePoints, func(i, j int) bool { return timePoints[i] < timePoints[j] })

	fmt.Fprintf(w, "Simulation Start (%d us total)\n", chart.Meta.TotalDurationUs)
	fmt.Fprintln(w, "Time(us) | S 1 2 3 4 5 6 7 | Info")
	fmt.Fprintln(w, "---------|-----------------|------------------")

	holding := [8]bool{}

	for _, t := range timePoints {
		var infoParts []string
		for _, ve := range chart.VisualEvents {
			if ve.TimeUs == t {
				infoParts = append(infoParts, fmt.Sprintf("BPM: %.1f", ve.Bpm))
			}
		}

		laneChars := [8]byte{'.', '.', '.', '.', '.', '.', '.', '.'}
		for i, h := range holding {
			if h {
				laneChars[i] = '|'
			}
		}

		for _, n := range chart.Notes {
			if n.TimeUs == t {
				ch := simulateGlyph(n.Kind.Tag)
				laneChars[n.Col] = ch
				if n.Kind.isHold() {
					holding[n.Col] = true
				}
			}
			if n.Kind.isHold() && n.Kind.EndTimeUs == t {
				laneChars[n.Col] = '#'
				holding[n.Col] = false
			}
			if n.Kind.Tag == NoteMSS || n.Kind.Tag == NoteHMSS {
				for _, cp := range n.Kind.ReverseCheckpointsUs {
					if cp == t {
						laneChars[n.Col] = '!'
					}
				}
			}
		}

		bgmCount := 0
		for _, be := range chart.BgmEvents {
			if be.TimeUs == t {
				bgmCount++
			}
		}
		if bgmCount > 0 {
			infoParts = append(infoParts, fmt.Sprintf("BGM x%d", bgmCount))
		}

		laneStr := ""
		for i, c := range laneChars {
			if i > 0 {
				laneStr += " "
			}
			laneStr += string(c)
		}

		info := ""
		for i, p := range infoParts {
			if i > 0 {
				info += ", "
			}
			info += p
		}

		if _, err := fmt.Fprintf(w, "%-8d | %s | %s\n", t, laneStr, info); err != nil {
			return err
		}
	}

	return nil
}

func simulateGlyph(tag NoteKindTag) byte {
	switch tag {
	case NoteTap:
		return 'N'
	case NoteCN:
		return 'C'
	case NoteHCN:
		return 'H'
	case NoteBSS:
		return 'B'
	case NoteHBSS:
		return 'b'
	case NoteMSS:
		return 'M'
	case NoteHMSS:
		return 'm'
	default:
		return '?'
	}
}
