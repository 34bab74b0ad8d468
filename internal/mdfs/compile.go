package mdfs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// CompileOptions controls how relative paths (e.g. @sound_manifest) are
// resolved.
type CompileOptions struct {
	// BaseDir is the directory relative paths resolve against.
	// CompileFile sets this automatically to the input file's parent
	// directory; CompileString leaves it empty.
	BaseDir string
}

// CompileFile compiles an .mdfs file on disk into an MdfChart.
func CompileFile(path string) (chart *MdfChart, cErr *CompileError) {
	defer func() {
		if r := recover(); r != nil {
			cErr = newError("E1101", fmt.Sprintf("internal compiler error: %v", r), 0).WithFile(path)
			chart = nil
		}
	}()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newError("E2001", "failed to read input .mdfs: "+err.Error(), 0).WithFile(path)
	}

	return compileSource(string(data), CompileOptions{BaseDir: filepath.Dir(path)})
}

// CompileString compiles .mdfs source text with default options.
func CompileString(src string) (*MdfChart, *CompileError) {
	return CompileStringWithOptions(src, CompileOptions{})
}

// CompileStringWithOptions compiles .mdfs source text with explicit options.
func CompileStringWithOptions(src string, opts CompileOptions) (chart *MdfChart, cErr *CompileError) {
	defer func() {
		if r := recover(); r != nil {
			cErr = newError("E1101", fmt.Sprintf("internal compiler error: %v", r), 0)
			chart = nil
		}
	}()
	return compileSource(src, opts)
}

// compileSource runs the full pipeline: parse, load resources, time-map,
// generate, assemble.
func compileSource(src string, opts CompileOptions) (*MdfChart, *CompileError) {
	parsed, cErr := parseSource(src)
	if cErr != nil {
		return nil, cErr
	}

	resources, cErr := loadResources(parsed, opts)
	if cErr != nil {
		return nil, cErr
	}

	stepTimes, cErr := pass1TimeMap(parsed.Track)
	if cErr != nil {
		return nil, cErr
	}

	notes, bgmEvents, cErr := pass2Generate(parsed.Track, stepTimes, resources)
	if cErr != nil {
		return nil, cErr
	}

	sort.SliceStable(notes, func(i, j int) bool { return notes[i].TimeUs < notes[j].TimeUs })
	sort.SliceStable(bgmEvents, func(i, j int) bool { return bgmEvents[i].TimeUs < bgmEvents[j].TimeUs })

	totalDurationUs := computeTotalDurationUs(notes, bgmEvents)

	if parsed.Meta.Title == nil {
		return nil, newError("E3201", "missing @title", parsed.MetaLine)
	}
	if parsed.Meta.Artist == nil {
		return nil, newError("E3202", "missing @artist", parsed.MetaLine)
	}
	if parsed.Meta.Version == nil {
		return nil, newError("E3203", "missing @version", parsed.MetaLine)
	}

	tags := parsed.Meta.Tags
	if tags == nil {
		tags = []string{}
	}

	meta := Metadata{
		Title:           *parsed.Meta.Title,
		Artist:          *parsed.Meta.Artist,
		Version:         *parsed.Meta.Version,
		Tags:            tags,
		TotalDurationUs: totalDurationUs,
	}

	if notes == nil {
		notes = []Note{}
	}
	if bgmEvents == nil {
		bgmEvents = []BgmEvent{}
	}

	return &MdfChart{
		Meta:         meta,
		Resources:    resources,
		VisualEvents: []VisualEvent{},
		SpeedEvents:  []SpeedEvent{},
		Notes:        notes,
		BgmEvents:    bgmEvents,
	}, nil
}
