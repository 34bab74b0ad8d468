package mdfs

import (
	"strconv"
	"strings"
	"unicode"
)

// parseSource tokenizes and parses MDFS source text into a ParsedSource.
// Line-oriented: inline comments are stripped, blank lines skipped,
// the body is split into header and track phases by the "track: |" sentinel.
func parseSource(src string) (*ParsedSource, *CompileError) {
	meta := Meta{}
	var track []TrackLine
	inTrack := false
	metaLine := 1

	lines := strings.Split(src, "\n")
	for i, raw := range lines {
		lineNo := i + 1
		line := stripInlineComment(raw)
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			continue
		}

		if !inTrack {
			if trimmed == "track: |" {
				inTrack = true
				metaLine = lineNo
				continue
			}

			if strings.HasPrefix(trimmed, "@") {
				if cErr := parseHeaderDirective(&meta, trimmed, lineNo); cErr != nil {
					return nil, cErr
				}
				continue
			}

			return nil, newError("E1101", "unexpected content before track: |", lineNo)
		}

		if strings.HasPrefix(trimmed, "@") {
			directiveName := strings.TrimPrefix(firstField(trimmed), "@")
			switch directiveName {
			case "title", "artist", "version", "tags", "sound_manifest":
				return nil, newError("E1006", "metadata directive not allowed inside track body: @"+directiveName, lineNo)
			}

			d, ok, cErr := parseTrackDirective(trimmed, lineNo)
			if cErr != nil {
				return nil, cErr
			}
			if ok {
				track = append(track, TrackLine{Kind: TrackLineDirective, Line: lineNo, Directive: d})
				continue
			}

			return nil, newError("E1006", "unknown directive: "+trimmed, lineNo)
		}

		step, cErr := parseStepLine(trimmed, lineNo)
		if cErr != nil {
			return nil, cErr
		}
		track = append(track, *step)
	}

	if !inTrack {
		return nil, newError("E1101", "missing track: |", 0)
	}

	return &ParsedSource{Meta: meta, MetaLine: metaLine, Track: track}, nil
}

func firstField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func parseHeaderDirective(meta *Meta, trimmed string, lineNo int) *CompileError {
	name, rest, cErr := splitDirective(trimmed, lineNo)
	if cErr != nil {
		return cErr
	}

	switch name {
	case "title":
		meta.Title = &rest
	case "artist":
		meta.Artist = &rest
	case "version":
		meta.Version = &rest
	case "tags":
		tags, cErr := parseTagsCsv(rest, lineNo)
		if cErr != nil {
			return cErr
		}
		meta.Tags = tags
	case "sound_manifest":
		if meta.SoundManifest != nil {
			return newError("E2004", "@sound_manifest specified multiple times", lineNo)
		}
		if rest == "" {
			return newError("E2001", "missing manifest path", lineNo)
		}
		meta.SoundManifest = &rest
		meta.SoundManifestLine = lineNo
	default:
		return newError("E1006", "unknown header directive: @"+name, lineNo)
	}
	return nil
}

func parseTrackDirective(trimmed string, lineNo int) (Directive, bool, *CompileError) {
	name, rest, cErr := splitDirective(trimmed, lineNo)
	if cErr != nil {
		return Directive{}, false, cErr
	}

	switch name {
	case "bpm":
		bpm, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return Directive{}, false, newError("E3003", "invalid @bpm", lineNo)
		}
		if !(bpm > 0) {
			return Directive{}, false, newError("E3003", "@bpm must be > 0", lineNo)
		}
		return Directive{Kind: DirectiveBpm, Bpm: bpm}, true, nil
	case "div":
		div, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return Directive{}, false, newError("E3004", "invalid @div", lineNo)
		}
		if div < 1 {
			return Directive{}, false, newError("E3004", "@div must be >= 1", lineNo)
		}
		return Directive{Kind: DirectiveDiv, Div: uint32(div)}, true, nil
	default:
		return Directive{}, false, nil
	}
}

func parseStepLine(trimmed string, lineNo int) (*TrackLine, *CompileError) {
	runes := []rune(trimmed)
	var cells [8]byte
	for idx := 0; idx < 8; idx++ {
		if idx >= len(runes) {
			return nil, newError("E1101", "step line must have 8 chars (context="+trimmed+")", lineNo).WithContext(trimmed)
		}
		cells[idx] = byte(runes[idx])
	}

	for idx := 0; idx < 8; idx++ {
		ch := cells[idx]
		switch ch {
		case '.', 'N', 'S', 'l', 'h', 'b', 'm', 'B', 'M', '!':
		default:
			return nil, newError("E4001",
				"undefined step char (lane="+strconv.Itoa(idx)+", char='"+string(ch)+"', context="+trimmed+")", lineNo).
				WithLane(uint8(idx)).WithContext(trimmed)
		}

		if idx != 0 && (ch == 'S' || ch == 'b' || ch == 'm' || ch == 'B' || ch == 'M') {
			return nil, newError("E4002",
				"scratch-only char used on non-scratch lane (lane="+strconv.Itoa(idx)+", char='"+string(ch)+"', context="+trimmed+")", lineNo).
				WithLane(uint8(idx)).WithContext(trimmed)
		}

		if idx != 0 && ch == '!' {
			return nil, newError("E4003",
				"'!' is only allowed on scratch lane (lane=0) (lane="+strconv.Itoa(idx)+", context="+trimmed+")", lineNo).
				WithLane(uint8(idx)).WithContext(trimmed)
		}

		if idx == 0 && (ch == 'l' || ch == 'h') {
			return nil, newError("E4001",
				"char not allowed on scratch lane (lane=0, char='"+string(ch)+"', context="+trimmed+")", lineNo).
				WithLane(0).WithContext(trimmed)
		}
	}

	tail := strings.TrimSpace(string(runes[8:]))
	sound, rev, cErr := parseStepTail(tail, trimmed, lineNo)
	if cErr != nil {
		return nil, cErr
	}

	return &TrackLine{Kind: TrackLineStep, Line: lineNo, Cells: cells, Sound: sound, Rev: rev}, nil
}

func parseStepTail(tail, contextLine string, lineNo int) (SoundSpec, RevSpec, *CompileError) {
	if tail == "" {
		return SoundSpec{Kind: SoundSpecNone}, RevSpec{}, nil
	}

	sound := SoundSpec{Kind: SoundSpecNone}
	var rev RevSpec

	rest := strings.TrimSpace(tail)
	if colonIdx := strings.Index(rest, ":"); colonIdx >= 0 {
		after := strings.TrimSpace(rest[colonIdx+1:])
		soundPart, revPart := splitSoundAndRev(after)
		s, cErr := parseSoundSpec(strings.TrimSpace(soundPart), contextLine, lineNo)
		if cErr != nil {
			return SoundSpec{}, RevSpec{}, cErr
		}
		sound = s
		rest = strings.TrimSpace(revPart)
	}

	if rest != "" {
		r, cErr := parseRevSpec(rest, contextLine, lineNo)
		if cErr != nil {
			return SoundSpec{}, RevSpec{}, cErr
		}
		rev = r
	}

	return sound, rev, nil
}

func splitSoundAndRev(afterColon string) (string, string) {
	revEvery := strings.Index(afterColon, "@rev_every")
	revAt := strings.Index(afterColon, "@rev_at")

	idx := -1
	switch {
	case revEvery >= 0 && revAt >= 0:
		idx = min(revEvery, revAt)
	case revEvery >= 0:
		idx = revEvery
	case revAt >= 0:
		idx = revAt
	}

	if idx < 0 {
		return afterColon, ""
	}
	return afterColon[:idx], afterColon[idx:]
}

func parseRevSpec(s, contextLine string, lineNo int) (RevSpec, *CompileError) {
	var spec RevSpec
	rest := strings.TrimSpace(s)

	for rest != "" {
		if after, ok := cutPrefix(rest, "@rev_every"); ok {
			rest = strings.TrimLeft(after, " \t")
			tok, next := splitFirstToken(rest)
			n, err := strconv.Atoi(tok)
			if err != nil {
				return RevSpec{}, newError("E1005", "invalid @rev_every (context="+contextLine+")", lineNo).WithContext(contextLine)
			}
			if n < 1 {
				return RevSpec{}, newError("E1005", "@rev_every must be >= 1 (context="+contextLine+")", lineNo).WithContext(contextLine)
			}
			v := n
			spec.Every = &v
			rest = strings.TrimLeft(next, " \t")
			continue
		}

		if after, ok := cutPrefix(rest, "@rev_at"); ok {
			rest = strings.TrimLeft(after, " \t")
			tok, next := splitFirstToken(rest)
			list := strings.TrimSpace(tok)
			if list == "" {
				return RevSpec{}, newError("E1004", "empty @rev_at list (context="+contextLine+")", lineNo).WithContext(contextLine)
			}
			var values []int
			for _, part := range strings.Split(list, ",") {
				p := strings.TrimSpace(part)
				if p == "" {
					return RevSpec{}, newError("E1004", "invalid @rev_at list (context="+contextLine+")", lineNo).WithContext(contextLine)
				}
				v, err := strconv.Atoi(p)
				if err != nil {
					return RevSpec{}, newError("E1004", "invalid @rev_at list (context="+contextLine+")", lineNo).WithContext(contextLine)
				}
				if v < 2 {
					return RevSpec{}, newError("E1004", "@rev_at values must be >= 2 (context="+contextLine+")", lineNo).WithContext(contextLine)
				}
				values = append(values, v)
			}
			spec.At = values
			rest = strings.TrimLeft(next, " \t")
			continue
		}

		return RevSpec{}, newError("E1006", "unexpected trailing tokens: "+rest+" (context="+contextLine+")", lineNo).WithContext(contextLine)
	}

	return spec, nil
}

func cutPrefix(s, prefix string) (string, bool) {
	if strings.HasPrefix(s, prefix) {
		return s[len(prefix):], true
	}
	return s, false
}

func splitFirstToken(s string) (string, string) {
	s = strings.TrimLeft(s, " \t")
	idx := strings.IndexFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t'
	})
	if idx < 0 {
		return s, ""
	}
	return s[:idx], s[idx:]
}

func parseSoundSpec(s, contextLine string, lineNo int) (SoundSpec, *CompileError) {
	s = strings.TrimSpace(s)
	if s == "" || s == "[]" {
		return SoundSpec{Kind: SoundSpecNone}, nil
	}

	if strings.HasPrefix(s, "[") {
		if !strings.HasSuffix(s, "]") {
			return SoundSpec{}, newError("E1001", "invalid SOUND_SPEC array (context="+contextLine+")", lineNo).WithContext(contextLine)
		}
		inner := s[1 : len(s)-1]
		parts := strings.Split(inner, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if len(parts) != 8 {
			return SoundSpec{}, newError("E1002", "SOUND_SPEC lane array must have 8 slots (context="+contextLine+")", lineNo).WithContext(contextLine)
		}
		var lanes [8]*string
		for i, p := range parts {
			if p == "" {
				return SoundSpec{}, newError("E1003", "invalid SOUND_SPEC slot (lane="+strconv.Itoa(i)+", context="+contextLine+")", lineNo).
					WithLane(uint8(i)).WithContext(contextLine)
			}
			if p == "-" {
				lanes[i] = nil
			} else {
				v := p
				lanes[i] = &v
			}
		}
		return SoundSpec{Kind: SoundSpecPerLane, PerLane: lanes}, nil
	}

	if strings.IndexFunc(s, func(r rune) bool { return r == ' ' || r == '\t' }) >= 0 {
		return SoundSpec{}, newError("E1001", "invalid SOUND_SPEC token (context="+contextLine+")", lineNo).WithContext(contextLine)
	}
	return SoundSpec{Kind: SoundSpecSingle, Single: s}, nil
}

func parseTagsCsv(s string, lineNo int) ([]string, *CompileError) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{}, nil
	}
	var tags []string
	for _, part := range strings.Split(s, ",") {
		t := strings.TrimSpace(part)
		if t == "" {
			return nil, newError("E3204", "invalid @tags csv (context=@tags "+s+")", lineNo)
		}
		tags = append(tags, t)
	}
	return tags, nil
}

func splitDirective(trimmed string, lineNo int) (string, string, *CompileError) {
	head := trimmed
	rest := ""
	if idx := strings.IndexFunc(trimmed, unicode.IsSpace); idx >= 0 {
		head = trimmed[:idx]
		rest = strings.TrimSpace(trimmed[idx:])
	}
	if !strings.HasPrefix(head, "@") {
		return "", "", newError("E1006", "expected directive", lineNo)
	}
	name := strings.TrimPrefix(head, "@")
	return name, rest, nil
}

func stripInlineComment(line string) string {
	if idx := strings.IndexByte(line, '#'); idx >= 0 {
		return line[:idx]
	}
	return line
}
