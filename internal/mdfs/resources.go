package mdfs

import (
	"os"
	"path/filepath"
	"strings"
)

// loadResources resolves and decodes the optional sound manifest.
// Returns an empty, non-nil map when no manifest was declared.
func loadResources(parsed *ParsedSource, opts CompileOptions) (map[string]string, *CompileError) {
	if parsed.Meta.SoundManifest == nil {
		return map[string]string{}, nil
	}

	manifestLine := parsed.Meta.SoundManifestLine
	if manifestLine == 0 {
		manifestLine = parsed.MetaLine
	}

	if opts.BaseDir == "" {
		return nil, newError("E2001", "@sound_manifest requires CompileFile or an explicit CompileOptions.BaseDir", manifestLine)
	}

	full := filepath.Join(opts.BaseDir, *parsed.Meta.SoundManifest)
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, newError("E2001", "failed to read manifest "+full+": "+err.Error(), manifestLine).WithFile(full)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, newError("E2002", "invalid manifest json: "+err.Error(), manifestLine).WithFile(full)
	}

	out := make(map[string]string, len(raw))
	for k, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil, newError("E2003", "manifest values must be strings", manifestLine).WithFile(full)
		}
		if strings.TrimSpace(k) == "" || strings.TrimSpace(s) == "" {
			return nil, newError("E2003", "manifest keys/values must be non-empty", manifestLine).WithFile(full)
		}
		out[k] = s
	}
	return out, nil
}
