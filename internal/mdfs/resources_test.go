package mdfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadResourcesNoManifest(t *testing.T) {
	parsed := &ParsedSource{Meta: Meta{}}
	res, cErr := loadResources(parsed, CompileOptions{})
	require.Nil(t, cErr)
	require.Empty(t, res)
}

func TestLoadResourcesMissingBaseDir(t *testing.T) {
	path := "manifest.json"
	parsed := &ParsedSource{Meta: Meta{SoundManifest: &path, SoundManifestLine: 1}}
	_, cErr := loadResources(parsed, CompileOptions{})
	require.NotNil(t, cErr)
	require.Equal(t, "E2001", cErr.Code)
}

func TestLoadResourcesHappyPath(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "manifest.json")
	require.NoError(t, os.WriteFile(manifestPath, []byte(`{"K01":"kick.wav","K02":"snare.wav"}`), 0o644))

	name := "manifest.json"
	parsed := &ParsedSource{Meta: Meta{SoundManifest: &name, SoundManifestLine: 1}}
	res, cErr := loadResources(parsed, CompileOptions{BaseDir: dir})
	require.Nil(t, cErr)
	require.Equal(t, map[string]string{"K01": "kick.wav", "K02": "snare.wav"}, res)
}

func TestLoadResourcesMalformedJson(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "manifest.json")
	require.NoError(t, os.WriteFile(manifestPath, []byte(`not json`), 0o644))

	name := "manifest.json"
	parsed := &ParsedSource{Meta: Meta{SoundManifest: &name, SoundManifestLine: 1}}
	_, cErr := loadResources(parsed, CompileOptions{BaseDir: dir})
	require.NotNil(t, cErr)
	require.Equal(t, "E2002", cErr.Code)
}

func TestLoadResourcesNonStringValue(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "manifest.json")
	require.NoError(t, os.WriteFile(manifestPath, []byte(`{"K01": 7}`), 0o644))

	name := "manifest.json"
	parsed := &ParsedSource{Meta: Meta{SoundManifest: &name, SoundManifestLine: 1}}
	_, cErr := loadResources(parsed, CompileOptions{BaseDir: dir})
	require.NotNil(t, cErr)
	require.Equal(t, "E2003", cErr.Code)
}

func TestLoadResourcesEmptyKeyOrValue(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "manifest.json")
	require.NoError(t, os.WriteFile(manifestPath, []byte(`{"K01": ""}`), 0o644))

	name := "manifest.json"
	parsed := &ParsedSource{Meta: Meta{SoundManifest: &name, SoundManifestLine: 1}}
	_, cErr := loadResources(parsed, CompileOptions{BaseDir: dir})
	require.NotNil(t, cErr)
	require.Equal(t, "E2003", cErr.Code)
}

func TestLoadResourcesReadFailure(t *testing.T) {
	name := "does-not-exist.json"
	parsed := &ParsedSource{Meta: Meta{SoundManifest: &name, SoundManifestLine: 1}}
	_, cErr := loadResources(parsed, CompileOptions{BaseDir: t.TempDir()})
	require.NotNil(t, cErr)
	require.Equal(t, "E2001", cErr.Code)
}
