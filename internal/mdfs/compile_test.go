package mdfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const minimalSource = `@title T
@artist A
@version 2.2
track: |
  @bpm 120
  @div 4
  ........
  ..N.....
`

func TestCompileStringMinimalTap(t *testing.T) {
	chart, cErr := CompileString(minimalSource)
	require.Nil(t, cErr)
	require.Len(t, chart.Notes, 1)
	require.EqualValues(t, 2, chart.Notes[0].Col)
	require.Equal(t, uint64(500000), chart.Notes[0].TimeUs)
	require.Nil(t, chart.Notes[0].SoundID)
	require.Equal(t, uint64(500000), chart.Meta.TotalDurationUs)
}

func TestCompileStringMissingTitle(t *testing.T) {
	src := "@artist A\n@version 1\ntrack: |\n"
	_, cErr := CompileString(src)
	require.NotNil(t, cErr)
	require.Equal(t, "E3201", cErr.Code)
}

func TestCompileStringMissingArtist(t *testing.T) {
	src := "@title T\n@version 1\ntrack: |\n"
	_, cErr := CompileString(src)
	require.NotNil(t, cErr)
	require.Equal(t, "E3202", cErr.Code)
}

func TestCompileStringMissingVersion(t *testing.T) {
	src := "@title T\n@artist A\ntrack: |\n"
	_, cErr := CompileString(src)
	require.NotNil(t, cErr)
	require.Equal(t, "E3203", cErr.Code)
}

func TestCompileStringNotesSortedByTime(t *testing.T) {
	src := `@title T
@artist A
@version 1
track: |
  @bpm 120
  @div 4
  .......N
  N.......
`
	chart, cErr := CompileString(src)
	require.Nil(t, cErr)
	require.Len(t, chart.Notes, 2)
	require.LessOrEqual(t, chart.Notes[0].TimeUs, chart.Notes[1].TimeUs)
}

func TestCompileFileResolvesManifestRelativeToParentDir(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "sounds.json")
	require.NoError(t, os.WriteFile(manifestPath, []byte(`{"K01":"kick.wav"}`), 0o644))

	src := `@title T
@artist A
@version 1
@sound_manifest sounds.json
track: |
  @bpm 120
  @div 4
  ..N.....:K01
`
	sourcePath := filepath.Join(dir, "chart.mdfs")
	require.NoError(t, os.WriteFile(sourcePath, []byte(src), 0o644))

	chart, cErr := CompileFile(sourcePath)
	require.Nil(t, cErr)
	require.Equal(t, map[string]string{"K01": "kick.wav"}, chart.Resources)
	require.Equal(t, "K01", *chart.Notes[0].SoundID)
}

func TestCompileIdempotent(t *testing.T) {
	a, cErrA := CompileString(minimalSource)
	require.Nil(t, cErrA)
	b, cErrB := CompileString(minimalSource)
	require.Nil(t, cErrB)

	dataA, err := a.MarshalIndent()
	require.NoError(t, err)
	dataB, err := b.MarshalIndent()
	require.NoError(t, err)
	require.Equal(t, dataA, dataB)
}
