package pipedef_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaiso/boss/internal/pipedef"
)

func writePipedef(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "pipedef.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestParseValid(t *testing.T) {
	path := writePipedef(t, `{
		"stages": [
			{"name": "build", "tasks": ["compile", "lint"]},
			{"name": "test", "tasks": ["unit"]}
		]
	}`)

	pipeline, err := pipedef.Parse(path)
	require.NoError(t, err)
	require.Len(t, pipeline.Stages, 2)
	assert.Equal(t, "build", pipeline.Stages[0].Name)
	assert.Equal(t, []string{"compile", "lint"}, pipeline.Stages[0].Tasks)
	assert.Equal(t, "test", pipeline.Stages[1].Name)
}

func TestParseMissingFile(t *testing.T) {
	_, err := pipedef.Parse(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestParseMalformedJSON(t *testing.T) {
	path := writePipedef(t, `{"stages": [`)
	_, err := pipedef.Parse(path)
	assert.Error(t, err)
}

func TestParseInvalidPipeline(t *testing.T) {
	path := writePipedef(t, `{"stages": [{"name": "", "tasks": ["a"]}]}`)
	_, err := pipedef.Parse(path)
	assert.Error(t, err)
}

func TestParseDuplicateStageNames(t *testing.T) {
	path := writePipedef(t, `{
		"stages": [
			{"name": "build", "tasks": ["a"]},
			{"name": "build", "tasks": ["b"]}
		]
	}`)
	_, err := pipedef.Parse(path)
	assert.Error(t, err)
}
