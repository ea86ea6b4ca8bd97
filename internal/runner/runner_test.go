package runner_test

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaiso/boss/internal/runner"
)

func TestRunPassWithOutput(t *testing.T) {
	var lines []string
	verdict := runner.Run(context.Background(), runner.Config{
		Path: "/bin/sh",
		Args: []string{"-c", "echo hello; echo world"},
	}, func(line string) {
		lines = append(lines, line)
	})

	assert.Equal(t, runner.Pass, verdict)
	assert.Equal(t, []string{"hello", "world"}, lines)
}

func TestRunFailNonZeroExit(t *testing.T) {
	var lines []string
	verdict := runner.Run(context.Background(), runner.Config{
		Path: "/bin/sh",
		Args: []string{"-c", "echo oops; exit 1"},
	}, func(line string) {
		lines = append(lines, line)
	})

	assert.Equal(t, runner.Fail, verdict)
	assert.Equal(t, []string{"oops"}, lines)
}

func TestRunZeroOutputLines(t *testing.T) {
	var lines []string
	verdict := runner.Run(context.Background(), runner.Config{
		Path: "/bin/sh",
		Args: []string{"-c", "exit 0"},
	}, func(line string) {
		lines = append(lines, line)
	})

	assert.Equal(t, runner.Pass, verdict)
	assert.Empty(t, lines)
}

func TestRunSpawnFailureYieldsFailAndOneLine(t *testing.T) {
	var lines []string
	verdict := runner.Run(context.Background(), runner.Config{
		Path: "/no/such/binary/anywhere",
	}, func(line string) {
		lines = append(lines, line)
	})

	assert.Equal(t, runner.Fail, verdict)
	require.Len(t, lines, 1)
	assert.NotEmpty(t, lines[0])
}

func TestRunMergesStdoutAndStderr(t *testing.T) {
	var lines []string
	verdict := runner.Run(context.Background(), runner.Config{
		Path: "/bin/sh",
		Args: []string{"-c", "echo out-line; echo err-line 1>&2"},
	}, func(line string) {
		lines = append(lines, line)
	})

	assert.Equal(t, runner.Pass, verdict)
	// Interleaving between stdout and stderr is best-effort, so only
	// assert both lines arrived.
	sorted := append([]string(nil), lines...)
	sort.Strings(sorted)
	assert.Equal(t, []string{"err-line", "out-line"}, sorted)
}

func TestRunRespectsWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	var lines []string
	verdict := runner.Run(context.Background(), runner.Config{
		Path: "/bin/pwd",
		Dir:  dir,
	}, func(line string) {
		lines = append(lines, line)
	})

	assert.Equal(t, runner.Pass, verdict)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], dir)
}

func TestRunContextCancellationStopsProcess(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	verdict := runner.Run(ctx, runner.Config{
		Path: "/bin/sleep",
		Args: []string{"5"},
	}, func(string) {})

	assert.Equal(t, runner.Fail, verdict)
}
