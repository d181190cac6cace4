package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-sealmask/images"
)

func writeInput(t *testing.T, width, height int, value uint8) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.png")
	require.NoError(t, images.Save(path, images.NewUniform(width, height, value)))
	return path
}

func runArgs(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunDefaults(t *testing.T) {
	input := writeInput(t, 20, 20, 128)
	output := filepath.Join(t.TempDir(), "out.png")

	code, stdout, stderr := runArgs("--input", input, "--output", output)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "20x20")

	out, err := images.Open(output)
	require.NoError(t, err)
	assert.Equal(t, 20, out.Width)
	assert.Equal(t, 20, out.Height)
	assert.Equal(t, uint8(128), out.At(9, 9))
	assert.Equal(t, uint8(255), out.At(0, 0))
}

func TestRunShortFlagsAndCorners(t *testing.T) {
	input := writeInput(t, 100, 80, 40)
	output := filepath.Join(t.TempDir(), "out.webp")

	code, _, stderr := runArgs("-i", input, "-o", output, "-tl", "20@10", "-dr", "50@30")
	require.Equal(t, exitOK, code, stderr)

	out, err := images.Open(output)
	require.NoError(t, err)
	assert.Equal(t, 35, out.Width)
	assert.Equal(t, 25, out.Height)
	assert.Equal(t, uint8(40), out.At(17, 12))
}

func TestRunClampsCorners(t *testing.T) {
	input := writeInput(t, 100, 50, 90)
	output := filepath.Join(t.TempDir(), "out.png")

	code, _, stderr := runArgs("-i", input, "-o", output, "-tl", "-5@-5", "-dr", "500@500")
	require.Equal(t, exitOK, code, stderr)

	out, err := images.Open(output)
	require.NoError(t, err)
	assert.Equal(t, 100, out.Width)
	assert.Equal(t, 50, out.Height)
}

func TestRunOpenCVBackend(t *testing.T) {
	input := writeInput(t, 40, 30, 77)
	output := filepath.Join(t.TempDir(), "out.png")

	code, _, stderr := runArgs("-i", input, "-o", output, "--backend", "opencv")
	require.Equal(t, exitOK, code, stderr)

	out, err := images.Open(output)
	require.NoError(t, err)
	assert.Equal(t, 40, out.Width)
	assert.Equal(t, 30, out.Height)
	assert.Equal(t, uint8(77), out.At(20, 15))
	assert.Equal(t, uint8(255), out.At(0, 0))
}

func TestRunPreviewAndProfile(t *testing.T) {
	input := writeInput(t, 600, 300, 10)
	dir := t.TempDir()
	output := filepath.Join(dir, "out.png")
	preview := filepath.Join(dir, "preview.png")

	code, _, stderr := runArgs("-i", input, "-o", output,
		"--preview", preview, "--preview-size", "100", "--profile", "--verbose")
	require.Equal(t, exitOK, code, stderr)

	p, err := images.Open(preview)
	require.NoError(t, err)
	assert.Equal(t, 100, p.Width)
	assert.Equal(t, 50, p.Height)

	assert.Contains(t, stderr, "[DEBUG]")
	assert.Contains(t, stderr, "PROFILE REPORT")
	assert.Contains(t, stderr, "mask:")
	assert.Contains(t, stderr, "encode:")
}

func TestRunUsageErrors(t *testing.T) {
	input := writeInput(t, 20, 20, 1)
	output := filepath.Join(t.TempDir(), "out.png")

	tests := []struct {
		name string
		args []string
	}{
		{"No arguments", nil},
		{"Missing output", []string{"-i", input}},
		{"Missing input", []string{"-o", output}},
		{"Bad coordinate", []string{"-i", input, "-o", output, "-tl", "2,2"}},
		{"Unknown flag", []string{"-i", input, "-o", output, "--mode", "x"}},
		{"Unknown backend", []string{"-i", input, "-o", output, "--backend", "vips"}},
		{"Extra argument", []string{"-i", input, "-o", output, "extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runArgs(tt.args...)
			assert.Equal(t, exitUsage, code)
			assert.Contains(t, stderr, "Usage:")
		})
	}
}

func TestRunFailures(t *testing.T) {
	input := writeInput(t, 20, 20, 1)
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
	}{
		{"Input not found", []string{"-i", filepath.Join(dir, "missing.png"), "-o", filepath.Join(dir, "a.png")}},
		{"Corners out of order", []string{"-i", input, "-o", filepath.Join(dir, "b.png"), "-tl", "15@15", "-dr", "4@4"}},
		{"Unsupported output", []string{"-i", input, "-o", filepath.Join(dir, "c.txt")}},
		{"Unwritable output", []string{"-i", input, "-o", filepath.Join(dir, "no", "such", "d.png")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runArgs(tt.args...)
			assert.Equal(t, exitError, code)
			assert.NotContains(t, stderr, "Usage:")
		})
	}
}

func TestRunHelp(t *testing.T) {
	code, _, stderr := runArgs("-h")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stderr, "Usage:")
}

func TestRunLeavesNoPartialOutput(t *testing.T) {
	input := writeInput(t, 40, 30, 60)

	t.Run("Preview fails", func(t *testing.T) {
		dir := t.TempDir()
		output := filepath.Join(dir, "out.png")
		code, _, _ := runArgs("-i", input, "-o", output, "--preview", filepath.Join(dir, "missing", "p.png"))
		assert.Equal(t, exitError, code)
		assert.NoFileExists(t, output)
	})

	t.Run("Output fails", func(t *testing.T) {
		dir := t.TempDir()
		preview := filepath.Join(dir, "p.png")
		code, _, _ := runArgs("-i", input, "-o", filepath.Join(dir, "missing", "out.png"), "--preview", preview)
		assert.Equal(t, exitError, code)
		assert.NoFileExists(t, preview)
	})
}

func TestUsageListsExtensions(t *testing.T) {
	_, _, stderr := runArgs()
	assert.Contains(t, stderr, "Supported extensions: .jpg")
	assert.Contains(t, stderr, ".webp")
}
