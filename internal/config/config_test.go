package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inkverify.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, 200, c.Width)
	assert.Equal(t, 200, c.Height)
	assert.Equal(t, 500, c.Steps)
	assert.Equal(t, "proof.ppm", c.Output)
	require.NoError(t, c.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, "width: 64\nsteps: 10\nformat: png\n")
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 64, c.Width)
	assert.Equal(t, 200, c.Height)
	assert.Equal(t, 10, c.Steps)
	assert.Equal(t, "png", c.Format)
}

func TestLoadEmptyFile(t *testing.T) {
	c, err := Load(writeFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeFile(t, "widht: 10\n"))
	require.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	_, err := Load(writeFile(t, "height: 0\n"))
	require.ErrorIs(t, err, ErrInvalid)

	_, err = Load(writeFile(t, "format: gif\n"))
	require.ErrorIs(t, err, ErrInvalid)
}

func TestBindFlags(t *testing.T) {
	c := DefaultConfig()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	c.Bind(fs)
	require.NoError(t, fs.Parse([]string{"--width", "32", "-j", "4", "--steps=7", "-o", "out.png"}))
	assert.Equal(t, 32, c.Width)
	assert.Equal(t, 4, c.Workers)
	assert.Equal(t, 7, c.Steps)
	assert.Equal(t, "out.png", c.Output)
	assert.Equal(t, 200, c.Height)
}

func TestApplyPositional(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.ApplyPositional([]string{"50", "40"}))
	assert.Equal(t, 50, c.Width)
	assert.Equal(t, 40, c.Height)
	assert.Equal(t, 500, c.Steps)

	require.ErrorIs(t, c.ApplyPositional([]string{"50", "x"}), ErrInvalid)
	require.ErrorIs(t, c.ApplyPositional([]string{"1", "2", "3", "4"}), ErrInvalid)
}

func TestValidateNegativeSteps(t *testing.T) {
	c := DefaultConfig()
	c.Steps = -1
	require.ErrorIs(t, c.Validate(), ErrInvalid)
}

func TestParams(t *testing.T) {
	c := DefaultConfig()
	c.Workers = 3
	p := c.Params()
	assert.Equal(t, 200, p.Width)
	assert.Equal(t, 3, p.Workers)
}

func TestResolveFlagsWinOverFile(t *testing.T) {
	path := writeFile(t, "width: 64\nheight: 48\n")
	c := DefaultConfig()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	c.Bind(fs)
	require.NoError(t, fs.Parse([]string{"--width", "10"}))

	require.NoError(t, Resolve(path, &c, fs))
	assert.Equal(t, 10, c.Width, "flag should override file")
	assert.Equal(t, 48, c.Height, "file should override default")
	assert.Equal(t, 500, c.Steps)
}
