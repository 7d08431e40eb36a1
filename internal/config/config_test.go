package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("petals: 8\nprofile: slide\nui: headless\nspi:\n  pixels_per_petal: 3\n  budget_ma: 500\n"), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, c.Petals)
	assert.Equal(t, "slide", c.Profile)
	assert.Equal(t, "headless", c.UI)
	assert.Equal(t, 3, c.SPI.PixelsPerPetal)
	assert.Equal(t, 500.0, c.SPI.BudgetMA)
	assert.Equal(t, 0.9, c.SPI.Knee, "limiter keys not in the file keep their defaults")
	assert.Equal(t, 60, c.FPS, "unset keys keep their defaults")
	assert.Equal(t, "sim", c.Driver)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	c := Default()
	c.Petals = 12
	c.Driver = "console"
	require.NoError(t, Save(path, c))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(c *Config){
		"negative petals": func(c *Config) { c.Petals = -1 },
		"zero fps":        func(c *Config) { c.FPS = 0 },
		"brightness":      func(c *Config) { c.Brightness = 1.5 },
		"profile":         func(c *Config) { c.Profile = "spin" },
		"ui":              func(c *Config) { c.UI = "gui" },
		"driver":          func(c *Config) { c.Driver = "pwm" },
		"white cap":       func(c *Config) { c.SPI.WhiteCap = 4 },
		"chan ma":         func(c *Config) { c.SPI.ChanMA = 0 },
		"budget":          func(c *Config) { c.SPI.BudgetMA = -1 },
		"knee":            func(c *Config) { c.SPI.Knee = 1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(c)
			assert.ErrorIs(t, c.Validate(), ErrInvalid)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
