package main

import (
	"bytes"
	"errors"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sunglow/internal/celestial"
	"sunglow/internal/colorx"
	"sunglow/internal/config"
	"sunglow/internal/logging"
)

func TestDetectMode(t *testing.T) {
	cases := []struct {
		args []string
		want runMode
	}{
		{nil, modeScreensaver},
		{[]string{"/s"}, modeScreensaver},
		{[]string{"/S"}, modeScreensaver},
		{[]string{"/c"}, modeConfig},
		{[]string{"/c:15740"}, modeConfig},
		{[]string{"/p", "1234"}, modePreview},
		{[]string{"/p:1234"}, modePreview},
		{[]string{"extra", "/p"}, modePreview},
		{[]string{"unknown"}, modeScreensaver},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, detectMode(tc.args), "%v", tc.args)
	}
}

func TestUsageDocumentsIgnoredPreviewHandle(t *testing.T) {
	var buf bytes.Buffer
	usage(&buf)
	assert.Contains(t, buf.String(), "/p [hwnd]")
	assert.Contains(t, buf.String(), "handle is ignored")
	assert.Equal(t, modePreview, detectMode([]string{"/p", "0x00A1B2"}))
}

func TestPaletteForPhase(t *testing.T) {
	for _, p := range []celestial.Phase{
		celestial.PhaseNight, celestial.PhaseDawn, celestial.PhaseDay,
		celestial.PhaseSunset, celestial.PhaseDusk,
	} {
		pal := paletteForPhase(p)
		_, ok := colorx.LookupPalette(pal.Name)
		assert.True(t, ok, p)
	}
	assert.Equal(t, "night", paletteForPhase(celestial.PhaseNight).Name)
	assert.Equal(t, colorx.DefaultPalette, paletteForPhase(celestial.PhaseDay))
}

func TestNewLocator(t *testing.T) {
	assert.IsType(t, celestial.Static{}, newLocator(config.LocationConfig{Source: "static", Latitude: 1}))
	assert.IsType(t, celestial.Unavailable{}, newLocator(config.LocationConfig{Source: "none"}))
	assert.IsType(t, celestial.LocatorFunc(nil), newLocator(config.LocationConfig{Source: "geoclue"}))
}

func TestPaletteChooserSavesTheme(t *testing.T) {
	test.NewTempApp(t)

	var saved []string
	c := newPaletteChooser("amber", "/tmp/sunglow/config.yaml", logging.Discard())
	c.save = func(path, theme string) error {
		saved = append(saved, theme)
		return nil
	}
	test.NewTempWindow(t, c.content())

	require.Len(t, c.swatches, len(colorx.Palettes))
	assert.True(t, c.swatches[0].selected)

	test.Tap(c.swatches[2])
	assert.Equal(t, []string{colorx.Palettes[2].Name}, saved)
	assert.False(t, c.swatches[0].selected)
	assert.True(t, c.swatches[2].selected)
	assert.Contains(t, c.status.Text, colorx.Palettes[2].Name)

	c.apply(config.ThemeAuto)
	for _, s := range c.swatches {
		assert.False(t, s.selected)
	}
}

func TestPaletteChooserReportsSaveError(t *testing.T) {
	test.NewTempApp(t)

	c := newPaletteChooser("amber", "/nowhere/config.yaml", logging.Discard())
	c.save = func(string, string) error { return errors.New("read-only") }

	c.apply("sea")
	assert.Contains(t, c.status.Text, "read-only")
	assert.True(t, c.swatches[0].selected)
}
