// Package colorx converts textual colours into the normalised RGB triples
// the background shader consumes.
package colorx

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/colornames"
)

// ErrUnrecognized is returned by Parse for strings that are neither hex,
// rgb()/rgba() nor a CSS colour name.
var ErrUnrecognized = errors.New("colorx: unrecognized color")

// RGB is a colour with each channel in [0, 1].
type RGB [3]float32

var (
	White = RGB{1, 1, 1}
	Black = RGB{0, 0, 0}
)

var rgbFuncPattern = regexp.MustCompile(`(\d+),\s*(\d+),\s*(\d+)`)

// Parse accepts "#RRGGBB", "#RGB", "rgb(r,g,b)" (any text containing three
// comma separated integers) and CSS colour names.
func Parse(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return White, ErrUnrecognized
	case strings.HasPrefix(s, "#"):
		return ParseHex(s)
	}
	if m := rgbFuncPattern.FindStringSubmatch(s); m != nil {
		var c RGB
		for i := 0; i < 3; i++ {
			v, err := strconv.Atoi(m[i+1])
			if err != nil {
				return White, fmt.Errorf("%w: %q", ErrUnrecognized, s)
			}
			c[i] = channel(v)
		}
		return c, nil
	}
	if named, ok := colornames.Map[strings.ToLower(s)]; ok {
		return FromColor(named), nil
	}
	return White, fmt.Errorf("%w: %q", ErrUnrecognized, s)
}

// ParseHex parses "#RRGGBB" or the "#RGB" shorthand. The leading '#' is optional.
func ParseHex(s string) (RGB, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return White, fmt.Errorf("%w: %q", ErrUnrecognized, s)
	}
	var c RGB
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return White, fmt.Errorf("%w: %q", ErrUnrecognized, s)
		}
		c[i] = channel(int(v))
	}
	return c, nil
}

// Resolve is Parse with the opaque white fallback.
func Resolve(s string) RGB {
	c, err := Parse(s)
	if err != nil {
		return White
	}
	return c
}

// FromColor converts a standard library colour, dropping alpha.
func FromColor(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{channel(int(n.R)), channel(int(n.G)), channel(int(n.B))}
}

func channel(v int) float32 {
	return mgl32.Clamp(float32(v)/255, 0, 1)
}

// Valid reports whether every channel is inside [0, 1].
func (c RGB) Valid() bool {
	for _, v := range c {
		if v < 0 || v > 1 || math.IsNaN(float64(v)) {
			return false
		}
	}
	return true
}

// Clamp returns c with every channel forced into [0, 1]. NaN becomes 0.
func (c RGB) Clamp() RGB {
	for i, v := range c {
		if math.IsNaN(float64(v)) {
			v = 0
		}
		c[i] = mgl32.Clamp(v, 0, 1)
	}
	return c
}

func (c RGB) Vec3() mgl32.Vec3 { return mgl32.Vec3(c) }

// NRGBA returns the opaque 8-bit form, used by the palette dialog swatches.
func (c RGB) NRGBA() color.NRGBA {
	c = c.Clamp()
	return color.NRGBA{
		R: uint8(c[0]*255 + 0.5),
		G: uint8(c[1]*255 + 0.5),
		B: uint8(c[2]*255 + 0.5),
		A: 0xff,
	}
}

func (c RGB) Hex() string {
	n := c.NRGBA()
	return fmt.Sprintf("#%02X%02X%02X", n.R, n.G, n.B)
}

func (c RGB) String() string { return c.Hex() }
