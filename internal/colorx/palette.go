package colorx

import (
	"strings"
)

// Palette is a named inner/outer gradient pair.
type Palette struct {
	Name  string
	Inner RGB
	Outer RGB
}

// DefaultPalette is the warm amber pair the background starts with.
var DefaultPalette = Palette{
	Name:  "amber",
	Inner: RGB{1.0, 0.9, 0.5},
	Outer: RGB{0.8, 0.3, 0.1},
}

// Palettes lists the built-in palettes in cycling order.
var Palettes = []Palette{
	DefaultPalette,
	{Name: "dusk", Inner: Resolve("#F4A261"), Outer: Resolve("#6D597A")},
	{Name: "sea", Inner: Resolve("#A8DADC"), Outer: Resolve("#1D3557")},
	{Name: "forest", Inner: Resolve("#D8F3DC"), Outer: Resolve("#2D6A4F")},
	{Name: "rose", Inner: Resolve("#FFE5EC"), Outer: Resolve("#C9184A")},
	{Name: "night", Inner: Resolve("#3A506B"), Outer: Resolve("#0B132B")},
}

// LookupPalette finds a built-in palette by case-insensitive name.
func LookupPalette(name string) (Palette, bool) {
	for _, p := range Palettes {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Palette{}, false
}

// NextPalette returns the palette after name, wrapping around. Unknown names
// yield the first palette.
func NextPalette(name string) Palette {
	for i, p := range Palettes {
		if strings.EqualFold(p.Name, name) {
			return Palettes[(i+1)%len(Palettes)]
		}
	}
	return Palettes[0]
}

// Custom builds an unnamed palette from textual colours. Unparseable fields
// become white.
func Custom(inner, outer string) Palette {
	return Palette{Name: "custom", Inner: Resolve(inner), Outer: Resolve(outer)}
}
