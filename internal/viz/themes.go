package viz

import (
	"hash/fnv"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// Palette is a named set of hex colours for labels without a fixed colour.
type Palette struct {
	Name   string
	Colors []lipgloss.Color
}

var (
	PaletteCorona = Palette{"corona", []lipgloss.Color{"#6E1B09", "#D22C2C", "#F07249", "#5D5F5C", "#393A3C"}}
	PaletteRetro  = Palette{"aretro", []lipgloss.Color{"#EC5E64", "#6B3979", "#28A98F", "#FAD542", "#2ABBDA"}}
	PalettePastel = Palette{"pastel", []lipgloss.Color{"#998AD3", "#E494D3", "#CDF1AF", "#87DCC0", "#88BBE4"}}
	PaletteBeach  = Palette{"beach", []lipgloss.Color{"#42B7C2", "#8FC8C4", "#FDF2C5", "#DECA98", "#A0795F", "#623D45"}}

	CurrentPalette = PaletteCorona

	Palettes = []Palette{PaletteCorona, PaletteRetro, PalettePastel, PaletteBeach}
)

// compartmentColors are fixed so the same compartment looks the same in
// every model.
var compartmentColors = map[string]lipgloss.Color{
	"Fatalities":   "#386cb0",
	"Hospitalized": "#8da0cb",
	"Recovered":    "#4daf4a",
	"Infected":     "#f0027f",
	"Exposed":      "#fdc086",
	"Susceptible":  "#808080",
}

var compartmentANSI = map[string]asciigraph.AnsiColor{
	"Fatalities":   asciigraph.Blue,
	"Hospitalized": asciigraph.LightSteelBlue,
	"Recovered":    asciigraph.Green,
	"Infected":     asciigraph.DeepPink,
	"Exposed":      asciigraph.SandyBrown,
	"Susceptible":  asciigraph.Gray,
}

var fallbackANSI = []asciigraph.AnsiColor{
	asciigraph.Red, asciigraph.Cyan, asciigraph.Yellow, asciigraph.Magenta, asciigraph.Orange, asciigraph.Teal,
}

// CompartmentColor returns the fixed colour of a known compartment, or a
// palette colour chosen by hashing the label so it is stable across runs.
func CompartmentColor(label string) lipgloss.Color {
	if c, ok := compartmentColors[label]; ok {
		return c
	}
	colors := CurrentPalette.Colors
	return colors[labelHash(label)%uint32(len(colors))]
}

func seriesColor(label string) asciigraph.AnsiColor {
	if c, ok := compartmentANSI[label]; ok {
		return c
	}
	return fallbackANSI[labelHash(label)%uint32(len(fallbackANSI))]
}

func labelHash(label string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(label))
	return h.Sum32()
}

// GetPalette returns a palette by name, falling back to the default.
func GetPalette(name string) Palette {
	for _, p := range Palettes {
		if p.Name == name {
			return p
		}
	}
	return PaletteCorona
}

func SetPalette(name string) {
	CurrentPalette = GetPalette(name)
}

func PaletteNames() []string {
	names := make([]string, len(Palettes))
	for i, p := range Palettes {
		names[i] = p.Name
	}
	return names
}
