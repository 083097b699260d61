// Package appearance implements the Settings & Appearance surface (4.G):
// an on-disk TOML config, a file-system watcher that re-reads it on
// change, and the value encoding org.freedesktop.appearance expects on
// the bus.
package appearance

import (
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const (
	// ColorSchemeDefault through ReducedMotionReduced are the integer codes
	// org.freedesktop.appearance keys encode to on the bus.
	ColorSchemeDefault uint32 = 0
	ColorSchemeDark    uint32 = 1
	ColorSchemeLight   uint32 = 2

	ContrastDefault uint32 = 0
	ContrastHigher  uint32 = 1

	ReducedMotionDefault uint32 = 0
	ReducedMotionReduced uint32 = 1
)

const defaultAccentColor = "#ffffff"

// Config mirrors the on-disk config.toml schema (§6.7, §4.G). Unknown
// string values are treated as malformed and fall back to the process
// default rather than being rejected outright, matching the original's
// "missing or malformed -> defaults" contract.
type Config struct {
	ColorScheme   string `toml:"color_scheme"`
	AccentColor   string `toml:"accent_color"`
	Contrast      string `toml:"contrast"`
	ReducedMotion string `toml:"reduced_motion"`
}

// Default returns the {default, #ffffff, default, default} baseline
// (§4.G).
func Default() Config {
	return Config{
		ColorScheme:   "default",
		AccentColor:   defaultAccentColor,
		Contrast:      "default",
		ReducedMotion: "default",
	}
}

// Load reads and parses path. Any error — missing file, unreadable,
// malformed TOML — yields Default() rather than propagating, per §4.G.
func Load(path string) Config {
	buf, err := os.ReadFile(path)
	if err != nil {
		return Default()
	}
	var cfg Config
	if err := toml.Unmarshal(buf, &cfg); err != nil {
		return Default()
	}
	return cfg
}

// ColorSchemeCode maps color_scheme to its wire code; an unrecognized
// value maps to ColorSchemeDefault rather than panicking (the Rust
// original treats this as unreachable since the TOML field is trusted;
// a Go backend facing a hand-edited config file cannot make that
// assumption).
func (c Config) ColorSchemeCode() uint32 {
	switch c.ColorScheme {
	case "dark":
		return ColorSchemeDark
	case "light":
		return ColorSchemeLight
	default:
		return ColorSchemeDefault
	}
}

func (c Config) ContrastCode() uint32 {
	if c.Contrast == "higher" {
		return ContrastHigher
	}
	return ContrastDefault
}

func (c Config) ReducedMotionCode() uint32 {
	if c.ReducedMotion == "reduced" {
		return ReducedMotionReduced
	}
	return ReducedMotionDefault
}

// AccentColorTriple parses accent_color as a CSS hex color and returns
// its channels scaled to [0,1] (channel/256, matching the original's
// scaling exactly — not /255). Anything that isn't a #rrggbb or #rgb
// hex string falls back to the default white.
func (c Config) AccentColorTriple() [3]float64 {
	if rgb, ok := parseHexColor(c.AccentColor); ok {
		return rgb
	}
	rgb, _ := parseHexColor(defaultAccentColor)
	return rgb
}

func parseHexColor(s string) ([3]float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "#")
	expand := func(h string) (uint8, bool) {
		if len(h) == 1 {
			h = h + h
		}
		n, err := strconv.ParseUint(h, 16, 8)
		if err != nil {
			return 0, false
		}
		return uint8(n), true
	}
	var rs, gs, bs string
	switch len(s) {
	case 3:
		rs, gs, bs = s[0:1], s[1:2], s[2:3]
	case 6:
		rs, gs, bs = s[0:2], s[2:4], s[4:6]
	default:
		return [3]float64{}, false
	}
	r, ok1 := expand(rs)
	g, ok2 := expand(gs)
	b, ok3 := expand(bs)
	if !ok1 || !ok2 || !ok3 {
		return [3]float64{}, false
	}
	return [3]float64{float64(r) / 256.0, float64(g) / 256.0, float64(b) / 256.0}, true
}
