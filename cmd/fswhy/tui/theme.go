package tui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// ThemeEnv names the environment variable that points at a theme file.
const ThemeEnv = "FSWHY_THEME"

// DefaultThemeFile is looked up in the working directory when no other
// theme is configured.
const DefaultThemeFile = "theme.toml"

// ErrUnknownPreset is returned for color names that are not presets.
var ErrUnknownPreset = errors.New("unknown preset color")

// ErrInvalidColor is returned for color values that are neither a preset
// name nor an {r, g, b} table.
var ErrInvalidColor = errors.New("invalid color")

type preset struct {
	color   lipgloss.TerminalColor
	reverse bool
}

// presets maps every accepted name, aliases included, to its rendering.
var presets = map[string]preset{
	"reset":      {color: lipgloss.NoColor{}},
	"default":    {color: lipgloss.NoColor{}},
	"fg_reset":   {color: lipgloss.NoColor{}},
	"fgreset":    {color: lipgloss.NoColor{}},
	"default_fg": {color: lipgloss.NoColor{}},
	"invert":     {color: lipgloss.NoColor{}, reverse: true},
	"reverse":    {color: lipgloss.NoColor{}, reverse: true},
	"red":        {color: lipgloss.Color("1")},
	"green":      {color: lipgloss.Color("2")},
	"yellow":     {color: lipgloss.Color("3")},
	"yel":        {color: lipgloss.Color("3")},
	"blue":       {color: lipgloss.Color("4")},
	"magenta":    {color: lipgloss.Color("5")},
	"purple":     {color: lipgloss.Color("5")},
	"cyan":       {color: lipgloss.Color("6")},
	"white":      {color: lipgloss.Color("7")},
}

// Color is a theme color: either a preset name or a 24-bit RGB value.
type Color struct {
	Name    string
	R, G, B uint8
	RGB     bool
}

// Preset returns a Color referring to a named preset.
func Preset(name string) Color {
	return Color{Name: name}
}

// RGB returns a 24-bit Color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, RGB: true}
}

// Validate reports whether the color can be rendered.
func (c Color) Validate() error {
	if c.RGB {
		return nil
	}
	if _, ok := presets[strings.ToLower(c.Name)]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPreset, c.Name)
	}
	return nil
}

// Apply returns style with the color applied as its foreground. The
// invert preset swaps foreground and background instead.
func (c Color) Apply(style lipgloss.Style) lipgloss.Style {
	if c.RGB {
		return style.Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)))
	}
	p, ok := presets[strings.ToLower(c.Name)]
	if !ok {
		return style
	}
	if p.reverse {
		return style.Reverse(true)
	}
	return style.Foreground(p.color)
}

// String renders the color the way it is written in a theme file.
func (c Color) String() string {
	if c.RGB {
		return fmt.Sprintf("{r=%d, g=%d, b=%d}", c.R, c.G, c.B)
	}
	return c.Name
}

// Theme holds the colors used by the tree view.
type Theme struct {
	Dir       Color
	File      Color
	Error     Color
	Highlight Color
	Size      Color
	Index     Color
}

// DefaultTheme returns the built-in theme.
func DefaultTheme() Theme {
	return Theme{
		Dir:       Preset("blue"),
		File:      Preset("white"),
		Error:     Preset("red"),
		Highlight: Preset("invert"),
		Size:      Preset("cyan"),
		Index:     RGB(0x66, 0x66, 0x66),
	}
}

// Validate checks every color in the theme.
func (t Theme) Validate() error {
	for _, f := range t.fields() {
		if err := f.color.Validate(); err != nil {
			return fmt.Errorf("%s: %w", f.key, err)
		}
	}
	return nil
}

type themeField struct {
	key   string
	color *Color
}

func (t *Theme) fields() []themeField {
	return []themeField{
		{"dir", &t.Dir},
		{"file", &t.File},
		{"error", &t.Error},
		{"highlight", &t.Highlight},
		{"size", &t.Size},
		{"index", &t.Index},
	}
}

// LoadThemeFile reads a TOML theme. Keys that are absent keep their
// default color. Each key is either a preset name, a {name = "..."}
// table, or an {r, g, b} table:
//
//	dir = "blue"
//	error = { name = "red" }
//	size = { r = 0, g = 170, b = 255 }
func LoadThemeFile(path string) (Theme, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return Theme{}, fmt.Errorf("reading theme %s: %w", path, err)
	}

	theme := DefaultTheme()
	for _, f := range theme.fields() {
		if !v.IsSet(f.key) {
			continue
		}
		c, err := parseColor(v.Get(f.key))
		if err != nil {
			return Theme{}, fmt.Errorf("theme %s: %s: %w", path, f.key, err)
		}
		*f.color = c
	}

	if err := theme.Validate(); err != nil {
		return Theme{}, fmt.Errorf("theme %s: %w", path, err)
	}
	return theme, nil
}

func parseColor(raw interface{}) (Color, error) {
	if s, ok := raw.(string); ok {
		return Preset(s), nil
	}

	m, err := cast.ToStringMapE(raw)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %v", ErrInvalidColor, raw)
	}
	if name, ok := m["name"]; ok {
		return Preset(cast.ToString(name)), nil
	}

	var rgb [3]uint8
	for i, k := range []string{"r", "g", "b"} {
		val, ok := m[k]
		if !ok {
			return Color{}, fmt.Errorf("%w: missing %q", ErrInvalidColor, k)
		}
		n, err := cast.ToIntE(val)
		if err != nil || n < 0 || n > 255 {
			return Color{}, fmt.Errorf("%w: %s=%v out of range", ErrInvalidColor, k, val)
		}
		rgb[i] = uint8(n)
	}
	return RGB(rgb[0], rgb[1], rgb[2]), nil
}

// ResolveTheme picks the theme for a session. Candidates are tried in
// order: $FSWHY_THEME, the configured path, then ./theme.toml. A candidate
// that is missing or invalid is logged and skipped. The returned source
// is the file the theme came from, or "" for the default.
func ResolveTheme(configured string) (Theme, string) {
	candidates := []string{os.Getenv(ThemeEnv), configured, DefaultThemeFile}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			if !os.IsNotExist(err) || path != DefaultThemeFile {
				logger.Debug("theme not available", "path", path, "error", err)
			}
			continue
		}
		theme, err := LoadThemeFile(path)
		if err != nil {
			logger.Warn("ignoring theme", "path", path, "error", err)
			continue
		}
		return theme, path
	}
	return DefaultTheme(), ""
}
