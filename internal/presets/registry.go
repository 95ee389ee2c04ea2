package presets

import (
	"errors"
	"fmt"
)

// ErrUnknownPreset is returned when a theme or size ID is not defined.
var ErrUnknownPreset = errors.New("unknown preset")

// ThemeRegistry holds loaded theme definitions and provides lookup utilities.
type ThemeRegistry struct {
	themes map[string]*ThemeDef
	all    []ThemeDef
}

// NewThemeRegistry creates a registry from loaded theme definitions.
func NewThemeRegistry(themes []ThemeDef) *ThemeRegistry {
	registry := &ThemeRegistry{
		themes: make(map[string]*ThemeDef),
		all:    themes,
	}
	for i := range themes {
		registry.themes[themes[i].ID] = &themes[i]
	}
	return registry
}

// LoadThemeRegistry loads and creates a registry from the embedded themes.json.
func LoadThemeRegistry() (*ThemeRegistry, error) {
	themes, err := LoadThemes()
	if err != nil {
		return nil, err
	}
	if len(themes) == 0 {
		return nil, errors.New("no themes loaded from themes.json")
	}
	return NewThemeRegistry(themes), nil
}

// MustLoadThemeRegistry loads a registry, panicking on error.
func MustLoadThemeRegistry() *ThemeRegistry {
	registry, err := LoadThemeRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// GetByID returns the theme definition with the given ID, or nil if not found.
func (r *ThemeRegistry) GetByID(id string) *ThemeDef {
	return r.themes[id]
}

// Palette resolves the theme with the given ID. An empty ID selects DefaultThemeID.
func (r *ThemeRegistry) Palette(id string) (Palette, error) {
	if id == "" {
		id = DefaultThemeID
	}
	theme := r.GetByID(id)
	if theme == nil {
		return Palette{}, fmt.Errorf("%w: theme %q", ErrUnknownPreset, id)
	}
	return theme.Palette()
}

// All returns all theme definitions.
func (r *ThemeRegistry) All() []ThemeDef {
	return r.all
}

// Count returns the number of themes in the registry.
func (r *ThemeRegistry) Count() int {
	return len(r.all)
}

// =============================================================================
// SizeRegistry
// =============================================================================

// SizeRegistry holds loaded size presets.
type SizeRegistry struct {
	sizes []SizeDef
}

// NewSizeRegistry creates a registry from loaded size presets.
func NewSizeRegistry(sizes []SizeDef) *SizeRegistry {
	return &SizeRegistry{sizes: sizes}
}

// LoadSizeRegistry loads and creates a registry from the embedded sizes.json.
func LoadSizeRegistry() (*SizeRegistry, error) {
	sizes, err := LoadSizes()
	if err != nil {
		return nil, err
	}
	if len(sizes) == 0 {
		return nil, errors.New("no sizes loaded from sizes.json")
	}
	return NewSizeRegistry(sizes), nil
}

// Lookup returns the dimensions of the named size preset.
func (r *SizeRegistry) Lookup(id string) (width, height int, err error) {
	for i := range r.sizes {
		if r.sizes[i].ID == id {
			return r.sizes[i].Width, r.sizes[i].Height, nil
		}
	}
	return 0, 0, fmt.Errorf("%w: size %q", ErrUnknownPreset, id)
}

// All returns all size presets.
func (r *SizeRegistry) All() []SizeDef {
	return r.sizes
}
