package presets

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// DefaultThemeID is the theme used when none is configured.
const DefaultThemeID = "classic"

// ThemeDef defines a color theme loaded from JSON.
type ThemeDef struct {
	ID        string `json:"id"`        // Unique identifier (e.g., "classic")
	Name      string `json:"name"`      // Display name
	Wall      string `json:"wall"`      // Hex color of standing walls
	Visited   string `json:"visited"`   // Hex color of visited cells and open passages
	Unvisited string `json:"unvisited"` // Hex color of cells not yet reached
	Current   string `json:"current"`   // Hex color of the generator's cursor
}

// ThemesFile represents the structure of themes.json.
type ThemesFile struct {
	Themes []ThemeDef `json:"themes"`
}

// LoadThemes loads theme definitions from the embedded themes.json file.
func LoadThemes() ([]ThemeDef, error) {
	file, err := Load[ThemesFile]("themes.json")
	if err != nil {
		return nil, err
	}
	return file.Themes, nil
}

// Palette is a theme resolved to terminal colors.
type Palette struct {
	Wall      tcell.Color
	Visited   tcell.Color
	Unvisited tcell.Color
	Current   tcell.Color
}

// Palette parses the theme's hex colors.
func (t *ThemeDef) Palette() (Palette, error) {
	var p Palette
	fields := []struct {
		name string
		hex  string
		dst  *tcell.Color
	}{
		{"wall", t.Wall, &p.Wall},
		{"visited", t.Visited, &p.Visited},
		{"unvisited", t.Unvisited, &p.Unvisited},
		{"current", t.Current, &p.Current},
	}
	for _, f := range fields {
		c, err := ParseHexColor(f.hex)
		if err != nil {
			return Palette{}, fmt.Errorf("theme %s: %s color: %w", t.ID, f.name, err)
		}
		*f.dst = c
	}
	return p, nil
}
