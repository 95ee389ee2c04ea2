package presets

// SizeDef defines a named grid size loaded from JSON.
type SizeDef struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// SizesFile represents the structure of sizes.json.
type SizesFile struct {
	Sizes []SizeDef `json:"sizes"`
}

// LoadSizes loads size presets from the embedded sizes.json file.
func LoadSizes() ([]SizeDef, error) {
	file, err := Load[SizesFile]("sizes.json")
	if err != nil {
		return nil, err
	}
	return file.Sizes, nil
}
