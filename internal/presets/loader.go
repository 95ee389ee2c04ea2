package presets

import (
	"encoding/json"
	"fmt"
)

// Load decodes one of the embedded preset files into T.
func Load[T any](filename string) (T, error) {
	var result T

	content, err := dataFS.ReadFile(filename)
	if err != nil {
		return result, fmt.Errorf("read preset file %s: %w", filename, err)
	}

	if err := json.Unmarshal(content, &result); err != nil {
		return result, fmt.Errorf("decode preset file %s: %w", filename, err)
	}

	return result, nil
}

// MustLoad is Load for files that ship with the binary; a failure there is a
// build defect, so it panics.
func MustLoad[T any](filename string) T {
	result, err := Load[T](filename)
	if err != nil {
		panic(err)
	}
	return result
}
