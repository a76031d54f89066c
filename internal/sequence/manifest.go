package sequence

import (
	"encoding/json"
	"fmt"
	"os"
)

// Manifest describes a rendered sequence so a player can load the frames
// without re-reading the source asset.
type Manifest struct {
	Animation string   `json:"animation"`
	FPS       float64  `json:"fps"`
	Frames    []Result `json:"frames"`
}

// WriteManifest writes manifest.json next to the rendered frames. Failed
// frames are left out.
func WriteManifest(path, animation string, fps float64, results []Result) error {
	m := Manifest{Animation: animation, FPS: fps}
	for _, r := range results {
		if r.Success {
			m.Frames = append(m.Frames, r)
		}
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("sequence: manifest: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
