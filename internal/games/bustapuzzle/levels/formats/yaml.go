// Package formats provides pluggable stage file format parsers.
package formats

import (
	"fmt"

	"github.com/vovakirdan/bustapuzzle/internal/games/bustapuzzle/core"
	"gopkg.in/yaml.v3"
)

// YAMLStage represents the YAML structure for a stage file.
type YAMLStage struct {
	ID       int               `yaml:"id"`
	Name     string            `yaml:"name"`
	Bubbles  []YAMLBubble      `yaml:"bubbles"`
	Metadata map[string]string `yaml:"metadata,omitempty"`
}

// YAMLBubble represents a single pre-placed bubble. Row -1 is the anchor row.
type YAMLBubble struct {
	Row int    `yaml:"row"`
	Col int    `yaml:"col"`
	C   string `yaml:"c"` // Color as string
}

// Stage represents a parsed stage ready for validation.
type Stage struct {
	ID         int
	Name       string
	Placements []core.Placement
	Metadata   map[string]string
}

// ParseYAML parses a YAML stage file. Placements keep file order.
func ParseYAML(data []byte) (Stage, error) {
	var ys YAMLStage
	if err := yaml.Unmarshal(data, &ys); err != nil {
		return Stage{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if ys.ID <= 0 {
		return Stage{}, fmt.Errorf("stage id must be positive, got %d", ys.ID)
	}

	st := Stage{
		ID:         ys.ID,
		Name:       ys.Name,
		Placements: make([]core.Placement, 0, len(ys.Bubbles)),
		Metadata:   ys.Metadata,
	}
	for _, b := range ys.Bubbles {
		color, ok := core.ParseColor(b.C)
		if !ok {
			return Stage{}, fmt.Errorf("bubble (%d,%d): unknown colour %q", b.Row, b.Col, b.C)
		}
		st.Placements = append(st.Placements, core.Placement{Row: b.Row, Col: b.Col, Color: color})
	}
	return st, nil
}

// MarshalYAML encodes a stage in the same layout ParseYAML reads.
func MarshalYAML(st core.Stage) ([]byte, error) {
	ys := YAMLStage{ID: st.ID, Name: st.Name}
	for _, p := range st.Placements {
		ys.Bubbles = append(ys.Bubbles, YAMLBubble{Row: p.Row, Col: p.Col, C: p.Color.String()})
	}
	return yaml.Marshal(ys)
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}

// ToStage converts the parsed data to a core stage.
func (s Stage) ToStage() core.Stage {
	return core.Stage{ID: s.ID, Name: s.Name, Placements: s.Placements}
}
