// Package levels provides stage loading for Bust-a-Puzzle.
// This package depends on core but core does not depend on levels.
package levels

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/vovakirdan/bustapuzzle/internal/games/bustapuzzle/core"
	"github.com/vovakirdan/bustapuzzle/internal/games/bustapuzzle/levels/formats"
)

//go:embed data/*.yaml
var embedded embed.FS

// Level represents a complete stage definition.
type Level struct {
	ID         int
	Name       string
	Placements []core.Placement
	Metadata   map[string]string
	FilePath   string
}

// ToStage creates a core stage from the level.
func (l Level) ToStage() core.Stage {
	return core.Stage{ID: l.ID, Name: l.Name, Placements: l.Placements}
}

// Loader handles loading stages from a file system.
type Loader struct {
	fsys fs.FS
	root string
}

// NewLoader creates a loader reading stage files below a directory.
func NewLoader(root string) *Loader {
	return &Loader{fsys: os.DirFS(root), root: "."}
}

// Embedded returns a loader over the stages compiled into the binary.
func Embedded() *Loader {
	return &Loader{fsys: embedded, root: "data"}
}

// LoadAll recursively scans and loads all stage files.
// Returns stages sorted by ID for deterministic ordering.
func (l *Loader) LoadAll() ([]Level, error) {
	var levels []Level

	err := fs.WalkDir(l.fsys, l.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isSupportedExtension(strings.ToLower(path.Ext(p))) {
			return nil
		}

		level, err := l.LoadFile(p)
		if err != nil {
			return err
		}
		levels = append(levels, level)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", l.root, err)
	}

	slices.SortFunc(levels, func(a, b Level) int {
		return a.ID - b.ID
	})
	for i := 1; i < len(levels); i++ {
		if levels[i].ID == levels[i-1].ID {
			return nil, fmt.Errorf("stage %d defined in both %s and %s", levels[i].ID, levels[i-1].FilePath, levels[i].FilePath)
		}
	}
	return levels, nil
}

// LoadFile loads a single stage file, relative to the loader's file system.
func (l *Loader) LoadFile(p string) (Level, error) {
	data, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return Level{}, fmt.Errorf("reading file %s: %w", p, err)
	}

	parsed, err := parseByExtension(data, strings.ToLower(path.Ext(p)))
	if err != nil {
		return Level{}, fmt.Errorf("parsing file %s: %w", p, err)
	}

	return Level{
		ID:         parsed.ID,
		Name:       parsed.Name,
		Placements: parsed.Placements,
		Metadata:   parsed.Metadata,
		FilePath:   p,
	}, nil
}

// LoadByID loads a specific stage by ID.
func (l *Loader) LoadByID(id int) (Level, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return Level{}, err
	}

	for _, lvl := range levels {
		if lvl.ID == id {
			return lvl, nil
		}
	}
	return Level{}, fmt.Errorf("stage not found: %d", id)
}

// Campaign loads every stage, validates it against g and returns them in
// play order.
func (l *Loader) Campaign(g core.Grid) (core.Campaign, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("no stages found in %s", l.root)
	}

	campaign := make(core.Campaign, 0, len(levels))
	for _, lvl := range levels {
		st := lvl.ToStage()
		if err := core.ValidateStage(g, st); err != nil {
			return nil, fmt.Errorf("%s: %w", lvl.FilePath, err)
		}
		campaign = append(campaign, st)
	}
	return campaign, nil
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	return slices.Contains(formats.FormatExtensions(), ext)
}

// parseByExtension routes to the correct parser.
func parseByExtension(data []byte, ext string) (formats.Stage, error) {
	switch ext {
	case ".yaml", ".yml":
		return formats.ParseYAML(data)
	default:
		return formats.Stage{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}
