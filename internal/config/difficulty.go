package config

import "math"

// Floors below which difficulty never pushes the game.
const (
	minShiftShots     = 3
	minTimeoutSeconds = 3
)

// DifficultyManager calculates per-stage game parameters.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the difficulty level (0.0 to 1.0) for a 1-based stage.
func (d *DifficultyManager) Level(stage int) float64 {
	if !d.IsEnabled() || d.cfg.Progression.Type != "stage" {
		return d.initialLevel
	}

	maxAt := float64(d.cfg.Progression.MaxAt - 1)
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}
	progress := clampF(float64(stage-1)/maxAt, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// ShiftShots returns the shots between board shifts for a stage.
// A base of 0 keeps shifting disabled.
func (d *DifficultyManager) ShiftShots(base, stage int) int {
	if base <= 0 {
		return 0
	}
	reduction := int(d.Level(stage) * float64(d.cfg.Scaling.ShiftReduction))
	return max(base-reduction, min(base, minShiftShots))
}

// TimeoutSeconds returns the shot timer for a stage. A base of 0 keeps the
// timer disabled.
func (d *DifficultyManager) TimeoutSeconds(base, stage int) int {
	if base <= 0 {
		return 0
	}
	reduction := int(d.Level(stage) * float64(d.cfg.Scaling.TimeoutReduction))
	return max(base-reduction, min(base, minTimeoutSeconds))
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
