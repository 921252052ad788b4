// Package config provides YAML-based game configuration loading and
// difficulty management for Bust-a-Puzzle.
package config

// PuzzleConfig contains all configuration for the bubble shooter.
type PuzzleConfig struct {
	Board      BoardConfig      `yaml:"board"`
	Shot       ShotConfig       `yaml:"shot"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// BoardConfig defines the hex grid and shift cadence.
type BoardConfig struct {
	Columns      int     `yaml:"columns"`
	Rows         int     `yaml:"rows"`
	BubbleRadius float64 `yaml:"bubble_radius"`
	ShiftShots   int     `yaml:"shift_shots"` // Shots between board shifts, 0 disables
}

// ShotConfig defines projectile and launcher parameters.
type ShotConfig struct {
	Speed          float64 `yaml:"speed"`           // Pixels per frame
	CollisionRatio float64 `yaml:"collision_ratio"` // Fraction of combined radii counted as contact
	MaxAngle       float64 `yaml:"max_angle"`       // Degrees either side of vertical
	AimStep        float64 `yaml:"aim_step"`        // Degrees per key press
	TimeoutSeconds int     `yaml:"timeout_seconds"` // Auto-fire after this long, 0 disables
	WarningSeconds int     `yaml:"warning_seconds"` // Countdown shown for the last N seconds
}

// ScoringConfig defines the stage clear time bonus.
type ScoringConfig struct {
	TimeBonusPar  int `yaml:"time_bonus_par"`  // Seconds
	TimeBonusRate int `yaml:"time_bonus_rate"` // Points per second under par
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over a run.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "stage" or "none"
	MaxAt int    `yaml:"max_at"` // Stage at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	ShiftReduction   int `yaml:"shift_reduction"`   // Fewer shots between shifts at max difficulty
	TimeoutReduction int `yaml:"timeout_reduction"` // Seconds cut from the shot timer at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a CLI value to a preset. Unknown values yield "".
func ParsePreset(s string) DifficultyPreset {
	switch p := DifficultyPreset(s); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p
	default:
		return ""
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
