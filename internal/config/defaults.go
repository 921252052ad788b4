package config

import (
	_ "embed"
)

//go:embed defaults/bustapuzzle.yaml
var defaultPuzzleYAML []byte

// DefaultPuzzleConfig returns the default configuration.
func DefaultPuzzleConfig() PuzzleConfig {
	return PuzzleConfig{
		Board: BoardConfig{
			Columns:      8,
			Rows:         11,
			BubbleRadius: 20,
			ShiftShots:   8,
		},
		Shot: ShotConfig{
			Speed:          8,
			CollisionRatio: 0.9,
			MaxAngle:       85,
			AimStep:        3,
			TimeoutSeconds: 10,
			WarningSeconds: 5,
		},
		Scoring: ScoringConfig{
			TimeBonusPar:  120,
			TimeBonusRate: 10,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "stage",
				MaxAt: 10,
			},
			Scaling: ScalingConfig{
				ShiftReduction:   4,
				TimeoutReduction: 4,
			},
		},
	}
}
