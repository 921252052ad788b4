package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the file name looked up in the user and local directories.
const ConfigFile = "bustapuzzle.yaml"

// Load loads the game configuration.
// Search order: customPath -> ~/.bustapuzzle/config.yaml -> ./configs/bustapuzzle.yaml -> embedded default
// Values missing from a file keep their defaults.
func Load(customPath string) (PuzzleConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DefaultPuzzleConfig(), fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return DefaultPuzzleConfig(), fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", ConfigFile)); err == nil {
		if cfg, err := parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parse(defaultPuzzleYAML)
	if err != nil {
		return DefaultPuzzleConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// parse overlays data on the hard-coded defaults and validates the result.
func parse(data []byte) (PuzzleConfig, error) {
	cfg := DefaultPuzzleConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values the simulation cannot run with.
func (c PuzzleConfig) Validate() error {
	switch {
	case c.Board.Columns < 2:
		return fmt.Errorf("board.columns must be at least 2, got %d", c.Board.Columns)
	case c.Board.Rows < 1:
		return fmt.Errorf("board.rows must be positive, got %d", c.Board.Rows)
	case c.Board.BubbleRadius <= 0:
		return fmt.Errorf("board.bubble_radius must be positive, got %v", c.Board.BubbleRadius)
	case c.Board.ShiftShots < 0:
		return fmt.Errorf("board.shift_shots must not be negative, got %d", c.Board.ShiftShots)
	case c.Shot.Speed <= 0 || c.Shot.Speed >= c.Board.BubbleRadius:
		return fmt.Errorf("shot.speed must be in (0, bubble_radius), got %v", c.Shot.Speed)
	case c.Shot.CollisionRatio <= 0 || c.Shot.CollisionRatio > 1:
		return fmt.Errorf("shot.collision_ratio must be in (0, 1], got %v", c.Shot.CollisionRatio)
	case c.Shot.MaxAngle <= 0 || c.Shot.MaxAngle >= 90:
		return fmt.Errorf("shot.max_angle must be in (0, 90), got %v", c.Shot.MaxAngle)
	case c.Shot.TimeoutSeconds < 0 || c.Shot.WarningSeconds < 0:
		return fmt.Errorf("shot timers must not be negative")
	}
	return nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".bustapuzzle", "config.yaml")
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *PuzzleConfig, preset DifficultyPreset) {
	if preset == "" {
		return
	}
	if IsFixedPreset(preset) {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	switch preset {
	case DifficultyEasy:
		cfg.Board.ShiftShots += 2
	case DifficultyHard:
		if cfg.Shot.TimeoutSeconds > 0 {
			cfg.Shot.TimeoutSeconds = max(cfg.Shot.TimeoutSeconds-2, minTimeoutSeconds)
		}
	}
}
