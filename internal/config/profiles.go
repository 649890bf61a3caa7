package config

import (
	"fmt"

	"fileshred/internal/shred"
)

// Profiles lists the names accepted by ApplyProfile.
var Profiles = []string{"quick", "standard", "paranoid"}

// ApplyProfile overrides pass and removal settings with a named preset.
func ApplyProfile(cfg *Config, profile string) error {
	switch profile {
	case "quick":
		cfg.Shred.Passes = 1
		cfg.Shred.Zero = false
	case "standard":
		cfg.Shred.Passes = 3
		cfg.Shred.Zero = false
	case "paranoid":
		cfg.Shred.Passes = 7
		cfg.Shred.Zero = true
		cfg.Shred.Remove = string(shred.RemoveWipeSync)
	default:
		return fmt.Errorf("unknown profile: %s", profile)
	}
	return nil
}
