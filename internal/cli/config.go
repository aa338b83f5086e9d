package cli

import (
	"github.com/mcoot/spellgame/internal/config"
)

// Config holds CLI configuration
type Config struct {
	ServerURL  string `env:"SPELLA_SERVER" envDefault:"http://localhost:8080"`
	PlayerID   string `env:"SPELLA_PLAYER_ID"`
	PlayerName string `env:"SPELLA_PLAYER_NAME"`
	Output     string `env:"SPELLA_OUTPUT" envDefault:"text"`
	Verbose    bool   `env:"SPELLA_VERBOSE"`
}

// DefaultConfig returns a Config populated from the environment
func DefaultConfig() (*Config, error) {
	c := &Config{}
	if err := config.ParseEnv(c); err != nil {
		return nil, err
	}
	return c, nil
}
