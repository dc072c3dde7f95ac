package config

import (
	"fmt"
	"log"
)

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		log.Fatalf("missing required env %s", envName)
	}
}

// Validate reports settings that cannot work together. The guest mode
// needs nothing.
func (c Config) Validate() error {
	switch c.AuthMode {
	case AuthModeGuest:
	case AuthModeRemote:
		if c.AuthURL == "" || c.AuthAPIKey == "" {
			return fmt.Errorf("AUTH_MODE=remote requires AUTH_URL and AUTH_API_KEY")
		}
	case AuthModeLocal:
		if c.DatabaseURL == "" {
			return fmt.Errorf("AUTH_MODE=local requires DATABASE_URL")
		}
		if len(c.JWTSecret) == 0 {
			return fmt.Errorf("AUTH_MODE=local requires JWT_SECRET")
		}
	default:
		return fmt.Errorf("unknown AUTH_MODE %q", c.AuthMode)
	}
	return nil
}
