package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Environment holds CLI defaults read from the process environment.
type Environment struct {
	RulesFile string
	Format    string
	LogLevel  string
}

// LoadEnvironment reads TAXSPLIT_* variables. A .env file in the working directory is
// loaded first; it never overrides variables already set.
func LoadEnvironment() Environment {
	_ = godotenv.Load()

	env := Environment{
		RulesFile: os.Getenv("TAXSPLIT_RULES"),
		Format:    os.Getenv("TAXSPLIT_FORMAT"),
		LogLevel:  os.Getenv("TAXSPLIT_LOG_LEVEL"),
	}
	if env.Format == "" {
		env.Format = "console"
	}
	if env.LogLevel == "" {
		env.LogLevel = "warn"
	}
	return env
}
