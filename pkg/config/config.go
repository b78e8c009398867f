package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Port     string `mapstructure:"PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Redis
	RedisURL string        `mapstructure:"REDIS_URL"`
	CacheTTL time.Duration `mapstructure:"CACHE_TTL"`

	// Exact solver sidecar
	ExactSolverURL          string        `mapstructure:"EXACT_SOLVER_URL"`
	ExactSolverTimeout      time.Duration `mapstructure:"EXACT_SOLVER_TIMEOUT"`
	ExactProbeSchedule      string        `mapstructure:"EXACT_PROBE_SCHEDULE"`
	CircuitBreakerThreshold int           `mapstructure:"CIRCUIT_BREAKER_THRESHOLD"`

	// Request throttling
	SolveRateLimit float64 `mapstructure:"SOLVE_RATE_LIMIT"`
	SolveRateBurst int     `mapstructure:"SOLVE_RATE_BURST"`

	// Annealing schedule
	SolverInitialTemp       float64 `mapstructure:"SOLVER_INITIAL_TEMP"`
	SolverCoolingRate       float64 `mapstructure:"SOLVER_COOLING_RATE"`
	SolverMinTemp           float64 `mapstructure:"SOLVER_MIN_TEMP"`
	SolverIterationsPerTemp int     `mapstructure:"SOLVER_ITERATIONS_PER_TEMP"`
	SkillGapWarning         int     `mapstructure:"SKILL_GAP_WARNING"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "")
	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("CACHE_TTL", "1h")
	viper.SetDefault("EXACT_SOLVER_URL", "") // empty disables the sidecar
	viper.SetDefault("EXACT_SOLVER_TIMEOUT", "10s")
	viper.SetDefault("EXACT_PROBE_SCHEDULE", "@every 1m")
	viper.SetDefault("CIRCUIT_BREAKER_THRESHOLD", 3)
	viper.SetDefault("SOLVE_RATE_LIMIT", 10.0) // requests per second per instance
	viper.SetDefault("SOLVE_RATE_BURST", 20)
	viper.SetDefault("SOLVER_INITIAL_TEMP", 1000.0)
	viper.SetDefault("SOLVER_COOLING_RATE", 0.995)
	viper.SetDefault("SOLVER_MIN_TEMP", 0.1)
	viper.SetDefault("SOLVER_ITERATIONS_PER_TEMP", 25)
	viper.SetDefault("SKILL_GAP_WARNING", 5)

	// Read from environment
	viper.AutomaticEnv()

	// Read config file if exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// ExactSolverEnabled reports whether an exact solver sidecar is
// configured at all.
func (c *Config) ExactSolverEnabled() bool {
	return c.ExactSolverURL != ""
}
