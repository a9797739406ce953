package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Environment Variable Utilities
// ─────────────────────────────────────────────────────────────────────────────

// lookupEnv returns the MATNN_-prefixed variable, treating empty as unset.
func lookupEnv(key string) (string, bool) {
	val := os.Getenv(EnvPrefix + key)
	return val, val != ""
}

func getEnvString(key, defaultVal string) string {
	if val, ok := lookupEnv(key); ok {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val, ok := lookupEnv(key); ok {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvUint64(key string, defaultVal uint64) uint64 {
	if val, ok := lookupEnv(key); ok {
		if parsed, err := strconv.ParseUint(val, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val, ok := lookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvBool accepts true/1/yes and false/0/no, case-insensitively. Any
// other value leaves the default.
func getEnvBool(key string, defaultVal bool) bool {
	if val, ok := lookupEnv(key); ok {
		switch strings.ToLower(val) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, ok := lookupEnv(key); ok {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// isFlagSet reports whether any of names was given on the command line.
func isFlagSet(fs *flag.FlagSet, names ...string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		for _, name := range names {
			if f.Name == name {
				found = true
			}
		}
	})
	return found
}

// envBinding ties a flag (and its aliases) to a MATNN_ variable.
type envBinding struct {
	flags []string
	key   string
	apply func(c *AppConfig, key string)
}

func intBinding(key string, field func(*AppConfig) *int, flags ...string) envBinding {
	return envBinding{flags, key, func(c *AppConfig, key string) {
		p := field(c)
		*p = getEnvInt(key, *p)
	}}
}

func stringBinding(key string, field func(*AppConfig) *string, flags ...string) envBinding {
	return envBinding{flags, key, func(c *AppConfig, key string) {
		p := field(c)
		*p = getEnvString(key, *p)
	}}
}

func boolBinding(key string, field func(*AppConfig) *bool, flags ...string) envBinding {
	return envBinding{flags, key, func(c *AppConfig, key string) {
		p := field(c)
		*p = getEnvBool(key, *p)
	}}
}

func floatBinding(key string, field func(*AppConfig) *float64, flags ...string) envBinding {
	return envBinding{flags, key, func(c *AppConfig, key string) {
		p := field(c)
		*p = getEnvFloat(key, *p)
	}}
}

// envBindings lists every supported variable, e.g. MATNN_ALGO=strassen,
// MATNN_MIN_SIZE=128, MATNN_TIMEOUT=30s, MATNN_SERVER=true.
var envBindings = []envBinding{
	stringBinding("A", func(c *AppConfig) *string { return &c.APath }, "a"),
	stringBinding("B", func(c *AppConfig) *string { return &c.BPath }, "b"),
	intBinding("SIZE", func(c *AppConfig) *int { return &c.Size }, "size"),
	{[]string{"seed"}, "SEED", func(c *AppConfig, key string) { c.Seed = getEnvUint64(key, c.Seed) }},
	stringBinding("ALGO", func(c *AppConfig) *string { return &c.Algo }, "algo"),
	intBinding("MIN_SIZE", func(c *AppConfig) *int { return &c.MinSize }, "min-size"),
	intBinding("PARALLEL_DEPTH", func(c *AppConfig) *int { return &c.ParallelDepth }, "parallel-depth"),
	intBinding("WORKERS", func(c *AppConfig) *int { return &c.Workers }, "workers"),
	boolBinding("SEQUENTIAL", func(c *AppConfig) *bool { return &c.Sequential }, "sequential"),
	floatBinding("TOLERANCE", func(c *AppConfig) *float64 { return &c.Tolerance }, "tolerance"),
	{[]string{"timeout"}, "TIMEOUT", func(c *AppConfig, key string) { c.Timeout = getEnvDuration(key, c.Timeout) }},
	stringBinding("OUTPUT", func(c *AppConfig) *string { return &c.OutputFile }, "output", "o"),
	boolBinding("VERBOSE", func(c *AppConfig) *bool { return &c.Verbose }, "v"),
	boolBinding("JSON", func(c *AppConfig) *bool { return &c.JSONOutput }, "json"),
	boolBinding("QUIET", func(c *AppConfig) *bool { return &c.Quiet }, "quiet", "q"),
	boolBinding("NO_COLOR", func(c *AppConfig) *bool { return &c.NoColor }, "no-color"),
	stringBinding("LOG_LEVEL", func(c *AppConfig) *string { return &c.LogLevel }, "log-level"),
	boolBinding("TRAIN", func(c *AppConfig) *bool { return &c.Train }, "train"),
	stringBinding("TRAIN_X", func(c *AppConfig) *string { return &c.TrainX }, "train-x"),
	stringBinding("TRAIN_Y", func(c *AppConfig) *string { return &c.TrainY }, "train-y"),
	intBinding("CLASSES", func(c *AppConfig) *int { return &c.Classes }, "classes"),
	intBinding("HIDDEN", func(c *AppConfig) *int { return &c.Hidden }, "hidden"),
	intBinding("EPOCHS", func(c *AppConfig) *int { return &c.Epochs }, "epochs"),
	intBinding("BATCH_SIZE", func(c *AppConfig) *int { return &c.BatchSize }, "batch-size"),
	floatBinding("LR", func(c *AppConfig) *float64 { return &c.LearningRate }, "lr"),
	boolBinding("CALIBRATE", func(c *AppConfig) *bool { return &c.Calibrate }, "calibrate"),
	stringBinding("CALIBRATION_PROFILE", func(c *AppConfig) *string { return &c.CalibrationProfile }, "calibration-profile"),
	boolBinding("SERVER", func(c *AppConfig) *bool { return &c.ServerMode }, "server"),
	stringBinding("PORT", func(c *AppConfig) *string { return &c.Port }, "port"),
}

// applyEnvOverrides applies MATNN_* values to every setting whose flag was
// not given explicitly: CLI flags > environment > defaults.
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	for _, b := range envBindings {
		if !isFlagSet(fs, b.flags...) {
			b.apply(config, b.key)
		}
	}
}
