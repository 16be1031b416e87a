package platform

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	checkerrors "infra-check/pkg/errors"
)

// DefaultCallTimeout bounds a single provider call.
const DefaultCallTimeout = 20 * time.Second

// Config holds the runtime settings shared by all commands.
type Config struct {
	LogLevel    string        `validate:"oneof=trace debug info warn error"`
	Region      string        `validate:"omitempty,min=4"`
	Profile     string
	CallTimeout time.Duration `validate:"gt=0"`
	Color       bool
}

// DefaultConfig returns configuration resolved from the environment only.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:    GetEnv("INFRACHECK_LOG_LEVEL", "info"),
		Region:      GetEnv("INFRACHECK_REGION", ""),
		Profile:     GetEnv("AWS_PROFILE", ""),
		CallTimeout: GetEnvDuration("INFRACHECK_CALL_TIMEOUT", DefaultCallTimeout),
		Color:       GetEnv("NO_COLOR", "") == "",
	}
}

var configValidate = validator.New()

// Validate rejects settings no command can run with.
func (c *Config) Validate() error {
	c.LogLevel = strings.ToLower(c.LogLevel)
	if err := configValidate.Struct(c); err != nil {
		return checkerrors.NewInvalidConfigError(fmt.Sprintf("invalid settings: %v", err), err)
	}
	return nil
}

// GetEnv reads an env var with a default.
func GetEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func GetEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// GetEnvDuration accepts Go duration strings ("30s") or plain seconds.
func GetEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	if secs := GetEnvInt(key, -1); secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultVal
}
