package config

import "fmt"

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string
	Pretty bool
}

// NewLogConfig reads LOG_LEVEL (default info) and LOG_PRETTY.
func NewLogConfig() (*LogConfig, error) {
	pretty, err := envBool("LOG_PRETTY", false)
	if err != nil {
		return nil, err
	}
	return &LogConfig{
		Level:  envOr("LOG_LEVEL", "info"),
		Pretty: pretty,
	}, nil
}

// AppConfig holds process-wide settings for the API server.
type AppConfig struct {
	DatabaseURL string
	CORSOrigin  string
	LogLevel    string
	LogPretty   bool
}

// NewAppConfig reads DATABASE_URL (required), CORS_ORIGIN (default *) and the
// logging variables read by NewLogConfig.
func NewAppConfig() (*AppConfig, error) {
	logConfig, err := NewLogConfig()
	if err != nil {
		return nil, err
	}
	config := &AppConfig{
		DatabaseURL: envOr("DATABASE_URL", ""),
		CORSOrigin:  envOr("CORS_ORIGIN", "*"),
		LogLevel:    logConfig.Level,
		LogPretty:   logConfig.Pretty,
	}
	if config.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required but not set")
	}
	return config, nil
}
