package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Redis    RedisConfig    `mapstructure:"redis"`
	SRS      SRSConfig      `mapstructure:"srs"`
	Reviews  ReviewsConfig  `mapstructure:"reviews"  validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                int      `mapstructure:"port"                  validate:"required,gt=0,lt=65536"`
	LogLevel            string   `mapstructure:"log_level"             validate:"required,oneof=debug info warn error"`
	ReadTimeoutSeconds  int      `mapstructure:"read_timeout_seconds"  validate:"gte=1"`
	WriteTimeoutSeconds int      `mapstructure:"write_timeout_seconds" validate:"gte=1"`
	CORSAllowedOrigins  []string `mapstructure:"cors_allowed_origins"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL                    string `mapstructure:"url"                       validate:"required,url"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"            validate:"gte=1"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"            validate:"gte=0"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gte=1"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0,lt=44640"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0,lt=525600"`
	BCryptCost                  int    `mapstructure:"bcrypt_cost"                    validate:"gte=4,lte=31"`
}

// RedisConfig points at the refresh token allowlist. An empty URL disables it.
type RedisConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// SRSConfig overrides the review scheduler parameters. Zero values keep the defaults.
type SRSConfig struct {
	InitialEaseFactor float64 `mapstructure:"initial_ease_factor"  validate:"gte=0"`
	MinEaseFactor     float64 `mapstructure:"min_ease_factor"      validate:"gte=0"`
	MaxIntervalDays   int     `mapstructure:"max_interval_days"    validate:"gte=0"`
	CorrectEaseDelta  float64 `mapstructure:"correct_ease_delta"   validate:"gte=0"`
	// IncorrectEaseDelta is the size of the decrease applied on a wrong answer.
	IncorrectEaseDelta float64 `mapstructure:"incorrect_ease_delta" validate:"gte=0"`
	LearningThreshold  int     `mapstructure:"learning_threshold"   validate:"gte=0"`
	ReviewingThreshold int     `mapstructure:"reviewing_threshold"  validate:"gte=0"`
	MasteredThreshold  int     `mapstructure:"mastered_threshold"   validate:"gte=0"`
}

// ReviewsConfig bounds the due-review listing.
type ReviewsConfig struct {
	DefaultDueLimit int `mapstructure:"default_due_limit" validate:"required,gt=0,ltefield=MaxDueLimit"`
	MaxDueLimit     int `mapstructure:"max_due_limit"     validate:"required,gt=0"`
}
