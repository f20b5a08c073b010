// internal/config/config.go
//
// Application configuration schema.
//   - Sections: server, database, auth, game, daily, words, log.
//   - Fields map to YAML keys and to environment variables with defaults.
//   - Validate enforces cross-field rules (production secrets, word length).
// Loading lives in loader.go.

package config

import (
	"errors"
	"fmt"
	"time"
)

// DevJWTSecret is the fallback signing secret; refused in production.
const DevJWTSecret = "dev_secret_change_me"

// Config is the root application configuration.
type Config struct {
	Env      string         `yaml:"env" env:"NODE_ENV" env-default:"development"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Game     GameConfig     `yaml:"game"`
	Daily    DailyConfig    `yaml:"daily"`
	Words    WordsConfig    `yaml:"words"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `yaml:"port"             env:"PORT"                    env-default:"5175"`
	ClientOrigin    string        `yaml:"client_origin"    env:"CLIENT_ORIGIN"           env-default:"http://localhost:5173"`
	RequestTimeout  time.Duration `yaml:"request_timeout"  env:"SERVER_REQUEST_TIMEOUT"  env-default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"20s"`
	SessionTTL      time.Duration `yaml:"session_ttl"      env:"SERVER_SESSION_TTL"      env-default:"24h"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `yaml:"path" env:"DB_PATH" env-default:"./data/app.db"`
}

// AuthConfig holds JWT and cookie settings.
type AuthConfig struct {
	JWTSecret      string `yaml:"jwt_secret"       env:"JWT_SECRET"       env-default:"dev_secret_change_me"`
	JWTExpiresDays int    `yaml:"jwt_expires_days" env:"JWT_EXPIRES_DAYS" env-default:"14"`
	CookieName     string `yaml:"cookie_name"      env:"COOKIE_NAME"      env-default:"wordle_token"`
	AnonCookieName string `yaml:"anon_cookie_name" env:"ANON_COOKIE_NAME" env-default:"wordle_anon"`
}

// GameConfig holds round settings.
type GameConfig struct {
	WordLength int `yaml:"word_length" env:"GAME_WORD_LENGTH" env-default:"5"`
	Attempts   int `yaml:"attempts"    env:"GAME_ATTEMPTS"    env-default:"6"`
}

// DailyConfig holds daily challenge settings.
type DailyConfig struct {
	Salt            string `yaml:"salt"             env:"DAILY_SALT"             env-default:"local_dev_salt"`
	LeaderboardSize int    `yaml:"leaderboard_size" env:"DAILY_LEADERBOARD_SIZE" env-default:"20"`
}

// WordsConfig selects word lists and the optional remote word service.
type WordsConfig struct {
	AnswersFile    string        `yaml:"answers_file"    env:"WORDS_ANSWERS_FILE"`
	AllowedFile    string        `yaml:"allowed_file"    env:"WORDS_ALLOWED_FILE"`
	RemoteURL      string        `yaml:"remote_url"      env:"WORDS_REMOTE_URL"`
	RemoteTimeout  time.Duration `yaml:"remote_timeout"  env:"WORDS_REMOTE_TIMEOUT"  env-default:"5s"`
	RemoteAttempts uint          `yaml:"remote_attempts" env:"WORDS_REMOTE_ATTEMPTS" env-default:"3"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Pretty bool   `yaml:"pretty" env:"LOG_PRETTY" env-default:"false"`
}

// IsProduction reports whether secure cookies and strict checks apply.
func (c *Config) IsProduction() bool { return c.Env == "production" }

// Validate checks value ranges and production safety.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	if c.Game.WordLength < 2 || c.Game.WordLength > 15 {
		errs = append(errs, fmt.Errorf("game.word_length must be 2-15, got %d", c.Game.WordLength))
	}
	if c.Game.Attempts < 1 || c.Game.Attempts > 20 {
		errs = append(errs, fmt.Errorf("game.attempts must be 1-20, got %d", c.Game.Attempts))
	}
	if c.Auth.JWTExpiresDays < 1 {
		errs = append(errs, fmt.Errorf("auth.jwt_expires_days must be positive, got %d", c.Auth.JWTExpiresDays))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	}
	if c.IsProduction() && c.Auth.JWTSecret == DevJWTSecret {
		errs = append(errs, errors.New("auth.jwt_secret must be set in production"))
	}
	if c.Daily.LeaderboardSize < 1 {
		errs = append(errs, fmt.Errorf("daily.leaderboard_size must be positive, got %d", c.Daily.LeaderboardSize))
	}
	if c.Words.AnswersFile != "" && c.Words.AllowedFile == "" {
		errs = append(errs, errors.New("words.answers_file requires words.allowed_file"))
	}
	return errors.Join(errs...)
}
