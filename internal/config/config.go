package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"

	appErrors "auth-backend/pkg/errors"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Security SecurityConfig
	SMTP     SMTPConfig
	OAuth    OAuthConfig
	CORS     CORSConfig
}

type ServerConfig struct {
	Port        string
	Host        string
	Environment string
}

type DatabaseConfig struct {
	Host             string
	Port             string
	User             string
	Password         string
	DBName           string
	SSLMode          string
	MaxOpenConns     int
	MaxIdleConns     int
	StatementTimeout time.Duration
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type SecurityConfig struct {
	BcryptCost          int
	ResetTokenTTL       time.Duration
	ResetPasswordURL    string
	ResetSweepInterval  time.Duration
	MaxRequestSizeBytes int64
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type OAuthConfig struct {
	Google          OAuthProviderConfig
	GitHub          OAuthProviderConfig
	SuccessRedirect string
	FailureRedirect string
}

type OAuthProviderConfig struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

// Enabled is true once any of the provider's settings is present; Validate
// then requires all of them.
func (p OAuthProviderConfig) Enabled() bool {
	return p.ClientID != "" || p.ClientSecret != "" || p.CallbackURL != ""
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "3000")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("ENVIRONMENT", "development")

	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_STATEMENT_TIMEOUT", "5s")

	v.SetDefault("JWT_EXPIRY_HOURS", 1)

	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("RESET_TOKEN_TTL", "1h")
	v.SetDefault("RESET_PASSWORD_URL", "http://localhost:5173/reset-password")
	v.SetDefault("RESET_SWEEP_INTERVAL", "1h")
	v.SetDefault("MAX_REQUEST_SIZE_BYTES", 1<<20)

	v.SetDefault("SMTP_PORT", 2525)
	v.SetDefault("SMTP_FROM", "noreply@example.com")

	v.SetDefault("OAUTH_SUCCESS_REDIRECT_URL", "/")
	v.SetDefault("OAUTH_FAILURE_REDIRECT_URL", "/login")

	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:5174")
	v.SetDefault("CORS_ALLOWED_METHODS", "GET,POST")
	v.SetDefault("CORS_ALLOWED_HEADERS", "Content-Type,Authorization")
	v.SetDefault("CORS_MAX_AGE", 600)
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		log.Printf("Warning: config file not found: %v. Falling back to environment variables only.", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:        v.GetString("SERVER_PORT"),
			Host:        v.GetString("SERVER_HOST"),
			Environment: v.GetString("ENVIRONMENT"),
		},
		Database: DatabaseConfig{
			Host:             v.GetString("DB_HOST"),
			Port:             v.GetString("DB_PORT"),
			User:             v.GetString("DB_USER"),
			Password:         v.GetString("DB_PASSWORD"),
			DBName:           v.GetString("DB_NAME"),
			SSLMode:          v.GetString("DB_SSLMODE"),
			MaxOpenConns:     v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:     v.GetInt("DB_MAX_IDLE_CONNS"),
			StatementTimeout: v.GetDuration("DB_STATEMENT_TIMEOUT"),
		},
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			ExpiryHours: v.GetInt("JWT_EXPIRY_HOURS"),
		},
		Security: SecurityConfig{
			BcryptCost:          v.GetInt("BCRYPT_COST"),
			ResetTokenTTL:       v.GetDuration("RESET_TOKEN_TTL"),
			ResetPasswordURL:    v.GetString("RESET_PASSWORD_URL"),
			ResetSweepInterval:  v.GetDuration("RESET_SWEEP_INTERVAL"),
			MaxRequestSizeBytes: v.GetInt64("MAX_REQUEST_SIZE_BYTES"),
		},
		SMTP: SMTPConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			User:     v.GetString("SMTP_USER"),
			Password: v.GetString("SMTP_PASSWORD"),
			From:     v.GetString("SMTP_FROM"),
		},
		OAuth: OAuthConfig{
			Google: OAuthProviderConfig{
				ClientID:     v.GetString("OAUTH_GOOGLE_CLIENT_ID"),
				ClientSecret: v.GetString("OAUTH_GOOGLE_CLIENT_SECRET"),
				CallbackURL:  v.GetString("OAUTH_GOOGLE_CALLBACK_URL"),
			},
			GitHub: OAuthProviderConfig{
				ClientID:     v.GetString("OAUTH_GITHUB_CLIENT_ID"),
				ClientSecret: v.GetString("OAUTH_GITHUB_CLIENT_SECRET"),
				CallbackURL:  v.GetString("OAUTH_GITHUB_CALLBACK_URL"),
			},
			SuccessRedirect: v.GetString("OAUTH_SUCCESS_REDIRECT_URL"),
			FailureRedirect: v.GetString("OAUTH_FAILURE_REDIRECT_URL"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			AllowedMethods:   splitList(v.GetString("CORS_ALLOWED_METHODS")),
			AllowedHeaders:   splitList(v.GetString("CORS_ALLOWED_HEADERS")),
			ExposedHeaders:   splitList(v.GetString("CORS_EXPOSED_HEADERS")),
			AllowCredentials: v.GetBool("CORS_ALLOW_CREDENTIALS"),
			MaxAge:           v.GetInt("CORS_MAX_AGE"),
		},
	}

	return config, nil
}

// Validate reports every missing required setting in one CONFIGURATION_ERROR.
func (c *Config) Validate() error {
	var missing []string
	require := func(value, key string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, key)
		}
	}

	require(c.Database.Host, "DB_HOST")
	require(c.Database.DBName, "DB_NAME")
	require(c.Database.User, "DB_USER")
	require(c.JWT.Secret, "JWT_SECRET")
	require(c.SMTP.Host, "SMTP_HOST")

	if c.OAuth.Google.Enabled() {
		require(c.OAuth.Google.ClientID, "OAUTH_GOOGLE_CLIENT_ID")
		require(c.OAuth.Google.ClientSecret, "OAUTH_GOOGLE_CLIENT_SECRET")
		require(c.OAuth.Google.CallbackURL, "OAUTH_GOOGLE_CALLBACK_URL")
	}
	if c.OAuth.GitHub.Enabled() {
		require(c.OAuth.GitHub.ClientID, "OAUTH_GITHUB_CLIENT_ID")
		require(c.OAuth.GitHub.ClientSecret, "OAUTH_GITHUB_CLIENT_SECRET")
		require(c.OAuth.GitHub.CallbackURL, "OAUTH_GITHUB_CALLBACK_URL")
	}

	if len(missing) > 0 {
		return appErrors.Configuration("missing required configuration: " + strings.Join(missing, ", "))
	}

	if c.JWT.ExpiryHours <= 0 {
		return appErrors.Configuration("JWT_EXPIRY_HOURS must be positive")
	}
	if c.Security.ResetTokenTTL <= 0 {
		return appErrors.Configuration("RESET_TOKEN_TTL must be positive")
	}

	return nil
}

func (c *JWTConfig) Expiry() time.Duration {
	return time.Duration(c.ExpiryHours) * time.Hour
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
