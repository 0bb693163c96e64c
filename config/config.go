package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment names recognized in ENV.
const (
	EnvDevelopment = "dev"
	EnvProduction  = "production"
)

type Config struct {
	ServerPort  int
	Environment string
	Database    DatabaseConfig
	Auth        AuthConfig
	OAuth       OAuthConfig
	Notify      NotifyConfig
	Media       MediaConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	UseSSL   bool
}

// AuthConfig covers token signing and the token cookie.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	// CookieSecure and CookieSameSite shape the token cookie. Cross-site
	// production deployments need SameSite=None with Secure.
	CookieSecure   bool
	CookieSameSite http.SameSite
}

// OAuthConfig covers the Google sign-in handshake. An empty client id or
// secret disables OAuth routes without preventing startup.
type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	CallbackURL        string
	SuccessRedirect    string
	FailureRedirect    string
}

// Enabled reports whether the OAuth routes should be registered.
func (c OAuthConfig) Enabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.CallbackURL != ""
}

// NotifyConfig selects the notification broker. Backend is "rabbitmq",
// "pubsub", or empty to disable notifications.
type NotifyConfig struct {
	Backend  string
	RabbitMQ RabbitMQConfig
	PubSub   PubSubConfig
}

type RabbitMQConfig struct {
	URL             string
	QueueDurable    bool
	QueueAutoDelete bool
	PrefetchCount   int
}

type PubSubConfig struct {
	ProjectID          string
	CredentialsFile    string
	SubscriptionSuffix string
}

// MediaConfig selects the object-storage backend for uploaded media.
// Backend is "minio", "gcs", or empty to disable uploads.
type MediaConfig struct {
	Backend string
	Minio   MinioConfig
	GCS     GCSConfig
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type GCSConfig struct {
	Bucket          string
	ProjectID       string
	CredentialsFile string
}

func LoadConfig() (Config, error) {
	env := getEnv("ENV", EnvDevelopment)
	if env == EnvDevelopment {
		godotenv.Load()
	}

	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvInt("DB_PORT", 5432),
		User:     getEnv("DB_USER", "eventease"),
		Password: getEnv("DB_PASSWORD", "password"),
		DBName:   getEnv("DB_NAME", "eventease_db"),
		UseSSL:   getEnvBool("DB_USE_SSL", false),
	}

	crossSite := getEnvBool("COOKIE_CROSS_SITE", false)
	sameSite := http.SameSiteLaxMode
	if env == EnvProduction && crossSite {
		sameSite = http.SameSiteNoneMode
	}
	authConfig := AuthConfig{
		JWTSecret:      strings.TrimSpace(os.Getenv("JWT_SECRET")),
		TokenTTL:       time.Duration(getEnvInt("JWT_TTL_DAYS", 30)) * 24 * time.Hour,
		CookieSecure:   env == EnvProduction,
		CookieSameSite: sameSite,
	}
	if env == EnvProduction && authConfig.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required in production")
	}

	oauthConfig := OAuthConfig{
		GoogleClientID:     strings.TrimSpace(os.Getenv("GOOGLE_CLIENT_ID")),
		GoogleClientSecret: strings.TrimSpace(os.Getenv("GOOGLE_CLIENT_SECRET")),
		CallbackURL:        strings.TrimSpace(os.Getenv("GOOGLE_CALLBACK_URL")),
		SuccessRedirect:    getEnv("OAUTH_SUCCESS_REDIRECT", "/"),
		FailureRedirect:    getEnv("OAUTH_FAILURE_REDIRECT", "/login?error=oauth"),
	}

	notifyConfig := NotifyConfig{
		Backend: getEnv("NOTIFY_BACKEND", ""),
		RabbitMQ: RabbitMQConfig{
			URL:             getEnv("RABBITMQ_URL", ""),
			QueueDurable:    getEnvBool("RABBITMQ_QUEUE_DURABLE", true),
			QueueAutoDelete: getEnvBool("RABBITMQ_QUEUE_AUTO_DELETE", false),
			PrefetchCount:   getEnvInt("RABBITMQ_PREFETCH", 8),
		},
		PubSub: PubSubConfig{
			ProjectID:          getEnv("PUBSUB_PROJECT_ID", ""),
			CredentialsFile:    getEnv("PUBSUB_CREDENTIALS_FILE", ""),
			SubscriptionSuffix: getEnv("PUBSUB_SUBSCRIPTION_SUFFIX", "-sub"),
		},
	}

	mediaConfig := MediaConfig{
		Backend: getEnv("MEDIA_BACKEND", ""),
		Minio: MinioConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "eventease-media"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		GCS: GCSConfig{
			Bucket:          getEnv("GCS_BUCKET", ""),
			ProjectID:       getEnv("GCS_PROJECT_ID", ""),
			CredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),
		},
	}

	return Config{
		ServerPort:  getEnvInt("SERVER_PORT", 8080),
		Environment: env,
		Database:    dbConfig,
		Auth:        authConfig,
		OAuth:       oauthConfig,
		Notify:      notifyConfig,
		Media:       mediaConfig,
	}, nil
}

// IsProduction reports whether the process runs with production settings.
func (c Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		var value int
		fmt.Sscanf(valueStr, "%d", &value)
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		switch strings.ToLower(strings.TrimSpace(valueStr)) {
		case "1", "true", "yes":
			return true
		case "0", "false", "no":
			return false
		}
	}
	return defaultValue
}
