package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	AuthModeFirebase = "firebase"
	AuthModeHS256    = "hs256"

	MailDriverSMTP = "smtp"
	MailDriverLog  = "log"

	DispatchDirect = "direct"
	DispatchKafka  = "kafka"
	DispatchNATS   = "nats"

	defaultFirebaseJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPass     string
	DBName     string
	ServerPort string
	RedisURL   string
	Env        string
	RedisTTL   time.Duration
	AppURL     string
	SeedDemo   bool

	FrontendURL string

	AuthMode          string
	FirebaseProjectID string
	FirebaseJWKSURL   string
	AuthHS256Secret   string

	MailDriver   string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string

	EmailDispatch     string
	EmailConcurrency  int
	EmailMaxAttempts  int
	EmailRetryBackoff time.Duration
	NotifyActor       bool

	KafkaBrokers    []string
	KafkaEmailTopic string
	KafkaGroupID    string

	NATSURL          string
	NATSEmailSubject string

	InvitationTTL time.Duration
}

func LoadConfig() Config {
	return Config{
		DBHost:     getEnv("DB_HOST", "postgres"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPass:     getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "kanbaniq"),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		RedisURL:   getEnv("REDIS_URL", "redis:6379"),
		Env:        getEnv("ENV", "dev"),
		RedisTTL:   getEnvAsDuration("REDIS_TTL", 5*time.Minute),
		AppURL:     strings.TrimRight(getEnv("APP_URL", "http://localhost:3000"), "/"),
		SeedDemo:   getEnvAsBool("SEED_DEMO", false),

		FrontendURL: getEnv("FRONTEND_URL", ""),

		AuthMode:          strings.ToLower(getEnv("AUTH_MODE", AuthModeFirebase)),
		FirebaseProjectID: getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseJWKSURL:   getEnv("FIREBASE_JWKS_URL", defaultFirebaseJWKSURL),
		AuthHS256Secret:   getEnv("AUTH_HS256_SECRET", ""),

		MailDriver:   strings.ToLower(getEnv("MAIL_DRIVER", MailDriverLog)),
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", ""),

		EmailDispatch:     strings.ToLower(getEnv("EMAIL_DISPATCH", DispatchDirect)),
		EmailConcurrency:  getEnvAsInt("EMAIL_CONCURRENCY", 4),
		EmailMaxAttempts:  getEnvAsInt("EMAIL_MAX_ATTEMPTS", 3),
		EmailRetryBackoff: getEnvAsDuration("EMAIL_RETRY_BACKOFF", 500*time.Millisecond),
		NotifyActor:       getEnvAsBool("NOTIFY_ACTOR", false),

		KafkaBrokers:    getEnvAsList("KAFKA_BROKERS"),
		KafkaEmailTopic: getEnv("KAFKA_EMAIL_TOPIC", "kanbaniq.emails"),
		KafkaGroupID:    getEnv("KAFKA_GROUP_ID", "kanbaniq-email-worker"),

		NATSURL:          getEnv("NATS_URL", ""),
		NATSEmailSubject: getEnv("NATS_EMAIL_SUBJECT", "kanbaniq.emails"),

		InvitationTTL: getEnvAsDuration("INVITATION_TTL", 7*24*time.Hour),
	}
}

// Validate reports settings that cannot work together. It does not dial anything.
func (c *Config) Validate() error {
	var errs []error

	switch c.AuthMode {
	case AuthModeFirebase:
		if c.FirebaseProjectID == "" {
			errs = append(errs, errors.New("FIREBASE_PROJECT_ID is required when AUTH_MODE=firebase"))
		}
	case AuthModeHS256:
		if c.AuthHS256Secret == "" {
			errs = append(errs, errors.New("AUTH_HS256_SECRET is required when AUTH_MODE=hs256"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported AUTH_MODE %q", c.AuthMode))
	}

	switch c.MailDriver {
	case MailDriverLog:
	case MailDriverSMTP:
		if c.SMTPHost == "" || c.SMTPFrom == "" {
			errs = append(errs, errors.New("SMTP_HOST and SMTP_FROM are required when MAIL_DRIVER=smtp"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported MAIL_DRIVER %q", c.MailDriver))
	}

	switch c.EmailDispatch {
	case DispatchDirect:
	case DispatchKafka:
		if len(c.KafkaBrokers) == 0 {
			errs = append(errs, errors.New("KAFKA_BROKERS is required when EMAIL_DISPATCH=kafka"))
		}
	case DispatchNATS:
		if c.NATSURL == "" {
			errs = append(errs, errors.New("NATS_URL is required when EMAIL_DISPATCH=nats"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported EMAIL_DISPATCH %q", c.EmailDispatch))
	}

	if c.EmailConcurrency < 1 {
		errs = append(errs, errors.New("EMAIL_CONCURRENCY must be at least 1"))
	}
	if c.EmailMaxAttempts < 1 {
		errs = append(errs, errors.New("EMAIL_MAX_ATTEMPTS must be at least 1"))
	}

	return errors.Join(errs...)
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPass, c.DBName, c.DBPort,
	)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := strconv.ParseBool(value); err == nil {
			return v
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := time.ParseDuration(value); err == nil && v > 0 {
			return v
		}
	}
	return fallback
}

func getEnvAsList(key string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
