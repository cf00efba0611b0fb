package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"development"`
	JWTSecret   string `envconfig:"JWT_SECRET" required:"true"`
	APIBaseURL  string `envconfig:"API_BASE_URL" default:"http://localhost:8080"`

	// Course gateway settings
	GatewayBaseURL      string `envconfig:"GATEWAY_BASE_URL" required:"true"`
	GatewayTimeoutSec   int    `envconfig:"GATEWAY_TIMEOUT_SEC" default:"30"`
	GatewayServiceToken string `envconfig:"GATEWAY_SERVICE_TOKEN"`

	// Draft persistence settings
	DraftStore          string `envconfig:"DRAFT_STORE" default:"memory"` // memory|redis|postgres
	DraftDebounceMillis int    `envconfig:"DRAFT_DEBOUNCE_MILLIS" default:"2000"`
	DraftRetentionDays  int    `envconfig:"DRAFT_RETENTION_DAYS" default:"30"`
	DraftPruneSchedule  string `envconfig:"DRAFT_PRUNE_SCHEDULE" default:"@every 6h"`

	DBConnectionString string `envconfig:"DB_CONNECTION_STRING"`
	RedisAddr          string `envconfig:"REDIS_ADDR"`
	RedisPassword      string `envconfig:"REDIS_PASSWORD"`
	RedisDB            int    `envconfig:"REDIS_DB" default:"0"`
	CourseListCacheTTL int    `envconfig:"COURSE_LIST_CACHE_TTL_SEC" default:"300"`

	// Video processing settings
	VideoPollIntervalSec  int `envconfig:"VIDEO_POLL_INTERVAL_SEC" default:"2"`
	VideoPollTimeoutSec   int `envconfig:"VIDEO_POLL_TIMEOUT_SEC" default:"120"`
	VideoUploadTimeoutSec int `envconfig:"VIDEO_UPLOAD_TIMEOUT_SEC" default:"900"`

	// Resource storage settings
	ResourceStorage string `envconfig:"RESOURCE_STORAGE" default:"gateway"` // gateway|s3
	S3URL           string `envconfig:"S3_URL"`
	S3Bucket        string `envconfig:"S3_BUCKET"`
	S3Region        string `envconfig:"S3_REGION" default:"us-east-1"`
	S3AccessKey     string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey     string `envconfig:"S3_SECRET_KEY"`

	// Stripe settings. StripeSecretKey may be a "sm://<secret-name>" reference.
	StripeSecretKey     string `envconfig:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `envconfig:"STRIPE_WEBHOOK_SECRET"`
	SupportEmail        string `envconfig:"SUPPORT_EMAIL" default:"support@example.com"`

	// GCP settings
	GCPProjectID       string `envconfig:"GCP_PROJECT_ID"`
	PubSubEmulatorHost string `envconfig:"PUBSUB_EMULATOR_HOST"`
	PubSubCourseTopic  string `envconfig:"PUBSUB_COURSE_TOPIC" default:"course-events"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DraftDebounce returns the quiet period before a draft snapshot is written.
func (c *Config) DraftDebounce() time.Duration {
	return time.Duration(c.DraftDebounceMillis) * time.Millisecond
}

// DraftRetention returns how long an untouched snapshot is kept.
func (c *Config) DraftRetention() time.Duration {
	return time.Duration(c.DraftRetentionDays) * 24 * time.Hour
}

func (c *Config) GatewayTimeout() time.Duration {
	return time.Duration(c.GatewayTimeoutSec) * time.Second
}

func (c *Config) VideoPollInterval() time.Duration {
	return time.Duration(c.VideoPollIntervalSec) * time.Second
}

func (c *Config) VideoPollTimeout() time.Duration {
	return time.Duration(c.VideoPollTimeoutSec) * time.Second
}

func (c *Config) CourseListTTL() time.Duration {
	return time.Duration(c.CourseListCacheTTL) * time.Second
}

func (c *Config) VideoUploadTimeout() time.Duration {
	return time.Duration(c.VideoUploadTimeoutSec) * time.Second
}
