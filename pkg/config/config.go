package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix is passed to envconfig; individual tags carry the full name.
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "FRIDGY_APP_ENV"
	EnvPort     = "FRIDGY_APP_PORT"
	EnvDBDSN    = "FRIDGY_DB_DSN"
	EnvDBHost   = "FRIDGY_DB_HOST"
	EnvDBUser   = "FRIDGY_DB_USER"
	EnvDBName   = "FRIDGY_DB_NAME"
	EnvRedisURL = "FRIDGY_REDIS_URL"

	EnvJWTSecret  = "FRIDGY_JWT_SECRET"
	EnvJWTIssuer  = "FRIDGY_JWT_ISSUER"
	EnvJWTExpMins = "FRIDGY_JWT_EXPIRATION_MINUTES"

	EnvGCPProjectID            = "FRIDGY_GCP_PROJECT_ID"
	EnvGCSBucket               = "FRIDGY_GCS_BUCKET_NAME"
	EnvPubSubNotificationTopic = "FRIDGY_PUBSUB_NOTIFICATION_TOPIC"
	EnvPubSubNotificationSub   = "FRIDGY_PUBSUB_NOTIFICATION_SUBSCRIPTION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	GCS           GCSConfig
	PubSub        PubSubConfig
	BigQuery      BigQueryConfig
	Push          PushConfig
	Cron          CronConfig
	Invites       InviteConfig
	Notifications NotificationConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = "sqlite"
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FRIDGY_APP_ENV" required:"true"`
	Port         string `envconfig:"FRIDGY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FRIDGY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FRIDGY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FRIDGY_DB_DSN"`
	Driver string `envconfig:"FRIDGY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FRIDGY_DB_HOST"`
	LegacyPort     int    `envconfig:"FRIDGY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FRIDGY_DB_USER"`
	LegacyPassword string `envconfig:"FRIDGY_DB_PASSWORD"`
	LegacyName     string `envconfig:"FRIDGY_DB_NAME"`
	LegacySSLMode  string `envconfig:"FRIDGY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FRIDGY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FRIDGY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FRIDGY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FRIDGY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FRIDGY_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FRIDGY_REDIS_ADDR"`
	Password     string        `envconfig:"FRIDGY_REDIS_PASSWORD"`
	DB           int           `envconfig:"FRIDGY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FRIDGY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FRIDGY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FRIDGY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FRIDGY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FRIDGY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"FRIDGY_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"FRIDGY_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"FRIDGY_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"FRIDGY_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FRIDGY_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FRIDGY_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FRIDGY_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FRIDGY_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FRIDGY_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"FRIDGY_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"FRIDGY_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"FRIDGY_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"FRIDGY_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"FRIDGY_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"FRIDGY_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"FRIDGY_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"FRIDGY_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"FRIDGY_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"FRIDGY_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"FRIDGY_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName        string        `envconfig:"FRIDGY_GCS_BUCKET_NAME" required:"true"`
	UploadURLExpiry   time.Duration `envconfig:"FRIDGY_GCS_UPLOAD_URL_EXPIRY" default:"15m"`
	DownloadURLExpiry time.Duration `envconfig:"FRIDGY_GCS_DOWNLOAD_URL_EXPIRY" default:"1h"`
}

type PubSubConfig struct {
	NotificationTopic        string `envconfig:"FRIDGY_PUBSUB_NOTIFICATION_TOPIC" default:"fridgy-notification-events"`
	NotificationSubscription string `envconfig:"FRIDGY_PUBSUB_NOTIFICATION_SUBSCRIPTION" required:"true"`
	AnalyticsTopic           string `envconfig:"FRIDGY_PUBSUB_ANALYTICS_TOPIC" default:"fridgy-analytics-events"`
	AnalyticsSubscription    string `envconfig:"FRIDGY_PUBSUB_ANALYTICS_SUBSCRIPTION"`
}

type BigQueryConfig struct {
	Dataset             string `envconfig:"FRIDGY_BIGQUERY_DATASET" default:"fridgy"`
	InventoryEventTable string `envconfig:"FRIDGY_BIGQUERY_INVENTORY_TABLE" default:"inventory_events"`
}

type PushConfig struct {
	VAPIDPublicKey  string `envconfig:"FRIDGY_VAPID_PUBLIC_KEY"`
	VAPIDPrivateKey string `envconfig:"FRIDGY_VAPID_PRIVATE_KEY"`
	Subscriber      string `envconfig:"FRIDGY_PUSH_SUBSCRIBER" default:"mailto:noreply@fridgy.app"`
	TTLSeconds      int    `envconfig:"FRIDGY_PUSH_TTL_SECONDS" default:"86400"`
}

type CronConfig struct {
	Interval          time.Duration `envconfig:"FRIDGY_CRON_INTERVAL" default:"1h"`
	LockTTL           time.Duration `envconfig:"FRIDGY_CRON_LOCK_TTL" default:"2h"`
	ExpiryWarningDays int           `envconfig:"FRIDGY_ITEM_EXPIRY_WARNING_DAYS" default:"3"`
	MetricsPort       string        `envconfig:"FRIDGY_CRON_METRICS_PORT" default:"9090"`
}

type InviteConfig struct {
	CodeTTL    time.Duration `envconfig:"FRIDGY_INVITE_CODE_TTL" default:"168h"`
	DefaultMax int           `envconfig:"FRIDGY_INVITE_CODE_MAX_USES" default:"10"`
}

type NotificationConfig struct {
	RetentionDays int `envconfig:"FRIDGY_NOTIFICATION_RETENTION_DAYS" default:"30"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
