package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "archivio"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "ARCHIVIO_DB_DSN"
	EnvDBHost = "ARCHIVIO_DB_HOST"
	EnvDBUser = "ARCHIVIO_DB_USER"
	EnvDBName = "ARCHIVIO_DB_NAME"
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
	Documents     DocumentsConfig
	PubSub        PubSubConfig
	AI            AIConfig
	Search        SearchConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env            string   `envconfig:"ARCHIVIO_APP_ENV" required:"true"`
	Port           string   `envconfig:"ARCHIVIO_APP_PORT" required:"true"`
	LogLevel       string   `envconfig:"ARCHIVIO_LOG_LEVEL" default:"info"`
	LogWarnStack   bool     `envconfig:"ARCHIVIO_LOG_WARN_STACK" default:"false"`
	AllowedOrigins []string `envconfig:"ARCHIVIO_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ARCHIVIO_DB_DSN"`
	Driver string `envconfig:"ARCHIVIO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ARCHIVIO_DB_HOST"`
	LegacyPort     int    `envconfig:"ARCHIVIO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ARCHIVIO_DB_USER"`
	LegacyPassword string `envconfig:"ARCHIVIO_DB_PASSWORD"`
	LegacyName     string `envconfig:"ARCHIVIO_DB_NAME"`
	LegacySSLMode  string `envconfig:"ARCHIVIO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ARCHIVIO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ARCHIVIO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ARCHIVIO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ARCHIVIO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ARCHIVIO_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ARCHIVIO_REDIS_ADDR"`
	Password     string        `envconfig:"ARCHIVIO_REDIS_PASSWORD"`
	DB           int           `envconfig:"ARCHIVIO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ARCHIVIO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ARCHIVIO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ARCHIVIO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ARCHIVIO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ARCHIVIO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"ARCHIVIO_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"ARCHIVIO_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"ARCHIVIO_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"ARCHIVIO_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ARCHIVIO_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ARCHIVIO_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ARCHIVIO_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ARCHIVIO_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ARCHIVIO_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"ARCHIVIO_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"ARCHIVIO_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"ARCHIVIO_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate            bool   `envconfig:"ARCHIVIO_AUTO_MIGRATE" default:"false"`
	BootstrapAdmin         bool   `envconfig:"ARCHIVIO_BOOTSTRAP_ADMIN" default:"false"`
	BootstrapAdminEmail    string `envconfig:"ARCHIVIO_BOOTSTRAP_ADMIN_EMAIL" default:"admin@archivio.local"`
	BootstrapAdminPassword string `envconfig:"ARCHIVIO_BOOTSTRAP_ADMIN_PASSWORD"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"ARCHIVIO_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"ARCHIVIO_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName        string        `envconfig:"ARCHIVIO_GCS_BUCKET_NAME"`
	UploadURLExpiry   time.Duration `envconfig:"ARCHIVIO_GCS_UPLOAD_URL_EXPIRY" default:"15m"`
	DownloadURLExpiry time.Duration `envconfig:"ARCHIVIO_GCS_DOWNLOAD_URL_EXPIRY" default:"1h"`
}

type DocumentsConfig struct {
	MaxUploadMB int `envconfig:"ARCHIVIO_MAX_UPLOAD_MB" default:"100"`
}

type PubSubConfig struct {
	DocumentEventsTopic        string `envconfig:"ARCHIVIO_PUBSUB_DOCUMENT_EVENTS_TOPIC" default:"arc-document-events"`
	DocumentEventsSubscription string `envconfig:"ARCHIVIO_PUBSUB_DOCUMENT_EVENTS_SUBSCRIPTION" default:"arc-document-events-worker"`
}

type AIConfig struct {
	GeminiAPIKey   string `envconfig:"ARCHIVIO_GEMINI_API_KEY"`
	GenerateModel  string `envconfig:"ARCHIVIO_AI_GENERATE_MODEL" default:"gemini-1.5-flash"`
	EmbeddingModel string `envconfig:"ARCHIVIO_AI_EMBEDDING_MODEL" default:"text-embedding-004"`
}

type SearchConfig struct {
	KeywordWeight float64 `envconfig:"ARCHIVIO_SEARCH_KEYWORD_WEIGHT" default:"0.4"`
	VectorWeight  float64 `envconfig:"ARCHIVIO_SEARCH_VECTOR_WEIGHT" default:"0.6"`
	MaxCandidates int     `envconfig:"ARCHIVIO_SEARCH_MAX_CANDIDATES" default:"200"`
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
