package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr    string
	DatabaseURL string
	Timezone    *time.Location

	JWTSecret     string
	JWTTTL        time.Duration
	EncryptionKey []byte
	BlindIndexKey []byte

	CORSAllowedOrigins []string
	RateLimitPerMinute int

	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	StorageDriver       string
	UploadDir           string
	PublicBaseURL       string
	AvatarsBucket       string
	MonthlyPhotosBucket string
	GCSCDNDomain        string
	StorageEmulatorHost string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	FrontendURL        string

	StreakRefreshInterval time.Duration
}

// GoogleEnabled reports whether Google sign-in is configured.
func (c Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURL != ""
}

func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		HTTPAddr:            getenv("HTTP_ADDR", ":8080"),
		DatabaseURL:         getenv("DATABASE_URL", ""),
		JWTSecret:           getenv("JWT_SECRET", ""),
		LogLevel:            getenv("LOG_LEVEL", "info"),
		LogPath:             getenv("LOG_PATH", ""),
		RedisAddr:           getenv("REDIS_ADDR", ""),
		RedisPassword:       getenv("REDIS_PASSWORD", ""),
		StorageDriver:       getenv("STORAGE_DRIVER", "local"),
		UploadDir:           getenv("UPLOAD_DIR", "./uploads"),
		PublicBaseURL:       strings.TrimRight(getenv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		AvatarsBucket:       getenv("AVATARS_BUCKET", "avatars"),
		MonthlyPhotosBucket: getenv("MONTHLY_PHOTOS_BUCKET", "monthly_photos"),
		GCSCDNDomain:        getenv("GCS_CDN_DOMAIN", ""),
		StorageEmulatorHost: getenv("STORAGE_EMULATOR_HOST", ""),
		GoogleClientID:      getenv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:  getenv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:   getenv("GOOGLE_REDIRECT_URL", ""),
		FrontendURL:         strings.TrimRight(getenv("FRONTEND_URL", ""), "/"),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.StorageDriver != "local" && cfg.StorageDriver != "gcs" {
		return Config{}, fmt.Errorf("STORAGE_DRIVER must be local or gcs, got %q", cfg.StorageDriver)
	}

	var err error
	if cfg.EncryptionKey, err = key32("ENCRYPTION_KEY"); err != nil {
		return Config{}, err
	}
	if cfg.BlindIndexKey, err = key32("BLIND_INDEX_KEY"); err != nil {
		return Config{}, err
	}

	if cfg.Timezone, err = time.LoadLocation(getenv("APP_TIMEZONE", "Europe/Kyiv")); err != nil {
		return Config{}, fmt.Errorf("APP_TIMEZONE: %w", err)
	}

	durations := []struct {
		key string
		def time.Duration
		dst *time.Duration
	}{
		{"JWT_TTL", 7 * 24 * time.Hour, &cfg.JWTTTL},
		{"CACHE_TTL", 10 * time.Minute, &cfg.CacheTTL},
		{"STREAK_REFRESH_INTERVAL", time.Hour, &cfg.StreakRefreshInterval},
	}
	for _, d := range durations {
		if *d.dst, err = getDuration(d.key, d.def); err != nil {
			return Config{}, err
		}
	}

	ints := []struct {
		key string
		def int
		dst *int
	}{
		{"RATE_LIMIT_PER_MINUTE", 60, &cfg.RateLimitPerMinute},
		{"REDIS_DB", 0, &cfg.RedisDB},
		{"LOG_MAX_SIZE_MB", 100, &cfg.LogMaxSizeMB},
		{"LOG_MAX_BACKUPS", 3, &cfg.LogMaxBackups},
		{"LOG_MAX_AGE_DAYS", 7, &cfg.LogMaxAgeDays},
	}
	for _, i := range ints {
		if *i.dst, err = getInt(i.key, i.def); err != nil {
			return Config{}, err
		}
	}
	cfg.LogCompress = getenv("LOG_COMPRESS", "false") == "true"

	for _, o := range strings.Split(getenv("CORS_ALLOWED_ORIGINS", "*"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	return cfg, nil
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getInt(key string, def int) (int, error) {
	v := getenv(key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := getenv(key, "")
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}

// key32 decodes a base64 secret that must be exactly 32 bytes long.
func key32(key string) ([]byte, error) {
	v := getenv(key, "")
	if v == "" {
		return nil, fmt.Errorf("%s is required", key)
	}
	b, err := base64.StdEncoding.DecodeString(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	if len(b) != 32 {
		return nil, fmt.Errorf("%s must decode to 32 bytes, got %d", key, len(b))
	}
	return b, nil
}
