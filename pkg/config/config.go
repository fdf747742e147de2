package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DataSourceFile     = "file"
	DataSourceSQLite   = "sqlite"
	DataSourcePostgres = "postgres"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Data     DataConfig
	Engine   EngineConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port        string
	CORSOrigins []string
}

type DataConfig struct {
	Source         string
	FlagsPath      string
	FeaturesPath   string
	GalleryPath    string
	SQLitePath     string
	ReloadInterval time.Duration
}

type EngineConfig struct {
	Workers         int
	DefaultAssetKey string
	AssetBasePath   string
	TopN            int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey string
}

type RedisConfig struct {
	Enabled       bool
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, errors.New("invalid redis database")
	}

	workers, err := getEnvInt("ENGINE_WORKERS", 0)
	if err != nil {
		return nil, errors.New("invalid engine workers")
	}

	topN, err := getEnvInt("ENGINE_TOP_N", 5)
	if err != nil {
		return nil, errors.New("invalid engine top n")
	}

	reloadInterval, err := getEnvDuration("DATA_RELOAD_INTERVAL", 0)
	if err != nil {
		return nil, errors.New("invalid data reload interval")
	}

	cacheTTL, err := getEnvDuration("REDIS_CACHE_TTL", 24*time.Hour)
	if err != nil {
		return nil, errors.New("invalid redis cache ttl")
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Flag Compare API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8080")),
		},
		Data: DataConfig{
			Source:         getEnv("DATA_SOURCE", DataSourceFile),
			FlagsPath:      getEnv("DATA_FLAGS_PATH", "data/flags.json"),
			FeaturesPath:   getEnv("DATA_FEATURES_PATH", "data/features.yaml"),
			GalleryPath:    getEnv("DATA_GALLERY_PATH", "data/gallery.json"),
			SQLitePath:     getEnv("DATA_SQLITE_PATH", "data/flags.sqlite"),
			ReloadInterval: reloadInterval,
		},
		Engine: EngineConfig{
			Workers:         workers,
			DefaultAssetKey: getEnv("ENGINE_DEFAULT_ASSET_KEY", "default.svg"),
			AssetBasePath:   getEnv("ENGINE_ASSET_BASE_PATH", "data/svg/"),
			TopN:            topN,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "flag_compare"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		Redis: RedisConfig{
			Enabled:       getEnv("REDIS_ENABLED", "false") == "true",
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
			CacheTTL:      cacheTTL,
		},
	}

	switch cfg.Data.Source {
	case DataSourceFile, DataSourceSQLite:
	case DataSourcePostgres:
		if cfg.Database.Password == "" {
			return nil, errors.New("missing database password")
		}
	default:
		return nil, errors.New("unknown data source")
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(val)
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	return time.ParseDuration(val)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
