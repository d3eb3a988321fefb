package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port     string
	Timezone string
	Debug    bool

	CORSOrigins     []string
	BodyLimit       string
	ShutdownTimeout time.Duration

	DBDriver    string // sqlite|postgres
	DBPath      string
	DatabaseURL string

	JWTSecret string
	DevAuth   bool

	LLMEndpoint string
	LLMAPIKey   string
	LLMModel    string

	WeatherEndpoint string
	WeatherAPIKey   string

	BlobDriver  string
	BlobFSRoot  string
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool

	StageCSV      string
	CropAdjCSV    string
	OverridesXLSX string

	ImportHosts []string
	SeedFile    string
}

// Load reads .env (if present) and the process environment.
func Load() AppConfig {
	_ = godotenv.Load()

	get := func(k, def string) string {
		if v := os.Getenv(k); v != "" {
			return v
		}
		return def
	}
	flag := func(k, def string) bool {
		return strings.EqualFold(get(k, def), "true")
	}
	dur := func(k, def string) time.Duration {
		d, err := time.ParseDuration(get(k, def))
		if err != nil {
			d, _ = time.ParseDuration(def)
		}
		return d
	}
	list := func(k, def string) []string {
		var out []string
		for _, p := range strings.Split(get(k, def), ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, strings.ToLower(p))
			}
		}
		return out
	}
	return AppConfig{
		Port:            get("PORT", "8080"),
		Timezone:        get("TZ", "UTC"),
		Debug:           flag("DEBUG", "false"),
		CORSOrigins:     list("CORS_ORIGINS", ""),
		BodyLimit:       get("BODY_LIMIT", "12M"),
		ShutdownTimeout: dur("SHUTDOWN_TIMEOUT", "10s"),
		DBDriver:        get("DB_DRIVER", "sqlite"),
		DBPath:          get("DB_PATH", "farmhub.db"),
		DatabaseURL:     get("DATABASE_URL", ""),
		JWTSecret:       get("JWT_SECRET", ""),
		DevAuth:         flag("DEV_AUTH", "false"),
		LLMEndpoint:     get("LLM_ENDPOINT", ""),
		LLMAPIKey:       get("LLM_API_KEY", ""),
		LLMModel:        get("LLM_MODEL", "gpt-4o-mini"),
		WeatherEndpoint: get("WEATHER_ENDPOINT", ""),
		WeatherAPIKey:   get("WEATHER_API_KEY", ""),
		BlobDriver:      get("BLOB_DRIVER", "fs"),
		BlobFSRoot:      get("BLOB_FS_ROOT", "./blobdata"),
		S3Bucket:        get("BLOB_S3_BUCKET", ""),
		S3Region:        get("BLOB_S3_REGION", "us-east-1"),
		S3Endpoint:      get("BLOB_S3_ENDPOINT", ""),
		S3PathStyle:     flag("BLOB_S3_PATH_STYLE", "false"),
		StageCSV:        get("STAGE_CSV", ""),
		CropAdjCSV:      get("CROP_ADJ_CSV", ""),
		OverridesXLSX:   get("PLAN_OVERRIDES_XLSX", ""),
		ImportHosts:     list("IMPORT_ALLOWED_HOSTS", "en.wikipedia.org,extension.umn.edu,plantvillage.psu.edu"),
		SeedFile:        get("SEED_FILE", "seed/catalog.yaml"),
	}
}

// Validate reports settings that cannot work together.
func (c AppConfig) Validate() error {
	switch c.DBDriver {
	case "sqlite":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL required for postgres driver")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	if c.JWTSecret == "" && !c.DevAuth {
		return fmt.Errorf("JWT_SECRET required unless DEV_AUTH=true")
	}
	if c.BlobDriver == "s3" && c.S3Bucket == "" {
		return fmt.Errorf("BLOB_S3_BUCKET required for s3 blob driver")
	}
	return nil
}

// Redacted is safe to log.
func (c AppConfig) Redacted() AppConfig {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "***"
	}
	c.JWTSecret = mask(c.JWTSecret)
	c.LLMAPIKey = mask(c.LLMAPIKey)
	c.WeatherAPIKey = mask(c.WeatherAPIKey)
	c.DatabaseURL = mask(c.DatabaseURL)
	return c
}
