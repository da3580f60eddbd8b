package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAgentTimeout   = 30 * time.Second
	defaultContextMaxDocs = 5
	defaultMaxUploadBytes = 20 << 20 // 20MB
)

// AgentConfig describes the external agent the chat endpoint forwards to.
type AgentConfig struct {
	URL     string
	Auth    string
	Timeout time.Duration
}

// Config holds application configuration.
type Config struct {
	Port               string
	Env                string
	DatabaseURL        string
	ObjectStoreType    string
	LocalStoreDir      string
	AWSRegion          string
	S3Bucket           string
	S3Prefix           string
	SSEKMSKeyID        string
	PublicBaseURL      string
	CORSAllowOrigin    []string
	MaxUploadBytes     int64
	ExtractPDF         bool
	Agent              AgentConfig
	ContextMaxDocs     int
	ChatRateLimitRPS   float64
	ChatRateLimitBurst int
}

// Load reads configuration from environment variables with sensible defaults.
// Values from CONFIG_FILE (TOML) sit between the defaults and the environment.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	file, err := loadFile(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Printf("config: ignoring config file: %v", err)
	}

	env := normalizeEnv(getEnv("ENV", or(file.Env, "dev")))
	dbURL := getEnv("DATABASE_URL", file.DatabaseURL)

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:            getEnv("PORT", or(file.Port, "8080")),
		Env:             env,
		DatabaseURL:     dbURL,
		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", or(file.ObjectStore, "local"))),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", or(file.LocalStoreDir, "./data")),
		AWSRegion:       getEnv("AWS_REGION", file.AWSRegion),
		S3Bucket:        getEnv("S3_BUCKET", file.S3Bucket),
		S3Prefix:        getEnv("S3_PREFIX", file.S3Prefix),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),
		PublicBaseURL:   strings.TrimRight(getEnv("PUBLIC_BASE_URL", file.PublicBaseURL), "/"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", or(file.CORSAllowOrigins, "http://localhost:5173"))),
		MaxUploadBytes:  getEnvInt64("MAX_UPLOAD_BYTES", defaultMaxUploadBytes),
		ExtractPDF:      getEnvBool("EXTRACT_PDF", file.ExtractPDF == nil || *file.ExtractPDF),
		Agent: AgentConfig{
			URL:     strings.TrimSpace(getEnv("AI_AGENT_API_URL", file.Agent.URL)),
			Auth:    getEnv("AI_AGENT_API_AUTH", file.Agent.Auth),
			Timeout: getEnvDuration("AI_AGENT_TIMEOUT", orDuration(file.Agent.Timeout, defaultAgentTimeout)),
		},
		ContextMaxDocs:     getEnvInt("AI_CONTEXT_MAX_DOCS", orInt(file.Agent.ContextMaxDocs, defaultContextMaxDocs)),
		ChatRateLimitRPS:   getEnvFloat("CHAT_RATE_LIMIT_RPS", file.ChatRateLimit.RPS),
		ChatRateLimitBurst: getEnvInt("CHAT_RATE_LIMIT_BURST", file.ChatRateLimit.Burst),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("config: %s invalid int: %v", key, err)
		return def
	}
	return v
}

func getEnvInt64(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		log.Printf("config: %s invalid size: %q", key, raw)
		return def
	}
	return v
}

func getEnvFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("config: %s invalid float: %v", key, err)
		return def
	}
	return v
}

func getEnvBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("config: %s invalid bool: %v", key, err)
		return def
	}
	return v
}

// getEnvDuration accepts Go durations ("45s") or a bare number of seconds.
func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		log.Printf("config: %s invalid duration: %q", key, raw)
		return def
	}
	return v
}

func or(val, def string) string {
	if strings.TrimSpace(val) != "" {
		return val
	}
	return def
}

func orInt(val, def int) int {
	if val != 0 {
		return val
	}
	return def
}

func orDuration(raw string, def time.Duration) time.Duration {
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
