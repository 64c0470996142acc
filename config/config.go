package config

import (
	"os"
	"strconv"
	"strings"
)

// Config carries everything the pipeline reads from the environment.
// All fields degrade gracefully when unset: optional integrations (S3, redis,
// Kafka, the forensics backend) simply stay disabled.
type Config struct {
	Port string

	// Text completion
	CohereAPIKey string
	CohereModel  string

	// Search backends
	GoogleAPIKey    string
	GoogleCSEID     string
	SocialSearchURL string
	NewsFeeds       []string
	Platforms       []string

	// Verification backends
	ForensicsURL string
	RedisAddr    string
	RedisPass    string
	RedisDB      int

	// Media handling
	MediaDir string
	S3Bucket string
	S3Region string
	S3Prefix string

	// Kafka intake (optional)
	KafkaBrokers []string
	QueryTopic   string
	ReportTopic  string
	KafkaGroupID string

	// Standing query (optional)
	CronSchedule string
	CronQuery    string

	MaxResultsPerSource int
}

// Load reads configuration from the environment. Callers are expected to have
// run godotenv.Load() beforehand (non-fatal if no .env exists).
func Load() *Config {
	return &Config{
		Port: GetEnvOrDefault("PORT", "8000"),

		CohereAPIKey: os.Getenv("COHERE_API_KEY"),
		CohereModel:  GetEnvOrDefault("LLM_MODEL", "command-r-plus"),

		GoogleAPIKey:    os.Getenv("GOOGLE_API_KEY"),
		GoogleCSEID:     os.Getenv("GOOGLE_CSE_ID"),
		SocialSearchURL: os.Getenv("SOCIAL_SEARCH_URL"),
		NewsFeeds:       splitList(os.Getenv("NEWS_FEEDS")),
		Platforms:       splitListOrDefault(os.Getenv("SOCIAL_PLATFORMS"), []string{"twitter", "reddit"}),

		ForensicsURL: os.Getenv("FORENSICS_URL"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		RedisPass:    os.Getenv("REDIS_PASS"),
		RedisDB:      getEnvInt("REDIS_DB", 0),

		MediaDir: GetEnvOrDefault("SAVE_MEDIA_PATH", "./data/media"),
		S3Bucket: strings.TrimSpace(os.Getenv("S3_BUCKET")),
		S3Region: strings.TrimSpace(os.Getenv("S3_REGION")),
		S3Prefix: normalizePrefix(os.Getenv("S3_PREFIX")),

		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		QueryTopic:   GetEnvOrDefault("KAFKA_QUERY_TOPIC", "osint.queries"),
		ReportTopic:  GetEnvOrDefault("KAFKA_REPORT_TOPIC", "osint.reports"),
		KafkaGroupID: GetEnvOrDefault("KAFKA_GROUP_ID", "osint-engine"),

		CronSchedule: os.Getenv("CRON_SCHEDULE"),
		CronQuery:    os.Getenv("CRON_QUERY"),

		MaxResultsPerSource: getEnvInt("MAX_RESULTS_PER_SOURCE", 5),
	}
}

// GetEnvOrDefault returns the env value for key, or def when unset.
func GetEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func splitListOrDefault(s string, def []string) []string {
	if out := splitList(s); len(out) > 0 {
		return out
	}
	return def
}

func normalizePrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return ""
	}
	return strings.Trim(prefix, "/") + "/"
}
