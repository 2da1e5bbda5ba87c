package config

import (
	"errors"
	"os"
	"strings"
	"time"
)

// Renderer engine names accepted by RENDERER.
const (
	RendererWkhtmltoimage = "wkhtmltoimage"
	RendererChrome        = "chrome"
)

// Config holds all generator settings, populated from environment variables.
type Config struct {
	OutputDir string
	LogLevel  string
	LogFormat string

	// Bulletin and forecast-API endpoints.
	NWSBaseURL    string
	NWSAPIBaseURL string
	UserAgent     string
	FetchTimeout  time.Duration

	// Rendering configuration.
	Renderer          string
	WkhtmltoimagePath string

	// Card branding.
	LogoPath     string
	CardBrand    string
	CardSubtitle string
	CardFooter   string

	// RunInterval of zero means generate one card and exit; a positive
	// interval keeps the process alive regenerating on that cadence.
	RunInterval     time.Duration
	HTTPAddr        string
	ShutdownTimeout time.Duration

	// Kafka publishing configuration.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool

	// Run archive configuration.
	ArchivePath    string
	ArchiveEnabled bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	fetchTimeout, err := parseDuration("FETCH_TIMEOUT", "20s")
	if err != nil || fetchTimeout <= 0 {
		return nil, errors.New("invalid FETCH_TIMEOUT")
	}

	runInterval, err := parseDuration("RUN_INTERVAL", "0s")
	if err != nil || runInterval < 0 {
		return nil, errors.New("invalid RUN_INTERVAL")
	}

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil || shutdownTimeout <= 0 {
		return nil, errors.New("invalid SHUTDOWN_TIMEOUT")
	}

	kafkaBrokersRaw := os.Getenv("KAFKA_BROKERS")
	kafkaEnabled := kafkaBrokersRaw != ""
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	archivePath := os.Getenv("ARCHIVE_DB_PATH")
	archiveEnabled := archivePath != ""
	if v := os.Getenv("ARCHIVE_ENABLED"); v != "" {
		archiveEnabled = v == "true"
	}

	cfg := &Config{
		OutputDir: envOrDefault("OUTPUT_DIR", "output"),
		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "text"),

		NWSBaseURL:    envOrDefault("NWS_BASE_URL", "https://tgftp.nws.noaa.gov"),
		NWSAPIBaseURL: envOrDefault("NWS_API_BASE_URL", "https://api.weather.gov"),
		UserAgent:     envOrDefault("NWS_USER_AGENT", "marine-card/1.0 (github.com/couchcryptid/marine-card)"),
		FetchTimeout:  fetchTimeout,

		Renderer:          envOrDefault("RENDERER", RendererWkhtmltoimage),
		WkhtmltoimagePath: envOrDefault("WKHTMLTOIMAGE_PATH", "wkhtmltoimage"),

		LogoPath:     os.Getenv("LOGO_PATH"),
		CardBrand:    envOrDefault("CARD_BRAND", "PR Marine Weather"),
		CardSubtitle: envOrDefault("CARD_SUBTITLE", "Marine Forecast — PR & USVI"),
		CardFooter:   envOrDefault("CARD_FOOTER_URL", "weather.gov/sju"),

		RunInterval:     runInterval,
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		ShutdownTimeout: shutdownTimeout,

		KafkaBrokers: parseBrokers(kafkaBrokersRaw),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "marine-forecast-cards"),
		KafkaEnabled: kafkaEnabled,

		ArchivePath:    archivePath,
		ArchiveEnabled: archiveEnabled,
	}

	if cfg.OutputDir == "" {
		return nil, errors.New("OUTPUT_DIR is required")
	}
	if cfg.Renderer != RendererWkhtmltoimage && cfg.Renderer != RendererChrome {
		return nil, errors.New("RENDERER must be wkhtmltoimage or chrome")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.ArchiveEnabled && cfg.ArchivePath == "" {
		return nil, errors.New("ARCHIVE_ENABLED is true but ARCHIVE_DB_PATH is not set")
	}

	return cfg, nil
}

// envOrDefault returns the environment value for key, or fallback when unset
// or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parseDuration reads a duration environment variable with a default.
func parseDuration(key, fallback string) (time.Duration, error) {
	return time.ParseDuration(envOrDefault(key, fallback))
}

// parseBrokers splits a comma-separated broker list, dropping empty entries.
func parseBrokers(s string) []string {
	if s == "" {
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
