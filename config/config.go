package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"sjsage522/orgcrawler/internal/models"
	"sjsage522/orgcrawler/pkg/errors"
)

// Default LHDN donation-approval listings
const (
	DefaultURL446 = "https://www.hasil.gov.my/en/quick-links/services/donation-approval/subsection-44-6-of-the-income-tax-act-1967/"
	DefaultURL11D = "https://www.hasil.gov.my/en/quick-links/services/donation-approval/subsection-44-11d-of-the-income-tax-act-1967/"
	DefaultURLPUA = "https://www.hasil.gov.my/en/quick-links/services/donation-approval/pu-a-1392020/"
)

// Config represents the application configuration
type Config struct {
	// Output configuration
	OutputDir     string
	SnapshotDir   string
	SaveSnapshots bool

	// Crawl configuration
	Concurrency       int
	PagesPerShard     int
	NavigationTimeout time.Duration
	SoftDeadline      time.Duration

	// Browser configuration
	Headless        bool
	ProxyServer     string
	ProxyCandidates []string

	// URLs for each section listing
	URL446 string
	URL11D string
	URLPUA string

	// Memcache configuration
	MemcacheAddr string
	PageCacheTTL time.Duration

	// Redis configuration
	RedisAddr            string
	RedisDB              int
	RedisStreamPrefix    string
	RedisStreamMaxLength int

	// Environment
	Environment string
	LogLevel    string
	LogFormat   string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	concurrency, _ := strconv.Atoi(getEnv("CRAWL_CONCURRENCY", "5"))
	pagesPerShard, _ := strconv.Atoi(getEnv("PAGES_PER_SHARD", "10"))
	navTimeout, _ := strconv.Atoi(getEnv("NAVIGATION_TIMEOUT_SECONDS", "60"))
	softDeadline, _ := strconv.Atoi(getEnv("JOB_SOFT_DEADLINE_SECONDS", "3600"))
	cacheTTL, _ := strconv.Atoi(getEnv("PAGE_CACHE_TTL_SECONDS", "0"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	redisStreamMaxLength, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "100000"))

	return Config{
		OutputDir:            getEnv("OUTPUT_DIR", "./public/generated"),
		SnapshotDir:          getEnv("SNAPSHOT_DIR", "./snapshots"),
		SaveSnapshots:        getBool("SAVE_SNAPSHOTS", false),
		Concurrency:          concurrency,
		PagesPerShard:        pagesPerShard,
		NavigationTimeout:    time.Duration(navTimeout) * time.Second,
		SoftDeadline:         time.Duration(softDeadline) * time.Second,
		Headless:             getBool("BROWSER_HEADLESS", true),
		ProxyServer:          getEnv("BROWSER_PROXY_SERVER", ""),
		ProxyCandidates:      getList("BROWSER_PROXY_CANDIDATES"),
		URL446:               getEnv("URL_446", DefaultURL446),
		URL11D:               getEnv("URL_11D", DefaultURL11D),
		URLPUA:               getEnv("URL_PUA", DefaultURLPUA),
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", ""),
		PageCacheTTL:         time.Duration(cacheTTL) * time.Second,
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisDB:              redisDB,
		RedisStreamPrefix:    getEnv("REDIS_STREAM_PREFIX", "orgcrawler"),
		RedisStreamMaxLength: redisStreamMaxLength,
		Environment:          getEnv("ORGCRAWLER_ENVIRONMENT", "development"),
		LogLevel:             getEnv("LOG_LEVEL", ""),
		LogFormat:            getEnv("LOG_FORMAT", "console"),
	}
}

// Validate checks the configuration for values the pipeline cannot run with
func (c Config) Validate() error {
	if c.Concurrency < 1 {
		return errors.NewConfiguration(fmt.Sprintf("CRAWL_CONCURRENCY must be at least 1, got %d", c.Concurrency), nil)
	}
	if c.PagesPerShard < 1 {
		return errors.NewConfiguration(fmt.Sprintf("PAGES_PER_SHARD must be at least 1, got %d", c.PagesPerShard), nil)
	}
	if c.NavigationTimeout <= 0 {
		return errors.NewConfiguration("NAVIGATION_TIMEOUT_SECONDS must be positive", nil)
	}
	for _, section := range models.Sections() {
		raw := c.SectionURL(section)
		u, err := url.Parse(raw)
		if err != nil {
			return errors.NewConfiguration(fmt.Sprintf("invalid URL for section %s", section), err)
		}
		if u.Scheme == "" || u.Host == "" {
			return errors.NewConfiguration(fmt.Sprintf("URL for section %s must be absolute: %q", section, raw), nil)
		}
	}
	return nil
}

// SectionURL returns the listing URL of a section
func (c Config) SectionURL(section models.Section) string {
	switch section {
	case models.Section446:
		return c.URL446
	case models.Section11D:
		return c.URL11D
	default:
		return c.URLPUA
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return defaultValue
	}
	return value
}

// getList splits a comma-separated environment variable, dropping blanks
func getList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
