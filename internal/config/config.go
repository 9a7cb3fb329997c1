// Package config handles loading and validation of service configuration.
// Supports both development (env vars) and production (Secret Manager) modes.
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// Config holds all service configuration.
// Environment determines whether store credentials load from env vars
// (development) or Secret Manager (production).
type Config struct {
	// Server settings
	Port        string
	Environment string // "development" or "production"
	LogLevel    string // "debug", "info", "warn", "error"

	// GCP settings (required in production)
	GCPProject string
	StoreID    string

	// Store-specific configuration (loaded from secrets)
	Store StoreConfig

	// Export pipeline settings
	Export ExportConfig
}

// StoreConfig contains the WooCommerce store connection settings.
// In production, this is loaded from Secret Manager as JSON.
// In development, loaded from individual env vars or CONFIG_FILE.
type StoreConfig struct {
	StoreURL       string `json:"store_url"`
	SiteName       string `json:"site_name,omitempty"`
	ConsumerKey    string `json:"consumer_key"`
	ConsumerSecret string `json:"consumer_secret"`
	PriceDecimals  int    `json:"price_decimals,omitempty"`

	// UseBrowserTLS routes store requests through the
	// browser-impersonating transport for hosts that fingerprint TLS.
	UseBrowserTLS bool `json:"use_browser_tls,omitempty"`
}

// ExportConfig controls what gets exported and where it goes.
type ExportConfig struct {
	// ScriptURL is the deployed Apps Script web app endpoint.
	ScriptURL string `json:"script_url"`

	// Enabled toggles the whole export pipeline.
	Enabled bool `json:"enabled"`

	// SelectedFields is the stored field selection, either a JSON
	// array or a legacy comma-separated string.
	SelectedFields string `json:"selected_fields,omitempty"`

	// Statuses lists the order statuses eligible for export. Defaults
	// to completed and processing when left empty.
	Statuses []string `json:"statuses,omitempty"`

	// CategoryIDs restricts export to orders containing at least one
	// item in these categories. Empty means no category filter.
	CategoryIDs []int `json:"category_ids,omitempty"`

	// ProActive reports whether the pro tier is licensed.
	ProActive bool `json:"pro_active,omitempty"`

	// SheetMode selects the sheet-organization mode of the generated
	// script ("single", "monthly", "daily", "weekly", "product", "custom").
	SheetMode string `json:"sheet_mode,omitempty"`

	// SheetTemplate is the name template for custom mode.
	SheetTemplate string `json:"sheet_template,omitempty"`

	// TimeoutSeconds bounds each dispatch request. Zero uses the
	// dispatcher default.
	TimeoutSeconds int `json:"timeout_seconds,omitempty"`

	// RetryDelaySeconds is the base delay between dispatch attempts.
	RetryDelaySeconds int `json:"retry_delay_seconds,omitempty"`
}

// defaultStatuses are the order statuses that trigger an export when
// none are configured.
var defaultStatuses = []string{"completed", "processing"}

// Timeout returns the dispatch timeout as a duration.
func (e ExportConfig) Timeout() time.Duration {
	return time.Duration(e.TimeoutSeconds) * time.Second
}

// RetryDelay returns the dispatch retry delay as a duration.
func (e ExportConfig) RetryDelay() time.Duration {
	return time.Duration(e.RetryDelaySeconds) * time.Second
}

// Load reads configuration from file, environment, or Secret Manager.
// Priority: CONFIG_FILE (if set) -> ENV vars / Secret Manager.
// Validates all required fields and returns an error if any are missing.
func Load(ctx context.Context) (*Config, error) {
	// If CONFIG_FILE is set, load everything from the JSON file
	if configPath := os.Getenv("CONFIG_FILE"); configPath != "" {
		return loadFromFile(configPath)
	}

	// Otherwise, use ENV vars / Secret Manager approach
	cfg := &Config{
		Port:        envOrDefault("PORT", "8080"),
		Environment: envOrDefault("ENVIRONMENT", "development"),
		LogLevel:    envOrDefault("LOG_LEVEL", "info"),
		GCPProject:  os.Getenv("GCP_PROJECT"),
		StoreID:     os.Getenv("STORE_ID"),
	}

	// StoreID required in all environments
	if cfg.StoreID == "" {
		return nil, fmt.Errorf("STORE_ID environment variable required")
	}

	// Load store credentials based on environment
	var err error
	if cfg.Environment == "production" {
		if cfg.GCPProject == "" {
			return nil, fmt.Errorf("GCP_PROJECT required in production environment")
		}
		err = cfg.loadFromSecretManager(ctx)
	} else {
		err = cfg.loadFromEnv()
	}
	if err != nil {
		return nil, fmt.Errorf("loading store config: %w", err)
	}

	if err := cfg.loadExportFromEnv(); err != nil {
		return nil, fmt.Errorf("loading export config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile reads all configuration from a JSON file.
// Used for local development to avoid multiple ENV vars.
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Use a struct that matches the JSON structure
	var fileConfig struct {
		Port        string       `json:"port"`
		Environment string       `json:"environment"`
		LogLevel    string       `json:"log_level"`
		StoreID     string       `json:"store_id"`
		Store       StoreConfig  `json:"store"`
		Export      ExportConfig `json:"export"`
	}

	if err := json.Unmarshal(data, &fileConfig); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg := &Config{
		Port:        withDefault(fileConfig.Port, "8080"),
		Environment: withDefault(fileConfig.Environment, "development"),
		LogLevel:    withDefault(fileConfig.LogLevel, "info"),
		StoreID:     fileConfig.StoreID,
		Store:       fileConfig.Store,
		Export:      fileConfig.Export,
	}

	if len(cfg.Export.Statuses) == 0 {
		cfg.Export.Statuses = append([]string(nil), defaultStatuses...)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// withDefault returns val if non-empty, otherwise defaultVal.
func withDefault(val, defaultVal string) string {
	if val != "" {
		return val
	}
	return defaultVal
}

// loadFromSecretManager fetches store credentials from GCP Secret Manager.
// Secret name format: projects/{project}/secrets/{store_id}/versions/latest
func (c *Config) loadFromSecretManager(ctx context.Context) error {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("creating secret manager client: %w", err)
	}
	defer client.Close()

	secretName := fmt.Sprintf("projects/%s/secrets/%s/versions/latest",
		c.GCPProject, c.StoreID)

	result, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: secretName,
	})
	if err != nil {
		return fmt.Errorf("accessing secret %s: %w", secretName, err)
	}

	if err := json.Unmarshal(result.Payload.Data, &c.Store); err != nil {
		return fmt.Errorf("parsing secret JSON: %w", err)
	}

	return nil
}

// loadFromEnv reads store credentials from individual environment variables.
// Used in development mode for local testing.
func (c *Config) loadFromEnv() error {
	c.Store = StoreConfig{
		StoreURL:       os.Getenv("STORE_URL"),
		SiteName:       os.Getenv("STORE_SITE_NAME"),
		ConsumerKey:    os.Getenv("STORE_CONSUMER_KEY"),
		ConsumerSecret: os.Getenv("STORE_CONSUMER_SECRET"),
		UseBrowserTLS:  os.Getenv("STORE_USE_BROWSER_TLS") == "true",
	}

	if decimals := os.Getenv("STORE_PRICE_DECIMALS"); decimals != "" {
		n, err := strconv.Atoi(decimals)
		if err != nil {
			return fmt.Errorf("parsing STORE_PRICE_DECIMALS: %w", err)
		}
		c.Store.PriceDecimals = n
	}

	return nil
}

// loadExportFromEnv reads the export pipeline settings from env vars.
// Export settings never go through Secret Manager since they hold no
// credentials.
func (c *Config) loadExportFromEnv() error {
	c.Export = ExportConfig{
		ScriptURL:      os.Getenv("EXPORT_SCRIPT_URL"),
		Enabled:        os.Getenv("EXPORT_ENABLED") == "true",
		SelectedFields: os.Getenv("EXPORT_FIELDS"),
		ProActive:      os.Getenv("EXPORT_PRO_ACTIVE") == "true",
		SheetMode:      envOrDefault("EXPORT_SHEET_MODE", "single"),
		SheetTemplate:  os.Getenv("EXPORT_SHEET_TEMPLATE"),
	}

	if statuses := os.Getenv("EXPORT_STATUSES"); statuses != "" {
		for _, s := range strings.Split(statuses, ",") {
			if s = strings.TrimSpace(s); s != "" {
				c.Export.Statuses = append(c.Export.Statuses, s)
			}
		}
	}
	if len(c.Export.Statuses) == 0 {
		c.Export.Statuses = append([]string(nil), defaultStatuses...)
	}

	if cats := os.Getenv("EXPORT_CATEGORY_IDS"); cats != "" {
		for _, s := range strings.Split(cats, ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			id, err := strconv.Atoi(s)
			if err != nil {
				return fmt.Errorf("parsing EXPORT_CATEGORY_IDS entry %q: %w", s, err)
			}
			c.Export.CategoryIDs = append(c.Export.CategoryIDs, id)
		}
	}

	if v := os.Getenv("EXPORT_TIMEOUT_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing EXPORT_TIMEOUT_SECONDS: %w", err)
		}
		c.Export.TimeoutSeconds = n
	}

	if v := os.Getenv("EXPORT_RETRY_DELAY_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing EXPORT_RETRY_DELAY_SECONDS: %w", err)
		}
		c.Export.RetryDelaySeconds = n
	}

	return nil
}

// validate checks that all required configuration fields are present.
func (c *Config) validate() error {
	if c.Store.StoreURL == "" {
		return fmt.Errorf("store_url is required")
	}
	if c.Store.ConsumerKey == "" {
		return fmt.Errorf("consumer_key is required")
	}
	if c.Store.ConsumerSecret == "" {
		return fmt.Errorf("consumer_secret is required")
	}

	// Validate store URL is well-formed
	if _, err := url.Parse(c.Store.StoreURL); err != nil {
		return fmt.Errorf("invalid store_url: %w", err)
	}

	if c.Export.Enabled && c.Export.ScriptURL == "" {
		return fmt.Errorf("script_url is required when export is enabled")
	}
	if c.Export.ScriptURL != "" {
		if _, err := url.Parse(c.Export.ScriptURL); err != nil {
			return fmt.Errorf("invalid script_url: %w", err)
		}
	}

	return nil
}

// SiteName returns the configured site name, falling back to the
// store's host. Used by the {site_name} template token.
func (c *Config) SiteName() string {
	if c.Store.SiteName != "" {
		return c.Store.SiteName
	}
	return extractDomain(c.Store.StoreURL)
}

// extractDomain parses the domain from a URL string.
func extractDomain(storeURL string) string {
	u, err := url.Parse(storeURL)
	if err != nil {
		// Fallback: strip protocol prefix manually
		domain := strings.TrimPrefix(storeURL, "https://")
		domain = strings.TrimPrefix(domain, "http://")
		return strings.Split(domain, "/")[0]
	}
	return u.Host
}

// envOrDefault returns the environment variable value or the default if not set.
func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
