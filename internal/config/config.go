package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Reddit  RedditConfig  `yaml:"reddit" mapstructure:"reddit"`
	Feeds   FeedsConfig   `yaml:"feeds" mapstructure:"feeds"`
	Scan    ScanConfig    `yaml:"scan" mapstructure:"scan"`
	Notify  NotifyConfig  `yaml:"notify" mapstructure:"notify"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Lexicon LexiconConfig `yaml:"lexicon" mapstructure:"lexicon"`
}

// StoreConfig configures the ledger backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	Sheet       string `yaml:"sheet" mapstructure:"sheet"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// RedditConfig configures the public Reddit search client.
type RedditConfig struct {
	BaseURL     string   `yaml:"base_url" mapstructure:"base_url"`
	UserAgent   string   `yaml:"user_agent" mapstructure:"user_agent"`
	Sort        string   `yaml:"sort" mapstructure:"sort"`
	Timeframe   string   `yaml:"timeframe" mapstructure:"timeframe"`
	Limit       int      `yaml:"limit" mapstructure:"limit"`
	TimeoutSecs int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Queries     []string `yaml:"queries" mapstructure:"queries"`
}

// FeedsConfig configures the syndication feed poller.
type FeedsConfig struct {
	TimeoutSecs int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	URLs        []string `yaml:"urls" mapstructure:"urls"`
}

// ScanConfig configures the run coordinator.
type ScanConfig struct {
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// NotifyConfig holds the email summary settings. Credentials are required
// whenever notification is enabled.
type NotifyConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	SMTPHost string `yaml:"smtp_host" mapstructure:"smtp_host"`
	SMTPPort int    `yaml:"smtp_port" mapstructure:"smtp_port"`
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
	From     string `yaml:"from" mapstructure:"from"`
	To       string `yaml:"to" mapstructure:"to"`
	PromoURL string `yaml:"promo_url" mapstructure:"promo_url"`
}

// ServerConfig configures the scan-trigger server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// LexiconConfig points at an optional lexicon override file.
type LexiconConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// DefaultQueries are the seed phrases polled against the Reddit search
// endpoint every run.
func DefaultQueries() []string {
	return []string{
		"buying beats",
		"paying for beats",
		"buying instrumentals",
		"need beats for video",
		"looking for trap beats",
		"need hip hop instrumental",
		"commission a beat",
		"custom trap instrumental",
		"exclusive rights beat",
		"budget for beats",
		"sync licensing hip hop",
		"hip hop placement brief",
		"cinematic hip hop placement",
		"music supervisor hip hop",
		"looking for hip hop instrumental",
		"looking for trap instrumental",
		"need cinematic instrumental",
	}
}

// DefaultFeedURLs are the sync/licensing syndication feeds polled every run.
func DefaultFeedURLs() []string {
	return []string{
		"https://news.google.com/rss/search?q=sync+licensing+hip+hop",
		"https://news.google.com/rss/search?q=sync+licensing+trap",
		"https://news.google.com/rss/search?q=music+licensing+hip+hop",
		"https://news.google.com/rss/search?q=placement+opportunity+hip+hop",
		"https://news.google.com/rss/search?q=sync+brief+hip+hop",
		"https://news.google.com/rss/search?q=cinematic+hip+hop+placement",
		"https://news.google.com/rss/search?q=music+supervisor+looking+for+music+hip+hop",
		"https://news.google.com/rss/search?q=call+for+submissions+hip+hop+instrumental",
		"https://news.google.com/rss/search?q=music+wanted+hip+hop+instrumental",
	}
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Keys with no real default still need an empty one
	// registered: viper's Unmarshal only sees env values for keys it
	// already knows about.
	v.SetDefault("store.driver", "xlsx")
	v.SetDefault("store.path", "beatfindr_leads.xlsx")
	v.SetDefault("store.sheet", "Leads")
	v.SetDefault("store.database_url", "")
	v.SetDefault("reddit.base_url", "https://www.reddit.com")
	v.SetDefault("reddit.user_agent", "leadscout/1.1 (+contact: bot-notifications@example.com)")
	v.SetDefault("reddit.sort", "new")
	v.SetDefault("reddit.timeframe", "week")
	v.SetDefault("reddit.limit", 25)
	v.SetDefault("reddit.timeout_secs", 20)
	v.SetDefault("reddit.queries", DefaultQueries())
	v.SetDefault("feeds.timeout_secs", 20)
	v.SetDefault("feeds.urls", DefaultFeedURLs())
	v.SetDefault("scan.max_concurrent", 5)
	v.SetDefault("notify.enabled", true)
	v.SetDefault("notify.smtp_host", "smtp.gmail.com")
	v.SetDefault("notify.smtp_port", 465)
	v.SetDefault("notify.username", "")
	v.SetDefault("notify.password", "")
	v.SetDefault("notify.from", "")
	v.SetDefault("notify.to", "")
	v.SetDefault("notify.promo_url", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("lexicon.path", "")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the configuration before any network or store access so a
// misconfigured deployment fails fast instead of mid-run.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "xlsx", "sqlite":
		if c.Store.Path == "" {
			return eris.Errorf("config: store.path is required for driver %q", c.Store.Driver)
		}
	case "postgres":
		if c.Store.DatabaseURL == "" {
			return eris.New(`config: store.database_url is required for driver "postgres"`)
		}
	default:
		return eris.Errorf("config: unknown store driver %q (valid: xlsx, sqlite, postgres)", c.Store.Driver)
	}

	if c.Notify.Enabled {
		var missing []string
		if c.Notify.SMTPHost == "" {
			missing = append(missing, "notify.smtp_host")
		}
		if c.Notify.Username == "" {
			missing = append(missing, "notify.username")
		}
		if c.Notify.Password == "" {
			missing = append(missing, "notify.password")
		}
		if c.Notify.From == "" {
			missing = append(missing, "notify.from")
		}
		if c.Notify.To == "" {
			missing = append(missing, "notify.to")
		}
		if len(missing) > 0 {
			return eris.Errorf("config: missing required notify settings: %s", strings.Join(missing, ", "))
		}
	}

	if len(c.Reddit.Queries) == 0 && len(c.Feeds.URLs) == 0 {
		return eris.New("config: no seed queries and no feed urls configured")
	}

	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
