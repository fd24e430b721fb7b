// Package config loads room-watch configuration via Viper.
//
// Values come from, in increasing precedence: built-in defaults, an optional YAML
// config file, ROOM_WATCH_* environment variables and command-line flags. The result
// is an explicit Config handed to every component at construction.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pfrederiksen/room-watch/internal/logger"
	"github.com/pfrederiksen/room-watch/internal/notifier"
	"github.com/pfrederiksen/room-watch/internal/scraper"
	"github.com/pfrederiksen/room-watch/internal/storage"
	"github.com/pfrederiksen/room-watch/internal/window"
)

// EnvPrefix prefixes every environment override, e.g. ROOM_WATCH_STATE_PATH
const EnvPrefix = "ROOM_WATCH"

// Config captures all configuration knobs
type Config struct {
	URL          string          `mapstructure:"url"`
	UserAgent    string          `mapstructure:"user_agent"`
	FetchTimeout time.Duration   `mapstructure:"fetch_timeout"`
	Selectors    SelectorsConfig `mapstructure:"selectors"`
	State        StateConfig     `mapstructure:"state"`
	Window       WindowConfig    `mapstructure:"window"`
	SMTP         SMTPConfig      `mapstructure:"smtp"`
	Email        EmailConfig     `mapstructure:"email"`
	Notify       NotifyConfig    `mapstructure:"notify"`
	Log          LogConfig       `mapstructure:"log"`
	Metrics      MetricsConfig   `mapstructure:"metrics"`
}

// SelectorsConfig locates the parts of the listings page
type SelectorsConfig struct {
	Container      string   `mapstructure:"container"`
	NoOffers       string   `mapstructure:"no_offers"`
	Offer          string   `mapstructure:"offer"`
	Card           string   `mapstructure:"card"`
	NoOfferPhrases []string `mapstructure:"no_offer_phrases"`
}

// StateConfig controls the state file
type StateConfig struct {
	Path        string        `mapstructure:"path"`
	LockTimeout time.Duration `mapstructure:"lock_timeout"`
}

// WindowConfig describes the release window
type WindowConfig struct {
	Enabled  bool         `mapstructure:"enabled"`
	Timezone string       `mapstructure:"timezone"`
	Spans    []SpanConfig `mapstructure:"spans"`
}

// SpanConfig is one recurring span, e.g. start "Mon 10:00", end "Tue 12:00"
type SpanConfig struct {
	Start string `mapstructure:"start"`
	End   string `mapstructure:"end"`
}

// SMTPConfig configures the mail relay. Username and password are optional here;
// EMAIL_USER / EMAIL_PASS and the OS keyring fill them in.
type SMTPConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	From     string        `mapstructure:"from"`
}

// EmailConfig controls the alert message
type EmailConfig struct {
	Recipient string `mapstructure:"recipient"`
	Subject   string `mapstructure:"subject"`
}

// NotifyConfig selects the notify-failure policy
type NotifyConfig struct {
	AdvanceOnFailure bool `mapstructure:"advance_on_failure"`
}

// LogConfig controls logging
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// MetricsConfig controls the Prometheus textfile output
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// flagKeys maps command-line flag names onto config keys
var flagKeys = map[string]string{
	"url":          "url",
	"state-file":   "state.path",
	"log-level":    "log.level",
	"log-file":     "log.file",
	"metrics-file": "metrics.textfile",
	"recipient":    "email.recipient",
}

// Load builds a Config from defaults, the optional file at path, the environment and
// any flags in fs that were set.
func Load(path string, fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	sel := scraper.DefaultSelectors()

	v.SetDefault("url", scraper.ListingsURL)
	v.SetDefault("user_agent", scraper.UserAgent)
	v.SetDefault("fetch_timeout", scraper.Timeout)
	v.SetDefault("selectors.container", sel.Container)
	v.SetDefault("selectors.no_offers", sel.NoOffers)
	v.SetDefault("selectors.offer", sel.Offer)
	v.SetDefault("selectors.card", sel.Card)
	v.SetDefault("selectors.no_offer_phrases", sel.NoOfferPhrases)
	v.SetDefault("state.path", storage.DefaultPath)
	v.SetDefault("state.lock_timeout", storage.DefaultLockTimeout)
	v.SetDefault("window.enabled", true)
	v.SetDefault("window.timezone", window.DefaultTimezone)
	v.SetDefault("window.spans", []map[string]string{
		{"start": "Mon 10:00", "end": "Tue 12:00"},
		{"start": "Wed 10:00", "end": "Thu 12:00"},
	})
	v.SetDefault("smtp.host", notifier.DefaultSMTPHost)
	v.SetDefault("smtp.port", notifier.DefaultSMTPPort)
	v.SetDefault("smtp.timeout", notifier.DefaultSMTPTimeout)
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "")
	v.SetDefault("email.recipient", "")
	v.SetDefault("email.subject", notifier.DefaultSubject)
	v.SetDefault("notify.advance_on_failure", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("metrics.textfile", "")
}

// Validate ensures required fields are populated and well formed
func (c Config) Validate() error {
	u, err := url.Parse(c.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("url must be an absolute http(s) URL, got %q", c.URL)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive")
	}
	if c.Selectors.Container == "" || c.Selectors.Offer == "" {
		return fmt.Errorf("selectors.container and selectors.offer are required")
	}
	if c.State.Path == "" {
		return fmt.Errorf("state.path is required")
	}
	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		return fmt.Errorf("smtp.port must be between 1 and 65535")
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Window.Enabled {
		if _, err := c.Gate(); err != nil {
			return fmt.Errorf("window: %w", err)
		}
	}
	return nil
}

// Gate builds the release-window gate
func (c Config) Gate() (*window.Gate, error) {
	spans := make([]window.Span, 0, len(c.Window.Spans))
	for _, s := range c.Window.Spans {
		span, err := window.ParseSpan(s.Start, s.End)
		if err != nil {
			return nil, err
		}
		spans = append(spans, span)
	}
	return window.New(c.Window.Timezone, spans)
}

// ScraperOptions returns the fetcher settings
func (c Config) ScraperOptions() scraper.Options {
	return scraper.Options{
		URL:       c.URL,
		UserAgent: c.UserAgent,
		Timeout:   c.FetchTimeout,
	}
}

// ScraperSelectors returns the classifier selectors
func (c Config) ScraperSelectors() scraper.Selectors {
	return scraper.Selectors{
		Container:      c.Selectors.Container,
		NoOffers:       c.Selectors.NoOffers,
		Offer:          c.Selectors.Offer,
		Card:           c.Selectors.Card,
		NoOfferPhrases: c.Selectors.NoOfferPhrases,
	}
}

// NotifierConfig returns the SMTP relay settings
func (c Config) NotifierConfig() notifier.SMTPConfig {
	return notifier.SMTPConfig{
		Host:    c.SMTP.Host,
		Port:    c.SMTP.Port,
		From:    c.SMTP.From,
		Timeout: c.SMTP.Timeout,
	}
}
