package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode       string `mapstructure:"mode"`
	Port       int    `mapstructure:"port"`
	StaticPath string `mapstructure:"static_path"`
	Secret     string `mapstructure:"secret"`
	LogLevel   string `mapstructure:"log_level"`

	Backend Backend `mapstructure:"backend"`
	RTC     RTC     `mapstructure:"rtc"`
	Capture Capture `mapstructure:"capture"`
	Stream  Stream  `mapstructure:"stream"`
	Intents Intents `mapstructure:"intents"`
}

// Backend is the classroom backend link.
type Backend struct {
	URL            string        `mapstructure:"url"`
	AppKey         string        `mapstructure:"app_key"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	PingPeriod     time.Duration `mapstructure:"ping_period"`
	ReadLimit      int64         `mapstructure:"read_limit"`
	// Passthrough routes member property updates through the passthrough
	// endpoint instead of the plain property endpoint.
	Passthrough bool `mapstructure:"passthrough"`
}

type RTC struct {
	ICEServers []string `mapstructure:"ice_servers"`
}

// Capture configures the headless capture host: "grant" or "deny".
type Capture struct {
	Consent string `mapstructure:"consent"`
}

// Stream is the UI event websocket.
type Stream struct {
	SendBuffer int           `mapstructure:"send_buffer"`
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
}

// Intents throttles UI actions per client.
type Intents struct {
	Rate  float64 `mapstructure:"rate"`
	Burst int     `mapstructure:"burst"`
}

// New prepares a viper instance with defaults, the env-selected config file
// and CLASSROOM_* overrides.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	v.SetConfigFile(fmt.Sprintf("config/config.%s.yaml", env))
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("CLASSROOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("log_level", "info")
	v.SetDefault("backend.url", "ws://127.0.0.1:9000/classroom")
	v.SetDefault("backend.request_timeout", "10s")
	v.SetDefault("backend.ping_period", "54s")
	v.SetDefault("backend.read_limit", 1<<20)
	v.SetDefault("backend.passthrough", false)
	v.SetDefault("rtc.ice_servers", []string{"stun:stun.l.google.com:19302"})
	v.SetDefault("capture.consent", "grant")
	v.SetDefault("stream.send_buffer", 64)
	v.SetDefault("stream.read_limit", 32768)
	v.SetDefault("stream.ping_period", "54s")
	v.SetDefault("intents.rate", 5)
	v.SetDefault("intents.burst", 10)
	return v
}

// Load reads the config file if present and decodes everything into Config.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", v.ConfigFileUsed()).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", v.ConfigFileUsed()).Msg("loaded config")
	}
	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).
		Str("backend", cfg.Backend.URL).Msg("config ready")
	return cfg, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	switch c.Capture.Consent {
	case "grant", "deny":
	default:
		return fmt.Errorf("invalid capture.consent %q", c.Capture.Consent)
	}
	if c.Backend.RequestTimeout <= 0 {
		return fmt.Errorf("invalid backend.request_timeout %s", c.Backend.RequestTimeout)
	}
	return nil
}

// Watch calls fn with the new config each time the file changes. Invalid
// edits are logged and skipped.
func Watch(v *viper.Viper, fn func(*Config)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := decode(v)
		if err != nil {
			log.Error().Err(err).Str("module", "config").Str("file", e.Name).Msg("ignoring config change")
			return
		}
		log.Info().Str("module", "config").Str("file", e.Name).Msg("config reloaded")
		fn(cfg)
	})
	v.WatchConfig()
}
