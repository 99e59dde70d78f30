// Package config loads MINIHOST_* settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const Prefix = "minihost"

// Input modes.
const (
	InputGPIO     = "gpio"
	InputKeyboard = "keyboard"
	InputNone     = "none"
)

type Config struct {
	WiFi    WiFiConfig    `envconfig:"WIFI"`
	Time    TimeConfig    `envconfig:"TIME"`
	Host    HostConfig    `envconfig:"HOST"`
	Input   InputConfig   `envconfig:"INPUT"`
	Display DisplayConfig `envconfig:"DISPLAY"`
	Web     WebConfig     `envconfig:"WEB"`
	Log     LogConfig     `envconfig:"LOG"`
}

// WiFiConfig is skipped entirely when SSID is empty.
type WiFiConfig struct {
	SSID        string        `envconfig:"SSID"`
	Password    string        `envconfig:"PASSWORD"`
	JoinTimeout time.Duration `envconfig:"JOIN_TIMEOUT" default:"30s"` // per join-and-resolve attempt
}

type TimeConfig struct {
	URL          string        `envconfig:"URL" default:"http://worldtimeapi.org/api/timezone/Etc/UTC"`
	UTCOffset    time.Duration `envconfig:"UTC_OFFSET" default:"-4h"`
	FetchTimeout time.Duration `envconfig:"FETCH_TIMEOUT" default:"10s"`
	Retries      int           `envconfig:"RETRIES" default:"0"`
	Sync         bool          `envconfig:"SYNC" default:"true"`
}

type HostConfig struct {
	StartApp     string        `envconfig:"START_APP" default:"menu"`
	TickInterval time.Duration `envconfig:"TICK_INTERVAL" default:"20ms"`
}

type InputConfig struct {
	Mode     string `envconfig:"MODE" default:"gpio"`
	Button   string `envconfig:"BUTTON_PIN" default:"GPIO20"`
	Escape   string `envconfig:"ESCAPE_PIN" default:"GPIO16"`
	EncoderA string `envconfig:"ENCODER_A_PIN" default:"GPIO5"`
	EncoderB string `envconfig:"ENCODER_B_PIN" default:"GPIO6"`
}

type DisplayConfig struct {
	Device string `envconfig:"DEVICE" default:"/dev/fb0"`
}

type WebConfig struct {
	Listen    string `envconfig:"LISTEN" default:":8080"`
	Dev       bool   `envconfig:"DEV" default:"false"`
	StaticDir string `envconfig:"STATIC_DIR"`
}

type LogConfig struct {
	Level string `envconfig:"LEVEL" default:"info"`
	Dev   bool   `envconfig:"DEV" default:"false"`
	// StdioFile receives stdout and stderr, including panics.
	StdioFile string `envconfig:"STDIO_FILE"`
}

// Load reads the environment and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var ErrInvalid = errors.New("invalid config")

func (c *Config) Validate() error {
	switch c.Input.Mode {
	case InputGPIO, InputKeyboard, InputNone:
	default:
		return fmt.Errorf("%w: input mode %q (want gpio, keyboard or none)", ErrInvalid, c.Input.Mode)
	}
	if c.Host.TickInterval <= 0 {
		return fmt.Errorf("%w: tick interval must be positive", ErrInvalid)
	}
	if strings.TrimSpace(c.Host.StartApp) == "" {
		return fmt.Errorf("%w: start app is empty", ErrInvalid)
	}
	if c.Time.Retries < 0 {
		return fmt.Errorf("%w: time retries must not be negative", ErrInvalid)
	}
	if c.Time.Sync && c.Time.URL == "" {
		return fmt.Errorf("%w: time URL is empty", ErrInvalid)
	}
	return nil
}

// ZoneLabel renders the UTC offset for display, e.g. "UTC-4" or "UTC+5:30".
func (t TimeConfig) ZoneLabel() string {
	offset := t.UTCOffset
	if offset == 0 {
		return "UTC"
	}
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	hours := int(offset / time.Hour)
	minutes := int((offset % time.Hour) / time.Minute)
	if minutes == 0 {
		return fmt.Sprintf("UTC%s%d", sign, hours)
	}
	return fmt.Sprintf("UTC%s%d:%02d", sign, hours, minutes)
}
