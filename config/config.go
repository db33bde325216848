package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/peco/comterm/internal/util"
	"github.com/pkg/errors"
)

// Defaults applied by (*Config).Init.
const (
	DefaultPort             = "/dev/ttyS1"
	DefaultBaud             = 2400
	DefaultReadTimeout      = 100 // milliseconds
	DefaultIdleYield        = 5   // milliseconds
	DefaultSourceBufferSize = 2000
	DefaultInputBufferSize  = 200
	DefaultSentinel         = 0x1A // Ctrl-Z
	DefaultScrollback       = 1000
	DefaultBanner           = "Enter your modem commands now"
)

// Config holds all the data that can be configured in the
// external configuration file
type Config struct {
	// Port is the path of the serial device.
	Port string `json:"Port" yaml:"Port"`
	// Baud is the line speed in bits per second.
	Baud int `json:"Baud" yaml:"Baud"`

	// ReadTimeout bounds a single read from the serial device, in
	// milliseconds. The serial reader looks at the shutdown flag at
	// least this often. The device driver rounds it up to tenths of a
	// second.
	ReadTimeout int `json:"ReadTimeout" yaml:"ReadTimeout"`

	// IdleYield is how long the serial reader pauses after a read
	// that returned nothing, in milliseconds. Too small and the loop
	// spins; too large and echoed input shows up late.
	IdleYield int `json:"IdleYield" yaml:"IdleYield"`

	SourceBufferSize int `json:"SourceBufferSize" yaml:"SourceBufferSize"`
	InputBufferSize  int `json:"InputBufferSize" yaml:"InputBufferSize"`

	// Sentinel is the keystroke that ends the session. It is never
	// shown nor sent to the device.
	Sentinel int `json:"Sentinel" yaml:"Sentinel"`

	// Scrollback is the number of lines kept above the visible window
	// so that the screen can be redrawn after a resize.
	Scrollback int `json:"Scrollback" yaml:"Scrollback"`

	// Banner is printed on a line of its own before the session
	// starts, byte for byte like data from the line. Empty disables it.
	Banner string `json:"Banner" yaml:"Banner"`

	LogFile string   `json:"LogFile" yaml:"LogFile"`
	Style   StyleSet `json:"Style" yaml:"Style"`
}

var homedirFunc = util.Homedir

// New creates a Config holding the default values.
func New() *Config {
	c := &Config{}
	c.Init()
	return c
}

// Init initializes the Config with default values
func (c *Config) Init() {
	c.Port = DefaultPort
	c.Baud = DefaultBaud
	c.ReadTimeout = DefaultReadTimeout
	c.IdleYield = DefaultIdleYield
	c.SourceBufferSize = DefaultSourceBufferSize
	c.InputBufferSize = DefaultInputBufferSize
	c.Sentinel = DefaultSentinel
	c.Scrollback = DefaultScrollback
	c.Banner = DefaultBanner
	c.Style.Init()
}

// ReadFilename reads the config from the given file, and
// does the appropriate processing, if any
func (c *Config) ReadFilename(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return errors.Wrapf(err, "failed to open file %s", filename)
	}
	defer f.Close()

	switch ext := filepath.Ext(filename); ext {
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(f).Decode(c); err != nil {
			return errors.Wrap(err, "failed to decode YAML")
		}
	default:
		if err := json.NewDecoder(f).Decode(c); err != nil {
			return errors.Wrap(err, "failed to decode JSON")
		}
	}

	return c.Validate()
}

// Validate checks that the values can be used to start a session.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("no serial port configured")
	}
	if c.Baud <= 0 {
		return errors.Errorf("invalid baud rate: %d", c.Baud)
	}
	if c.ReadTimeout <= 0 {
		return errors.Errorf("invalid read timeout: %dms (reads must time out)", c.ReadTimeout)
	}
	if c.IdleYield < 0 {
		return errors.Errorf("invalid idle yield: %dms", c.IdleYield)
	}
	if c.Sentinel < 0 || c.Sentinel > 0xFF {
		return errors.Errorf("invalid sentinel: %#x (must be a single byte)", c.Sentinel)
	}
	if c.Scrollback < 0 {
		return errors.Errorf("invalid scrollback: %d", c.Scrollback)
	}
	return nil
}

// ReadTimeoutDuration returns ReadTimeout as a time.Duration.
func (c *Config) ReadTimeoutDuration() time.Duration {
	return time.Duration(c.ReadTimeout) * time.Millisecond
}

// IdleYieldDuration returns IdleYield as a time.Duration.
func (c *Config) IdleYieldDuration() time.Duration {
	return time.Duration(c.IdleYield) * time.Millisecond
}

// Locator locates a config file in a given directory.
type Locator interface {
	Locate(string) (string, error)
}

// LocatorFunc is a function that implements Locator.
type LocatorFunc func(string) (string, error)

// Locate calls the underlying function.
func (f LocatorFunc) Locate(dir string) (string, error) {
	return f(dir)
}

var configFilenames = []string{"config.json", "config.yaml", "config.yml"}

// DefaultConfigLocator searches for a config file with one of the known
// filenames (config.json, config.yaml, config.yml) in the given directory.
var DefaultConfigLocator = LocatorFunc(func(dir string) (string, error) {
	for _, basename := range configFilenames {
		file := filepath.Join(dir, basename)
		if _, err := os.Stat(file); err == nil {
			return file, nil
		}
	}
	return "", fmt.Errorf("config file not found in %s", dir)
})

// LocateRcfile attempts to find the config file in various locations
func LocateRcfile(locater Locator) (string, error) {
	// http://standards.freedesktop.org/basedir-spec/basedir-spec-latest.html
	//
	// Try in this order:
	//	  $XDG_CONFIG_HOME/comterm/config.{json,yaml,yml}
	//    $XDG_CONFIG_DIR/comterm/config.{json,yaml,yml} (where XDG_CONFIG_DIR is listed in $XDG_CONFIG_DIRS)
	//	  ~/.comterm/config.{json,yaml,yml}

	home, uErr := homedirFunc()

	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		if file, err := locater.Locate(filepath.Join(dir, "comterm")); err == nil {
			return file, nil
		}
	} else if uErr == nil { // silently ignore failure for homedir()
		if file, err := locater.Locate(filepath.Join(home, ".config", "comterm")); err == nil {
			return file, nil
		}
	}

	if dirs := os.Getenv("XDG_CONFIG_DIRS"); dirs != "" {
		for _, dir := range strings.Split(dirs, string(filepath.ListSeparator)) {
			if file, err := locater.Locate(filepath.Join(dir, "comterm")); err == nil {
				return file, nil
			}
		}
	}

	if uErr == nil {
		if file, err := locater.Locate(filepath.Join(home, ".comterm")); err == nil {
			return file, nil
		}
	}

	return "", errors.New("config file not found")
}
