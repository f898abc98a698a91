package stream

import (
	"errors"
	"fmt"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v2"
)

// ViewConfig describes a view to create at start up.
type ViewConfig struct {
	Name     string        `yaml:"name"`
	Colour   string        `yaml:"colour"`
	Alpha    *float64      `yaml:"alpha"`
	Hidden   bool          `yaml:"hidden"`
	Center   Point         `yaml:"center"`
	Size     Point         `yaml:"size"`
	Gradient GradientTable `yaml:"gradient"`
}

// Config is the application configuration.
type Config struct {
	Mqtt struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		ClientID string `yaml:"clientID"`
		QoS      byte   `yaml:"qos"`
		Topics   struct {
			Stream string `yaml:"stream"`
			Play   string `yaml:"play"`
		} `yaml:"topics"`
	} `yaml:"mqtt"`
	Strip struct {
		Pixels     int     `yaml:"pixels"`
		FrameRate  float64 `yaml:"frameRate"`
		Background string  `yaml:"background"`
		Layout     Layout  `yaml:"layout"`
	} `yaml:"strip"`
	Views []ViewConfig `yaml:"views"`
	HTTP  struct {
		Addr   string `yaml:"addr"`
		Static string `yaml:"static"`
	} `yaml:"http"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Defaults returns a Config with every optional field filled in.
func Defaults() Config {
	var c Config
	c.Mqtt.ClientID = "ledmod"
	c.Mqtt.QoS = 0
	c.Mqtt.Topics.Stream = "home/xmastree/stream"
	c.Mqtt.Topics.Play = "home/xmastree/play"
	c.Strip.Pixels = 500
	c.Strip.FrameRate = 30
	c.Strip.Background = "#000005"
	c.HTTP.Addr = ":3000"
	c.HTTP.Static = "client/dist"
	c.Log.Level = "info"
	return c
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	c := Defaults()
	f, err := os.Open(path)
	if err != nil {
		return c, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&c); err != nil {
		return c, fmt.Errorf("decode config %s: %w", path, err)
	}
	return c, c.Validate()
}

// Validate checks the config is usable.
func (c *Config) Validate() error {
	var errs []error
	if c.Mqtt.URL == "" {
		errs = append(errs, errors.New("mqtt.url is required"))
	}
	if c.Mqtt.QoS > 2 {
		errs = append(errs, fmt.Errorf("mqtt.qos %d out of range", c.Mqtt.QoS))
	}
	if c.Strip.Pixels <= 0 || c.Strip.Pixels > 0xffff {
		errs = append(errs, fmt.Errorf("strip.pixels %d out of range", c.Strip.Pixels))
	}
	if c.Strip.FrameRate <= 0 {
		errs = append(errs, errors.New("strip.frameRate must be positive"))
	}
	if len(c.Strip.Layout) != 0 && len(c.Strip.Layout) != c.Strip.Pixels {
		errs = append(errs, fmt.Errorf("strip.layout has %d points for %d pixels", len(c.Strip.Layout), c.Strip.Pixels))
	}
	if _, err := colorful.Hex(c.Strip.Background); err != nil {
		errs = append(errs, fmt.Errorf("strip.background: %w", err))
	}

	names := make(map[string]bool)
	for i, v := range c.Views {
		if v.Name == "" {
			errs = append(errs, fmt.Errorf("views[%d]: name is required", i))
		} else if names[v.Name] {
			errs = append(errs, fmt.Errorf("views[%d]: duplicate name %q", i, v.Name))
		}
		names[v.Name] = true
		if _, err := colorful.Hex(v.Colour); err != nil {
			errs = append(errs, fmt.Errorf("views[%d].colour: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// PixelLayout returns the configured pixel layout, or a linear one.
func (c *Config) PixelLayout() Layout {
	if len(c.Strip.Layout) != 0 {
		return c.Strip.Layout
	}
	return LinearLayout(c.Strip.Pixels)
}

// NewViews creates the configured views.
func (c *Config) NewViews() ([]*View, error) {
	views := make([]*View, 0, len(c.Views))
	for _, vc := range c.Views {
		colour, err := colorful.Hex(vc.Colour)
		if err != nil {
			return nil, fmt.Errorf("view %s: %w", vc.Name, err)
		}
		alpha := 1.0
		if vc.Alpha != nil {
			alpha = *vc.Alpha
		}
		v := NewView(vc.Name, State{
			Hidden: vc.Hidden,
			Alpha:  alpha,
			Center: vc.Center,
			Size:   vc.Size,
			Colour: colour,
		})
		if len(vc.Gradient) != 0 {
			v.SetGradient(vc.Gradient)
		}
		views = append(views, v)
	}
	return views, nil
}
