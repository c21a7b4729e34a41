// Package config holds the run parameters of the inkverify command line:
// defaults, an optional YAML file, flag overrides and validation.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"inkverify/pkg/proof"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config represents the parameters of a proof run.
type Config struct {
	Width   int `yaml:"width" validate:"gt=0"`
	Height  int `yaml:"height" validate:"gt=0"`
	Steps   int `yaml:"steps" validate:"gte=0"`
	Workers int `yaml:"workers" validate:"gte=0,lte=1024"`

	Output string `yaml:"output"`
	Format string `yaml:"format" validate:"omitempty,oneof=ppm png bmp"`

	Ledger      string `yaml:"ledger"`
	MetricsFile string `yaml:"metrics_file"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:   proof.DefaultWidth,
		Height:  proof.DefaultHeight,
		Steps:   proof.DefaultSteps,
		Workers: 1,
		Output:  "proof.ppm",
	}
}

// Load reads a YAML file over the defaults. Unknown keys are an error.
func Load(path string) (Config, error) {
	c := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return c, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, c.Validate()
}

// flagNames lists the flags Bind registers.
var flagNames = []string{"width", "height", "steps", "workers", "output", "format", "ledger", "metrics-file"}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *pflag.FlagSet) {
	fs.IntVar(&c.Width, "width", c.Width, "grid width in cells")
	fs.IntVar(&c.Height, "height", c.Height, "grid height in cells")
	fs.IntVar(&c.Steps, "steps", c.Steps, "number of generations to simulate")
	fs.IntVarP(&c.Workers, "workers", "j", c.Workers, "goroutines per generation (does not affect the digest)")
	fs.StringVarP(&c.Output, "output", "o", c.Output, "image file for the final grid (empty to skip)")
	fs.StringVar(&c.Format, "format", c.Format, "image format: ppm, png or bmp (default: from output extension)")
	fs.StringVar(&c.Ledger, "ledger", c.Ledger, "directory of the proof ledger (empty to disable)")
	fs.StringVar(&c.MetricsFile, "metrics-file", c.MetricsFile, "write Prometheus metrics to this file on exit")
}

// ApplyPositional fills width, height and steps from trailing positional
// arguments, in that order. Any argument that is present must parse.
func (c *Config) ApplyPositional(args []string) error {
	targets := []struct {
		name string
		dst  *int
	}{{"width", &c.Width}, {"height", &c.Height}, {"steps", &c.Steps}}
	if len(args) > len(targets) {
		return fmt.Errorf("%w: %d extra arguments", ErrInvalid, len(args)-len(targets))
	}
	for i, arg := range args {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("%w: %s %q is not an integer", ErrInvalid, targets[i].name, arg)
		}
		*targets[i].dst = v
	}
	return nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s must satisfy %s=%s (got %v)", ErrInvalid, fe.Field(), fe.Tag(), fe.Param(), fe.Value())
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Params converts the configuration into proof parameters.
func (c Config) Params() proof.Params {
	return proof.Params{Width: c.Width, Height: c.Height, Steps: c.Steps, Workers: c.Workers}
}

// Resolve loads path into c while keeping any flag of fs that was set on the
// command line, so flags win over the file and the file wins over defaults.
func Resolve(path string, c *Config, fs *pflag.FlagSet) error {
	changed := map[string]string{}
	fs.Visit(func(f *pflag.Flag) {
		if slices.Contains(flagNames, f.Name) {
			changed[f.Name] = f.Value.String()
		}
	})

	loaded, err := Load(path)
	if err != nil {
		return err
	}
	*c = loaded
	for name, val := range changed {
		if err := fs.Set(name, val); err != nil {
			return fmt.Errorf("reapply --%s: %w", name, err)
		}
	}
	return c.Validate()
}
