// Package config resolves the emulator configuration from built in
// defaults, an optional YAML file and the command line, in increasing order
// of precedence.
package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"github.com/shibukawa/configdir"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	vendor   = "thelolagemann"
	app      = "lr35902"
	fileName = "config.yaml"
)

// Config holds the settings of a single run.
type Config struct {
	// ROM is the path of the image to load into 0x0000 - 0x7FFF.
	ROM string `yaml:"rom"`
	// Entry is the address execution starts from.
	Entry uint16 `yaml:"entry"`
	// Steps is the number of instructions to run, 0 runs until halt.
	Steps int `yaml:"steps"`
	// Quiet suppresses the state dump printed before every step.
	Quiet bool `yaml:"quiet"`

	Debug bool `yaml:"debug"`

	// TraceAddr, when set, serves state dumps over websocket on this address.
	TraceAddr   string `yaml:"trace_addr"`
	Compression int    `yaml:"compression"`

	// Profile, when set, is the path a cycle profile chart is written to.
	Profile string `yaml:"profile"`
	// State, when set, is the path the compressed machine state is saved to
	// after the run.
	State string `yaml:"state"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the built in configuration.
func Default() *Config {
	return &Config{
		Entry:       0x0100,
		Steps:       20,
		Compression: -1,
		LogLevel:    "info",
	}
}

// Parse resolves the configuration for args. The file named by -config is
// used if given, otherwise the first config.yaml found in the user's
// config folders. The first positional argument is the ROM path.
func Parse(name string, args []string) (*Config, error) {
	return parseTo(name, args, os.Stderr)
}

// parseTo is Parse with usage and flag errors written to output.
func parseTo(name string, args []string, output io.Writer) (*Config, error) {
	// first pass only finds the config file
	path, err := Default().parse(name, args, io.Discard)
	if err != nil {
		// again, so usage and the error are printed once
		_, err = Default().parse(name, args, output)
		return nil, err
	}

	c := Default()
	if path == "" {
		path = Discover()
	}
	if path != "" {
		if err := c.LoadFile(path); err != nil {
			return nil, err
		}
	}

	if _, err := c.parse(name, args, output); err != nil {
		return nil, err
	}
	return c, c.Validate()
}

// Discover returns the path of the first config.yaml in the user's config
// folders, or "" if there is none.
func Discover() string {
	folder := configdir.New(vendor, app).QueryFolderContainsFile(fileName)
	if folder == nil {
		return ""
	}
	return filepath.Join(folder.Path, fileName)
}

// LoadFile merges the YAML file at path into c. Keys missing from the file
// keep their current value.
func (c *Config) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading config")
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return errors.Wrapf(err, "parsing %s", path)
	}
	return nil
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch {
	case c.ROM == "":
		return errors.New("no rom given")
	case c.Steps < 0:
		return errors.Errorf("steps must not be negative, got %d", c.Steps)
	case c.Compression > 11:
		return errors.Errorf("compression must be between -1 and 11, got %d", c.Compression)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "log_level")
	}
	return nil
}

func (c *Config) parse(name string, args []string, output io.Writer) (string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)

	path := fs.String("config", "", "path to a YAML config file")
	fs.StringVar(&c.ROM, "rom", c.ROM, "path to the ROM image (.gb, .bin, .gz, .zip, .7z)")
	fs.Func("entry", fmt.Sprintf("address to start executing from (default 0x%04X)", c.Entry), func(s string) error {
		v, err := strconv.ParseUint(s, 0, 16)
		if err != nil {
			return err
		}
		c.Entry = uint16(v)
		return nil
	})
	fs.IntVar(&c.Steps, "steps", c.Steps, "number of instructions to run, 0 runs until halt")
	fs.BoolVar(&c.Quiet, "quiet", c.Quiet, "do not print the state before every step")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "start the interactive debugger")
	fs.StringVar(&c.TraceAddr, "trace", c.TraceAddr, "serve state dumps over websocket on this address")
	fs.IntVar(&c.Compression, "compression", c.Compression, "brotli quality (0-11) for trace messages, -1 disables")
	fs.StringVar(&c.Profile, "profile", c.Profile, "write a cycle profile chart to this path")
	fs.StringVar(&c.State, "state", c.State, "save the compressed machine state to this path")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if fs.NArg() > 0 {
		c.ROM = fs.Arg(0)
	}
	return *path, nil
}
