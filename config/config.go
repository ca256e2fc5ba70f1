package config

import (
	"io/ioutil"
	"os"
	"strconv"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "~/.fbx_scene_tools.yaml"

const envPrefix = "FBX_SCENE_TOOLS_"

const (
	HostAuto    = "auto"
	HostNative  = "native"
	HostBlender = "blender"
)

type ServeConfig struct {
	Addr string `yaml:"addr"`
	Dir  string `yaml:"dir"`
}

type Config struct {
	Host        string      `yaml:"host"`
	BlenderPath string      `yaml:"blender_path"`
	PurgePasses int         `yaml:"purge_passes"`
	LogLevel    string      `yaml:"log_level"`
	Serve       ServeConfig `yaml:"serve"`
}

func Default() *Config {
	return &Config{
		Host:        HostAuto,
		BlenderPath: "blender",
		PurgePasses: 5,
		LogLevel:    "info",
		Serve: ServeConfig{
			Addr: ":8000",
			Dir:  ".",
		},
	}
}

// Load reads the yaml file at path over the defaults and applies
// FBX_SCENE_TOOLS_* environment overrides. An empty path means DefaultPath,
// which may be absent.
func Load(path string) (*Config, error) {
	c := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to expand config path %q", path)
	}

	data, err := ioutil.ReadFile(expanded)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, errors.Wrapf(err, "Failed to parse config %q", expanded)
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return nil, errors.Wrapf(err, "Failed to read config %q", expanded)
	}

	if err := c.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return c, c.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(envPrefix + "HOST"); ok {
		c.Host = v
	}
	if v, ok := lookup(envPrefix + "BLENDER"); ok {
		c.BlenderPath = v
	}
	if v, ok := lookup(envPrefix + "LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := lookup(envPrefix + "PURGE_PASSES"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "Invalid %sPURGE_PASSES %q", envPrefix, v)
		}
		c.PurgePasses = n
	}
	return nil
}

func (c *Config) Validate() error {
	c.Host = strings.ToLower(c.Host)
	switch c.Host {
	case HostAuto, HostNative, HostBlender:
	default:
		return errors.Errorf("Unknown host %q, expected %s, %s or %s", c.Host, HostAuto, HostNative, HostBlender)
	}
	if c.PurgePasses < 1 {
		return errors.Errorf("purge_passes must be at least 1, got %d", c.PurgePasses)
	}
	return nil
}

var current = Default()

func Get() *Config {
	return current
}

func Set(c *Config) {
	current = c
}
