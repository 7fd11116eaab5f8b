// Package config loads the harness configuration file and resolves the
// active environment. The file declares one entry per target environment
// (qa/stage/prod); environment variables with the APIHARNESS prefix can
// override the selection and a few hot settings without editing the file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const envVarPrefix = "apiharness"

// Environment is one target environment's settings, read-only for the rest
// of the harness.
type Environment struct {
	Name              string            `yaml:"-"`
	BaseURL           string            `yaml:"baseUrl"`
	Headers           map[string]string `yaml:"headers"`
	TimeoutMS         int               `yaml:"timeoutMs"`
	StatusPath        string            `yaml:"statusPath"`
	MinServiceVersion string            `yaml:"minServiceVersion"`
}

// Timeout returns the per-request timeout, or the given fallback when the
// file does not set one.
func (e Environment) Timeout(fallback time.Duration) time.Duration {
	if e.TimeoutMS <= 0 {
		return fallback
	}
	return time.Duration(e.TimeoutMS) * time.Millisecond
}

type ReportSettings struct {
	Path string `yaml:"path"`
}

type NotifySettings struct {
	SlackWebhookURL   string `yaml:"slackWebhookUrl"`
	DiscordWebhookURL string `yaml:"discordWebhookUrl"`
}

type Config struct {
	DefaultEnvironment string                 `yaml:"defaultEnvironment"`
	Environments       map[string]Environment `yaml:"environments"`
	Report             ReportSettings         `yaml:"report"`
	Notify             NotifySettings         `yaml:"notify"`

	baseURLOverride string
}

// overrides are the environment-variable knobs, e.g. APIHARNESS_ENV=stage
// or APIHARNESS_BASE_URL to repoint the active environment at an ad-hoc
// deployment.
type overrides struct {
	Env               string `envconfig:"ENV"`
	BaseURL           string `envconfig:"BASE_URL"`
	ReportPath        string `envconfig:"REPORT_PATH"`
	SlackWebhookURL   string `envconfig:"SLACK_WEBHOOK_URL"`
	DiscordWebhookURL string `envconfig:"DISCORD_WEBHOOK_URL"`
}

// Load reads and parses the configuration file and applies environment
// variable overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("malformed config file %s: %w", path, err)
	}

	var o overrides
	if err := envconfig.Process(envVarPrefix, &o); err != nil {
		return nil, err
	}
	if o.Env != "" {
		c.DefaultEnvironment = o.Env
	}
	if o.ReportPath != "" {
		c.Report.Path = o.ReportPath
	}
	if o.SlackWebhookURL != "" {
		c.Notify.SlackWebhookURL = o.SlackWebhookURL
	}
	if o.DiscordWebhookURL != "" {
		c.Notify.DiscordWebhookURL = o.DiscordWebhookURL
	}
	c.baseURLOverride = o.BaseURL

	return &c, nil
}

// ActiveEnvironment resolves the environment selected on the command line,
// falling back to the file's default. An empty name with no default is an
// error, as is a name with no entry in the file.
func (c *Config) ActiveEnvironment(name string) (Environment, error) {
	if name == "" {
		name = c.DefaultEnvironment
	}
	if name == "" {
		return Environment{}, fmt.Errorf("no environment selected and the config file sets no default")
	}
	env, ok := c.Environments[name]
	if !ok {
		return Environment{}, fmt.Errorf("environment %q is not defined in the config file", name)
	}
	env.Name = name
	if c.baseURLOverride != "" {
		env.BaseURL = c.baseURLOverride
	}
	return env, nil
}
