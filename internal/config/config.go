package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/a1s/tabula/internal/aws"
	"github.com/a1s/tabula/internal/config/data"
)

// ProfileSource lists the known AWS profiles.
type ProfileSource interface {
	Profiles() ([]aws.Profile, error)
}

// Config is the root configuration for the application.
type Config struct {
	Tabula *Tabula `yaml:"tabula"`

	activeProfile string
	activeRegion  string
	mx            sync.RWMutex
}

// NewConfig creates a new Config with default settings.
func NewConfig() *Config {
	return &Config{
		Tabula: NewTabula(),
	}
}

// Load loads the configuration from the given path.
// If the file doesn't exist, the current config is kept unless force is set.
func (c *Config) Load(path string, force bool) error {
	c.mx.Lock()
	defer c.mx.Unlock()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if !force {
			return nil
		}
		return fmt.Errorf("config file does not exist: %s", path)
	}

	if err := data.LoadYAML(path, c); err != nil {
		return fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	if c.Tabula == nil {
		c.Tabula = NewTabula()
	}
	if err := c.Tabula.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}

	return nil
}

// Save saves the configuration to the given path.
// If force is false, only saves if the file already exists.
func (c *Config) Save(path string, force bool) error {
	c.mx.RLock()
	defer c.mx.RUnlock()

	if path == "" {
		return fmt.Errorf("no config file path configured")
	}
	if _, err := os.Stat(path); err != nil && !force {
		return nil
	}

	if err := data.SaveYAML(path, c); err != nil {
		return fmt.Errorf("failed to save config to %s: %w", path, err)
	}

	return nil
}

// Refine applies CLI flags and resolves the AWS profile and region.
// - Profile: CLI --profile > config defaultProfile > AWS_PROFILE > "default"
// - Region: CLI --region > config defaultRegion > profile region > AWS_REGION > us-east-1
func (c *Config) Refine(flags *data.Flags, profiles ProfileSource) error {
	c.mx.Lock()
	defer c.mx.Unlock()

	if c.Tabula == nil {
		return fmt.Errorf("config.Tabula is nil")
	}
	c.Tabula.Override(flags)

	explicit := c.Tabula.DefaultProfile != ""
	profile := c.Tabula.DefaultProfile
	if !explicit {
		profile = aws.DefaultProfile()
	}

	var known []aws.Profile
	if profiles != nil {
		var err error
		if known, err = profiles.Profiles(); err != nil {
			return fmt.Errorf("failed to load AWS profiles: %w", err)
		}
	}
	var current *aws.Profile
	for i := range known {
		if known[i].Name == profile {
			current = &known[i]
			break
		}
	}
	if current == nil && explicit && len(known) > 0 {
		return fmt.Errorf("profile %q not found", profile)
	}

	region := c.Tabula.DefaultRegion
	if region == "" && current != nil {
		region = current.Region
	}
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = aws.DefaultRegion
	}

	c.activeProfile, c.activeRegion = profile, region

	return nil
}

// ActiveProfile returns the resolved AWS profile.
func (c *Config) ActiveProfile() string {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.activeProfile
}

// ActiveRegion returns the resolved AWS region.
func (c *Config) ActiveRegion() string {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.activeRegion
}
