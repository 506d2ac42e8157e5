package config

import (
	"os"
	"sync"

	"github.com/a1s/tabula/internal/config/data"
)

// Aliases maps short names to Cloud Control resource types.
type Aliases struct {
	Alias map[string]string `yaml:"aliases"`
	mx    sync.RWMutex      `yaml:"-"`
}

// DefaultAliases are the built-in resource type aliases.
var DefaultAliases = map[string]string{
	"i":      "ec2/instance",
	"vol":    "ec2/volume",
	"ebs":    "ec2/volume",
	"sg":     "vpc/securitygroup",
	"vpc":    "vpc/vpc",
	"subnet": "vpc/subnet",
	"sn":     "vpc/subnet",
	"bucket": "s3/bucket",
	"user":   "iam/user",
	"role":   "iam/role",
	"policy": "iam/policy",
	"ng":     "eks/nodegroup",
	"fn":     "lambda/function",
	"queue":  "sqs/queue",
}

// NewAliases creates an Aliases with default aliases loaded.
func NewAliases() *Aliases {
	a := &Aliases{
		Alias: make(map[string]string, len(DefaultAliases)),
	}
	for k, v := range DefaultAliases {
		a.Alias[k] = v
	}
	return a
}

// Load loads aliases from the default config file.
// Merges with default aliases, with file aliases taking precedence.
func (a *Aliases) Load() error {
	return a.LoadFrom(AppAliasesFile)
}

// LoadFrom loads aliases from a specific file path.
func (a *Aliases) LoadFrom(path string) error {
	a.mx.Lock()
	defer a.mx.Unlock()

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	loaded := &Aliases{
		Alias: make(map[string]string),
	}
	if err := data.LoadYAML(path, loaded); err != nil {
		return err
	}

	for k, v := range loaded.Alias {
		a.Alias[k] = v
	}

	return nil
}

// Get returns the resource type for an alias, or the original if not found.
func (a *Aliases) Get(alias string) string {
	a.mx.RLock()
	defer a.mx.RUnlock()

	if resource, ok := a.Alias[alias]; ok {
		return resource
	}
	return alias
}

// All returns a copy of all aliases.
func (a *Aliases) All() map[string]string {
	a.mx.RLock()
	defer a.mx.RUnlock()

	result := make(map[string]string, len(a.Alias))
	for k, v := range a.Alias {
		result[k] = v
	}
	return result
}
