package aws

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/ini.v1"
)

type CredentialSource int

const (
	CredentialSourceSharedCredentials CredentialSource = iota
	CredentialSourceSharedConfig
)

func (s CredentialSource) String() string {
	if s == CredentialSourceSharedConfig {
		return "config"
	}
	return "credentials"
}

// Profile describes a profile found in the shared AWS files.
type Profile struct {
	Name          string
	Source        CredentialSource
	Region        string
	RoleARN       string
	SourceProfile string
	HasAccessKey  bool
	HasSession    bool
}

type CredentialDiscovery struct {
	credentialsPath string
	configPath      string
}

// NewCredentialDiscovery creates a new CredentialDiscovery instance with default AWS paths.
// AWS_SHARED_CREDENTIALS_FILE and AWS_CONFIG_FILE override the defaults.
func NewCredentialDiscovery() *CredentialDiscovery {
	d := &CredentialDiscovery{
		credentialsPath: filepath.Join(expandHomeDir("~"), ".aws", "credentials"),
		configPath:      filepath.Join(expandHomeDir("~"), ".aws", "config"),
	}
	if p := os.Getenv("AWS_SHARED_CREDENTIALS_FILE"); p != "" {
		d.credentialsPath = p
	}
	if p := os.Getenv("AWS_CONFIG_FILE"); p != "" {
		d.configPath = p
	}

	return d
}

// NewCredentialDiscoveryAt reads the given credentials and config files.
func NewCredentialDiscoveryAt(credentialsPath, configPath string) *CredentialDiscovery {
	return &CredentialDiscovery{
		credentialsPath: credentialsPath,
		configPath:      configPath,
	}
}

// Profiles returns every profile declared in the credentials and config files,
// sorted by name. Credentials file entries take precedence; the config file
// contributes region and role settings. Missing files are not an error.
func (d *CredentialDiscovery) Profiles() ([]Profile, error) {
	profiles := make(map[string]*Profile)
	get := func(name string, src CredentialSource) *Profile {
		p, ok := profiles[name]
		if !ok {
			p = &Profile{Name: name, Source: src}
			profiles[name] = p
		}
		return p
	}

	credFile, err := loadIni(d.credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials file: %w", err)
	}
	if credFile != nil {
		for _, section := range credFile.Sections() {
			if section.Name() == ini.DefaultSection {
				continue
			}
			p := get(section.Name(), CredentialSourceSharedCredentials)
			p.HasAccessKey = section.HasKey("aws_access_key_id") && section.HasKey("aws_secret_access_key")
			p.HasSession = section.HasKey("aws_session_token")
			p.RoleARN = section.Key("role_arn").String()
			p.SourceProfile = section.Key("source_profile").String()
		}
	}

	configFile, err := loadIni(d.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	if configFile != nil {
		for _, section := range configFile.Sections() {
			name := section.Name()
			switch {
			case name == ini.DefaultSection, name == "default":
				if len(section.Keys()) == 0 {
					continue
				}
				name = "default"
			case strings.HasPrefix(name, "profile "):
				name = strings.TrimPrefix(name, "profile ")
			default:
				continue
			}
			p := get(name, CredentialSourceSharedConfig)
			if v := section.Key("region").String(); v != "" {
				p.Region = v
			}
			if v := section.Key("role_arn").String(); v != "" {
				p.RoleARN = v
			}
			if v := section.Key("source_profile").String(); v != "" {
				p.SourceProfile = v
			}
			if section.HasKey("aws_access_key_id") {
				p.HasAccessKey = true
			}
		}
	}

	out := make([]Profile, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, *p)
	}
	slices.SortFunc(out, func(a, b Profile) int {
		return strings.Compare(a.Name, b.Name)
	})

	return out, nil
}

// DefaultProfile returns the profile selected by AWS_PROFILE or "default".
func DefaultProfile() string {
	if profile := os.Getenv("AWS_PROFILE"); profile != "" {
		return profile
	}
	return "default"
}

func loadIni(path string) (*ini.File, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}

	return ini.Load(path)
}

// expandHomeDir expands ~ to the user's home directory.
func expandHomeDir(path string) string {
	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, strings.TrimPrefix(path, "~"))
	}
	return path
}
