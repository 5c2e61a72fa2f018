package bot

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/enonoeno/housingbot/internal/chat"
)

// Config is the process configuration, read once at startup.
type Config struct {
	Gateway chat.Config `yaml:"gateway"`
	// TokenFile holds the gateway token on its first line; kept out of the
	// config file itself.
	TokenFile string `yaml:"token_file"`
	// DataDir is the root of the per-ward spreadsheet tree.
	DataDir string `yaml:"data_dir"`
	// DirectoryFile is the server → datacenter/reporting-channel JSON map.
	DirectoryFile string `yaml:"directory_file"`
	CookiesFile   string `yaml:"cookies_file"`
	// Timezone is the IANA zone listing times are recorded in.
	Timezone   string `yaml:"timezone"`
	ScanMinute int    `yaml:"scan_minute"`
	Prefix     string `yaml:"prefix"`
}

// LoadConfig reads a YAML config file and applies defaults.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		DataDir:       "Datacenters",
		DirectoryFile: "conf/datacenter_dictionary.json",
		CookiesFile:   "conf/player_cookies.json",
		Timezone:      "America/New_York",
		ScanMinute:    defaultScanMinute,
		Prefix:        "##",
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Gateway.URL == "" {
		return cfg, fmt.Errorf("%s: gateway.url is required", path)
	}
	return cfg, nil
}

// ReadToken loads the gateway token from its file.
func ReadToken(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	tok, _, _ := strings.Cut(string(b), "\n")
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return "", fmt.Errorf("%s: empty token", path)
	}
	return tok, nil
}
