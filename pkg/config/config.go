/*
Package config manages the TOML configuration of hehify.

The file is created with defaults when missing. A file that does not decode
cleanly is parsed section by section so that valid values still apply:

	[heh]
	rate = 0.25
	level = 0.2
	seed = 0
	use_seed = false
	reseed_per_word = false

	[lexicon]
	cache_size = 4096
	protected = ["хех", "хаха*"]
	protected_file = ""

	[server]
	max_text_len = 65536
	http_addr = ":8080"
	reload_every = 100

	[cli]
	show_syllables = false
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bastiangx/hehify/internal/utils"
	"github.com/bastiangx/hehify/pkg/errors"
	"github.com/bastiangx/hehify/pkg/heh"
	"github.com/charmbracelet/log"
)

// FileName is the default config file name.
const FileName = "config.toml"

// Config holds the entire config structure.
type Config struct {
	Heh     HehConfig     `toml:"heh"`
	Lexicon LexiconConfig `toml:"lexicon"`
	Server  ServerConfig  `toml:"server"`
	CLI     CliConfig     `toml:"cli"`
}

// HehConfig mirrors heh.Settings.
type HehConfig struct {
	Rate          float64 `toml:"rate"`
	Level         float64 `toml:"level"`
	Seed          int64   `toml:"seed"`
	UseSeed       bool    `toml:"use_seed"`
	ReseedPerWord bool    `toml:"reseed_per_word"`
}

// LexiconConfig configures the syllable cache and protected words.
type LexiconConfig struct {
	CacheSize     int      `toml:"cache_size"`
	Protected     []string `toml:"protected"`
	ProtectedFile string   `toml:"protected_file"`
}

// ServerConfig has IPC and HTTP options.
type ServerConfig struct {
	MaxTextLen  int    `toml:"max_text_len"`
	HTTPAddr    string `toml:"http_addr"`
	ReloadEvery int    `toml:"reload_every"`
}

// CliConfig holds interactive mode options.
type CliConfig struct {
	ShowSyllables bool `toml:"show_syllables"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Heh: HehConfig{
			Rate:  heh.DefaultRate,
			Level: heh.DefaultLevel,
		},
		Lexicon: LexiconConfig{
			CacheSize: 4096,
			Protected: []string{"хех", "хаха*", "хехе*", "хихи*"},
		},
		Server: ServerConfig{
			MaxTextLen:  1 << 16,
			HTTPAddr:    ":8080",
			ReloadEvery: 100,
		},
	}
}

// Settings converts the [heh] section into transformer settings.
func (c *Config) Settings() heh.Settings {
	s := heh.Settings{
		Rate:          c.Heh.Rate,
		Level:         c.Heh.Level,
		ReseedPerWord: c.Heh.ReseedPerWord,
	}
	if c.Heh.UseSeed {
		s = s.WithSeed(c.Heh.Seed)
	}
	return s
}

// Validate checks the values a surface cannot recover from.
func (c *Config) Validate() error {
	if err := c.Settings().Validate(); err != nil {
		return err
	}
	if c.Server.MaxTextLen < 0 {
		return errors.New(errors.ErrCodeInvalidConfiguration, "max_text_len %d is negative", c.Server.MaxTextLen)
	}
	return nil
}

// GetDefaultConfigPath returns the default path for config.toml with
// fallback priority:
// 1. the platform config dir ($XDG_CONFIG_HOME/hehify or ~/.config/hehify)
// 2. ~/.hehify, then the temp dir
// 3. the executable dir
func GetDefaultConfigPath() (string, error) {
	pr, err := utils.NewPathResolver()
	if err != nil {
		log.Errorf("Failed to resolve config location: %v", err)
		dir, dirErr := utils.GetExecutableDir()
		if dirErr != nil {
			return "", dirErr
		}
		return filepath.Join(dir, FileName), nil
	}
	return pr.GetConfigPath(FileName)
}

// LoadConfigWithPriority loads config with priority:
// 1. custom path from --config
// 2. default path
// 3. builtin defaults
// The returned path is "" when builtin defaults are used.
func LoadConfigWithPriority(customPath string) (*Config, string, error) {
	if customPath != "" {
		if _, statErr := os.Stat(customPath); statErr == nil {
			cfg, err := LoadConfig(customPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customPath)
				return cfg, customPath, nil
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customPath, err)
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customPath, statErr)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}
	cfg, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at %s: %v. Using built-in defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return cfg, defaultPath, nil
}

// InitConfig loads config from file or creates it with defaults.
func InitConfig(configPath string) (*Config, error) {
	if err := utils.EnsureDir(filepath.Dir(configPath)); err != nil {
		log.Warnf("Failed to create config directory for %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		cfg := DefaultConfig()
		if err := SaveConfig(cfg, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return cfg, nil
	}
	return LoadConfig(configPath)
}

// LoadConfig decodes a TOML file over the defaults. Values that fail
// validation are an error; syntax problems fall back to partial parsing.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, cfg); err != nil {
		cfg = tryPartialParse(configPath)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", configPath, err)
	}
	return cfg, nil
}

func tryPartialParse(configPath string) *Config {
	cfg := DefaultConfig()
	raw, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return cfg
	}
	if section, ok := utils.ExtractSection(raw, "heh"); ok {
		extractHehConfig(section, &cfg.Heh)
	}
	if section, ok := utils.ExtractSection(raw, "lexicon"); ok {
		extractLexiconConfig(section, &cfg.Lexicon)
	}
	if section, ok := utils.ExtractSection(raw, "server"); ok {
		extractServerConfig(section, &cfg.Server)
	}
	if section, ok := utils.ExtractSection(raw, "cli"); ok {
		if val, ok := utils.ExtractBool(section, "show_syllables"); ok {
			cfg.CLI.ShowSyllables = val
		}
	}
	return cfg
}

func extractHehConfig(data map[string]any, h *HehConfig) {
	if val, ok := utils.ExtractFloat64(data, "rate"); ok {
		h.Rate = val
	}
	if val, ok := utils.ExtractFloat64(data, "level"); ok {
		h.Level = val
	}
	if val, ok := utils.ExtractInt64(data, "seed"); ok {
		h.Seed = int64(val)
	}
	if val, ok := utils.ExtractBool(data, "use_seed"); ok {
		h.UseSeed = val
	}
	if val, ok := utils.ExtractBool(data, "reseed_per_word"); ok {
		h.ReseedPerWord = val
	}
}

func extractLexiconConfig(data map[string]any, l *LexiconConfig) {
	if val, ok := utils.ExtractInt64(data, "cache_size"); ok {
		l.CacheSize = val
	}
	if val, ok := utils.ExtractStrings(data, "protected"); ok {
		l.Protected = val
	}
	if val, ok := utils.ExtractString(data, "protected_file"); ok {
		l.ProtectedFile = val
	}
}

func extractServerConfig(data map[string]any, s *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_text_len"); ok {
		s.MaxTextLen = val
	}
	if val, ok := utils.ExtractString(data, "http_addr"); ok {
		s.HTTPAddr = val
	}
	if val, ok := utils.ExtractInt64(data, "reload_every"); ok {
		s.ReloadEvery = val
	}
}

// RebuildConfigFile overwrites the default config file with defaults.
func RebuildConfigFile() (string, error) {
	path, err := GetDefaultConfigPath()
	if err != nil {
		return "", err
	}
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return "", err
	}
	return path, SaveConfig(DefaultConfig(), path)
}

// GetActiveConfigPath returns the absolute path of the loaded config file.
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig writes config to a TOML file.
func SaveConfig(cfg *Config, configPath string) error {
	return utils.SaveTOMLFile(cfg, configPath)
}

// Update changes the [heh] values and saves to file. Nil arguments keep
// the current value. Nothing is written when the result is invalid.
func (c *Config) Update(configPath string, rate, level *float64, seed *int64) error {
	next := *c
	if rate != nil {
		next.Heh.Rate = *rate
	}
	if level != nil {
		next.Heh.Level = *level
	}
	if seed != nil {
		next.Heh.Seed = *seed
		next.Heh.UseSeed = true
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	if configPath == "" {
		return nil
	}
	return SaveConfig(c, configPath)
}
