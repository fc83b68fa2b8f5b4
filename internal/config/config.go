package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultEvent   = "pull_requests"
	DefaultTop     = 50
	DefaultVisible = 7
	DefaultView    = "percentage"
)

type Config struct {
	Event   string
	DataDir string
	Top     int
	Visible int
	View    string
	Strict  bool
	// Colors 覆盖内置的语言颜色，键为语言名（大小写不敏感）。
	Colors map[string]string
	// Repos 是 collect 命令统计的本地仓库。
	Repos []string
}

func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "lang-visible"), nil
}

func File() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DefaultDataDir 返回默认的数据目录 ~/.config/lang-visible/data。
func DefaultDataDir() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "data"), nil
}

func EnsureDir() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

func Load() (*Config, error) {
	configFile, err := File()
	if err != nil {
		return nil, err
	}
	dataDir, err := DefaultDataDir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("LANG_VISIBLE")
	v.AutomaticEnv()
	v.SetDefault("event", DefaultEvent)
	v.SetDefault("data_dir", dataDir)
	v.SetDefault("top", DefaultTop)
	v.SetDefault("visible", DefaultVisible)
	v.SetDefault("view", DefaultView)
	v.SetDefault("strict", false)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, err
		}
	}

	return &Config{
		Event:   v.GetString("event"),
		DataDir: v.GetString("data_dir"),
		Top:     v.GetInt("top"),
		Visible: v.GetInt("visible"),
		View:    v.GetString("view"),
		Strict:  v.GetBool("strict"),
		Colors:  v.GetStringMapString("colors"),
		Repos:   v.GetStringSlice("repos"),
	}, nil
}

func Save(config Config) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	configFile, err := File()
	if err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("event", config.Event)
	v.Set("data_dir", config.DataDir)
	v.Set("top", config.Top)
	v.Set("visible", config.Visible)
	v.Set("view", config.View)
	v.Set("strict", config.Strict)
	if len(config.Colors) > 0 {
		v.Set("colors", config.Colors)
	}
	if len(config.Repos) > 0 {
		v.Set("repos", config.Repos)
	}

	return v.WriteConfigAs(configFile)
}

// Validate 检查配置项的取值范围。
func (c *Config) Validate() error {
	if c.Top <= 0 || c.Top > 50 {
		return fmt.Errorf("top must be 1-50, got %d", c.Top)
	}
	if c.Visible < 0 {
		return fmt.Errorf("visible must be >= 0, got %d", c.Visible)
	}
	switch strings.ToLower(strings.TrimSpace(c.View)) {
	case "percentage", "count":
	default:
		return fmt.Errorf("unsupported view %q (supported: percentage, count)", c.View)
	}
	return nil
}
