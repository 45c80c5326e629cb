package coinauction

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/hypemarket/coinauction/coinauction/database"
	"github.com/pelletier/go-toml/v2"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log    LogConfig         `toml:"log"`
	DB     database.DBConfig `toml:"db"`
	Engine EngineConfig      `toml:"engine"`
	Server ServerConfig      `toml:"server"`
	Spaces SpacesConfig      `toml:"spaces"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

type EngineConfig struct {
	MinIncrement         int64 `toml:"min_increment"`
	ExtensionWindowSecs  int   `toml:"extension_window_secs"`
	ExtensionAmountSecs  int   `toml:"extension_amount_secs"`
	MaxExtensions        int   `toml:"max_extensions"`
	SweepIntervalSecs    int   `toml:"sweep_interval_secs"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

// SpacesConfig points the settlement archive at S3-compatible object
// storage. Leave the bucket empty to disable archiving.
type SpacesConfig struct {
	Key    string `toml:"key"`
	Secret string `toml:"secret"`
	Region string `toml:"region"`
	Bucket string `toml:"bucket"`
	Root   string `toml:"root"`
}
