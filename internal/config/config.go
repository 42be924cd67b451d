package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

const DefaultStationsURL = "https://api.netatmo.com/api/getstationsdata"

type Config struct {
	Env     string        `yaml:"env" env:"ENV" env-default:"prod"`
	API     APIConfig     `yaml:"api"`
	Secrets SecretsConfig `yaml:"secrets"`
	Output  OutputConfig  `yaml:"output"`
	HTTP    HTTPConfig    `yaml:"http"`
	Log     LogConfig     `yaml:"log"`
}

type APIConfig struct {
	URL string `yaml:"url" env:"STATIONS_API_URL" env-default:"https://api.netatmo.com/api/getstationsdata"`
}

type SecretsConfig struct {
	Path string `yaml:"path" env:"SECRETS_PATH" env-default:".secrets"`
}

// OutputConfig.NoHeader drops the "Data received:" line.
type OutputConfig struct {
	Format   string `yaml:"format" env:"OUTPUT_FORMAT" env-default:"json"`
	NoHeader bool   `yaml:"no_header" env:"OUTPUT_NO_HEADER"`
}

type HTTPConfig struct {
	Address string `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// Load reads configPath (falling back to CONFIG_PATH) when one is given and
// otherwise builds the config from environment variables and defaults.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = os.Getenv("CONFIG_PATH")
	}

	var cfg Config
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read config from env: %w", err)
		}
		return &cfg, nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return &cfg, nil
}
