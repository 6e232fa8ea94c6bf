package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Logging    LoggingConfig    `yaml:"logging"`
	Repository RepositoryConfig `yaml:"repository"`
	Inference  InferenceConfig  `yaml:"inference"`
	Normalizer NormalizerConfig `yaml:"normalizer"`
	Worker     WorkerConfig     `yaml:"worker"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	Host string `yaml:"host"`
}

type DatabaseConfig struct {
	URL            string   `yaml:"url"`
	MaxConnections int      `yaml:"max_connections"`
	MinConnections int      `yaml:"min_connections"`
	IdleTimeout    Duration `yaml:"idle_timeout"`
}

type LoggingConfig struct {
	Development bool `yaml:"development"`
}

type RepositoryConfig struct {
	Type string `yaml:"type"` // "postgres" или "inmemory"
}

type InferenceConfig struct {
	APIURL  string   `yaml:"api_url"`
	Model   string   `yaml:"model"`
	Timeout Duration `yaml:"timeout"`
	// ключ берётся из окружения, в файле ему не место
	APIKey string `yaml:"-"`
}

type NormalizerConfig struct {
	// IANA-имя зоны; пустая строка — локальная зона сервера
	Timezone string `yaml:"timezone"`
}

type WorkerConfig struct {
	Interval     Duration `yaml:"interval"`
	BatchSize    int      `yaml:"batch_size"`
	ReminderLead Duration `yaml:"reminder_lead"`
}

// Duration — обёртка для разбора "5m"/"30s" из yaml
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("неверная длительность %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("не могу открыть %s: %w", path, err)
	}
	defer file.Close()

	var cfg Config
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга %s: %w", path, err)
	}

	cfg.Inference.APIKey = os.Getenv("OPENAI_API_KEY")

	return &cfg, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// Location загружает зону нормализатора; политика зоны всегда явная
func (n *NormalizerConfig) Location() (*time.Location, error) {
	if n.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(n.Timezone)
	if err != nil {
		return nil, fmt.Errorf("неизвестная зона %q: %w", n.Timezone, err)
	}
	return loc, nil
}
