package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "config.yml"

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Menu    MenuConfig    `yaml:"menu"`
	Worker  WorkerConfig  `yaml:"worker"`
}

type ServerConfig struct {
	Port        string   `yaml:"port"`
	Host        string   `yaml:"host"`
	RateLimit   int      `yaml:"rate_limit"`
	CorsOrigins []string `yaml:"cors_origins"`
}

type LoggingConfig struct {
	Development bool `yaml:"development"`
	// Output: путь к файлу, "stderr" или "discard". Пусто - выбор команды:
	// stderr для serve, discard для меню.
	Output string `yaml:"output"`
}

type MenuConfig struct {
	// Color: "auto", "always" или "never".
	Color string `yaml:"color"`
}

type WorkerConfig struct {
	// OverdueInterval: период сводки по просроченным задачам в режиме serve.
	// 0 отключает воркер.
	OverdueInterval time.Duration `yaml:"overdue_interval"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:      "localhost",
			Port:      "8080",
			RateLimit: 100,
		},
		Menu: MenuConfig{
			Color: "auto",
		},
		Worker: WorkerConfig{
			OverdueInterval: 5 * time.Minute,
		},
	}
}

// Load читает YAML поверх значений по умолчанию. Если файла нет,
// возвращаются значения по умолчанию.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("не могу открыть %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("ошибка парсинга %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("проверка %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Menu.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("menu.color: неизвестное значение %q", c.Menu.Color)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit не может быть отрицательным: %d", c.Server.RateLimit)
	}
	if c.Worker.OverdueInterval < 0 {
		return fmt.Errorf("worker.overdue_interval не может быть отрицательным: %s", c.Worker.OverdueInterval)
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
