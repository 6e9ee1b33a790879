package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Countries struct {
		Source   string `yaml:"source"` // remote | static | flagfile
		APIURL   string `yaml:"api_url"`
		Timeout  string `yaml:"timeout"`
		Language string `yaml:"language"` // en | fr
		FlagFile string `yaml:"flag_file"`
	} `yaml:"countries"`
	Game struct {
		Questions int `yaml:"questions"`
		Choices   int `yaml:"choices"` // answer + distractors
	} `yaml:"game"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Duration parses a duration string or returns the fallback if empty or invalid.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// QuestionCount returns the configured question count or the default of 10.
func (c Config) QuestionCount() int {
	if c.Game.Questions > 0 {
		return c.Game.Questions
	}
	return 10
}

// ChoiceCount returns the configured per-question choice count or the default of 6.
func (c Config) ChoiceCount() int {
	if c.Game.Choices > 0 {
		return c.Game.Choices
	}
	return 6
}
