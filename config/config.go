package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type Service struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}
type Services struct {
	Recognizer Service `yaml:"recognizer"`
	Speech     Service `yaml:"speech"`
	SignData   Service `yaml:"signdata"`
}
type Detector struct {
	FPS int `yaml:"fps"`
}
type Speech struct {
	Engine  string `yaml:"engine"` // system | http | none
	Voice   string `yaml:"voice"`
	Rate    int    `yaml:"rate"`
	Command string `yaml:"command"`
	Queue   int    `yaml:"queue"`
}
type Store struct {
	PostgresURL string `yaml:"postgres_url"`
}
type Metrics struct {
	Addr string `yaml:"addr"`
}
type User struct {
	Name string `yaml:"name"`
	ID   string `yaml:"id"`
}
type Root struct {
	Pipeline struct {
		Name      string `yaml:"name"`
		Version   string `yaml:"version"`
		LogLvl    string `yaml:"log_level"`
		LogFormat string `yaml:"log_format"`
	} `yaml:"pipeline"`
	Detector Detector `yaml:"detector"`
	Services Services `yaml:"services"`
	Speech   Speech   `yaml:"speech"`
	Store    Store    `yaml:"store"`
	Metrics  Metrics  `yaml:"metrics"`
	User     User     `yaml:"user"`
	Paths    struct {
		Outputs string `yaml:"outputs"`
	} `yaml:"paths"`
}

// Load searches config/<CONFIG_ENV>/config.yaml then src/shared/config.yaml.
// With no file found it returns the defaults.
func Load() (*Root, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	var guess []string = []string{
		filepath.Join("config", env, "config.yaml"),
		filepath.Join("src", "shared", "config.yaml"),
	}
	for _, p := range guess {
		cfg, err := LoadFile(p)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		return cfg, err
	}
	cfg := Default()
	return &cfg, nil
}

func LoadFile(path string) (*Root, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cfg := Default()
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	cfg.fill()
	return &cfg, nil
}

func Default() Root {
	var c Root
	c.Pipeline.Name = "signstream"
	c.fill()
	return c
}

func (c *Root) fill() {
	if c.Pipeline.LogLvl == "" {
		c.Pipeline.LogLvl = "info"
	}
	if c.Detector.FPS <= 0 {
		c.Detector.FPS = 30
	}
	if c.Speech.Engine == "" {
		c.Speech.Engine = "none"
	}
	if c.Speech.Command == "" {
		c.Speech.Command = "espeak-ng"
	}
	if c.Speech.Rate <= 0 {
		// espeak words per minute; 1.2x the 175 default
		c.Speech.Rate = 210
	}
	if c.Speech.Queue <= 0 {
		c.Speech.Queue = 16
	}
	if c.Paths.Outputs == "" {
		c.Paths.Outputs = "outputs"
	}
}

// Overlay copies every key set in v (flags, SIGNSTREAM_* env) over the file values.
func (c *Root) Overlay(v *viper.Viper) {
	str := func(key string, dst *string) {
		if v.IsSet(key) {
			if s := strings.TrimSpace(v.GetString(key)); s != "" {
				*dst = s
			}
		}
	}
	num := func(key string, dst *int) {
		if v.IsSet(key) {
			if n := v.GetInt(key); n > 0 {
				*dst = n
			}
		}
	}
	str("log_level", &c.Pipeline.LogLvl)
	str("log_format", &c.Pipeline.LogFormat)
	num("fps", &c.Detector.FPS)
	str("recognizer_url", &c.Services.Recognizer.URL)
	str("speech_url", &c.Services.Speech.URL)
	str("signdata_url", &c.Services.SignData.URL)
	str("speech_engine", &c.Speech.Engine)
	str("speech_voice", &c.Speech.Voice)
	num("speech_rate", &c.Speech.Rate)
	str("postgres_url", &c.Store.PostgresURL)
	str("metrics_addr", &c.Metrics.Addr)
	str("outputs", &c.Paths.Outputs)
	str("user_name", &c.User.Name)
	str("user_id", &c.User.ID)
}

// FrameInterval is the tick period of the live loop.
func (c *Root) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.Detector.FPS)
}
