package client

import (
	"io"
	"time"

	yaml "gopkg.in/yaml.v2"
)

// Config is handed to the transport as is. Models never look inside it.
type Config struct {
	Debug   bool              `yaml:"debug"`
	Headers map[string]string `yaml:"headers"`
	Timeout time.Duration     `yaml:"timeout"`
}

func LoadConfiguration(data io.Reader) (*Config, error) {

	buf, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	err = yaml.Unmarshal(buf, cfg)

	return cfg, err
}
