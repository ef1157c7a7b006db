package config

import (
	"io"
	"os"
	"strings"

	"github.com/Konsultn-Engineering/tablemgr/batch"
	"github.com/Konsultn-Engineering/tablemgr/connector"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// PasswordEnv overrides connection.password when set.
const PasswordEnv = "TABLEMGR_PASSWORD"

// Config is the file format read by the tablemgr command.
type Config struct {
	Driver     string           `yaml:"driver"` // postgres, mysql, tidb, mssql, sqlite
	Connection connector.Config `yaml:"connection"`
	Bulk       BulkConfig       `yaml:"bulk"`
	Log        LogConfig        `yaml:"log"`
}

// BulkConfig holds insert settings.
type BulkConfig struct {
	BatchSize        int    `yaml:"batch_size"`        // 0 sends every row in one batch
	StrictKeys       bool   `yaml:"strict_keys"`       // reject records whose keys differ from the first
	DescribeTemplate string `yaml:"describe_template"` // path to a describe query containing <table_name>
}

type LogConfig struct {
	Level  string `yaml:"level"`  // zerolog level name
	Format string `yaml:"format"` // console or json
}

func Default() *Config {
	return &Config{
		Driver: "postgres",
		Bulk: BulkConfig{
			BatchSize: 1000,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and applies environment overrides.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}
	if pw, ok := os.LookupEnv(PasswordEnv); ok {
		cfg.Connection.Password = pw
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Driver == "" {
		return errors.New("driver is required")
	}
	if c.Bulk.BatchSize < 0 {
		return errors.Wrapf(batch.ErrInvalidSize, "bulk.batch_size %d", c.Bulk.BatchSize)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		return errors.Wrapf(err, "log.level")
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		return errors.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	return nil
}

// Policy maps strict_keys onto the batch key policy.
func (b BulkConfig) Policy() batch.Policy {
	if b.StrictKeys {
		return batch.Strict
	}
	return batch.FirstRecord
}

// Logger builds a zerolog logger writing to w.
func (l LogConfig) Logger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(l.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if l.Format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
