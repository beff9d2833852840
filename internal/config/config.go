package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const (
	CurrentVersion = 1
	// unsetVersion marks a file written before versioning, or one that has
	// never been written at all.
	unsetVersion = -1

	DefaultPath = "waypoint.yaml"

	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

var (
	ErrUnknownVersion = errors.New("unknown config version")
	ErrInvalid        = errors.New("invalid config")
)

type Config struct {
	Version  int            `yaml:"version"`
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	NATS     NATSConfig     `yaml:"nats"`
	Worlds   []WorldConfig  `yaml:"worlds"`
	Log      LogConfig      `yaml:"log"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type ServerConfig struct {
	Addr        string `yaml:"addr"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// NATSConfig is optional; an empty URL runs the node standalone.
type NATSConfig struct {
	URL           string `yaml:"url"`
	NodeID        string `yaml:"node_id"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

type WorldConfig struct {
	ID   uuid.UUID `yaml:"id"`
	Name string    `yaml:"name"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func Default() Config {
	return Config{
		Version:  CurrentVersion,
		Database: DatabaseConfig{Driver: DriverMemory},
		Server:   ServerConfig{Addr: ":8080", MetricsAddr: ":9090"},
		NATS:     NATSConfig{SubjectPrefix: "waypoint"},
		Worlds:   []WorldConfig{},
		Log:      LogConfig{Level: "info"},
	}
}

// Path resolves the config file location: explicit flag, then
// WAYPOINT_CONFIG, then DefaultPath.
func Path(flag string) string {
	if p := strings.TrimSpace(flag); p != "" {
		return p
	}
	if p := strings.TrimSpace(os.Getenv("WAYPOINT_CONFIG")); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads the file at path. A missing file or a file without a version
// is completed with defaults and written back; wrote reports that. Any
// version other than the current one fails with ErrUnknownVersion.
// Environment overrides apply last and are never written to disk.
func Load(path string) (cfg Config, wrote bool, err error) {
	cfg = Default()
	cfg.Version = unsetVersion

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, false, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, false, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	switch cfg.Version {
	case unsetVersion:
		cfg.Version = CurrentVersion
		fillDefaults(&cfg)
		if err := Save(path, cfg); err != nil {
			return Config{}, false, err
		}
		wrote = true
	case CurrentVersion:
		fillDefaults(&cfg)
	default:
		return Config{}, false, fmt.Errorf("%w: %d", ErrUnknownVersion, cfg.Version)
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, wrote, err
	}
	return cfg, wrote, nil
}

func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

func (c Config) Validate() error {
	switch c.Database.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("%w: database.dsn is required for driver %q", ErrInvalid, DriverPostgres)
		}
	default:
		return fmt.Errorf("%w: unsupported database.driver %q", ErrInvalid, c.Database.Driver)
	}
	seen := make(map[uuid.UUID]bool, len(c.Worlds))
	for i, w := range c.Worlds {
		if w.ID == uuid.Nil {
			return fmt.Errorf("%w: worlds[%d] has no id", ErrInvalid, i)
		}
		if seen[w.ID] {
			return fmt.Errorf("%w: world %s listed twice", ErrInvalid, w.ID)
		}
		seen[w.ID] = true
	}
	return nil
}

func fillDefaults(c *Config) {
	d := Default()
	if c.Database.Driver == "" {
		c.Database.Driver = d.Database.Driver
	}
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Server.MetricsAddr == "" {
		c.Server.MetricsAddr = d.Server.MetricsAddr
	}
	if c.NATS.SubjectPrefix == "" {
		c.NATS.SubjectPrefix = d.NATS.SubjectPrefix
	}
	if c.Worlds == nil {
		c.Worlds = d.Worlds
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

func applyEnv(c *Config) {
	if dsn := strings.TrimSpace(os.Getenv("WAYPOINT_DB_DSN")); dsn != "" {
		c.Database.Driver = DriverPostgres
		c.Database.DSN = dsn
	}
	if addr := strings.TrimSpace(os.Getenv("WAYPOINT_HTTP_ADDR")); addr != "" {
		c.Server.Addr = addr
	}
	if url := strings.TrimSpace(os.Getenv("WAYPOINT_NATS_URL")); url != "" {
		c.NATS.URL = url
	}
}
