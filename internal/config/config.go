package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// DaemonConfig is the resolved callwired configuration. An empty address
// disables that transport.
type DaemonConfig struct {
	Name      string
	Providers []string
	TCP       TCPConfig
	HTTP      HTTPConfig
	NATS      NATSConfig
}

type TCPConfig struct {
	Addr            string
	MaxPayloadBytes uint64
	IdleTimeout     time.Duration
}

type HTTPConfig struct {
	Addr        string
	CorsOrigins []string
}

type NATSConfig struct {
	URL        string
	Subject    string
	QueueGroup string
}

func DefaultDaemonConfig() DaemonConfig {
	return DaemonConfig{
		Name:      "callwired",
		Providers: []string{"arith", "kv", "text"},
		TCP: TCPConfig{
			Addr:            "127.0.0.1:7070",
			MaxPayloadBytes: 8 * 1024 * 1024,
			IdleTimeout:     30 * time.Second,
		},
		HTTP: HTTPConfig{
			Addr:        "127.0.0.1:7080",
			CorsOrigins: []string{"http://localhost:3000"},
		},
		NATS: NATSConfig{
			Subject:    "callwire.invoke",
			QueueGroup: "callwired",
		},
	}
}

type fileConfig struct {
	Name      string   `toml:"name"`
	Providers []string `toml:"providers"`
	TCP       struct {
		Addr            string `toml:"addr"`
		MaxPayloadBytes int64  `toml:"max_payload_bytes"`
		IdleTimeout     string `toml:"idle_timeout"`
	} `toml:"tcp"`
	HTTP struct {
		Addr        string   `toml:"addr"`
		CorsOrigins []string `toml:"cors_origins"`
	} `toml:"http"`
	NATS struct {
		URL        string `toml:"url"`
		Subject    string `toml:"subject"`
		QueueGroup string `toml:"queue_group"`
	} `toml:"nats"`
}

// LoadDaemonConfig decodes path over DefaultDaemonConfig and validates the
// result. Keys absent from the file keep their defaults.
func LoadDaemonConfig(path string) (DaemonConfig, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return DaemonConfig{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	cfg, err := resolve(raw, meta)
	if err != nil {
		return DaemonConfig{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseDaemonConfig is LoadDaemonConfig for an in-memory document.
func ParseDaemonConfig(doc string) (DaemonConfig, error) {
	var raw fileConfig
	meta, err := toml.Decode(doc, &raw)
	if err != nil {
		return DaemonConfig{}, fmt.Errorf("config parse failed: %w", err)
	}
	return resolve(raw, meta)
}

func resolve(raw fileConfig, meta toml.MetaData) (DaemonConfig, error) {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return DaemonConfig{}, fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	cfg, err := apply(DefaultDaemonConfig(), raw, meta)
	if err != nil {
		return DaemonConfig{}, err
	}
	if err := Validate(cfg); err != nil {
		return DaemonConfig{}, err
	}
	return cfg, nil
}

func apply(cfg DaemonConfig, raw fileConfig, meta toml.MetaData) (DaemonConfig, error) {
	if meta.IsDefined("name") {
		cfg.Name = strings.TrimSpace(raw.Name)
	}
	if meta.IsDefined("providers") {
		cfg.Providers = normalizeList(raw.Providers)
	}

	if meta.IsDefined("tcp", "addr") {
		cfg.TCP.Addr = strings.TrimSpace(raw.TCP.Addr)
	}
	if meta.IsDefined("tcp", "max_payload_bytes") {
		if raw.TCP.MaxPayloadBytes <= 0 {
			return cfg, fmt.Errorf("tcp: max_payload_bytes must be positive")
		}
		cfg.TCP.MaxPayloadBytes = uint64(raw.TCP.MaxPayloadBytes)
	}
	if meta.IsDefined("tcp", "idle_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.TCP.IdleTimeout))
		if err != nil {
			return cfg, fmt.Errorf("tcp: parse idle_timeout: %w", err)
		}
		cfg.TCP.IdleTimeout = d
	}

	if meta.IsDefined("http", "addr") {
		cfg.HTTP.Addr = strings.TrimSpace(raw.HTTP.Addr)
	}
	if meta.IsDefined("http", "cors_origins") {
		cfg.HTTP.CorsOrigins = normalizeList(raw.HTTP.CorsOrigins)
	}

	if meta.IsDefined("nats", "url") {
		cfg.NATS.URL = strings.TrimSpace(raw.NATS.URL)
	}
	if meta.IsDefined("nats", "subject") {
		cfg.NATS.Subject = strings.TrimSpace(raw.NATS.Subject)
	}
	if meta.IsDefined("nats", "queue_group") {
		cfg.NATS.QueueGroup = strings.TrimSpace(raw.NATS.QueueGroup)
	}
	return cfg, nil
}

func Validate(cfg DaemonConfig) error {
	if cfg.Name == "" {
		return fmt.Errorf("config missing name")
	}
	if cfg.TCP.Addr != "" {
		if err := validateAddr(cfg.TCP.Addr); err != nil {
			return fmt.Errorf("tcp: %w", err)
		}
		if cfg.TCP.MaxPayloadBytes == 0 {
			return fmt.Errorf("tcp: max_payload_bytes must be positive")
		}
		if cfg.TCP.IdleTimeout < 0 {
			return fmt.Errorf("tcp: idle_timeout must not be negative")
		}
	}
	if cfg.HTTP.Addr != "" {
		if err := validateAddr(cfg.HTTP.Addr); err != nil {
			return fmt.Errorf("http: %w", err)
		}
	}
	if cfg.NATS.URL != "" && cfg.NATS.Subject == "" {
		return fmt.Errorf("nats: subject is required when url is set")
	}
	if cfg.TCP.Addr == "" && cfg.HTTP.Addr == "" && cfg.NATS.URL == "" {
		return fmt.Errorf("config enables no transport")
	}
	return nil
}

func validateAddr(addr string) error {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("invalid addr %q: %w", addr, err)
	}
	return nil
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
