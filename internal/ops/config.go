package ops

import (
	"encoding/json"
	"fmt"
	"os"

	"main/internal/schema"
)

// FileConfig mirrors the JSON config layout.
type FileConfig struct {
	Registry RegistryConfig `json:"registry"`
	Queue    QueueConfig    `json:"queue"`
	Mirror   MirrorConfig   `json:"mirror"`
}

// RegistryConfig defines the initial registry state.
type RegistryConfig struct {
	Owner       string `json:"owner"`
	Controller  string `json:"controller"`
	Keeper      string `json:"keeper"`
	FeeBps      uint64 `json:"feeBps"`
	MinAmount   uint64 `json:"minAmount"`
	MaxAmount   uint64 `json:"maxAmount"`
	Paused      bool   `json:"paused"`
	StartHeight uint64 `json:"startHeight"`
}

// QueueConfig sizes the notification queue.
type QueueConfig struct {
	Capacity int `json:"capacity"`
}

// MirrorConfig enables the Postgres mirror.
type MirrorConfig struct {
	Enabled    bool   `json:"enabled"`
	ConnString string `json:"connString"`
}

// Loaded is the resolved configuration ready for use.
type Loaded struct {
	Config        schema.Config
	StartHeight   schema.Seq
	QueueCapacity int
	Mirror        MirrorConfig
}

const defaultQueueCapacity = 1024

// Load reads a JSON config file and resolves it.
func Load(path string) (Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Loaded{}, err
	}
	var cfg FileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Loaded{}, err
	}
	return resolve(cfg)
}

func resolve(cfg FileConfig) (Loaded, error) {
	reg, err := resolveRegistry(cfg.Registry)
	if err != nil {
		return Loaded{}, err
	}
	capacity := cfg.Queue.Capacity
	if capacity <= 0 {
		capacity = defaultQueueCapacity
	}
	if cfg.Mirror.Enabled && cfg.Mirror.ConnString == "" {
		return Loaded{}, fmt.Errorf("mirror enabled without connString")
	}
	return Loaded{
		Config:        reg,
		StartHeight:   schema.Seq(cfg.Registry.StartHeight),
		QueueCapacity: capacity,
		Mirror:        cfg.Mirror,
	}, nil
}

func resolveRegistry(cfg RegistryConfig) (schema.Config, error) {
	if cfg.Owner == "" {
		return schema.Config{}, fmt.Errorf("owner is empty")
	}
	owner, err := schema.ParseAddress(cfg.Owner)
	if err != nil {
		return schema.Config{}, fmt.Errorf("invalid owner: %w", err)
	}
	if owner.IsZero() {
		return schema.Config{}, fmt.Errorf("owner is the zero address")
	}
	controller, err := parseOptional(cfg.Controller)
	if err != nil {
		return schema.Config{}, fmt.Errorf("invalid controller: %w", err)
	}
	keeper, err := parseOptional(cfg.Keeper)
	if err != nil {
		return schema.Config{}, fmt.Errorf("invalid keeper: %w", err)
	}
	if cfg.FeeBps > schema.FeeDenominator {
		return schema.Config{}, fmt.Errorf("feeBps must be <= %d", schema.FeeDenominator)
	}
	if cfg.MinAmount > cfg.MaxAmount {
		return schema.Config{}, fmt.Errorf("minAmount must be <= maxAmount")
	}
	return schema.Config{
		Owner:      owner,
		Controller: controller,
		Keeper:     keeper,
		Paused:     cfg.Paused,
		FeeBps:     cfg.FeeBps,
		MinAmount:  schema.Amount(cfg.MinAmount),
		MaxAmount:  schema.Amount(cfg.MaxAmount),
	}, nil
}

func parseOptional(s string) (schema.Address, error) {
	if s == "" {
		return schema.ZeroAddress, nil
	}
	return schema.ParseAddress(s)
}
