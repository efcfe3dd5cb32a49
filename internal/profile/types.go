// types.go
package profile

// Raw config loaded from YAML; mirrors the profile schema.
type RawConfig struct {
	Version string     `yaml:"version"`
	Proc    ProcConfig `yaml:"proc"`
	Notes   string     `yaml:"notes,omitempty"`
}

type ProcConfig struct {
	Percentage *float64 `yaml:"percentage"`
	Seed       *uint64  `yaml:"seed,omitempty"` // fixed seed for replayable streams; omit for crypto default
}

// Normalized engine params used by internal/prd callers.
type EngineParams struct {
	Percentage float64
	Seed       uint64 // 0 means no fixed seed
	Version    string // effective config version for tracing
}
