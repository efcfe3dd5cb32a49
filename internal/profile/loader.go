package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Paths helper for default/game/ability files.
type Paths struct {
	BaseDir string // base directory, e.g., /opt/app/config
}

func (p Paths) DefaultPath() string {
	return filepath.Join(p.BaseDir, "games", "default.yaml")
}
func (p Paths) GamePath(game string) string {
	return filepath.Join(p.BaseDir, "games", game+".yaml")
}
func (p Paths) AbilityPath(game, ability string) string {
	return filepath.Join(p.BaseDir, "games", game, "abilities", ability+".yaml")
}

// Loader reads YAML configs and merges default → game → ability.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache map[string]RawConfig // key: "game" or "game/ability" or "$default"
}

// NewLoader creates a config loader with the given base directory.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		cache: make(map[string]RawConfig),
	}
}

// LoadMerged loads and merges default → game → ability (ability optional).
// It returns the merged RawConfig (without normalization).
func (l *Loader) LoadMerged(game, ability string) (RawConfig, error) {
	l.mu.RLock()
	if ability != "" {
		if cfg, ok := l.cache[game+"/"+ability]; ok {
			l.mu.RUnlock()
			return cfg, nil
		}
	} else {
		if cfg, ok := l.cache[game]; ok {
			l.mu.RUnlock()
			return cfg, nil
		}
	}
	l.mu.RUnlock()

	// Read files from disk
	defCfg, err := readYAML(l.paths.DefaultPath())
	if err != nil {
		return RawConfig{}, fmt.Errorf("read default: %w", err)
	}
	gameCfg, _ := readYAML(l.paths.GamePath(game)) // game file may not exist
	var abilityCfg RawConfig
	if ability != "" {
		abilityCfg, _ = readYAML(l.paths.AbilityPath(game, ability)) // ability file optional
	}

	// Merge: default <- game <- ability
	merged := defCfg
	merged = mergeRaw(merged, gameCfg)
	merged = mergeRaw(merged, abilityCfg)

	// Cache
	l.mu.Lock()
	// cache game-level merged too (handy if no ability next time)
	l.cache[game] = mergeRaw(defCfg, gameCfg)
	if ability != "" {
		l.cache[game+"/"+ability] = merged
	}
	l.cache["$default"] = defCfg
	l.mu.Unlock()

	return merged, nil
}

// Invalidate clears loader's cache. Call after hot-reload detects changes.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]RawConfig)
}

// readYAML loads a YAML file into RawConfig. Missing files return zero cfg, no error.
func readYAML(path string) (RawConfig, error) {
	var cfg RawConfig
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, nil
		}
		return RawConfig{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawConfig{}, err
	}
	return cfg, nil
}

// mergeRaw performs a deep merge: 'b' overrides 'a' where non-zero/non-nil.
func mergeRaw(a, b RawConfig) RawConfig {
	out := a

	// top-level scalars
	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}

	// proc
	if b.Proc.Percentage != nil {
		out.Proc.Percentage = b.Proc.Percentage
	}
	if b.Proc.Seed != nil {
		out.Proc.Seed = b.Proc.Seed
	}

	return out
}
