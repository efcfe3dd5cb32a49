// resolve.go
package profile

import "errors"

// Overrides carries per-request overrides (e.g., query parameters) applied
// on top of the merged file config.
type Overrides struct {
	Percentage *float64
	Seed       *uint64
}

var ErrNoPercentage = errors.New("no proc.percentage configured for profile")

// Resolve merges default → game → ability → overrides into engine params.
func (l *Loader) Resolve(game, ability string, o Overrides) (RawConfig, EngineParams, error) {
	cfg, err := l.LoadMerged(game, ability)
	if err != nil {
		return RawConfig{}, EngineParams{}, err
	}

	if o.Percentage != nil {
		cfg.Proc.Percentage = o.Percentage
	}
	if o.Seed != nil {
		cfg.Proc.Seed = o.Seed
	}

	if err := ValidateRaw(cfg); err != nil {
		return RawConfig{}, EngineParams{}, err
	}
	if cfg.Proc.Percentage == nil {
		return RawConfig{}, EngineParams{}, ErrNoPercentage
	}

	params := EngineParams{
		Percentage: *cfg.Proc.Percentage,
		Version:    cfg.Version,
	}
	if cfg.Proc.Seed != nil {
		params.Seed = *cfg.Proc.Seed
	}
	return cfg, params, nil
}
