package profile

import (
	"fmt"
	"math"
	"strings"
)

// ValidateRaw checks semantic constraints of a RawConfig.
func ValidateRaw(cfg RawConfig) error {
	var errs []string

	if cfg.Proc.Percentage != nil {
		p := *cfg.Proc.Percentage
		if math.IsNaN(p) || math.IsInf(p, 0) {
			errs = append(errs, "proc.percentage must be a finite number")
		} else if p < 0 || p > 100 {
			errs = append(errs, "proc.percentage must be in [0,100]")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
