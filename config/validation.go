package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks that every setting the server cannot run without is set.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.JWT.Secret == "" {
		errs = append(errs, ValidationError{"jwt.secret", "is required"}.Error())
	}
	if cfg.Database.User == "" {
		errs = append(errs, ValidationError{"database.user", "is required"}.Error())
	}
	if cfg.Database.Name == "" {
		errs = append(errs, ValidationError{"database.name", "is required"}.Error())
	}
	if cfg.JWT.TTL <= 0 {
		errs = append(errs, ValidationError{"jwt.ttl", "must be positive"}.Error())
	}
	if cfg.Pagination.DefaultLimit < 1 || cfg.Pagination.MaxLimit < cfg.Pagination.DefaultLimit {
		errs = append(errs, ValidationError{"pagination", "limits are inconsistent"}.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}
