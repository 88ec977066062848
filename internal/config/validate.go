package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"

	"github.com/smokyabdulrahman/masjidi/internal/api"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the whole profile. Struct-tag rules run first, then the
// rules tags cannot express.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s failed %q", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}

	for name := range cfg.Schedule.AlAdhan.Tune {
		if !slices.Contains(api.TuneOrder, name) {
			return fmt.Errorf("invalid config: unknown tune key %q", name)
		}
	}

	if cfg.Schedule.Source == SourceTable && cfg.Schedule.TableURL == "" && cfg.Schedule.TableFile == "" {
		return errors.New("invalid config: source table needs table_url or table_file")
	}

	for event, def := range cfg.Events {
		for i, c := range def {
			if err := c.Validate(); err != nil {
				return fmt.Errorf("invalid config: event %s[%d]: %w", event, i, err)
			}
		}
	}

	return nil
}
