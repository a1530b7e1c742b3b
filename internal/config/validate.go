// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validate checks the merged configuration against the struct tags and
// returns all failures as one error.
func Validate(cfg *Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())

	err := v.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %v", msgs)
}
