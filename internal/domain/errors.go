// Package domain contains the core mutation testing engine: mutant
// generation, type-directed pruning, the coverage index, the scheduler, and
// result aggregation.
package domain

import (
	"fmt"
	"strings"

	m "leela.dev/pkg/leela/internal/model"
)

// ParseError reports a source unit that failed to parse. Recoverable: the
// unit is skipped and the run continues over remaining units.
type ParseError struct {
	Unit m.Path
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Unit, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// BaselineFailure reports a red baseline suite. Fatal: mutation testing
// presumes a passing baseline, so the engine aborts before generating or
// scheduling any mutant.
type BaselineFailure struct {
	FailedTests []string
}

func (e *BaselineFailure) Error() string {
	return fmt.Sprintf("baseline suite has failing tests: %s", strings.Join(e.FailedTests, ", "))
}

// ConfigError reports invalid run settings. Fatal, caught before run start.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + e.Reason
}
