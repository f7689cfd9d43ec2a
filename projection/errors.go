/*
errors.go - Centralized error types for the projection engine

PURPOSE:
  All engine error values in one place. Note how short this file is: the
  engine is fail-soft by design. A malformed contract, an unknown product
  key, a missing commission line, or an event past the horizon are all
  handled by skipping, never by failing the run. The only errors a caller
  can see concern the run's own configuration.

USAGE:
  if errors.Is(err, projection.ErrHorizonRequired) {
      // caller forgot to choose a horizon
  }
*/
package projection

import "errors"

var (
	// ErrHorizonRequired is returned when Config.HorizonYears is missing
	// or non-positive. There is deliberately no default horizon: call
	// sites must decide how far ahead they forecast.
	ErrHorizonRequired = errors.New("projection horizon (years) must be explicit and positive")

	// ErrInvalidCutoffDay is returned for a cutoff day outside [0, 31].
	ErrInvalidCutoffDay = errors.New("cutoff day must be between 1 and 31")
)
