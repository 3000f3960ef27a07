package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidParseLimit indicates an invalid direct-parse size limit
	ErrInvalidParseLimit = errors.New("invalid parse size limit")

	// ErrInvalidChunkTarget indicates an invalid chunk size target
	ErrInvalidChunkTarget = errors.New("invalid chunk size target")

	// ErrInvalidMultiplier indicates an invalid threshold multiplier
	ErrInvalidMultiplier = errors.New("invalid threshold multiplier")

	// ErrInvalidCacheSettings indicates invalid cache configuration
	ErrInvalidCacheSettings = errors.New("invalid cache settings")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateParsing(&cfg.Parsing); err != nil {
		errs = append(errs, err)
	}

	if err := validatePaths(&cfg.Paths); err != nil {
		errs = append(errs, err)
	}

	if err := validateCache(&cfg.Cache); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateParsing(cfg *ParsingConfig) error {
	var errs []error

	if cfg.MaxDirectParseSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_direct_parse_size must be positive, got %d", ErrInvalidParseLimit, cfg.MaxDirectParseSize))
	}

	if cfg.ChunkSizeTarget <= 0 {
		errs = append(errs, fmt.Errorf("%w: chunk_size_target must be positive, got %d", ErrInvalidChunkTarget, cfg.ChunkSizeTarget))
	}

	// A chunk target above the direct-parse limit makes every chunk
	// fail the size guard.
	if cfg.MaxDirectParseSize > 0 && cfg.ChunkSizeTarget > cfg.MaxDirectParseSize {
		errs = append(errs, fmt.Errorf("%w: chunk_size_target (%d) cannot exceed max_direct_parse_size (%d)", ErrInvalidChunkTarget, cfg.ChunkSizeTarget, cfg.MaxDirectParseSize))
	}

	if cfg.ThresholdMultiplier <= 0 {
		errs = append(errs, fmt.Errorf("%w: threshold_multiplier must be positive, got %g", ErrInvalidMultiplier, cfg.ThresholdMultiplier))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validatePaths(cfg *PathsConfig) error {
	// Paths can be empty - validation is lenient here
	// The indexer will handle empty patterns gracefully
	return nil
}

func validateCache(cfg *CacheConfig) error {
	// Zero disables caching; only negative values are invalid.
	if cfg.MaxEntries < 0 {
		return fmt.Errorf("%w: max_entries cannot be negative, got %d", ErrInvalidCacheSettings, cfg.MaxEntries)
	}
	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}
