package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoPatterns indicates that no input pattern was configured
	ErrNoPatterns = errors.New("no input patterns")

	// ErrEmptyOutputDir indicates a missing output directory
	ErrEmptyOutputDir = errors.New("empty output directory")

	// ErrInvalidExtension indicates an unusable page extension
	ErrInvalidExtension = errors.New("invalid page extension")

	// ErrInvalidConcurrency indicates a negative concurrency limit
	ErrInvalidConcurrency = errors.New("invalid concurrency")

	// ErrInvalidDebounce indicates a non-positive watch debounce
	ErrInvalidDebounce = errors.New("invalid debounce")
)

// Validate checks that the configuration is valid and complete, including
// the presence of input patterns.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateInput(&cfg.Input); err != nil {
		errs = append(errs, err)
	}
	if err := ValidateSettings(cfg); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

// ValidateSettings checks every section except the input patterns, which may
// still be supplied on the command line.
func ValidateSettings(cfg *Config) error {
	var errs []error

	if err := validateOutput(&cfg.Output); err != nil {
		errs = append(errs, err)
	}
	if err := validateRun(&cfg.Run); err != nil {
		errs = append(errs, err)
	}
	if err := validateWatch(&cfg.Watch); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateInput(cfg *InputConfig) error {
	for _, p := range cfg.Patterns {
		if strings.TrimSpace(p) != "" {
			return nil
		}
	}
	return fmt.Errorf("%w: at least one input pattern is required", ErrNoPatterns)
}

func validateOutput(cfg *OutputConfig) error {
	var errs []error

	if strings.TrimSpace(cfg.Dir) == "" {
		errs = append(errs, fmt.Errorf("%w: output dir is required", ErrEmptyOutputDir))
	}

	if cfg.Ext == "" || strings.ContainsAny(cfg.Ext, `/\ `) {
		errs = append(errs, fmt.Errorf("%w: got '%s'", ErrInvalidExtension, cfg.Ext))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateRun(cfg *RunConfig) error {
	if cfg.Concurrency < 0 {
		return fmt.Errorf("%w: concurrency cannot be negative, got %d", ErrInvalidConcurrency, cfg.Concurrency)
	}
	return nil
}

func validateWatch(cfg *WatchConfig) error {
	if cfg.Debounce <= 0 {
		return fmt.Errorf("%w: debounce must be positive, got %s", ErrInvalidDebounce, cfg.Debounce)
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
