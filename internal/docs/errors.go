package docs

import (
	"errors"
	"fmt"
)

// Kind classifies a fatal extraction error.
type Kind int

const (
	KindUnknown Kind = iota
	// KindConfig marks errors detected before any parsing starts.
	KindConfig
	// KindIO marks a source, include, or output file that could not be read or written.
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

var (
	// ErrNoSources indicates that no input patterns were given.
	ErrNoSources = errors.New("at least one source path pattern is required")

	// ErrNoFiles indicates that the input patterns matched no file.
	ErrNoFiles = errors.New("no files matching the indicated patterns were found")
)

// Error is the single structured error a run fails with.
type Error struct {
	Kind Kind
	Op   string // operation that failed, e.g. "read source"
	Path string // file involved, if any
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%s %s", e.Op, e.Path)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ConfigError wraps err as a KindConfig error.
func ConfigError(op string, err error) error {
	return &Error{Kind: KindConfig, Op: op, Err: err}
}

// IOError wraps err as a KindIO error for path.
func IOError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindIO, Op: op, Path: path, Err: err}
}

// KindOf returns the Kind of err, or KindUnknown if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
