package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInputMissing is matched by every *InputMissingError.
	ErrInputMissing = errors.New("input missing")
	// ErrParse is matched by every *ParseError.
	ErrParse = errors.New("parse error")
	// ErrConfig is matched by every *ConfigError.
	ErrConfig = errors.New("invalid configuration")
)

// InputMissingError reports a required file or document that does not exist.
type InputMissingError struct {
	Path string
	Hint string
}

func (e *InputMissingError) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf("%s not found", e.Path)
	}
	return fmt.Sprintf("%s not found. %s", e.Path, e.Hint)
}

func (e *InputMissingError) Is(target error) bool { return target == ErrInputMissing }

// ParseError reports malformed document syntax in a single file.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// ConfigError reports unusable reference data.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + e.Reason
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }
