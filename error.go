package main

import (
	"errors"
	"fmt"

	"github.com/mutschler/fbv/render"
)

var (
	// ErrCannotSaveConfigFile occurs when a configuration file cannot be opened.
	ErrCannotSaveConfigFile = errors.New("cannot save configuration file")
	// ErrNotRegularFile occurs when the source names a directory or device.
	ErrNotRegularFile = errors.New("not a regular file")
	// ErrUsage occurs when the positional arguments do not match the usage.
	ErrUsage = fmt.Errorf("invocation error: %w", render.ErrInvalidParameter)
)
