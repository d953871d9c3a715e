//go:build !windows && !unix

package main

import "errors"

// SetHighPriority is not supported on this platform.
func SetHighPriority() error {
	return errors.New("process priority is not supported on this platform")
}
