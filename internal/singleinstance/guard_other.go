//go:build !windows && !linux && !darwin

package singleinstance

func acquire(string) (func() error, error) {
	return func() error { return nil }, nil
}
