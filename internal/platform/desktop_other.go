//go:build !windows

package platform

// New reports ErrUnsupported; only the Win32 desktop is implemented.
func New() (Desktop, error) {
	return nil, ErrUnsupported
}
