//go:build !windows

package hook

import "github.com/rs/zerolog"

// New reports ErrUnsupported outside Windows.
func New(dec *Decoder, log zerolog.Logger) (Manager, error) {
	return nil, ErrUnsupported
}
