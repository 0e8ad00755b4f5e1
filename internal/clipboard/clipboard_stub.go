//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import "errors"

func publishPNG([]byte) (<-chan struct{}, error) {
	return nil, errors.New("clipboard image copy is not supported on this platform")
}
