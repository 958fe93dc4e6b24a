package reader

import "errors"

var (
	ErrUnsupportedSyntax = errors.New("reader: unsupported syntax")
	ErrUndefinedMaterial = errors.New("reader: undefined material")
)
