package domain

import "errors"

var (
	ErrFlagNotFound       = errors.New("flag not found")
	ErrMatrixNotReady     = errors.New("similarity matrix not built yet")
	ErrDuplicateFlag      = errors.New("duplicate flag name")
	ErrDuplicateFeature   = errors.New("duplicate feature key")
	ErrInvalidWeight      = errors.New("invalid feature weight")
	ErrUnknownFeatureKind = errors.New("unknown feature kind")
)
