package similarity

import "errors"

var ErrInvalidFeature = errors.New("invalid feature")
