package config

import "errors"

// ErrInvalidIntersection wraps every validation failure of an intersection file.
var ErrInvalidIntersection = errors.New("invalid intersection")
