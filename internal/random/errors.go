package random

import "errors"

// ErrInvalidArgument is returned when a selection primitive receives a bound
// or list it cannot draw from (NaN or infinite bounds, empty weighted lists).
var ErrInvalidArgument = errors.New("random: invalid argument")
