package sufast

import "errors"

var (
	// errStatusOutOfRange is returned by DecodeResponseEnvelope when the
	// foreign handler's status falls outside 100..599.
	errStatusOutOfRange = errors.New("sufast: response envelope status out of range")

	// errHandlerUnavailable marks a null callback return: a null return
	// from the callback is treated as handler unavailable.
	errHandlerUnavailable = errors.New("sufast: handler unavailable")

	// errNoCallback is returned when the dynamic tier is reached but no
	// callback has ever been registered.
	errNoCallback = errors.New("sufast: no callback registered")
)
