package appointment

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("appointment not found")

	ErrInvalidSource   = fmt.Errorf("%w: source must be admin or provider", ErrInvalidArgument)
	ErrInvalidStatus   = fmt.Errorf("%w: status must be one of pending, completed, missed, cancelled", ErrInvalidArgument)
	ErrInvalidPatient  = fmt.Errorf("%w: patient must be an active mother", ErrInvalidArgument)
	ErrInvalidProvider = fmt.Errorf("%w: provider must be an active provider", ErrInvalidArgument)
)
