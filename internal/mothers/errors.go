package mothers

import "errors"

var (
	ErrMotherNotFound   = errors.New("mother not found")
	ErrInvalidCustomID  = errors.New("invalid mother id")
	ErrInvalidDateRange = errors.New("from must not be after to")
	ErrNoFieldsToUpdate = errors.New("no fields to update")
)
