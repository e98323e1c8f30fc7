package examination

import "errors"

var (
	ErrExaminationNotFound = errors.New("examination not found")
	ErrInvalidStatus       = errors.New("status must be one of pending, completed, missed, cancelled")
	ErrNoFieldsToUpdate    = errors.New("no fields to update")
)
