package healthrecord

import "errors"

var (
	ErrRecordNotFound    = errors.New("health record not found")
	ErrPregnancyNotFound = errors.New("previous pregnancy not found")
	ErrNoFieldsToUpdate  = errors.New("no fields to update")
)
