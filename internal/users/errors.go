package users

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUsernameTaken         = errors.New("username already exists")
	ErrDesignationNotAllowed = errors.New("designation applies to providers only")
	ErrNoFieldsToUpdate      = errors.New("no fields to update")
	ErrCannotDeactivateSelf  = errors.New("you cannot deactivate your own account")
	ErrInvalidRole           = errors.New("invalid role")
	ErrUnlinkedIdentity      = errors.New("no clinic account for this identity")
	ErrAccountDisabled       = errors.New("account is disabled")
	ErrCustomIDExhausted     = errors.New("could not allocate a unique custom id")
)
