package notification

import "errors"

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNoRecipients         = errors.New("no active staff to notify")
)
