package appointment

// Status is shared by admin appointments and provider-scheduled examinations.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusMissed    Status = "missed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusMissed, StatusCancelled:
		return true
	}
	return false
}

// Source tags where a unified appointment came from so status patches can be routed back.
type Source string

const (
	SourceAdmin    Source = "admin"
	SourceProvider Source = "provider"
)

func (s Source) Valid() bool {
	return s == SourceAdmin || s == SourceProvider
}
