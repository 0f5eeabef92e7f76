package payment

import "errors"

var ErrInvalidStatus = errors.New("invalid payment status")

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusPending, StatusCompleted, StatusFailed:
		return st, nil
	default:
		return "", ErrInvalidStatus
	}
}

func (s Status) String() string {
	return string(s)
}

// IsSettled is true once the provider outcome has been recorded.
func (s Status) IsSettled() bool {
	return s == StatusCompleted || s == StatusFailed
}
