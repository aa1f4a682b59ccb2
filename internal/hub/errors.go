package hub

import (
	"errors"

	"github.com/dokzlo13/wiserhub/internal/schedule"
)

var (
	// ErrInvalidArgument is returned when a caller passes an out-of-range
	// value or unknown enum member. Validation happens before any request
	// reaches the hub. It is the same sentinel the schedule package uses,
	// so one errors.Is check covers both.
	ErrInvalidArgument = schedule.ErrInvalidArgument

	// ErrNotImplemented marks operations the hub API does not support.
	ErrNotImplemented = errors.New("not implemented")
)
