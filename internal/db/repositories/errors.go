package repositories

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicate       = errors.New("duplicate record")
	ErrAlreadyAssigned = errors.New("volunteer already assigned to task")
	ErrTaskFull        = errors.New("task has no free volunteer slots")
	ErrTaskNotOpen     = errors.New("task is not accepting volunteers")
	ErrStaleWrite      = errors.New("record changed since it was read")
)

// translate maps GORM errors onto the repository sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}
