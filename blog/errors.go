package blog

import (
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"
)

// Error taxonomy for every public operation. Handlers map these to status
// codes; raw gorm errors never leave the package.
var (
	ErrValidation   = errors.New("validation failed")
	ErrInvalidID    = errors.New("invalid id")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal error")
)

// ParseID validates an identifier before any lookup happens. A malformed id
// is ErrInvalidID, which is not the same thing as a well-formed id that
// matches nothing.
func ParseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// storeErr maps a gorm failure onto the taxonomy.
func storeErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrInternal, err)
}
