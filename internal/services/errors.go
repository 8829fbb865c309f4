package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Sentinel errors surfaced by the service layer. Handlers translate them to
// HTTP statuses via the apierrors package.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRegistrationClosed = errors.New("registration is closed")
)

// translateDB converts duplicate-key violations reported by the database into
// ErrConflict. The read-then-write checks in the services are advisory; the
// unique indexes are authoritative under concurrency. Requires TranslateError
// on the gorm config.
func translateDB(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%v: %w", err, ErrConflict)
	}
	return err
}
