package auth

import (
	"artisan-market/internal/domain"

	"github.com/google/uuid"
)

// Identity is the caller resolved from verified token claims. It is
// passed explicitly into every service call that makes an access
// decision; services never read it from ambient state. The zero value
// means no authenticated principal.
type Identity struct {
	UserID uuid.UUID
	Role   domain.Role
}

// IsAuthenticated reports whether an authenticated principal is present.
func (id Identity) IsAuthenticated() bool {
	return id.UserID != uuid.Nil
}
