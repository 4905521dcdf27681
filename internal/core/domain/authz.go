package domain

import "errors"

var ErrForbidden = errors.New("access forbidden")

// Capability is the authorization class an operation requires.
type Capability int

const (
	// SelfOrAdmin allows the subject user themselves or any admin.
	SelfOrAdmin Capability = iota
	// AdminOnly allows admins exclusively.
	AdminOnly
)

// Authorize checks whether caller may perform an operation of the given
// capability class on the resource owned by targetUserID. It is a pure
// function of its inputs; there is no hidden state.
func Authorize(caller Identity, class Capability, targetUserID int64) error {
	switch class {
	case AdminOnly:
		if caller.Role == RoleAdmin {
			return nil
		}
	case SelfOrAdmin:
		if caller.Role == RoleAdmin || caller.UserID == targetUserID {
			return nil
		}
	}
	return ErrForbidden
}
