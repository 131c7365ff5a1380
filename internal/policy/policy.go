// Package policy decides whether a caller may perform a sensitive operation.
//
// Authorization rules:
//   - Catalog changes (create, update, archive) are admin only
//   - Promoting users is admin only
//   - The full order list is admin only
//   - A user's orders can be read and placed by that user or by an admin
//
// The functions are pure: admin status must already be resolved from the
// user store, never taken from a client-supplied flag.
package policy

import "errors"

var (
	// ErrUnauthenticated is returned when an operation needs a known caller and none was given.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrAccessDenied is returned when the caller is known but not permitted.
	ErrAccessDenied = errors.New("access denied")
)

// Caller is the resolved identity of whoever issued a request.
// The zero value is an anonymous caller.
type Caller struct {
	UserID        string
	IsAdmin       bool
	Authenticated bool
}

// Anonymous is a caller that presented no credentials.
var Anonymous = Caller{}

// NewCaller builds an authenticated caller.
func NewCaller(userID string, isAdmin bool) Caller {
	return Caller{UserID: userID, IsAdmin: isAdmin, Authenticated: true}
}

func isAdmin(c Caller) bool {
	return c.Authenticated && c.IsAdmin
}

func isSelfOrAdmin(c Caller, targetUserID string) bool {
	if !c.Authenticated {
		return false
	}
	return c.IsAdmin || (c.UserID != "" && c.UserID == targetUserID)
}

// CanManageProducts reports whether the caller may create, update or archive products.
func CanManageProducts(c Caller) bool {
	return isAdmin(c)
}

// CanViewAllOrders reports whether the caller may list every order.
func CanViewAllOrders(c Caller) bool {
	return isAdmin(c)
}

// CanViewUserOrders reports whether the caller may list the target user's orders.
func CanViewUserOrders(c Caller, targetUserID string) bool {
	return isSelfOrAdmin(c, targetUserID)
}

// CanPlaceOrder reports whether the caller may place an order on behalf of the target user.
func CanPlaceOrder(c Caller, targetUserID string) bool {
	return isSelfOrAdmin(c, targetUserID)
}

// CanPromoteUsers reports whether the caller may grant admin status.
func CanPromoteUsers(c Caller) bool {
	return isAdmin(c)
}

// Check turns a decision into an error: nil when allowed, ErrUnauthenticated
// for anonymous callers, ErrAccessDenied otherwise.
func Check(c Caller, allowed bool) error {
	if allowed {
		return nil
	}
	if !c.Authenticated {
		return ErrUnauthenticated
	}
	return ErrAccessDenied
}
