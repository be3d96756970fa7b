package access

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

type Role string

const (
	RoleClient   Role = "client"
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

var Roles = []Role{RoleClient, RoleEmployee, RoleAdmin}

func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleEmployee, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// ParseRole normalises case and whitespace; ok is false for unknown roles.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}

// Caller is the authenticated user for the current request, with the role as
// currently stored, not as issued in the token.
type Caller struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

func (c Caller) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if c.Role == r {
			return true
		}
	}
	return false
}

type ctxKey string

const callerKey ctxKey = "caller"

func WithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

func CallerFromContext(ctx context.Context) (Caller, bool) {
	if ctx == nil {
		return Caller{}, false
	}
	caller, ok := ctx.Value(callerKey).(Caller)
	return caller, ok
}

// VisibleContracts narrows a query over the contracts table to the rows the
// caller may see. Every contract read goes through here.
//
//   - client:   contracts.client_id = caller
//   - employee: inner join on employee_permissions for (contract, caller)
//   - admin:    unrestricted
//
// Unknown roles see nothing.
func VisibleContracts(db *gorm.DB, caller Caller) *gorm.DB {
	switch caller.Role {
	case RoleAdmin:
		return db
	case RoleClient:
		return db.Where("contracts.client_id = ?", caller.UserID)
	case RoleEmployee:
		return db.Joins("INNER JOIN employee_permissions ep ON ep.contract_id = contracts.id AND ep.employee_id = ?", caller.UserID)
	default:
		return db.Where("1 = 0")
	}
}
