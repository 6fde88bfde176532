package test_utils

import (
	"context"
	"time"

	"github.com/kudoshq/kudos/pkg/user"
)

// TestUser is a regular employee used as the authenticated user in tests.
var TestUser = user.User{
	Id:           123,
	Uid:          "test-user-uid",
	Subject:      "test-subject",
	FirstName:    "Test",
	LastName:     "User",
	Email:        "test.user@example.com",
	Department:   "Engineering",
	EmployeeType: "FULL_TIME",
	Role:         user.RoleEmployee,
	Active:       true,
	CreatedAt:    time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
}

// TestAdmin is an admin user for exercising admin-only operations.
var TestAdmin = user.User{
	Id:           124,
	Uid:          "test-admin-uid",
	Subject:      "test-admin-subject",
	FirstName:    "Test",
	LastName:     "Admin",
	Email:        "test.admin@example.com",
	Department:   "People",
	EmployeeType: "FULL_TIME",
	Role:         user.RoleAdmin,
	Active:       true,
	CreatedAt:    time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
}

// ContextWithUser returns a context carrying the given user, the way the
// auth middleware does for real requests.
func ContextWithUser(ctx context.Context, u user.User) context.Context {
	return user.WithUser(ctx, u)
}
