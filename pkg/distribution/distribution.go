package distribution

import (
	"fmt"
	"time"
)

// Distribution is a single administrator-approved grant of points to a user.
// Records are append-only: once created they are never updated or deleted.
type Distribution struct {
	Id     int
	Uid    string
	UserId int
	// UserUid, UserName and UserDepartment are denormalised for display and
	// populated from the user table on read.
	UserUid        string
	UserName       string
	UserDepartment string
	Points         int
	Reason         string
	DistributedBy  int
	DistributedAt  time.Time
}

// Candidate is a proposed distribution that has not passed the eligibility
// rules yet.
type Candidate struct {
	UserId int
	Points int
	Reason string
}

type RejectionCode string

const (
	AlreadyDistributedThisMonth RejectionCode = "ALREADY_DISTRIBUTED_THIS_MONTH"
	NoAllocationConfigured      RejectionCode = "NO_ALLOCATION_CONFIGURED"
	ExceedsMonthlyAllocation    RejectionCode = "EXCEEDS_MONTHLY_ALLOCATION"
)

// Rejection is a business-rule outcome, distinct from transport or storage
// failures: the caller is expected to show the specific reason to the
// administrator and may resubmit with different input.
type Rejection struct {
	Code RejectionCode
	// Ceiling carries the monthly allocation limit when the code is
	// ExceedsMonthlyAllocation.
	Ceiling int
}

func (r *Rejection) Error() string {
	switch r.Code {
	case AlreadyDistributedThisMonth:
		return "user has already received points this month"
	case NoAllocationConfigured:
		return "no monthly allocation configured for this employee type"
	case ExceedsMonthlyAllocation:
		return fmt.Sprintf("points exceed the monthly allocation of %d", r.Ceiling)
	}
	return string(r.Code)
}
