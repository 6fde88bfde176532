package user

import "time"

type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleAdmin    Role = "ADMIN"
)

// EmployeeType determines which monthly points allocation applies to a user.
// The set of types is not fixed; administrators configure an allocation per
// type and these are the values commonly in use.
const (
	EmployeeTypeFullTime   = "FULL_TIME"
	EmployeeTypePartTime   = "PART_TIME"
	EmployeeTypeContractor = "CONTRACTOR"
)

type RewardPreference string

const (
	PreferenceFood          RewardPreference = "FOOD"
	PreferenceTravel        RewardPreference = "TRAVEL"
	PreferenceElectronics   RewardPreference = "ELECTRONICS"
	PreferenceBooks         RewardPreference = "BOOKS"
	PreferenceEntertainment RewardPreference = "ENTERTAINMENT"
)

type User struct {
	Id int
	// Uid is the externally visible identifier of the user.
	Uid string
	// Subject is the identity provider's subject claim for this user.
	Subject      string
	FirstName    string
	LastName     string
	Email        string
	Department   string
	EmployeeType string
	Role         Role
	// Points is the redeemable balance earned through recognitions and
	// administrator distributions.
	Points    int
	Active    bool
	CreatedAt time.Time
}

func (u User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}

// Profile is the user record enriched with everything the profile screen
// shows: remaining giveable points for the current month and the user's
// reward preferences.
type Profile struct {
	User
	AllocationPoints  int
	RewardPreferences []RewardPreference
}
