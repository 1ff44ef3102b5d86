package domain

import "time"

// OtpPurpose distinguishes the two challenge flows. Each (email, purpose)
// pair holds at most one outstanding challenge.
type OtpPurpose string

const (
	PurposeSignup OtpPurpose = "signup"
	PurposeLogin  OtpPurpose = "login"
)

// Challenge is the server-side record of an outstanding one-time passcode.
// Only the hash of the code is stored. For signup challenges the profile data
// entered at signup-start is staged here until verification succeeds.
type Challenge struct {
	ID        string
	Email     string // lowercase
	Purpose   OtpPurpose
	CodeHash  string
	ExpiresAt time.Time
	Attempts  int

	// Staged signup profile; unset for login challenges.
	Name string
	DOB  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Expired reports whether the challenge is past its expiry at the given time.
func (c Challenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
