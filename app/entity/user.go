package entity

import "time"

const (
	VerificationStatusPending  = "PENDING"
	VerificationStatusVerified = "VERIFIED"
	VerificationStatusRejected = "REJECTED"
)

// RoleSuperAdmin is exempt from the employer verification gate.
const RoleSuperAdmin = "SUPER_ADMIN"

type User struct {
	ID                 uint64
	Email              string
	Name               string
	Role               string
	VerificationStatus string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (u *User) IsVerified() bool {
	return u.VerificationStatus == VerificationStatusVerified
}
