package entity

import (
	"time"
)

const (
	UserTypeAdmin  = "admin"
	UserTypeCA     = "ca"
	UserTypeClient = "client"
	UserTypeUser   = "user"
)

const (
	UserStatusPending   = "pending"
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
	UserStatusInactive  = "inactive"
)

type User struct {
	ID               string `json:"id" firestore:"id"`
	Email            string `json:"email" firestore:"email"`
	DisplayName      string `json:"display_name" firestore:"displayName"`
	UserType         string `json:"user_type" firestore:"userType"`
	Status           string `json:"status" firestore:"status"`
	OrganizationName string `json:"organization_name,omitempty" firestore:"organizationName,omitempty"`
	Phone            string `json:"phone,omitempty" firestore:"phone,omitempty"`
	PhotoURL         string `json:"photo_url,omitempty" firestore:"photoURL,omitempty"`

	CreatedAt   time.Time  `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time  `json:"updated_at" firestore:"updatedAt"`
	LastLoginAt time.Time  `json:"last_login_at,omitempty" firestore:"lastLoginAt,omitempty"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" firestore:"deletedAt,omitempty"`
}

// RequiresApproval reports whether accounts of this type start in pending
// status until an administrator activates them.
func RequiresApproval(userType string) bool {
	return userType == UserTypeCA || userType == UserTypeClient
}

func ValidUserType(userType string) bool {
	switch userType {
	case UserTypeAdmin, UserTypeCA, UserTypeClient, UserTypeUser:
		return true
	}
	return false
}

// CanIssue reports whether the user role is allowed to create and issue
// certificates.
func (u *User) CanIssue() bool {
	return u.UserType == UserTypeAdmin || u.UserType == UserTypeCA
}

func (u *User) IsAdmin() bool {
	return u.UserType == UserTypeAdmin
}

func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
