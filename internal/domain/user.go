package domain

import "time"

type UserRole string

const (
	RoleClient   UserRole = "client"
	RoleProvider UserRole = "provider"
	RoleAdmin    UserRole = "admin"
)

type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"size:180;not null;uniqueIndex" validate:"required,email"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         UserRole  `json:"role" gorm:"size:32;not null;default:client"`
	Name         string    `json:"name"`
	ProviderID   *int64    `json:"provider_id,omitempty" gorm:"index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// ProviderScoped reports whether the user acts on behalf of a single provider
// and must be kept to that provider's calendar.
func (u *User) ProviderScoped() bool { return u.Role == RoleProvider }

// ManagesProvider reports whether the user is staff of the given provider.
func (u *User) ManagesProvider(providerID int64) bool {
	return u.Role == RoleProvider && u.ProviderID != nil && *u.ProviderID == providerID
}

// CheckProviderScope keeps provider staff on their own calendar. Admins,
// clients and anonymous callers (nil) pass.
func (u *User) CheckProviderScope(providerID int64) error {
	if u == nil || u.IsAdmin() || !u.ProviderScoped() {
		return nil
	}
	if u.ProviderID == nil {
		return ErrNoAssignedProvider
	}
	if *u.ProviderID != providerID {
		return ErrForeignProvider
	}
	return nil
}
