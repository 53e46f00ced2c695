package users

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies what a user is allowed to do
type Role string

const (
	RoleAttendee  Role = "ATTENDEE"
	RoleOrganizer Role = "ORGANIZER"
	RoleAdmin     Role = "ADMIN"
)

type User struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	FullName  string    `json:"full_name" gorm:"not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Phone     string    `json:"phone,omitempty"`
	Role      Role      `json:"role" gorm:"not null;default:'ATTENDEE'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func IsValidRole(role string) bool {
	switch role {
	case string(RoleAttendee), string(RoleOrganizer), string(RoleAdmin):
		return true
	default:
		return false
	}
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}
