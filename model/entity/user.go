package entity

import "time"

// User represents the user table (auditors and inventory operators).
// Permission strings are parsed by the UI layer, not here.
type User struct {
	UserID      uint      `gorm:"column:user_id;primaryKey;autoIncrement" json:"user_id,omitempty"`
	Username    string    `gorm:"column:username;type:varchar(64);not null;uniqueIndex" json:"username"`
	Email       string    `gorm:"column:email;type:varchar(255)" json:"email"`
	Permissions string    `gorm:"column:permissions;type:varchar(255)" json:"permissions"`
	IsActive    bool      `gorm:"column:is_active;not null;default:1" json:"is_active"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

func (User) TableName() string {
	return "user"
}
