package models

import (
	"time"
)

type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleMember || r == RoleAdmin
}

type User struct {
	ID        uint      `gorm:"primaryKey" bson:"_id" json:"id"`
	FirstName string    `gorm:"not null" bson:"first_name" json:"first_name"`
	LastName  string    `gorm:"not null" bson:"last_name" json:"last_name"`
	Phone     string    `gorm:"not null;uniqueIndex" bson:"phone" json:"phone"`
	Email     string    `gorm:"not null;uniqueIndex" bson:"email" json:"email"`
	Role      Role      `gorm:"type:varchar(16);not null;default:'member';check:valid_role,role IN ('member','admin')" bson:"role" json:"role"`
	Password  string    `gorm:"not null" bson:"password" json:"-"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

func (User) TableName() string { return "users" }
