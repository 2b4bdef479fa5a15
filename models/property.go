package models

import (
	"time"
)

type Property struct {
	ID          uint      `gorm:"primaryKey" bson:"_id" json:"id"`
	Name        string    `gorm:"type:text;not null" bson:"name" json:"name"`
	Description string    `gorm:"not null" bson:"description" json:"description"`
	Image       *string   `bson:"image,omitempty" json:"image,omitempty"`
	Price       int       `gorm:"not null" bson:"price" json:"price"`
	Bedrooms    int       `gorm:"not null" bson:"bedrooms" json:"bedrooms"`
	Bathrooms   int       `gorm:"not null" bson:"bathrooms" json:"bathrooms"`
	Location    string    `gorm:"type:text;not null" bson:"location" json:"location"`
	IsActive    bool      `gorm:"not null" bson:"is_active" json:"is_active"`
	UserID      uint      `gorm:"not null;index" bson:"user_id" json:"user_id"`
	User        *User     `gorm:"foreignKey:UserID" bson:"-" json:"-"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

func (Property) TableName() string { return "properties" }
