package models

import "time"

// User is the single operator account
type User struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	Email     string    `gorm:"column:email;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"column:password;not null" json:"-"`
	CreatedAt time.Time `gorm:"column:createdAt;autoCreateTime:false" json:"-"`
	UpdatedAt time.Time `gorm:"column:updatedAt;autoUpdateTime:false" json:"-"`
}

// TableName pins the PascalCase table name used by the SQLite schema
func (User) TableName() string {
	return "User"
}
