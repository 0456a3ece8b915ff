package models

import (
	"strings"
	"time"
)

type User struct {
	UserID    int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	UserFname string     `gorm:"column:user_fname" json:"user_fname"`
	UserLname string     `gorm:"column:user_lname" json:"user_lname"`
	Email     string     `gorm:"column:email;unique" json:"email"`
	EmpID     string     `gorm:"column:emp_id" json:"emp_id"`
	Password  string     `gorm:"column:password" json:"-"`
	Role      Role       `gorm:"column:role" json:"role"`
	College   string     `gorm:"column:college" json:"college"`
	Division  string     `gorm:"column:division" json:"division"`
	CreateAt  *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt  *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt  *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

// FullName joins first and last name, tolerating either part being empty.
func (u *User) FullName() string {
	return strings.TrimSpace(u.UserFname + " " + u.UserLname)
}
