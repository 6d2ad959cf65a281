package model

import (
	"time"
)

const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

type User struct {
	ID           string    `db:"id" json:"id" bson:"id"`
	Name         string    `db:"name" json:"name" bson:"name"`
	Email        string    `db:"email" json:"email" bson:"email"`
	PasswordHash *string   `db:"password_hash" json:"-" bson:"password_hash,omitempty"`
	StartWeight  *float64  `db:"start_weight" json:"startWeight,omitempty" bson:"start_weight,omitempty"`
	TargetWeight *float64  `db:"target_weight" json:"targetWeight,omitempty" bson:"target_weight,omitempty"`
	Theme        string    `db:"theme" json:"theme" bson:"theme"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt" bson:"created_at"`
}

func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}
