package models

import "time"

type User struct {
	UserID       string    `json:"userid" bson:"userid"`
	Email        string    `json:"email" bson:"email"`
	Password     string    `json:"-" bson:"password"`
	BusinessName string    `json:"businessName" bson:"businessName"`
	Role         []string  `json:"role" bson:"role"`
	LastLogin    time.Time `json:"last_login,omitempty" bson:"last_login,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}
