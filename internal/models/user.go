package models

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Roles recognized by the role-gated endpoints.
const (
	RoleCandidate = "candidate"
	RoleRecruiter = "recruiter"
	RoleAdmin     = "admin"
)

// UserAuth holds the credentials record backing register/login.
type UserAuth struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Username     string        `bson:"username" json:"username"`
	Email        string        `bson:"email" json:"email"`
	PasswordHash string        `bson:"passwordHash" json:"-"`
	Role         string        `bson:"role" json:"role"`
	IsActive     bool          `bson:"isActive" json:"isActive"`
	CreatedAt    int64         `bson:"createdAt" json:"createdAt"`
	UpdatedAt    int64         `bson:"updatedAt" json:"updatedAt"`
}

func IsValidRole(role string) bool {
	switch role {
	case RoleCandidate, RoleRecruiter, RoleAdmin:
		return true
	}
	return false
}
