package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"password,omitempty"`
	Title     string             `bson:"title" json:"title"`
	Role      string             `bson:"role" json:"role"`
	IsAdmin   bool               `bson:"isAdmin" json:"isAdmin"`
	IsActive  bool               `bson:"isActive" json:"isActive"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// DashboardUser is the projection of recently created users on the
// admin dashboard.
type DashboardUser struct {
	ID        primitive.ObjectID `json:"_id"`
	Name      string             `json:"name"`
	Title     string             `json:"title"`
	Role      string             `json:"role"`
	IsAdmin   bool               `json:"isAdmin"`
	CreatedAt time.Time          `json:"createdAt"`
}
