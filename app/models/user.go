package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles. Staff can manage catalog and orders; only admins manage users.
const (
	RoleAdmin    = "admin"
	RoleStaff    = "staff"
	RoleCustomer = "customer"
)

// User is an account document. The password hash never leaves the server:
// json:"-" keeps it out of every response.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	FullName  string             `bson:"fullName" json:"fullName"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	Phone     string             `bson:"phone" json:"phone"`
	Address   string             `bson:"address" json:"address"`
	Avatar    string             `bson:"avatar" json:"avatar"`
	Role      string             `bson:"role" json:"role"`
	IsActive  bool               `bson:"isActive" json:"isActive"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// UserRef is the trimmed projection embedded in chat and review responses.
type UserRef struct {
	ID       primitive.ObjectID `bson:"_id" json:"_id"`
	FullName string             `bson:"fullName" json:"fullName"`
	Email    string             `bson:"email,omitempty" json:"email,omitempty"`
	Avatar   string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Role     string             `bson:"role,omitempty" json:"role,omitempty"`
}

// Ref returns the trimmed projection of u.
func (u User) Ref() UserRef {
	return UserRef{ID: u.ID, FullName: u.FullName, Email: u.Email, Avatar: u.Avatar, Role: u.Role}
}
