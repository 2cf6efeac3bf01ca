package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartData maps productId -> size label -> quantity. Entries with
// quantity <= 0 are removed entirely; an empty product key is removed
// with its last size.
type CartData map[string]map[string]int

// Address is one entry of a user's embedded address book. It carries
// its own id so orders can reference a specific entry.
type Address struct {
	ID        string `bson:"id" json:"id"`
	FirstName string `bson:"firstName" json:"firstName"`
	LastName  string `bson:"lastName" json:"lastName"`
	Email     string `bson:"email" json:"email"`
	Street    string `bson:"street" json:"street"`
	City      string `bson:"city" json:"city"`
	State     string `bson:"state,omitempty" json:"state,omitempty"`
	Zipcode   string `bson:"zipcode" json:"zipcode"`
	Country   string `bson:"country" json:"country"`
	Phone     string `bson:"phone" json:"phone"`
}

// User is the persisted account document. The cart snapshot and the
// address book live on the user record itself.
type User struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                 string             `bson:"name" json:"name"`
	Email                string             `bson:"email" json:"email"`
	PasswordHash         string             `bson:"passwordHash" json:"-"`
	Role                 string             `bson:"role" json:"role"`
	CartData             CartData           `bson:"cartData" json:"cartData"`
	Addresses            []Address          `bson:"addresses" json:"addresses"`
	ResetPasswordToken   string             `bson:"resetPasswordToken,omitempty" json:"-"`
	ResetPasswordExpires *time.Time         `bson:"resetPasswordExpires,omitempty" json:"-"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time          `bson:"updatedAt" json:"updatedAt"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
