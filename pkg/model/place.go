package model

import "time"

type DiningPlace struct {
	ID               string           `json:"place_id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name             string           `json:"name" bson:"name" validate:"required,min=2,max=120"`
	Address          string           `json:"address" bson:"address" validate:"required,min=2,max=200"`
	PhoneNo          string           `json:"phone_no" bson:"phone_no" validate:"required,e164"`
	Website          string           `json:"website,omitempty" bson:"website,omitempty" validate:"omitempty,url"`
	OperationalHours OperationalHours `json:"operational_hours" bson:"operational_hours"`
	BookedSlots      []Slot           `json:"booked_slots" bson:"booked_slots"`
	CreatedAt        time.Time        `json:"created_at,omitempty" bson:"created_at" validate:"omitempty"`
}
