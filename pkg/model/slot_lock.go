package model

import "time"

// SlotLock is an advisory lock document serializing booking admission per
// dining place. Insertion with a duplicate _id fails, which is the mutual
// exclusion; expires_at backs a TTL index so crashed holders cannot wedge a
// place forever.
type SlotLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
