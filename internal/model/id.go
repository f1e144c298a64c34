package model

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrMalformedID is returned for identifiers that are not 24-character hex object ids.
var ErrMalformedID = errors.New("malformatted id")

// NewID returns a fresh object id in its hex form. Ids sort by creation time.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ParseID validates s and returns its canonical lower-case form.
func ParseID(s string) (string, error) {
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return "", ErrMalformedID
	}
	return oid.Hex(), nil
}
