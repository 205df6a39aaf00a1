package utils

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ParseObjectID turns a hex string into an ObjectID, wrapping
// ErrInvalidObjectID on failure.
func ParseObjectID(s string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidObjectID, s)
	}
	return id, nil
}
