// go-models/unit.go
package models

// Unit is one declared rental space inside a Property. Units are stored
// embedded in the Property and are index-correlated with the Room documents
// created for that Property.
type Unit struct {
	HouseNumber string `bson:"houseNumber" json:"houseNumber"`
	HouseName   string `bson:"houseName"   json:"houseName"`
	Image       string `bson:"image"       json:"image"`
}

// StaffMember is an entry in a Property's staff catalog. Rooms keep a copy.
type StaffMember struct {
	Name       string `bson:"name"       json:"name"`
	ProfileImg string `bson:"profileImg" json:"profileImg"`
}

// CloneStaff returns a copy of list so that a Room snapshot never aliases
// the Property's slice. A nil input yields an empty, non-nil slice.
func CloneStaff(list []StaffMember) []StaffMember {
	out := make([]StaffMember, len(list))
	copy(out, list)
	return out
}
