package routes

const (
	// Health
	Health = "/health"

	// Properties
	PropertyBase   = "/api/property"
	PropertyCreate = "/api/property/create"
	PropertyList   = "/api/property/getproperty"
	PropertyGet    = "/api/property/getproperty/{id}"
	PropertyUpdate = "/api/property/update/{id}"

	// Rooms
	BuildingRooms = "/api/property/building/{buildingId}"
	RoomInfo      = "/api/property/roominfo/{id}"
	RoomUpdate    = "/api/property/rooms/update/{roomId}"
	RoomDelete    = "/api/property/room/delete/{id}/{propid}"

	// Files written by the local object store
	UploadsPrefix = "/uploads/"
)
