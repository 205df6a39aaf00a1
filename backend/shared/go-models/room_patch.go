package models

import "time"

// RoomPatch is a partial update of a Room. A nil field is left untouched.
// The same patch is rendered to a Mongo $set by the repository and applied
// in memory by tests, so both paths share one definition of each mutation.
type RoomPatch struct {
	Active          *bool
	RoomNum         *string
	RoomName        *string
	RoomImage       *string
	Checklist       *[]string
	Status          *RoomStatus
	MissingItems    *[]string
	VoiceNote       *string
	Staff           *[]StaffMember
	StaffWhoUpdated *string
	Notes           *string
	UpdatedAt       *time.Time
}

// IsEmpty reports whether the patch would change nothing.
func (p RoomPatch) IsEmpty() bool {
	return p.Active == nil && p.RoomNum == nil && p.RoomName == nil &&
		p.RoomImage == nil && p.Checklist == nil && p.Status == nil &&
		p.MissingItems == nil && p.VoiceNote == nil && p.Staff == nil &&
		p.StaffWhoUpdated == nil && p.Notes == nil && p.UpdatedAt == nil
}

// Fields returns the patch as document field name -> value, using the bson
// names of Room.
func (p RoomPatch) Fields() map[string]any {
	out := map[string]any{}
	if p.Active != nil {
		out["active"] = *p.Active
	}
	if p.RoomNum != nil {
		out["roomNum"] = *p.RoomNum
	}
	if p.RoomName != nil {
		out["roomName"] = *p.RoomName
	}
	if p.RoomImage != nil {
		out["roomImage"] = *p.RoomImage
	}
	if p.Checklist != nil {
		out["checklist"] = nonNilStrings(*p.Checklist)
	}
	if p.Status != nil {
		out["status"] = *p.Status
	}
	if p.MissingItems != nil {
		out["missingItems"] = nonNilStrings(*p.MissingItems)
	}
	if p.VoiceNote != nil {
		out["voiceNote"] = *p.VoiceNote
	}
	if p.Staff != nil {
		out["staff"] = CloneStaff(*p.Staff)
	}
	if p.StaffWhoUpdated != nil {
		out["staffWhoUpdated"] = *p.StaffWhoUpdated
	}
	if p.Notes != nil {
		out["notes"] = *p.Notes
	}
	if p.UpdatedAt != nil {
		out["updatedAt"] = *p.UpdatedAt
	}
	return out
}

// Apply mutates r in place.
func (p RoomPatch) Apply(r *Room) {
	if p.Active != nil {
		v := *p.Active
		r.Active = &v
	}
	if p.RoomNum != nil {
		r.RoomNum = *p.RoomNum
	}
	if p.RoomName != nil {
		r.RoomName = *p.RoomName
	}
	if p.RoomImage != nil {
		r.RoomImage = *p.RoomImage
	}
	if p.Checklist != nil {
		r.Checklist = nonNilStrings(*p.Checklist)
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.MissingItems != nil {
		r.MissingItems = nonNilStrings(*p.MissingItems)
	}
	if p.VoiceNote != nil {
		r.VoiceNote = *p.VoiceNote
	}
	if p.Staff != nil {
		r.Staff = CloneStaff(*p.Staff)
	}
	if p.StaffWhoUpdated != nil {
		r.StaffWhoUpdated = *p.StaffWhoUpdated
	}
	if p.Notes != nil {
		r.Notes = *p.Notes
	}
	if p.UpdatedAt != nil {
		r.UpdatedAt = *p.UpdatedAt
	}
}

// NightlyResetPatch clears the readiness state of a room. It leaves staff,
// names, image, notes and timestamps alone so that applying it twice is the
// same as applying it once.
func NightlyResetPatch() RoomPatch {
	status := RoomStatusNotReady
	empty := ""
	checklist := []string{}
	missing := []string{}
	return RoomPatch{
		Status:          &status,
		Checklist:       &checklist,
		VoiceNote:       &empty,
		MissingItems:    &missing,
		StaffWhoUpdated: &empty,
	}
}

func nonNilStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
