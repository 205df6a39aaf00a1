package services

import "github.com/KiwiStays/KiwiOps/backend/shared/go-models"

// ChecklistResult is the readiness derived from a checklist.
type ChecklistResult struct {
	Status       models.RoomStatus
	MissingItems []string
}

/*
ResolveChecklist derives a room's readiness from the items checked off
against the catalog:

	empty checklist          -> Not Ready,          missing = whole catalog
	every catalog item found -> Ready,              missing = []
	otherwise                -> Attention Required, missing = catalog items not found

Matching is exact. Missing items keep catalog order. Checklist entries that
are not in the catalog are ignored.
*/
func ResolveChecklist(checklist, catalog []string) ChecklistResult {
	if len(checklist) == 0 {
		return ChecklistResult{
			Status:       models.RoomStatusNotReady,
			MissingItems: append([]string{}, catalog...),
		}
	}

	done := make(map[string]struct{}, len(checklist))
	for _, item := range checklist {
		done[item] = struct{}{}
	}

	missing := []string{}
	for _, item := range catalog {
		if _, ok := done[item]; !ok {
			missing = append(missing, item)
		}
	}

	if len(missing) == 0 {
		return ChecklistResult{Status: models.RoomStatusReady, MissingItems: missing}
	}
	return ChecklistResult{Status: models.RoomStatusAttentionRequired, MissingItems: missing}
}
