package services

import (
	"testing"

	"github.com/KiwiStays/KiwiOps/backend/shared/go-models"
	"github.com/stretchr/testify/assert"
)

var testCatalog = []string{"Bed Setup", "Coffee Machine", "Utensils", "WiFi Card"}

func TestResolveChecklist(t *testing.T) {
	cases := []struct {
		name      string
		checklist []string
		catalog   []string
		status    models.RoomStatus
		missing   []string
	}{
		{"nil checklist", nil, testCatalog, models.RoomStatusNotReady, testCatalog},
		{"empty checklist", []string{}, testCatalog, models.RoomStatusNotReady, testCatalog},
		{"all present", []string{"WiFi Card", "Utensils", "Coffee Machine", "Bed Setup"}, testCatalog, models.RoomStatusReady, []string{}},
		{"superset", append([]string{"Towels"}, testCatalog...), testCatalog, models.RoomStatusReady, []string{}},
		{"partial keeps catalog order", []string{"Utensils", "Bed Setup"}, testCatalog, models.RoomStatusAttentionRequired, []string{"Coffee Machine", "WiFi Card"}},
		{"only unknown items", []string{"Towels"}, testCatalog, models.RoomStatusAttentionRequired, testCatalog},
		{"case sensitive", []string{"bed setup", "Coffee Machine", "Utensils", "WiFi Card"}, testCatalog, models.RoomStatusAttentionRequired, []string{"Bed Setup"}},
		{"duplicate catalog items independent", []string{"A"}, []string{"A", "B", "B"}, models.RoomStatusAttentionRequired, []string{"B", "B"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveChecklist(tc.checklist, tc.catalog)
			assert.Equal(t, tc.status, got.Status)
			assert.Equal(t, tc.missing, got.MissingItems)
		})
	}
}

func TestResolveChecklist_Laws(t *testing.T) {
	subsets := [][]string{
		{}, {"Bed Setup"}, {"Coffee Machine", "WiFi Card"}, {"Utensils", "WiFi Card", "Bed Setup"}, testCatalog,
	}
	for _, c := range subsets {
		got := ResolveChecklist(c, testCatalog)

		// missing ⊆ catalog and missing ∩ checklist = ∅
		for _, m := range got.MissingItems {
			assert.Contains(t, testCatalog, m)
			assert.NotContains(t, c, m)
		}
		if len(c) > 0 {
			assert.Equal(t, len(got.MissingItems) == 0, got.Status == models.RoomStatusReady)
		}
		assert.NotNil(t, got.MissingItems)
	}
}

func TestResolveChecklist_DoesNotAliasCatalog(t *testing.T) {
	catalog := []string{"A", "B"}
	got := ResolveChecklist(nil, catalog)
	got.MissingItems[0] = "changed"
	assert.Equal(t, "A", catalog[0])
}
