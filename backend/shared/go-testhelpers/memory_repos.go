// backend/shared/go-testhelpers/memory_repos.go

package testhelpers

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/KiwiStays/KiwiOps/backend/shared/go-models"
	"github.com/KiwiStays/KiwiOps/backend/shared/go-repositories"
	"github.com/KiwiStays/KiwiOps/backend/shared/go-utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

/* ───────────── properties ───────────── */

// MemPropertyRepo is a goroutine-safe in-memory PropertyRepository. The Err*
// fields make the matching call fail when set.
type MemPropertyRepo struct {
	mu    sync.Mutex
	docs  map[primitive.ObjectID]*models.Property
	order []primitive.ObjectID

	ErrCreate  error
	ErrGet     error
	ErrUpdate  error
	ErrPull    error
	UpdateCall int
}

var _ repositories.PropertyRepository = (*MemPropertyRepo)(nil)

func NewMemPropertyRepo() *MemPropertyRepo {
	return &MemPropertyRepo{docs: map[primitive.ObjectID]*models.Property{}}
}

func (r *MemPropertyRepo) Create(_ context.Context, p *models.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ErrCreate != nil {
		return r.ErrCreate
	}
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	r.docs[p.ID] = cloneProperty(p)
	r.order = append(r.order, p.ID)
	return nil
}

func (r *MemPropertyRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ErrGet != nil {
		return nil, r.ErrGet
	}
	p, ok := r.docs[id]
	if !ok {
		return nil, nil
	}
	return cloneProperty(p), nil
}

func (r *MemPropertyRepo) List(_ context.Context, placeName string) ([]*models.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Property{}
	for _, id := range r.order {
		p, ok := r.docs[id]
		if !ok {
			continue
		}
		if placeName != "" && p.PlaceName != placeName {
			continue
		}
		out = append(out, cloneProperty(p))
	}
	return out, nil
}

func (r *MemPropertyRepo) Update(_ context.Context, p *models.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.UpdateCall++
	if r.ErrUpdate != nil {
		return r.ErrUpdate
	}
	if _, ok := r.docs[p.ID]; !ok {
		return utils.ErrNoRowsUpdated
	}
	p.UpdatedAt = time.Now().UTC()
	r.docs[p.ID] = cloneProperty(p)
	return nil
}

func (r *MemPropertyRepo) PullUnit(_ context.Context, id primitive.ObjectID, houseNumber string) (*models.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ErrPull != nil {
		return nil, r.ErrPull
	}
	p, ok := r.docs[id]
	if !ok {
		return nil, nil
	}
	kept := make([]models.Unit, 0, len(p.Units))
	for _, u := range p.Units {
		if u.HouseNumber != houseNumber {
			kept = append(kept, u)
		}
	}
	p.Units = kept
	p.UpdatedAt = time.Now().UTC()
	return cloneProperty(p), nil
}

func (r *MemPropertyRepo) EnsureIndexes(context.Context) error { return nil }

func cloneProperty(p *models.Property) *models.Property {
	cp := *p
	cp.Units = append([]models.Unit{}, p.Units...)
	cp.Staff = models.CloneStaff(p.Staff)
	return &cp
}

/* ───────────── rooms ───────────── */

// MemRoomRepo is a goroutine-safe in-memory RoomRepository.
type MemRoomRepo struct {
	mu   sync.Mutex
	docs map[primitive.ObjectID]*models.Room
	seq  map[primitive.ObjectID]int
	next int

	ErrCreateMany error
	ErrCount      error
	ErrUpdate     error
	ErrSetStaff   error
	ErrUpdateAll  error
	ErrDelete     error
}

var _ repositories.RoomRepository = (*MemRoomRepo)(nil)

func NewMemRoomRepo() *MemRoomRepo {
	return &MemRoomRepo{
		docs: map[primitive.ObjectID]*models.Room{},
		seq:  map[primitive.ObjectID]int{},
	}
}

func (r *MemRoomRepo) CreateMany(_ context.Context, rooms []*models.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ErrCreateMany != nil {
		return r.ErrCreateMany
	}
	now := time.Now().UTC()
	for _, rm := range rooms {
		if rm.ID.IsZero() {
			rm.ID = primitive.NewObjectID()
		}
		rm.CreatedAt, rm.UpdatedAt = now, now
		r.docs[rm.ID] = cloneRoom(rm)
		r.seq[rm.ID] = r.next
		r.next++
	}
	return nil
}

func (r *MemRoomRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rm, ok := r.docs[id]
	if !ok {
		return nil, nil
	}
	return cloneRoom(rm), nil
}

func (r *MemRoomRepo) ListByBuildingID(_ context.Context, buildingID primitive.ObjectID) ([]*models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sortedLocked(buildingID), nil
}

func (r *MemRoomRepo) CountByBuildingID(_ context.Context, buildingID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ErrCount != nil {
		return 0, r.ErrCount
	}
	return int64(len(r.sortedLocked(buildingID))), nil
}

func (r *MemRoomRepo) UpdateFields(_ context.Context, id primitive.ObjectID, patch models.RoomPatch) (*models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ErrUpdate != nil {
		return nil, r.ErrUpdate
	}
	rm, ok := r.docs[id]
	if !ok {
		return nil, nil
	}
	patch.Apply(rm)
	return cloneRoom(rm), nil
}

func (r *MemRoomRepo) SetStaffForBuilding(
	_ context.Context,
	buildingID primitive.ObjectID,
	staff []models.StaffMember,
) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ErrSetStaff != nil {
		return 0, r.ErrSetStaff
	}
	var n int64
	for _, rm := range r.docs {
		if rm.BuildingID == buildingID {
			rm.Staff = models.CloneStaff(staff)
			n++
		}
	}
	return n, nil
}

func (r *MemRoomRepo) UpdateAll(_ context.Context, patch models.RoomPatch) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ErrUpdateAll != nil {
		return 0, r.ErrUpdateAll
	}
	var n int64
	for _, rm := range r.docs {
		patch.Apply(rm)
		n++
	}
	return n, nil
}

func (r *MemRoomRepo) Delete(_ context.Context, id primitive.ObjectID) (*models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ErrDelete != nil {
		return nil, r.ErrDelete
	}
	rm, ok := r.docs[id]
	if !ok {
		return nil, nil
	}
	delete(r.docs, id)
	delete(r.seq, id)
	return rm, nil
}

func (r *MemRoomRepo) EnsureIndexes(context.Context) error { return nil }

// All returns every stored room in insertion order.
func (r *MemRoomRepo) All() []*models.Room {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Room, 0, len(r.docs))
	for _, rm := range r.docs {
		out = append(out, cloneRoom(rm))
	}
	sort.Slice(out, func(i, j int) bool { return r.seq[out[i].ID] < r.seq[out[j].ID] })
	return out
}

func (r *MemRoomRepo) sortedLocked(buildingID primitive.ObjectID) []*models.Room {
	out := []*models.Room{}
	for _, rm := range r.docs {
		if rm.BuildingID == buildingID {
			out = append(out, cloneRoom(rm))
		}
	}
	sort.Slice(out, func(i, j int) bool { return r.seq[out[i].ID] < r.seq[out[j].ID] })
	return out
}

func cloneRoom(rm *models.Room) *models.Room {
	cp := *rm
	cp.Checklist = append([]string{}, rm.Checklist...)
	cp.MissingItems = append([]string{}, rm.MissingItems...)
	cp.Staff = models.CloneStaff(rm.Staff)
	if rm.Active != nil {
		v := *rm.Active
		cp.Active = &v
	}
	return &cp
}
