package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/KiwiStays/KiwiOps/backend/services/housekeeping-service/internal/constants"
	internal_utils "github.com/KiwiStays/KiwiOps/backend/services/housekeeping-service/internal/utils"
	"github.com/KiwiStays/KiwiOps/backend/shared/go-models"
	"github.com/KiwiStays/KiwiOps/backend/shared/go-repositories"
	"github.com/KiwiStays/KiwiOps/backend/shared/go-utils"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UnitInput is a unit as submitted. ImageURL is the client's current image
// reference, if any.
type UnitInput struct {
	HouseNumber string
	HouseName   string
	ImageURL    string
}

// StaffInput is a staff entry as submitted.
type StaffInput struct {
	Name          string
	ProfileImgURL string
}

// PropertyInput carries a create or update request. Positional files pair
// with entries by order; keyed files (field[i]) name their entry and win
// over positional ones. On update a nil Units or Staff means the field was
// not sent and the stored list is kept.
type PropertyInput struct {
	PlaceName      string
	BuildingName   string
	UnitCount      int
	Units          []UnitInput
	Staff          []StaffInput
	BuildingPicURL string

	BuildingPic        *internal_utils.UploadedFile
	UnitImages         []*internal_utils.UploadedFile
	StaffImages        []*internal_utils.UploadedFile
	UnitImagesByIndex  map[int]*internal_utils.UploadedFile
	StaffImagesByIndex map[int]*internal_utils.UploadedFile
}

// SyncWarning reports a Property/Room write that failed after the Property
// itself was saved. Nothing is rolled back.
type SyncWarning struct {
	Step    string `json:"step"`
	Message string `json:"message"`
}

type PropertyResult struct {
	Property *models.Property
	Rooms    []*models.Room
	Warnings []SyncWarning
}

type PropertyService struct {
	propRepo repositories.PropertyRepository
	roomRepo repositories.RoomRepository
	media    *MediaService
}

func NewPropertyService(
	propRepo repositories.PropertyRepository,
	roomRepo repositories.RoomRepository,
	media *MediaService,
) *PropertyService {
	return &PropertyService{propRepo: propRepo, roomRepo: roomRepo, media: media}
}

/* ───────────── create ───────────── */

// Create saves a new Property and one Room per unit, in unit order.
func (s *PropertyService) Create(ctx context.Context, in PropertyInput) (*PropertyResult, error) {
	placeName := strings.TrimSpace(in.PlaceName)
	buildingName := strings.TrimSpace(in.BuildingName)
	if placeName == "" || buildingName == "" {
		return nil, fmt.Errorf("%w: placeName and buildingName are required", internal_utils.ErrValidation)
	}

	// Slot layout: [buildingPic, units..., staff...]
	slots := make([]MediaSlot, 0, 1+len(in.Units)+len(in.Staff))
	slots = append(slots, MediaSlot{ExistingURL: in.BuildingPicURL, File: in.BuildingPic})
	for i, u := range in.Units {
		slots = append(slots, MediaSlot{ExistingURL: u.ImageURL, File: pairedFile(i, in.UnitImages, in.UnitImagesByIndex)})
	}
	for i, st := range in.Staff {
		slots = append(slots, MediaSlot{ExistingURL: st.ProfileImgURL, File: pairedFile(i, in.StaffImages, in.StaffImagesByIndex)})
	}
	urls := s.media.ResolveAll(ctx, slots)

	p := &models.Property{
		PlaceName:    placeName,
		BuildingName: buildingName,
		BuildingPic:  urls[0],
		UnitCount:    declaredCount(in.UnitCount, len(in.Units)),
		Units:        buildUnits(in.Units, urls[1:1+len(in.Units)]),
		Staff:        buildStaff(in.Staff, urls[1+len(in.Units):]),
	}
	if err := s.propRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}

	logger := utils.Logger.WithFields(logrus.Fields{
		"property_id": p.GetID(),
		"request_id":  utils.RequestIDFromContext(ctx),
	})
	res := &PropertyResult{Property: p, Rooms: []*models.Room{}}

	rooms := make([]*models.Room, 0, len(p.Units))
	for _, u := range p.Units {
		rooms = append(rooms, models.NewRoomForUnit(p.ID, u, p.Staff))
	}
	if err := s.roomRepo.CreateMany(ctx, rooms); err != nil {
		logger.WithError(err).Error("Property saved but room insertion failed")
		res.Warnings = append(res.Warnings, SyncWarning{
			Step:    constants.SyncStepInsertRooms,
			Message: err.Error(),
		})
		return res, nil
	}
	res.Rooms = rooms
	logger.Infof("Created property with %d rooms", len(rooms))
	return res, nil
}

/* ───────────── update ───────────── */

// Update overwrites a Property's names and whichever of units and staff were
// sent. New units beyond the current room count get Rooms; sent staff is
// pushed to every Room of the Property.
func (s *PropertyService) Update(ctx context.Context, id primitive.ObjectID, in PropertyInput) (*PropertyResult, error) {
	p, err := s.propRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load property: %w", err)
	}
	if p == nil {
		return nil, internal_utils.ErrPropertyNotFound
	}

	p.PlaceName = strings.TrimSpace(in.PlaceName)
	p.BuildingName = strings.TrimSpace(in.BuildingName)

	// Building pic: new file > supplied URL > current.
	picFallback := in.BuildingPicURL
	if picFallback == "" {
		picFallback = p.BuildingPic
	}
	slots := []MediaSlot{{ExistingURL: picFallback, File: in.BuildingPic}}

	unitImages := newFileQueue(in.UnitImages)
	for i, u := range in.Units {
		slots = append(slots, s.updateSlot(u.ImageURL, i, in.UnitImagesByIndex, unitImages))
	}
	staffImages := newFileQueue(in.StaffImages)
	for i, st := range in.Staff {
		slots = append(slots, s.updateSlot(st.ProfileImgURL, i, in.StaffImagesByIndex, staffImages))
	}
	urls := s.media.ResolveAll(ctx, slots)

	p.BuildingPic = urls[0]
	if in.Units != nil {
		p.Units = buildUnits(in.Units, urls[1:1+len(in.Units)])
		p.UnitCount = declaredCount(in.UnitCount, len(in.Units))
	} else if in.UnitCount > 0 {
		p.UnitCount = in.UnitCount
	}
	if in.Staff != nil {
		p.Staff = buildStaff(in.Staff, urls[1+len(in.Units):])
	}

	logger := utils.Logger.WithFields(logrus.Fields{
		"property_id": p.GetID(),
		"request_id":  utils.RequestIDFromContext(ctx),
	})
	res := &PropertyResult{Property: p, Rooms: []*models.Room{}}

	// Room reconciliation races the property save; neither waits on the other.
	var (
		wg           sync.WaitGroup
		appended     = []*models.Room{}
		reconcileErr error
	)
	if in.Units != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			appended, reconcileErr = s.reconcileRooms(ctx, p.ID, p.Units, p.Staff)
		}()
	}

	saveErr := s.propRepo.Update(ctx, p)
	wg.Wait()

	if reconcileErr != nil {
		logger.WithError(reconcileErr).Error("Room reconciliation failed")
		res.Warnings = append(res.Warnings, SyncWarning{
			Step:    constants.SyncStepReconcileRooms,
			Message: reconcileErr.Error(),
		})
	} else {
		res.Rooms = appended
	}
	if saveErr != nil {
		if errors.Is(saveErr, utils.ErrNoRowsUpdated) {
			return nil, internal_utils.ErrPropertyNotFound
		}
		return nil, fmt.Errorf("save property: %w", saveErr)
	}

	if in.Staff != nil {
		n, err := s.roomRepo.SetStaffForBuilding(ctx, p.ID, p.Staff)
		if err != nil {
			logger.WithError(err).Error("Staff propagation to rooms failed")
			res.Warnings = append(res.Warnings, SyncWarning{
				Step:    constants.SyncStepPropagateStaff,
				Message: err.Error(),
			})
		} else {
			logger.Debugf("Propagated staff to %d rooms", n)
		}
	}

	logger.Infof("Updated property; %d rooms appended", len(res.Rooms))
	return res, nil
}

// updateSlot picks the file for entry i: a keyed file if one was sent,
// nothing if the current URL is already stored, else the next positional file.
func (s *PropertyService) updateSlot(
	currentURL string,
	i int,
	keyed map[int]*internal_utils.UploadedFile,
	queue *fileQueue,
) MediaSlot {
	if f, ok := keyed[i]; ok && f != nil {
		return MediaSlot{ExistingURL: currentURL, File: f}
	}
	if s.media.IsStored(currentURL) {
		return MediaSlot{ExistingURL: currentURL}
	}
	return MediaSlot{ExistingURL: currentURL, File: queue.next()}
}

// reconcileRooms appends one Room per unit whose index is at or beyond the
// current room count. Existing rooms are left alone.
func (s *PropertyService) reconcileRooms(
	ctx context.Context,
	buildingID primitive.ObjectID,
	units []models.Unit,
	staff []models.StaffMember,
) ([]*models.Room, error) {
	count, err := s.roomRepo.CountByBuildingID(ctx, buildingID)
	if err != nil {
		return nil, fmt.Errorf("count rooms: %w", err)
	}
	if int(count) >= len(units) {
		return []*models.Room{}, nil
	}

	rooms := make([]*models.Room, 0, len(units)-int(count))
	for _, u := range units[count:] {
		rooms = append(rooms, models.NewRoomForUnit(buildingID, u, staff))
	}
	if err := s.roomRepo.CreateMany(ctx, rooms); err != nil {
		return nil, fmt.Errorf("append rooms: %w", err)
	}
	return rooms, nil
}

/* ───────────── reads ───────────── */

func (s *PropertyService) GetProperty(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	p, err := s.propRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load property: %w", err)
	}
	if p == nil {
		return nil, internal_utils.ErrPropertyNotFound
	}
	return p, nil
}

// ListProperties returns all properties, or those of one place when
// placeName is non-empty.
func (s *PropertyService) ListProperties(ctx context.Context, placeName string) ([]*models.Property, error) {
	list, err := s.propRepo.List(ctx, strings.TrimSpace(placeName))
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	return list, nil
}

/* ───────────── helpers ───────────── */

type fileQueue struct {
	files []*internal_utils.UploadedFile
	pos   int
}

func newFileQueue(files []*internal_utils.UploadedFile) *fileQueue {
	return &fileQueue{files: files}
}

func (q *fileQueue) next() *internal_utils.UploadedFile {
	if q.pos >= len(q.files) {
		return nil
	}
	f := q.files[q.pos]
	q.pos++
	return f
}

func pairedFile(i int, positional []*internal_utils.UploadedFile, keyed map[int]*internal_utils.UploadedFile) *internal_utils.UploadedFile {
	if f, ok := keyed[i]; ok && f != nil {
		return f
	}
	if i < len(positional) {
		return positional[i]
	}
	return nil
}

func buildUnits(in []UnitInput, urls []string) []models.Unit {
	out := make([]models.Unit, len(in))
	for i, u := range in {
		out[i] = models.Unit{
			HouseNumber: strings.TrimSpace(u.HouseNumber),
			HouseName:   strings.TrimSpace(u.HouseName),
			Image:       urls[i],
		}
	}
	return out
}

func buildStaff(in []StaffInput, urls []string) []models.StaffMember {
	out := make([]models.StaffMember, len(in))
	for i, st := range in {
		out[i] = models.StaffMember{Name: strings.TrimSpace(st.Name), ProfileImg: urls[i]}
	}
	return out
}

func declaredCount(submitted, units int) int {
	if submitted <= 0 {
		return units
	}
	return submitted
}
