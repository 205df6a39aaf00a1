package repositories

import (
	"context"
	"time"

	"github.com/KiwiStays/KiwiOps/backend/shared/go-models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/* ───────────── public interface ───────────── */

type RoomRepository interface {
	CreateMany(ctx context.Context, rooms []*models.Room) error

	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Room, error)
	ListByBuildingID(ctx context.Context, buildingID primitive.ObjectID) ([]*models.Room, error)
	CountByBuildingID(ctx context.Context, buildingID primitive.ObjectID) (int64, error)

	UpdateFields(ctx context.Context, id primitive.ObjectID, patch models.RoomPatch) (*models.Room, error)
	SetStaffForBuilding(ctx context.Context, buildingID primitive.ObjectID, staff []models.StaffMember) (int64, error)
	UpdateAll(ctx context.Context, patch models.RoomPatch) (int64, error)

	Delete(ctx context.Context, id primitive.ObjectID) (*models.Room, error)

	EnsureIndexes(ctx context.Context) error
}

/* ───────────── implementation ───────────── */

type roomRepo struct {
	*BaseMongoRepo[models.Room]
	coll *mongo.Collection
}

func NewRoomRepository(db *mongo.Database) RoomRepository {
	coll := db.Collection(RoomsCollection)
	return &roomRepo{
		BaseMongoRepo: NewBaseMongoRepo[models.Room](coll),
		coll:          coll,
	}
}

// CreateMany inserts rooms in slice order with a single InsertMany. IDs are
// assigned here so that ascending _id follows insertion order.
func (r *roomRepo) CreateMany(ctx context.Context, rooms []*models.Room) error {
	if len(rooms) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]any, 0, len(rooms))
	for _, rm := range rooms {
		if rm.ID.IsZero() {
			rm.ID = primitive.NewObjectID()
		}
		rm.CreatedAt = now
		rm.UpdatedAt = now
		docs = append(docs, rm)
	}
	_, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	return err
}

func (r *roomRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Room, error) {
	return r.findByID(ctx, id)
}

func (r *roomRepo) ListByBuildingID(ctx context.Context, buildingID primitive.ObjectID) ([]*models.Room, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	return r.find(ctx, bson.M{"buildingId": buildingID}, opts)
}

func (r *roomRepo) CountByBuildingID(ctx context.Context, buildingID primitive.ObjectID) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"buildingId": buildingID})
}

// UpdateFields applies patch with a single $set and returns the room after
// the write, or (nil, nil) if it does not exist.
func (r *roomRepo) UpdateFields(ctx context.Context, id primitive.ObjectID, patch models.RoomPatch) (*models.Room, error) {
	if patch.IsEmpty() {
		return r.findByID(ctx, id)
	}
	return r.findOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": patch.Fields()})
}

func (r *roomRepo) SetStaffForBuilding(
	ctx context.Context,
	buildingID primitive.ObjectID,
	staff []models.StaffMember,
) (int64, error) {
	res, err := r.coll.UpdateMany(ctx,
		bson.M{"buildingId": buildingID},
		bson.M{"$set": bson.M{"staff": models.CloneStaff(staff)}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// UpdateAll applies patch to every room in one UpdateMany.
func (r *roomRepo) UpdateAll(ctx context.Context, patch models.RoomPatch) (int64, error) {
	if patch.IsEmpty() {
		return 0, nil
	}
	res, err := r.coll.UpdateMany(ctx, bson.M{}, bson.M{"$set": patch.Fields()})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *roomRepo) Delete(ctx context.Context, id primitive.ObjectID) (*models.Room, error) {
	return r.findOneAndDelete(ctx, bson.M{"_id": id})
}

func (r *roomRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "buildingId", Value: 1}},
	})
	return err
}
