package repositories

import (
	"context"
	"time"

	"github.com/KiwiStays/KiwiOps/backend/shared/go-models"
	"github.com/KiwiStays/KiwiOps/backend/shared/go-utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/* ------------------------------------------------------------------
   Public interface
------------------------------------------------------------------ */

type PropertyRepository interface {
	Create(ctx context.Context, p *models.Property) error

	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error)
	List(ctx context.Context, placeName string) ([]*models.Property, error)

	Update(ctx context.Context, p *models.Property) error
	PullUnit(ctx context.Context, id primitive.ObjectID, houseNumber string) (*models.Property, error)

	EnsureIndexes(ctx context.Context) error
}

/* ------------------------------------------------------------------
   Implementation
------------------------------------------------------------------ */

type propertyRepo struct {
	*BaseMongoRepo[models.Property]
	coll *mongo.Collection
}

func NewPropertyRepository(db *mongo.Database) PropertyRepository {
	coll := db.Collection(PropertiesCollection)
	return &propertyRepo{
		BaseMongoRepo: NewBaseMongoRepo[models.Property](coll),
		coll:          coll,
	}
}

func (r *propertyRepo) Create(ctx context.Context, p *models.Property) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, p)
	return err
}

func (r *propertyRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	return r.findByID(ctx, id)
}

// List returns every property, or only those with the given placeName when
// it is non-empty, oldest first.
func (r *propertyRepo) List(ctx context.Context, placeName string) ([]*models.Property, error) {
	filter := bson.M{}
	if placeName != "" {
		filter["placeName"] = placeName
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	return r.find(ctx, filter, opts)
}

// Update replaces the stored document with p in one write.
func (r *propertyRepo) Update(ctx context.Context, p *models.Property) error {
	p.UpdatedAt = time.Now().UTC()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrNoRowsUpdated
	}
	return nil
}

// PullUnit removes every unit whose houseNumber matches and returns the
// updated property, or (nil, nil) when the property does not exist.
func (r *propertyRepo) PullUnit(ctx context.Context, id primitive.ObjectID, houseNumber string) (*models.Property, error) {
	update := bson.M{
		"$pull": bson.M{"units": bson.M{"houseNumber": houseNumber}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	return r.findOneAndUpdate(ctx, bson.M{"_id": id}, update)
}

func (r *propertyRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "placeName", Value: 1}},
	})
	return err
}
