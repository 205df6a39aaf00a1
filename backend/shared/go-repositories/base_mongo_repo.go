package repositories

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	PropertiesCollection = "properties"
	RoomsCollection      = "rooms"
)

/*
BaseMongoRepo holds one collection and decodes documents into T. It gives
concrete repositories:

	• findByID(ctx, id)              -> (*T, nil) or (nil, nil) when absent
	• find(ctx, filter, opts)        -> all matches, decoded
	• findOneAndUpdate(ctx, f, u)    -> the document after the update
	• findOneAndDelete(ctx, f)       -> the document that was removed
*/
type BaseMongoRepo[T any] struct {
	coll *mongo.Collection
}

// NewBaseMongoRepo is called by concrete repositories.
func NewBaseMongoRepo[T any](coll *mongo.Collection) *BaseMongoRepo[T] {
	return &BaseMongoRepo[T]{coll: coll}
}

// -------------------------- helpers --------------------------

func (b *BaseMongoRepo[T]) findByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	return b.decodeOne(b.coll.FindOne(ctx, bson.M{"_id": id}))
}

func (b *BaseMongoRepo[T]) find(ctx context.Context, filter any, opts ...*options.FindOptions) ([]*T, error) {
	cur, err := b.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []*T{}
	for cur.Next(ctx) {
		var doc T
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, &doc)
	}
	return out, cur.Err()
}

func (b *BaseMongoRepo[T]) findOneAndUpdate(ctx context.Context, filter, update any) (*T, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	return b.decodeOne(b.coll.FindOneAndUpdate(ctx, filter, update, opts))
}

func (b *BaseMongoRepo[T]) findOneAndDelete(ctx context.Context, filter any) (*T, error) {
	return b.decodeOne(b.coll.FindOneAndDelete(ctx, filter))
}

func (b *BaseMongoRepo[T]) decodeOne(res *mongo.SingleResult) (*T, error) {
	var doc T
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}
