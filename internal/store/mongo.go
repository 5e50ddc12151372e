package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mbaumer/contactd/internal/contact"
)

// Mongo stores contacts in a MongoDB collection. The ULID id doubles as
// the document _id; because process-local ULIDs are monotonic, sorting by
// _id ascending reproduces insertion order.
type Mongo struct {
	coll *mongo.Collection
}

// NewMongo wraps the given collection as a contact store.
func NewMongo(coll *mongo.Collection) *Mongo {
	return &Mongo{coll: coll}
}

// Create inserts a new contact document and returns it.
func (s *Mongo) Create(ctx context.Context, name, email, phone string) (contact.Contact, error) {
	c := contact.Contact{
		ID:    contact.NewID(),
		Name:  name,
		Email: email,
		Phone: phone,
	}
	if _, err := s.coll.InsertOne(ctx, c); err != nil {
		return contact.Contact{}, fmt.Errorf("insert contact: %w", err)
	}
	return c, nil
}

// Get returns the contact with the given id or ErrNotFound.
func (s *Mongo) Get(ctx context.Context, id string) (contact.Contact, error) {
	var c contact.Contact
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return contact.Contact{}, ErrNotFound
	}
	if err != nil {
		return contact.Contact{}, fmt.Errorf("find contact: %w", err)
	}
	return c, nil
}

// List returns every contact sorted by _id, i.e. insertion order.
func (s *Mongo) List(ctx context.Context) ([]contact.Contact, error) {
	return s.find(ctx, bson.M{})
}

// Update applies the non-nil patch fields and returns the updated record.
func (s *Mongo) Update(ctx context.Context, id string, patch contact.Patch) (contact.Contact, error) {
	if patch.Empty() {
		return s.Get(ctx, id)
	}

	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.Phone != nil {
		set["phone"] = *patch.Phone
	}

	var c contact.Contact
	err := s.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return contact.Contact{}, ErrNotFound
	}
	if err != nil {
		return contact.Contact{}, fmt.Errorf("update contact: %w", err)
	}
	return c, nil
}

// Search matches the query case-insensitively against name and email.
func (s *Mongo) Search(ctx context.Context, query string) ([]contact.Contact, error) {
	if query == "" {
		return s.find(ctx, bson.M{})
	}

	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{"$or": []bson.M{
		{"name": pattern},
		{"email": pattern},
	}}
	return s.find(ctx, filter)
}

func (s *Mongo) find(ctx context.Context, filter bson.M) ([]contact.Contact, error) {
	cursor, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find contacts: %w", err)
	}
	defer cursor.Close(ctx)

	var contacts []contact.Contact
	if err := cursor.All(ctx, &contacts); err != nil {
		return nil, fmt.Errorf("decode contacts: %w", err)
	}
	return contacts, nil
}
