package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dcode-github/property_listing_api/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection      = "users"
	propertiesCollection = "properties"
	countersCollection   = "counters"
)

type MongoStore struct {
	client     *mongo.Client
	db         *mongo.Database
	users      *mongoUserStore
	properties *mongoPropertyStore
}

func NewMongo(client *mongo.Client, dbName string) *MongoStore {
	db := client.Database(dbName)
	seq := &sequence{coll: db.Collection(countersCollection)}
	return &MongoStore{
		client:     client,
		db:         db,
		users:      &mongoUserStore{coll: db.Collection(usersCollection), seq: seq},
		properties: &mongoPropertyStore{coll: db.Collection(propertiesCollection), users: db.Collection(usersCollection), seq: seq},
	}
}

func (s *MongoStore) Users() UserStore          { return s.users }
func (s *MongoStore) Properties() PropertyStore { return s.properties }

// Migrate creates the unique indexes that carry the email/phone invariants.
func (s *MongoStore) Migrate(ctx context.Context) error {
	_, err := s.db.Collection(usersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_email")},
		{Keys: bson.D{{Key: "phone", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_phone")},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	_, err = s.db.Collection(propertiesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create property indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func translateMongo(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}

// sequence hands out integer ids so both backends expose the same numeric identity.
type sequence struct{ coll *mongo.Collection }

func (s *sequence) next(ctx context.Context, name string) (uint, error) {
	var out struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": name}, bson.M{"$inc": bson.M{"seq": 1}}, opts).Decode(&out)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", name, err)
	}
	return uint(out.Seq), nil
}

type mongoUserStore struct {
	coll *mongo.Collection
	seq  *sequence
}

func (r *mongoUserStore) Create(ctx context.Context, u *models.User) error {
	id, err := r.seq.next(ctx, usersCollection)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	u.ID, u.CreatedAt, u.UpdatedAt = id, now, now
	if _, err := r.coll.InsertOne(ctx, u); err != nil {
		u.ID = 0
		return translateMongo(err)
	}
	return nil
}

func (r *mongoUserStore) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoUserStore) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"phone": phone})
}

func (r *mongoUserStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := r.coll.FindOne(ctx, filter).Decode(&u); err != nil {
		return nil, translateMongo(err)
	}
	return &u, nil
}

func (r *mongoUserStore) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	return n, translateMongo(err)
}

type mongoPropertyStore struct {
	coll  *mongo.Collection
	users *mongo.Collection
	seq   *sequence
}

func (r *mongoPropertyStore) Create(ctx context.Context, p *models.Property) error {
	// mongo has no foreign keys; check the owner the way the relational backend would.
	if err := r.users.FindOne(ctx, bson.M{"_id": p.UserID}).Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("owner %d does not exist", p.UserID)
		}
		return err
	}

	id, err := r.seq.next(ctx, propertiesCollection)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	p.ID, p.CreatedAt, p.UpdatedAt = id, now, now
	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		p.ID = 0
		return translateMongo(err)
	}
	return nil
}

func (r *mongoPropertyStore) FindByID(ctx context.Context, id uint) (*models.Property, error) {
	var p models.Property
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, translateMongo(err)
	}
	return &p, nil
}

func (r *mongoPropertyStore) List(ctx context.Context) ([]models.Property, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, translateMongo(err)
	}
	defer cursor.Close(ctx)

	properties := []models.Property{}
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, fmt.Errorf("decode properties: %w", err)
	}
	return properties, nil
}
