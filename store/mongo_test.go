package store

import (
	"context"
	"errors"
	"testing"

	"github.com/dcode-github/property_listing_api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const mockDB = "property_listing"

func seqResponse(name string, seq int64) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
		{Key: "_id", Value: name},
		{Key: "seq", Value: seq},
	}})
}

func emptyCursor(coll string) bson.D {
	return mtest.CreateCursorResponse(0, mockDB+"."+coll, mtest.FirstBatch)
}

func duplicateKey() bson.D {
	return mtest.CreateWriteErrorsResponse(mtest.WriteError{
		Index:   0,
		Code:    11000,
		Message: "E11000 duplicate key error collection: property_listing.users index: uniq_email",
	})
}

func TestMongoUserStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create takes the next sequence id", func(mt *mtest.T) {
		s := NewMongo(mt.Client, mockDB)
		mt.AddMockResponses(seqResponse(usersCollection, 7), mtest.CreateSuccessResponse())

		u := &models.User{Email: "a@example.com", Phone: "555-0001", Role: models.RoleMember}
		require.NoError(mt, s.Users().Create(context.Background(), u))
		assert.Equal(mt, uint(7), u.ID)
		assert.False(mt, u.CreatedAt.IsZero())

		assert.Equal(mt, "findAndModify", mt.GetStartedEvent().CommandName)
		assert.Equal(mt, "insert", mt.GetStartedEvent().CommandName)
	})

	mt.Run("duplicate key is ErrDuplicate", func(mt *mtest.T) {
		s := NewMongo(mt.Client, mockDB)
		mt.AddMockResponses(seqResponse(usersCollection, 2), duplicateKey())

		u := &models.User{Email: "a@example.com", Phone: "555-0001", Role: models.RoleMember}
		err := s.Users().Create(context.Background(), u)
		assert.ErrorIs(mt, err, ErrDuplicate)
		assert.Zero(mt, u.ID)
	})

	mt.Run("empty cursor is ErrNotFound", func(mt *mtest.T) {
		s := NewMongo(mt.Client, mockDB)
		mt.AddMockResponses(emptyCursor(usersCollection))

		_, err := s.Users().FindByEmail(context.Background(), "ghost@example.com")
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("find decodes the stored user", func(mt *mtest.T) {
		s := NewMongo(mt.Client, mockDB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mockDB+"."+usersCollection, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: int64(3)},
			{Key: "email", Value: "a@example.com"},
			{Key: "phone", Value: "555-0001"},
			{Key: "role", Value: "admin"},
		}))

		u, err := s.Users().FindByID(context.Background(), 3)
		require.NoError(mt, err)
		assert.Equal(mt, uint(3), u.ID)
		assert.Equal(mt, models.RoleAdmin, u.Role)
	})
}

func TestMongoPropertyStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("missing owner is rejected before any write", func(mt *mtest.T) {
		s := NewMongo(mt.Client, mockDB)
		mt.AddMockResponses(emptyCursor(usersCollection))

		p := &models.Property{Name: "Ghost", UserID: 42}
		err := s.Properties().Create(context.Background(), p)
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "owner 42 does not exist")
		assert.Zero(mt, p.ID)

		assert.Equal(mt, "find", mt.GetStartedEvent().CommandName)
		assert.Nil(mt, mt.GetStartedEvent(), "no sequence or insert after the owner check")
	})

	mt.Run("create with existing owner", func(mt *mtest.T) {
		s := NewMongo(mt.Client, mockDB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, mockDB+"."+usersCollection, mtest.FirstBatch, bson.D{{Key: "_id", Value: int64(1)}}),
			seqResponse(propertiesCollection, 1),
			mtest.CreateSuccessResponse(),
		)

		p := &models.Property{Name: "House", UserID: 1, IsActive: true}
		require.NoError(mt, s.Properties().Create(context.Background(), p))
		assert.Equal(mt, uint(1), p.ID)
	})

	mt.Run("empty list is a non-nil slice", func(mt *mtest.T) {
		s := NewMongo(mt.Client, mockDB)
		mt.AddMockResponses(emptyCursor(propertiesCollection))

		all, err := s.Properties().List(context.Background())
		require.NoError(mt, err)
		assert.NotNil(mt, all)
		assert.Empty(mt, all)
	})

	mt.Run("missing property is ErrNotFound", func(mt *mtest.T) {
		s := NewMongo(mt.Client, mockDB)
		mt.AddMockResponses(emptyCursor(propertiesCollection))

		_, err := s.Properties().FindByID(context.Background(), 9)
		assert.ErrorIs(mt, err, ErrNotFound)
	})
}

func TestMongoMigrateCreatesUniqueIndexes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("indexes", func(mt *mtest.T) {
		s := NewMongo(mt.Client, mockDB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(), mtest.CreateSuccessResponse())
		require.NoError(mt, s.Migrate(context.Background()))

		users := mt.GetStartedEvent()
		require.NotNil(mt, users)
		assert.Equal(mt, "createIndexes", users.CommandName)
		assert.Equal(mt, usersCollection, users.Command.Lookup("createIndexes").StringValue())

		indexes, err := users.Command.Lookup("indexes").Array().Values()
		require.NoError(mt, err)
		require.Len(mt, indexes, 2)
		for _, idx := range indexes {
			assert.True(mt, idx.Document().Lookup("unique").Boolean())
		}

		props := mt.GetStartedEvent()
		require.NotNil(mt, props)
		assert.Equal(mt, propertiesCollection, props.Command.Lookup("createIndexes").StringValue())
	})
}

func TestTranslateMongo(t *testing.T) {
	assert.NoError(t, translateMongo(nil))
	other := errors.New("socket closed")
	assert.Equal(t, other, translateMongo(other))
}
