package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"civiclink/models"
)

const issuesNS = "civiclink.issues"

func toDoc(t *testing.T, v any) bson.D {
	t.Helper()
	raw, err := bson.Marshal(v)
	require.NoError(t, err)
	var d bson.D
	require.NoError(t, bson.Unmarshal(raw, &d))
	return d
}

func TestMongoIssueRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	created := time.Date(2024, 5, 31, 9, 0, 0, 0, time.UTC)

	mt.Run("get decodes issue", func(mt *mtest.T) {
		repo := NewMongoIssueRepository(mt.Coll)
		stored := sampleIssue("pune-8", created)
		stored.Version = 4
		_, _, err := stored.CastVote("u1", models.Down)
		require.NoError(mt, err)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, issuesNS, mtest.FirstBatch, toDoc(mt.T, stored)))

		got, err := repo.Get(ctx, "pune-8")
		require.NoError(mt, err)
		assert.Equal(mt, "pune-8", got.ID)
		assert.Equal(mt, int64(4), got.Version)
		assert.Equal(mt, models.Down, got.Votes.DirectionOf("u1"))
		assert.Equal(mt, -1, got.NetScore())
	})

	mt.Run("get missing", func(mt *mtest.T) {
		repo := NewMongoIssueRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, issuesNS, mtest.FirstBatch))

		_, err := repo.Get(ctx, "missing")
		assert.ErrorIs(mt, err, models.ErrNotFound)
	})

	mt.Run("list", func(mt *mtest.T) {
		repo := NewMongoIssueRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, issuesNS, mtest.FirstBatch,
			toDoc(mt.T, sampleIssue("b", created.Add(time.Hour))),
			toDoc(mt.T, sampleIssue("a", created)),
		))

		issues, err := repo.List(ctx)
		require.NoError(mt, err)
		require.Len(mt, issues, 2)
		assert.Equal(mt, "b", issues[0].ID)
	})

	mt.Run("insert sets version", func(mt *mtest.T) {
		repo := NewMongoIssueRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		issue := sampleIssue("new", created)
		require.NoError(mt, repo.Upsert(ctx, issue))
		assert.Equal(mt, int64(1), issue.Version)
	})

	mt.Run("insert duplicate conflicts", func(mt *mtest.T) {
		repo := NewMongoIssueRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		issue := sampleIssue("dup", created)
		err := repo.Upsert(ctx, issue)
		assert.ErrorIs(mt, err, models.ErrConflict)
		assert.Equal(mt, int64(0), issue.Version)
	})

	mt.Run("replace at matching version", func(mt *mtest.T) {
		repo := NewMongoIssueRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		issue := sampleIssue("pune-8", created)
		issue.Version = 2
		require.NoError(mt, repo.Upsert(ctx, issue))
		assert.Equal(mt, int64(3), issue.Version)
	})

	mt.Run("replace at stale version conflicts", func(mt *mtest.T) {
		repo := NewMongoIssueRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		issue := sampleIssue("pune-8", created)
		issue.Version = 2
		err := repo.Upsert(ctx, issue)
		assert.ErrorIs(mt, err, models.ErrConflict)
		assert.Equal(mt, int64(2), issue.Version)
	})
}

func TestMongoUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("duplicate email", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: civiclink.users index: email_1 dup key: { email: \"a@example.com\" }",
		}))

		err := repo.Create(ctx, &models.User{ID: "u1", Email: "a@example.com"})
		assert.ErrorIs(mt, err, models.ErrEmailTaken)
	})

	mt.Run("duplicate id", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: civiclink.users index: _id_ dup key: { _id: \"u1\" }",
		}))

		err := repo.Create(ctx, &models.User{ID: "u1", Email: "b@example.com"})
		assert.ErrorIs(mt, err, models.ErrConflict)
		assert.NotErrorIs(mt, err, models.ErrEmailTaken)
	})

	mt.Run("get by email", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.Coll)
		user := &models.User{ID: "u1", Name: "Saanvi Singh", Email: "saanvi@example.com", Role: models.RoleAdmin}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "civiclink.users", mtest.FirstBatch, toDoc(mt.T, user)))

		got, err := repo.GetByEmail(ctx, "saanvi@example.com")
		require.NoError(mt, err)
		assert.Equal(mt, models.RoleAdmin, got.Role)
	})
}
