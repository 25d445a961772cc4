package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/spec-kit/todo-service/internal/domain"
)

func TestMapMongoError(t *testing.T) {
	assert.NoError(t, mapMongoError(nil))
	assert.ErrorIs(t, mapMongoError(mongo.ErrNoDocuments), ErrNotFound)
	assert.ErrorIs(t, mapMongoError(fmt.Errorf("decode: %w", mongo.ErrNoDocuments)), ErrNotFound)

	duplicate := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}}}
	assert.ErrorIs(t, mapMongoError(duplicate), ErrDuplicateEmail)

	otherWrite := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 121, Message: "document failed validation"}}}
	assert.Equal(t, error(otherWrite), mapMongoError(otherWrite))

	other := errors.New("server selection timeout")
	assert.Equal(t, other, mapMongoError(other))
}

func TestUserDocument_PasswordHashOnlyWhenStored(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	// shape of a read made with the withoutPasswordHash projection
	raw, err := bson.Marshal(bson.D{
		{Key: "_id", Value: "u1"},
		{Key: "name", Value: "Ann"},
		{Key: "email", Value: "ann@example.com"},
		{Key: "created_at", Value: created},
		{Key: "updated_at", Value: created},
	})
	require.NoError(t, err)

	var doc userDocument
	require.NoError(t, bson.Unmarshal(raw, &doc))
	user := doc.toDomain()
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "ann@example.com", user.Email)
	assert.True(t, created.Equal(user.CreatedAt))
	assert.Empty(t, user.PasswordHash)

	withHash, err := bson.Marshal(userDocument{ID: "u1", Email: "ann@example.com", PasswordHash: "$2a$04$hash"})
	require.NoError(t, err)
	var stored userDocument
	require.NoError(t, bson.Unmarshal(withHash, &stored))
	assert.Equal(t, "$2a$04$hash", stored.toDomain().PasswordHash)
}

func TestWithoutPasswordHashProjection(t *testing.T) {
	require.Len(t, withoutPasswordHash, 1)
	assert.Equal(t, "password_hash", withoutPasswordHash[0].Key)
	assert.Equal(t, 0, withoutPasswordHash[0].Value)

	// the projected key must be the field the document stores the hash under
	raw, err := bson.Marshal(userDocument{ID: "u1", PasswordHash: "h"})
	require.NoError(t, err)
	_, err = bson.Raw(raw).LookupErr("password_hash")
	assert.NoError(t, err)
}

func TestTaskDocument_ToDomain(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	raw, err := bson.Marshal(taskDocument{
		ID:        "t1",
		UserID:    "u1",
		Title:     "buy milk",
		Status:    domain.TaskStatusCompleted,
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)
	_, err = bson.Raw(raw).LookupErr("user_id")
	require.NoError(t, err)

	var doc taskDocument
	require.NoError(t, bson.Unmarshal(raw, &doc))
	task := doc.toDomain()
	assert.Equal(t, "t1", task.ID)
	assert.Equal(t, "u1", task.UserID)
	assert.Equal(t, domain.TaskStatusCompleted, task.Status)
	assert.True(t, now.Equal(task.CreatedAt))
}

func TestOwnedTaskFilter(t *testing.T) {
	filter := ownedTask("u1", "t1")
	assert.Equal(t, bson.D{{Key: "_id", Value: "t1"}, {Key: "user_id", Value: "u1"}}, filter)
}
