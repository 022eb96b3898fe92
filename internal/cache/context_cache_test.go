package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"alcyxob/fitcoach/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleContext() *domain.UserContext {
	now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	uc := domain.NewUserContext("owner-1", now, domain.TimeRange{Start: now.AddDate(0, 0, -30), End: now})
	uc.Profile.Goals = []string{"Lose Weight"}
	uc.Progress.GoalProgress["Lose Weight"] = 42
	return uc
}

func TestGetHit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()
	uc := sampleContext()
	data, err := json.Marshal(uc)
	require.NoError(t, err)

	mock.ExpectGet("fitcoach:ctx:owner-1:version").SetVal("2")
	mock.ExpectGet("fitcoach:ctx:owner-1:v2:plan_generation").SetVal(string(data))

	got, version, ok, err := NewRedisContextCache(db, time.Minute).Get(ctx, "owner-1", "plan_generation")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(2), version)
	assert.Equal(t, []string{"Lose Weight"}, got.Profile.Goals)
	assert.Equal(t, 42.0, got.Progress.GoalProgress["Lose Weight"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMiss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectGet("fitcoach:ctx:owner-1:version").RedisNil()
	mock.ExpectGet("fitcoach:ctx:owner-1:v0:trainer_question").RedisNil()

	got, version, ok, err := NewRedisContextCache(db, time.Minute).Get(context.Background(), "owner-1", "trainer_question")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, version)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectGet("fitcoach:ctx:owner-1:version").SetErr(assert.AnError)

	_, _, ok, err := NewRedisContextCache(db, time.Minute).Get(context.Background(), "owner-1", "progress_review")

	assert.ErrorIs(t, err, assert.AnError)
	assert.False(t, ok)
}

func TestSetUsesVersionedKey(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ttl := 5 * time.Minute

	mock.Regexp().ExpectSet("fitcoach:ctx:owner-1:v4:plan_generation", `.*`, ttl).SetVal("OK")

	err := NewRedisContextCache(db, ttl).Set(context.Background(), "owner-1", "plan_generation", 4, sampleContext())

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidate(t *testing.T) {
	db, mock := redismock.NewClientMock()

	mock.ExpectIncr("fitcoach:ctx:owner-1:version").SetVal(1)

	err := NewRedisContextCache(db, time.Minute).Invalidate(context.Background(), "owner-1")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A snapshot built before an Invalidate is written under the old version and never read.
func TestSetAfterInvalidateIsNotServed(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()
	c := NewRedisContextCache(db, time.Minute)

	mock.ExpectGet("fitcoach:ctx:owner-1:version").SetVal("1")
	mock.ExpectGet("fitcoach:ctx:owner-1:v1:plan_generation").RedisNil()
	mock.ExpectIncr("fitcoach:ctx:owner-1:version").SetVal(2)
	mock.Regexp().ExpectSet("fitcoach:ctx:owner-1:v1:plan_generation", `.*`, time.Minute).SetVal("OK")
	mock.ExpectGet("fitcoach:ctx:owner-1:version").SetVal("2")
	mock.ExpectGet("fitcoach:ctx:owner-1:v2:plan_generation").RedisNil()

	_, version, _, err := c.Get(ctx, "owner-1", "plan_generation")
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx, "owner-1"))
	require.NoError(t, c.Set(ctx, "owner-1", "plan_generation", version, sampleContext()))

	_, _, ok, err := c.Get(ctx, "owner-1", "plan_generation")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoop(t *testing.T) {
	var c ContextCache = Noop{}
	_, _, ok, err := c.Get(context.Background(), "o", "k")
	assert.False(t, ok)
	assert.NoError(t, err)
	assert.NoError(t, c.Set(context.Background(), "o", "k", 0, sampleContext()))
	assert.NoError(t, c.Invalidate(context.Background(), "o"))
}
