package availability

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
)

func TestWeekKey(t *testing.T) {
	id := uuid.MustParse("7b0b6f0e-3f77-4a39-a3f6-3c2f0b9d7f10")
	assert.Equal(t, "availability:week:7b0b6f0e-3f77-4a39-a3f6-3c2f0b9d7f10:2962", weekKey(id, 2962))
}

func TestEncodeDecodeWeek(t *testing.T) {
	week := domain.WeekAvailability{
		"Mon-09:00": domain.ModeOnsite,
		"Tue-10:00": domain.ModeUnavailable,
	}

	data, err := encodeWeek(week)
	require.NoError(t, err)

	decoded, err := decodeWeek(data)
	require.NoError(t, err)
	assert.Equal(t, week, decoded)

	_, err = decodeWeek([]byte(`{"Mon-09:00":"hybrid"}`))
	assert.ErrorIs(t, err, domain.ErrInvalidMode)
}

func TestNopCache_AlwaysMisses(t *testing.T) {
	var c NopCache
	ctx := context.Background()

	stored, err := c.Set(ctx, uuid.New(), 1, domain.WeekAvailability{"Mon-09:00": domain.ModeOnsite}, 0)
	require.NoError(t, err)
	assert.False(t, stored)
	_, _, found, err := c.Get(ctx, uuid.New(), 1)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, c.Invalidate(ctx, uuid.New(), 1))
}

func newRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client, 5*time.Minute), mr
}

func TestRedisCache_ReadThrough(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()
	provider := uuid.New()
	week := domain.WeekAvailability{"Wed-14:00": domain.ModeRemote}

	_, version, found, err := c.Get(ctx, provider, 2962)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, int64(0), version)

	stored, err := c.Set(ctx, provider, 2962, week, version)
	require.NoError(t, err)
	assert.True(t, stored)
	assert.Equal(t, 5*time.Minute, mr.TTL(weekKey(provider, 2962)))

	cached, _, found, err := c.Get(ctx, provider, 2962)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, week, cached)
}

func TestRedisCache_SetAfterInvalidateIsDropped(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()
	provider := uuid.New()

	// читатель промахнулся и пошел в БД
	_, version, _, err := c.Get(ctx, provider, 2962)
	require.NoError(t, err)

	// тем временем преподаватель поменял неделю
	require.NoError(t, c.Invalidate(ctx, provider, 2962))

	stored, err := c.Set(ctx, provider, 2962, domain.WeekAvailability{"Mon-09:00": domain.ModeOnsite}, version)
	require.NoError(t, err)
	assert.False(t, stored)
	assert.False(t, mr.Exists(weekKey(provider, 2962)))
	assert.Greater(t, mr.TTL(versionKey(provider, 2962)), time.Duration(0))

	// следующий промах видит новую версию и кладет неделю
	_, version, found, err := c.Get(ctx, provider, 2962)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, int64(1), version)

	stored, err = c.Set(ctx, provider, 2962, domain.WeekAvailability{"Mon-09:00": domain.ModeRemote}, version)
	require.NoError(t, err)
	assert.True(t, stored)
}

func TestRedisCache_InvalidateDropsCachedWeek(t *testing.T) {
	c, _ := newRedisCache(t)
	ctx := context.Background()
	provider := uuid.New()

	_, err := c.Set(ctx, provider, 7, domain.WeekAvailability{"Mon-09:00": domain.ModeOnsite}, 0)
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx, provider, 7))

	_, _, found, err := c.Get(ctx, provider, 7)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCache_Unavailable(t *testing.T) {
	c, mr := newRedisCache(t)
	mr.Close()

	_, _, _, err := c.Get(context.Background(), uuid.New(), 1)
	assert.ErrorIs(t, err, ErrCache)
}
