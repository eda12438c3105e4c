package history

import (
	"context"
	"errors"
	"github.com/amankumarsingh77/quickpress/internal/common/entities"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

// memList mimics a single Redis list with RPUSH/LTRIM/LRANGE semantics.
type memList struct {
	items   []string
	pushErr error
}

func (m *memList) RPush(_ context.Context, _ string, values ...interface{}) *redis.IntCmd {
	if m.pushErr != nil {
		return redis.NewIntResult(0, m.pushErr)
	}
	for _, v := range values {
		switch v := v.(type) {
		case []byte:
			m.items = append(m.items, string(v))
		case string:
			m.items = append(m.items, v)
		}
	}
	return redis.NewIntResult(int64(len(m.items)), nil)
}

func (m *memList) LTrim(_ context.Context, _ string, start, stop int64) *redis.StatusCmd {
	m.items = m.slice(start, stop)
	return redis.NewStatusResult("OK", nil)
}

func (m *memList) LRange(_ context.Context, _ string, start, stop int64) *redis.StringSliceCmd {
	return redis.NewStringSliceResult(m.slice(start, stop), nil)
}

func (m *memList) slice(start, stop int64) []string {
	n := int64(len(m.items))
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if start > stop {
		return nil
	}
	return append([]string(nil), m.items[start:stop+1]...)
}

func record(id string) entities.JobRecord {
	return entities.JobRecord{
		ID:           id,
		Source:       "/videos/" + id + ".mp4",
		TargetSizeMB: 8,
		Status:       entities.JobStatusCompleted,
		CreatedAt:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		FinishedAt:   time.Date(2024, 5, 1, 12, 1, 0, 0, time.UTC),
	}
}

func TestRedisRecorder_RecordAndRecent(t *testing.T) {
	store := &memList{}
	r := newRecorder(store, nil, "", 2)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, r.Record(ctx, record(id)))
	}
	assert.Len(t, store.items, 2, "history is trimmed to the limit")

	recs, err := r.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "b", recs[0].ID)
	assert.Equal(t, "c", recs[1].ID)
	assert.Equal(t, record("c"), recs[1])

	recs, err = r.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "c", recs[0].ID)
}

func TestRedisRecorder_SkipsUndecodable(t *testing.T) {
	store := &memList{items: []string{"not json"}}
	r := newRecorder(store, nil, DefaultKey, 0)
	require.NoError(t, r.Record(context.Background(), record("a")))

	recs, err := r.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "a", recs[0].ID)
}

func TestRedisRecorder_PushError(t *testing.T) {
	store := &memList{pushErr: errors.New("connection refused")}
	r := newRecorder(store, nil, DefaultKey, 10)
	err := r.Record(context.Background(), record("a"))
	assert.ErrorContains(t, err, "connection refused")
}

func TestNewRedisRecorder_BadURL(t *testing.T) {
	_, err := NewRedisRecorder(context.Background(), "http://not-redis", DefaultKey, 10)
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	assert.NoError(t, r.Record(context.Background(), record("a")))
	recs, err := r.Recent(context.Background(), 3)
	assert.NoError(t, err)
	assert.Empty(t, recs)
	assert.NoError(t, r.Close())
}
