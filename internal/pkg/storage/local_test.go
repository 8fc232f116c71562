package storage

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_PutOpen(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/reports/archive/")
	require.NoError(t, err)

	key := ArchiveKey(time.Date(2024, 4, 18, 10, 0, 0, 0, time.UTC), "m5", "attendance-report-2024-04-01-2024-04-30.csv")
	assert.Equal(t, "2024/04/18/m5/attendance-report-2024-04-01-2024-04-30.csv", key)

	stored, err := s.Put(ctx, key, []byte("a,b\n"))
	require.NoError(t, err)
	assert.Equal(t, key, stored)

	ok, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := s.Open(ctx, key)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(data))

	assert.Equal(t, "http://localhost:8080/reports/archive/"+key, s.URL(key))
}

func TestArchiveOwner(t *testing.T) {
	owner, ok := ArchiveOwner("2024/04/18/a1/report.csv")
	assert.True(t, ok)
	assert.Equal(t, "a1", owner)

	for _, key := range []string{"2024/04/18/report.csv", "2024/04/18//report.csv", "a1/report.csv", "2024/04/18/a1/x/report.csv"} {
		_, ok := ArchiveOwner(key)
		assert.False(t, ok, key)
	}
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	_, err = s.Put(context.Background(), "../escape.csv", []byte("x"))
	assert.Error(t, err)

	ok, err := s.Exists(context.Background(), "missing.csv")
	require.NoError(t, err)
	assert.False(t, ok)
}
