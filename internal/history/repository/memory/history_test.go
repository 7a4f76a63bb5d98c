package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyber-doctor/internal/history"
	"cyber-doctor/internal/model"
)

func TestAppendTrimsToMaxTurns(t *testing.T) {
	repo := New(10, 2, time.Hour)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, repo.Append(ctx, "s", model.Turn{User: fmt.Sprint(i)}))
	}
	turns, err := repo.List(ctx, "s", 0)
	require.NoError(t, err)
	assert.Equal(t, []model.Turn{{User: "2"}, {User: "3"}}, turns)

	turns, err = repo.List(ctx, "s", 1)
	require.NoError(t, err)
	assert.Equal(t, []model.Turn{{User: "3"}}, turns)
}

func TestSessionsExpire(t *testing.T) {
	repo := New(10, 5, 20*time.Millisecond)
	ctx := context.Background()
	require.NoError(t, repo.Append(ctx, "s", model.Turn{User: "q"}))

	assert.Eventually(t, func() bool {
		turns, _ := repo.List(ctx, "s", 0)
		return len(turns) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestLeastRecentlyUsedEvicted(t *testing.T) {
	repo := New(1, 5, time.Hour)
	ctx := context.Background()
	require.NoError(t, repo.Append(ctx, "a", model.Turn{User: "q"}))
	require.NoError(t, repo.Append(ctx, "b", model.Turn{User: "q"}))

	turns, err := repo.List(ctx, "a", 0)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestConcurrentAppend(t *testing.T) {
	repo := New(10, 100, time.Hour)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.Append(ctx, "s", model.Turn{User: "q"})
		}()
	}
	wg.Wait()

	turns, err := repo.List(ctx, "s", 0)
	require.NoError(t, err)
	assert.Len(t, turns, 50)
}

func TestClearAndEmptySession(t *testing.T) {
	repo := New(10, 5, time.Hour)
	ctx := context.Background()
	require.NoError(t, repo.Append(ctx, "s", model.Turn{User: "q"}))
	require.NoError(t, repo.Clear(ctx, "s"))

	turns, err := repo.List(ctx, "s", 0)
	require.NoError(t, err)
	assert.Empty(t, turns)
	assert.ErrorIs(t, repo.Clear(ctx, ""), history.ErrEmptySession)
}
