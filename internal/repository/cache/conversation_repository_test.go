package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"interview-rag-be/pkg/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTTL = 500 * time.Second

func newTestRepo(t *testing.T) (*ConversationRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewConversationRepository(client, testTTL), mr
}

func TestConversationRepository_PreservesAppendOrder(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	want := []store.Turn{
		store.NewTurn("What is his email?", "john@example.com"),
		store.NewTurn("Book an interview", "Please provide the missing fields: date,time"),
		{UserQuery: "hello", AssistantReply: nil},
	}
	for _, turn := range want {
		require.NoError(t, repo.Append(ctx, "s1", turn))
	}

	got, err := repo.ReadAll(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestConversationRepository_UnknownSessionIsEmpty(t *testing.T) {
	repo, _ := newTestRepo(t)

	got, err := repo.ReadAll(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestConversationRepository_SessionsAreIsolated(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, "a", store.NewTurn("qa", "ra")))
	require.NoError(t, repo.Append(ctx, "b", store.NewTurn("qb", "rb")))

	a, err := repo.ReadAll(ctx, "a")
	require.NoError(t, err)
	require.Len(t, a, 1)
	assert.Equal(t, "qa", a[0].UserQuery)
}

func TestConversationRepository_TTLRefreshedOnReadAndWrite(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()
	key := store.SessionKey("s1")

	require.NoError(t, repo.Append(ctx, "s1", store.NewTurn("q1", "r1")))
	assert.Equal(t, testTTL, mr.TTL(key))

	mr.FastForward(400 * time.Second)
	_, err := repo.ReadAll(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, testTTL, mr.TTL(key), "read should refresh ttl")

	mr.FastForward(400 * time.Second)
	require.NoError(t, repo.Append(ctx, "s1", store.NewTurn("q2", "r2")))
	assert.Equal(t, testTTL, mr.TTL(key), "write should refresh ttl")

	got, err := repo.ReadAll(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestConversationRepository_ExpiresAfterIdleTTL(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, "s1", store.NewTurn("q1", "r1")))
	mr.FastForward(testTTL + time.Second)

	got, err := repo.ReadAll(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestConversationRepository_ConcurrentAppendsAreNotLost(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	const n = 40
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, repo.Append(ctx, "s1", store.NewTurn(fmt.Sprintf("q%d", i), "r")))
		}(i)
	}
	wg.Wait()

	got, err := repo.ReadAll(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, got, n)
}

func TestConversationRepository_UnreachableRedis(t *testing.T) {
	repo, mr := newTestRepo(t)
	mr.Close()

	err := repo.Append(context.Background(), "s1", store.NewTurn("q", "r"))
	assert.Error(t, err)

	_, err = repo.ReadAll(context.Background(), "s1")
	assert.Error(t, err)
}
