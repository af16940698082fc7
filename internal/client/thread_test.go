package client_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/flyingcat/commentgateway/internal/client"
	"github.com/flyingcat/commentgateway/internal/model"
)

func ptr(s string) *string { return &s }

func TestBuildThreadsPartition(t *testing.T) {
	now := time.Now().UTC()
	comments := []model.Comment{
		{Id: "t1", CreatedAt: now},
		{Id: "r1", ParentId: ptr("t1"), CreatedAt: now.Add(1 * time.Minute)},
		{Id: "t2", CreatedAt: now.Add(2 * time.Minute)},
		{Id: "r2", ParentId: ptr("t1"), CreatedAt: now.Add(3 * time.Minute)},
		{Id: "r3", ParentId: ptr("t2"), CreatedAt: now.Add(4 * time.Minute)},
	}

	threads := client.BuildThreads(comments)
	require.Len(t, threads, 2)

	require.Equal(t, "t1", threads[0].Root.Id)
	require.Len(t, threads[0].Replies, 2)
	require.Equal(t, "r1", threads[0].Replies[0].Id, "reply buckets preserve fetch order")
	require.Equal(t, "r2", threads[0].Replies[1].Id)

	require.Equal(t, "t2", threads[1].Root.Id)
	require.Len(t, threads[1].Replies, 1)

	// every reply sits in exactly one bucket and never in the top level
	for _, thread := range threads {
		require.Nil(t, thread.Root.ParentId)
		for _, reply := range thread.Replies {
			require.Equal(t, thread.Root.Id, *reply.ParentId)
		}
	}
}

func TestBuildThreadsDropsOrphans(t *testing.T) {
	now := time.Now().UTC()
	comments := []model.Comment{
		{Id: "t1", CreatedAt: now},
		{Id: "r1", ParentId: ptr("t1"), CreatedAt: now.Add(time.Minute)},
		// parent is itself a reply: stale data the gateway now rejects
		{Id: "deep", ParentId: ptr("r1"), CreatedAt: now.Add(2 * time.Minute)},
		// parent never fetched
		{Id: "lost", ParentId: ptr("gone"), CreatedAt: now.Add(3 * time.Minute)},
	}

	threads := client.BuildThreads(comments)
	require.Len(t, threads, 1)
	require.Len(t, threads[0].Replies, 1)
	require.Equal(t, "r1", threads[0].Replies[0].Id)
}

func TestRenderEmptyState(t *testing.T) {
	c := client.New(nil, "/p", client.Options{Locale: "zh"})

	view := c.Render([]model.Comment{})
	require.True(t, view.Empty)
	require.NotEmpty(t, view.EmptyMessage)
	require.Empty(t, view.Threads)
}
