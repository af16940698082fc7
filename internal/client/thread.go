package client

import (
	"github.com/flyingcat/commentgateway/internal/model"
)

// Thread is one top-level comment with its reply bucket in fetch order.
type Thread struct {
	Root    model.Comment
	Replies []model.Comment
}

// View is the render-ready shape of a comment list: either the localized
// empty placeholder or the two-level thread structure.
type View struct {
	Empty        bool
	EmptyMessage string
	Threads      []Thread
}

// BuildThreads partitions comments into top-level threads with per-parent
// reply buckets. Replies whose parent is missing or is itself a reply are
// dropped; the gateway rejects those at write time, so they only appear in
// stale data.
func BuildThreads(comments []model.Comment) []Thread {
	buckets := make(map[string][]model.Comment)
	threads := make([]Thread, 0)

	for _, comment := range comments {
		if comment.IsReply() {
			buckets[*comment.ParentId] = append(buckets[*comment.ParentId], comment)
			continue
		}
		threads = append(threads, Thread{Root: comment})
	}

	for i := range threads {
		threads[i].Replies = buckets[threads[i].Root.Id]
	}

	return threads
}

// Render builds the view for the current locale without refetching.
func (c *Client) Render(comments []model.Comment) View {
	if len(comments) == 0 {
		return View{
			Empty:        true,
			EmptyMessage: c.Messages().EmptyState,
		}
	}

	return View{Threads: BuildThreads(comments)}
}
