package client

const defaultLocale = "en"

// Messages holds every user-facing string of the comment form for one
// locale.
type Messages struct {
	NamePlaceholder    string
	ContentPlaceholder string
	PostButton         string
	PostingButton      string
	ReplyButton        string
	EmptyState         string
}

var bundles = map[string]Messages{
	"en": {
		NamePlaceholder:    "Your name",
		ContentPlaceholder: "Leave a comment...",
		PostButton:         "Post",
		PostingButton:      "...",
		ReplyButton:        "Reply",
		EmptyState:         "No comments yet. Be the first!",
	},
	"zh": {
		NamePlaceholder:    "你的名字",
		ContentPlaceholder: "写下你的评论...",
		PostButton:         "发表评论",
		PostingButton:      "...",
		ReplyButton:        "回复",
		EmptyState:         "还没有评论，来做第一个吧！",
	},
}

func (c *Client) Locale() string {
	return c.locale
}

// SetLocale switches the active locale; unknown locales fall back to the
// default. The data already on screen is re-rendered, not refetched.
func (c *Client) SetLocale(locale string) {
	if _, ok := bundles[locale]; !ok {
		locale = defaultLocale
	}
	c.locale = locale
}

func (c *Client) Messages() Messages {
	return bundles[c.locale]
}
