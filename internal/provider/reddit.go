package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cryptopulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const (
	redditBaseURL     = "https://www.reddit.com"
	defaultRedditUA   = "cryptopulse/1.0 (crypto sentiment collector)"
	defaultRedditSize = 100
)

// CryptoSubreddits lists the subreddits harvested each cycle.
var CryptoSubreddits = []string{
	"cryptocurrency",
	"bitcoin",
	"ethereum",
	"CryptoMarkets",
	"CryptoCurrencyTrading",
}

// RedditProvider collects posts and comments from the public Reddit JSON
// API, wrapped with the same rate-limit/retry client as the price provider.
type RedditProvider struct {
	client    *Client
	baseURL   string
	userAgent string
	tracer    trace.Tracer
}

func NewRedditProvider(tracer trace.Tracer, client *Client, userAgent string) *RedditProvider {
	if strings.TrimSpace(userAgent) == "" {
		userAgent = defaultRedditUA
	}
	return &RedditProvider{
		client:    client,
		baseURL:   redditBaseURL,
		userAgent: userAgent,
		tracer:    tracer,
	}
}

func (p *RedditProvider) header() http.Header {
	h := make(http.Header)
	h.Set("User-Agent", p.userAgent)
	return h
}

// FetchPosts collects submissions from one subreddit. sort is one of
// "hot", "new", "top"; anything else falls back to "hot".
func (p *RedditProvider) FetchPosts(ctx context.Context, subreddit string, limit int, sort string) ([]domain.RedditPost, error) {
	ctx, span := p.tracer.Start(ctx, "reddit.fetch-posts")
	defer span.End()

	subreddit = strings.TrimSpace(subreddit)
	if subreddit == "" {
		return nil, fmt.Errorf("subreddit is required")
	}
	if limit <= 0 {
		limit = defaultRedditSize
	}
	if limit > 100 {
		limit = 100
	}
	switch sort {
	case "hot", "new", "top":
	default:
		sort = "hot"
	}

	u := fmt.Sprintf("%s/r/%s/%s.json?limit=%d",
		strings.TrimRight(p.baseURL, "/"), url.PathEscape(subreddit), sort, limit)

	body, err := p.client.Get(ctx, u, p.header())
	if err != nil {
		return nil, fmt.Errorf("fetch r/%s posts: %w", subreddit, err)
	}

	var payload struct {
		Data struct {
			Children []struct {
				Data struct {
					ID          string  `json:"id"`
					Title       string  `json:"title"`
					SelfText    string  `json:"selftext"`
					CreatedUTC  float64 `json:"created_utc"`
					Score       int     `json:"score"`
					UpvoteRatio float64 `json:"upvote_ratio"`
					NumComments int     `json:"num_comments"`
					URL         string  `json:"url"`
				} `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode r/%s posts: %w", subreddit, err)
	}

	posts := make([]domain.RedditPost, 0, len(payload.Data.Children))
	for _, row := range payload.Data.Children {
		data := row.Data
		if strings.TrimSpace(data.ID) == "" || strings.TrimSpace(data.Title) == "" {
			continue
		}
		posts = append(posts, domain.RedditPost{
			ID:          data.ID,
			CreatedUTC:  time.Unix(int64(data.CreatedUTC), 0).UTC(),
			Title:       data.Title,
			Text:        data.SelfText,
			Score:       data.Score,
			UpvoteRatio: data.UpvoteRatio,
			NumComments: data.NumComments,
			URL:         data.URL,
			Subreddit:   subreddit,
		})
	}

	return posts, nil
}

// FetchComments collects top-level and nested comments of one submission.
func (p *RedditProvider) FetchComments(ctx context.Context, postID string, limit int) ([]domain.RedditComment, error) {
	ctx, span := p.tracer.Start(ctx, "reddit.fetch-comments")
	defer span.End()

	postID = strings.TrimSpace(postID)
	if postID == "" {
		return nil, fmt.Errorf("post id is required")
	}
	if limit <= 0 {
		limit = defaultRedditSize
	}

	u := fmt.Sprintf("%s/comments/%s.json?limit=%d",
		strings.TrimRight(p.baseURL, "/"), url.PathEscape(postID), limit)

	body, err := p.client.Get(ctx, u, p.header())
	if err != nil {
		return nil, fmt.Errorf("fetch comments for %s: %w", postID, err)
	}

	// The endpoint returns a two-element array: the submission listing and
	// the comment listing.
	var listings []struct {
		Data struct {
			Children []redditCommentNode `json:"children"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &listings); err != nil {
		return nil, fmt.Errorf("decode comments for %s: %w", postID, err)
	}
	if len(listings) < 2 {
		return nil, nil
	}

	var comments []domain.RedditComment
	for _, node := range listings[1].Data.Children {
		comments = flattenComments(node, postID, comments, limit)
		if len(comments) >= limit {
			comments = comments[:limit]
			break
		}
	}
	return comments, nil
}

type redditCommentNode struct {
	Kind string `json:"kind"`
	Data struct {
		ID         string          `json:"id"`
		Body       string          `json:"body"`
		Score      int             `json:"score"`
		Author     string          `json:"author"`
		CreatedUTC float64         `json:"created_utc"`
		Replies    json.RawMessage `json:"replies"`
	} `json:"data"`
}

// flattenComments walks a comment tree depth-first, skipping "more" stubs.
func flattenComments(node redditCommentNode, postID string, acc []domain.RedditComment, limit int) []domain.RedditComment {
	if node.Kind != "t1" || len(acc) >= limit {
		return acc
	}
	if strings.TrimSpace(node.Data.Body) != "" {
		acc = append(acc, domain.RedditComment{
			ID:         node.Data.ID,
			CreatedUTC: time.Unix(int64(node.Data.CreatedUTC), 0).UTC(),
			Text:       node.Data.Body,
			Score:      node.Data.Score,
			Author:     node.Data.Author,
			PostID:     postID,
		})
	}

	// Replies are either an empty string or a nested listing.
	raw := node.Data.Replies
	if len(raw) == 0 || raw[0] == '"' {
		return acc
	}
	var replies struct {
		Data struct {
			Children []redditCommentNode `json:"children"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &replies); err != nil {
		return acc
	}
	for _, child := range replies.Data.Children {
		acc = flattenComments(child, postID, acc, limit)
	}
	return acc
}
