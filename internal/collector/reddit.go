package collector

import (
	"context"
	"log"

	"cryptopulse/internal/domain"
	"cryptopulse/internal/provider"

	"go.opentelemetry.io/otel/trace"
)

// RedditSource is the slice of the Reddit provider the collector needs.
type RedditSource interface {
	FetchPosts(ctx context.Context, subreddit string, limit int, sort string) ([]domain.RedditPost, error)
	FetchComments(ctx context.Context, postID string, limit int) ([]domain.RedditComment, error)
}

// RedditCollector harvests posts and comment threads from the tracked
// crypto subreddits. A subreddit that fails is logged and skipped; the
// rest of the batch still runs.
type RedditCollector struct {
	tracer       trace.Tracer
	source       RedditSource
	store        ArtifactStore
	subreddits   []string
	postsPerSub  int
	commentPosts int
}

func NewRedditCollector(tracer trace.Tracer, source RedditSource, store ArtifactStore, postsPerSub, commentPosts int) *RedditCollector {
	if postsPerSub <= 0 {
		postsPerSub = 100
	}
	if commentPosts < 0 {
		commentPosts = 0
	}
	return &RedditCollector{
		tracer:       tracer,
		source:       source,
		store:        store,
		subreddits:   provider.CryptoSubreddits,
		postsPerSub:  postsPerSub,
		commentPosts: commentPosts,
	}
}

// Collect pulls hot posts from every tracked subreddit, then comment
// threads for the top posts of each, and dumps both sets as JSON.
// Returns how many posts and comments were collected.
func (c *RedditCollector) Collect(ctx context.Context) (posts, comments int, err error) {
	ctx, span := c.tracer.Start(ctx, "collector.reddit")
	defer span.End()

	var allPosts []domain.RedditPost
	var allComments []domain.RedditComment

	for _, subreddit := range c.subreddits {
		if ctx.Err() != nil {
			return len(allPosts), len(allComments), ctx.Err()
		}

		subPosts, err := c.source.FetchPosts(ctx, subreddit, c.postsPerSub, "hot")
		if err != nil {
			log.Printf("fetch posts from r/%s: %v", subreddit, err)
			continue
		}
		allPosts = append(allPosts, subPosts...)

		for i, post := range subPosts {
			if i >= c.commentPosts {
				break
			}
			postComments, err := c.source.FetchComments(ctx, post.ID, 100)
			if err != nil {
				log.Printf("fetch comments for %s: %v", post.ID, err)
				continue
			}
			allComments = append(allComments, postComments...)
		}
	}

	if len(allPosts) > 0 {
		if path, err := c.store.SaveJSON("reddit_posts", "", allPosts); err != nil {
			log.Printf("save reddit posts: %v", err)
		} else {
			log.Printf("saved %d reddit posts to %s", len(allPosts), path)
		}
	}
	if len(allComments) > 0 {
		if path, err := c.store.SaveJSON("reddit_comments", "", allComments); err != nil {
			log.Printf("save reddit comments: %v", err)
		} else {
			log.Printf("saved %d reddit comments to %s", len(allComments), path)
		}
	}
	return len(allPosts), len(allComments), nil
}
