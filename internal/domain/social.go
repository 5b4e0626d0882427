package domain

import "time"

// RedditPost is one submission collected from a tracked subreddit.
type RedditPost struct {
	ID          string    `json:"id"`
	CreatedUTC  time.Time `json:"created_utc"`
	Title       string    `json:"title"`
	Text        string    `json:"text"`
	Score       int       `json:"score"`
	UpvoteRatio float64   `json:"upvote_ratio"`
	NumComments int       `json:"num_comments"`
	URL         string    `json:"url"`
	Subreddit   string    `json:"subreddit"`
}

// RedditComment is one comment collected under a submission.
type RedditComment struct {
	ID         string    `json:"id"`
	CreatedUTC time.Time `json:"created_utc"`
	Text       string    `json:"text"`
	Score      int       `json:"score"`
	Author     string    `json:"author"`
	PostID     string    `json:"post_id"`
}

// Tweet is one post collected from the Twitter recent-search API.
type Tweet struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	Text          string    `json:"text"`
	Author        string    `json:"user"`
	RetweetCount  int       `json:"retweet_count"`
	FavoriteCount int       `json:"favorite_count"`
}

// SentimentScores holds the per-class probabilities of one scored text.
type SentimentScores struct {
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
	Positive float64 `json:"positive"`
}

// SentimentResult is the sentiment verdict attached to a social item.
type SentimentResult struct {
	Text       string          `json:"text"`
	Sentiment  string          `json:"sentiment"`
	Confidence float64         `json:"confidence"`
	Scores     SentimentScores `json:"scores"`
	Model      string          `json:"model"`
}

// SentimentSummary aggregates one scored batch for the API and the bot.
type SentimentSummary struct {
	Source      string         `json:"source"`
	Counts      map[string]int `json:"counts"`
	MeanScore   float64        `json:"mean_score"`
	ItemsScored int            `json:"items_scored"`
	GeneratedAt time.Time      `json:"generated_at"`
}
