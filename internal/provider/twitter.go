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

const twitterBaseURL = "https://api.twitter.com/2"

// CryptoKeywords drives one tweet search per entry each harvest cycle.
var CryptoKeywords = []string{
	"#bitcoin", "#crypto", "#ethereum", "#cryptocurrency",
	"bitcoin", "crypto", "ethereum", "btc", "eth",
}

// TwitterProvider searches recent tweets through the v2 API. Without a
// bearer token the provider is disabled and collectors skip it.
type TwitterProvider struct {
	client      *Client
	baseURL     string
	bearerToken string
	tracer      trace.Tracer
}

func NewTwitterProvider(tracer trace.Tracer, client *Client, bearerToken string) *TwitterProvider {
	return &TwitterProvider{
		client:      client,
		baseURL:     twitterBaseURL,
		bearerToken: strings.TrimSpace(bearerToken),
		tracer:      tracer,
	}
}

func (p *TwitterProvider) Enabled() bool {
	return p.bearerToken != ""
}

// SearchTweets collects recent English-language tweets matching query.
func (p *TwitterProvider) SearchTweets(ctx context.Context, query string, count int) ([]domain.Tweet, error) {
	ctx, span := p.tracer.Start(ctx, "twitter.search-tweets")
	defer span.End()

	if !p.Enabled() {
		return nil, fmt.Errorf("twitter provider disabled: no bearer token")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}
	if count <= 0 || count > 100 {
		count = 100
	}

	params := url.Values{}
	params.Set("query", query+" lang:en")
	params.Set("max_results", fmt.Sprintf("%d", count))
	params.Set("tweet.fields", "created_at,public_metrics,author_id")
	params.Set("expansions", "author_id")
	params.Set("user.fields", "username")
	u := fmt.Sprintf("%s/tweets/search/recent?%s", p.baseURL, params.Encode())

	header := make(http.Header)
	header.Set("Authorization", "Bearer "+p.bearerToken)

	body, err := p.client.Get(ctx, u, header)
	if err != nil {
		return nil, fmt.Errorf("search tweets %q: %w", query, err)
	}

	var payload struct {
		Data []struct {
			ID            string    `json:"id"`
			Text          string    `json:"text"`
			CreatedAt     time.Time `json:"created_at"`
			AuthorID      string    `json:"author_id"`
			PublicMetrics struct {
				RetweetCount int `json:"retweet_count"`
				LikeCount    int `json:"like_count"`
			} `json:"public_metrics"`
		} `json:"data"`
		Includes struct {
			Users []struct {
				ID       string `json:"id"`
				Username string `json:"username"`
			} `json:"users"`
		} `json:"includes"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode tweet search %q: %w", query, err)
	}

	usernames := make(map[string]string, len(payload.Includes.Users))
	for _, u := range payload.Includes.Users {
		usernames[u.ID] = u.Username
	}

	tweets := make([]domain.Tweet, 0, len(payload.Data))
	for _, row := range payload.Data {
		if strings.TrimSpace(row.ID) == "" || strings.TrimSpace(row.Text) == "" {
			continue
		}
		tweets = append(tweets, domain.Tweet{
			ID:            row.ID,
			CreatedAt:     row.CreatedAt.UTC(),
			Text:          row.Text,
			Author:        usernames[row.AuthorID],
			RetweetCount:  row.PublicMetrics.RetweetCount,
			FavoriteCount: row.PublicMetrics.LikeCount,
		})
	}

	return tweets, nil
}
