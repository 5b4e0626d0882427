package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"cryptopulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

func testTracer() trace.Tracer {
	return trace.NewNoopTracerProvider().Tracer("test")
}

type fakeStore struct {
	jsonKinds []string
	csvKinds  []string
	jsonErr   error
	csvErr    error
}

func (f *fakeStore) SaveJSON(kind, identifier string, v any) (string, error) {
	if f.jsonErr != nil {
		return "", f.jsonErr
	}
	f.jsonKinds = append(f.jsonKinds, kind)
	return kind + ".json", nil
}

func (f *fakeStore) SaveCSV(kind, identifier string, series domain.PriceSeries) (string, error) {
	if f.csvErr != nil {
		return "", f.csvErr
	}
	f.csvKinds = append(f.csvKinds, kind+"_"+identifier)
	return kind + "_" + identifier + ".csv", nil
}

type fakePriceSource struct {
	currentErr  error
	failCoins   map[string]error
	emptyCoins  map[string]bool
	historyReqs []string
}

func (f *fakePriceSource) FetchCurrentPrices(ctx context.Context, fiats []string) (domain.CurrentPrices, error) {
	if f.currentErr != nil {
		return nil, f.currentErr
	}
	return domain.CurrentPrices{
		"bitcoin": {"usd": domain.Quote{Price: 50000}},
	}, nil
}

func (f *fakePriceSource) FetchHistory(ctx context.Context, coinID, fiat string, days int) (domain.PriceSeries, error) {
	f.historyReqs = append(f.historyReqs, coinID)
	if err, ok := f.failCoins[coinID]; ok {
		return domain.PriceSeries{}, err
	}
	if f.emptyCoins[coinID] {
		return domain.PriceSeries{CoinID: coinID, Fiat: fiat}, nil
	}
	return domain.PriceSeries{
		CoinID: coinID,
		Fiat:   fiat,
		Points: []domain.PricePoint{{Timestamp: time.Unix(1700000000, 0), Price: 1}},
	}, nil
}

func newTestPriceCollector(source PriceSource, store ArtifactStore) (*PriceCollector, *[]time.Duration) {
	c := NewPriceCollector(testTracer(), source, store, 30, 500*time.Millisecond)
	var slept []time.Duration
	c.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return c, &slept
}

func TestPriceCollectorIsolatesFailedCoins(t *testing.T) {
	source := &fakePriceSource{
		failCoins: map[string]error{"ethereum": errors.New("boom")},
	}
	store := &fakeStore{}
	c, slept := newTestPriceCollector(source, store)

	results, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != len(domain.TrackedCoins)-1 {
		t.Fatalf("expected %d coins, got %d", len(domain.TrackedCoins)-1, len(results))
	}
	if _, ok := results["ethereum"]; ok {
		t.Fatal("failed coin must be absent from results")
	}
	if _, ok := results["bitcoin"]; !ok {
		t.Fatal("bitcoin should have been collected")
	}
	if _, ok := results["binancecoin"]; !ok {
		t.Fatal("coins after the failed one should still be collected")
	}
	// Every coin was still attempted.
	if len(source.historyReqs) != len(domain.TrackedCoins) {
		t.Fatalf("expected %d history requests, got %d", len(domain.TrackedCoins), len(source.historyReqs))
	}
	// One delay between each pair of consecutive coins.
	if len(*slept) != len(domain.TrackedCoins)-1 {
		t.Fatalf("expected %d inter-coin delays, got %d", len(domain.TrackedCoins)-1, len(*slept))
	}
	for _, d := range *slept {
		if d != 500*time.Millisecond {
			t.Fatalf("unexpected delay %v", d)
		}
	}
}

func TestPriceCollectorSkipsEmptySeries(t *testing.T) {
	source := &fakePriceSource{emptyCoins: map[string]bool{"dogecoin": true}}
	store := &fakeStore{}
	c, _ := newTestPriceCollector(source, store)

	results, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := results["dogecoin"]; ok {
		t.Fatal("empty series must not be reported")
	}
	for _, kind := range store.csvKinds {
		if kind == "prices_historical_dogecoin" {
			t.Fatal("empty series must not be persisted")
		}
	}
}

func TestPriceCollectorSaveFailureKeepsResult(t *testing.T) {
	source := &fakePriceSource{}
	store := &fakeStore{csvErr: errors.New("disk full")}
	c, _ := newTestPriceCollector(source, store)

	results, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != len(domain.TrackedCoins) {
		t.Fatalf("persistence failures must not drop results, got %d coins", len(results))
	}
}

func TestPriceCollectorSavesCurrentSnapshot(t *testing.T) {
	source := &fakePriceSource{}
	store := &fakeStore{}
	c, _ := newTestPriceCollector(source, store)

	if _, err := c.Collect(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.jsonKinds) != 1 || store.jsonKinds[0] != "prices_current" {
		t.Fatalf("expected one prices_current dump, got %v", store.jsonKinds)
	}
}

func TestPriceCollectorStopsOnCancel(t *testing.T) {
	source := &fakePriceSource{}
	store := &fakeStore{}
	c, _ := newTestPriceCollector(source, store)
	c.sleep = sleepContext

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := c.Collect(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(results) > 1 {
		t.Fatalf("collection should stop at the first delay, got %d coins", len(results))
	}
}

type fakeRedditSource struct {
	postsBySub  map[string][]domain.RedditPost
	failSubs    map[string]error
	commentErr  error
	commentReqs []string
}

func (f *fakeRedditSource) FetchPosts(ctx context.Context, subreddit string, limit int, sort string) ([]domain.RedditPost, error) {
	if err, ok := f.failSubs[subreddit]; ok {
		return nil, err
	}
	return f.postsBySub[subreddit], nil
}

func (f *fakeRedditSource) FetchComments(ctx context.Context, postID string, limit int) ([]domain.RedditComment, error) {
	f.commentReqs = append(f.commentReqs, postID)
	if f.commentErr != nil {
		return nil, f.commentErr
	}
	return []domain.RedditComment{{ID: "c_" + postID, PostID: postID, Text: "gm"}}, nil
}

func TestRedditCollectorIsolatesFailedSubreddits(t *testing.T) {
	source := &fakeRedditSource{
		postsBySub: map[string][]domain.RedditPost{
			"cryptocurrency": {{ID: "a1", Title: "one"}, {ID: "a2", Title: "two"}},
			"bitcoin":        {{ID: "b1", Title: "three"}},
		},
		failSubs: map[string]error{"ethereum": errors.New("boom")},
	}
	store := &fakeStore{}
	c := NewRedditCollector(testTracer(), source, store, 50, 1)

	posts, comments, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if posts != 3 {
		t.Fatalf("expected 3 posts, got %d", posts)
	}
	// Comments only for the first post of each non-empty subreddit.
	if comments != 2 {
		t.Fatalf("expected 2 comments, got %d", comments)
	}
	if len(source.commentReqs) != 2 {
		t.Fatalf("expected 2 comment fetches, got %v", source.commentReqs)
	}
	if len(store.jsonKinds) != 2 || store.jsonKinds[0] != "reddit_posts" || store.jsonKinds[1] != "reddit_comments" {
		t.Fatalf("unexpected dumps: %v", store.jsonKinds)
	}
}

func TestRedditCollectorNothingCollected(t *testing.T) {
	source := &fakeRedditSource{
		failSubs: map[string]error{
			"cryptocurrency":        errors.New("boom"),
			"bitcoin":               errors.New("boom"),
			"ethereum":              errors.New("boom"),
			"CryptoMarkets":         errors.New("boom"),
			"CryptoCurrencyTrading": errors.New("boom"),
		},
	}
	store := &fakeStore{}
	c := NewRedditCollector(testTracer(), source, store, 50, 1)

	posts, comments, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if posts != 0 || comments != 0 {
		t.Fatalf("expected empty batch, got %d posts %d comments", posts, comments)
	}
	if len(store.jsonKinds) != 0 {
		t.Fatalf("empty batch must not be persisted, got %v", store.jsonKinds)
	}
}

type fakeTwitterSource struct {
	enabled bool
	tweets  map[string][]domain.Tweet
	fail    map[string]error
	queries []string
}

func (f *fakeTwitterSource) Enabled() bool { return f.enabled }

func (f *fakeTwitterSource) SearchTweets(ctx context.Context, query string, count int) ([]domain.Tweet, error) {
	f.queries = append(f.queries, query)
	if err, ok := f.fail[query]; ok {
		return nil, err
	}
	return f.tweets[query], nil
}

func TestTwitterCollectorDeduplicates(t *testing.T) {
	source := &fakeTwitterSource{
		enabled: true,
		tweets: map[string][]domain.Tweet{
			"bitcoin":  {{ID: "1", Text: "btc"}, {ID: "2", Text: "btc again"}},
			"ethereum": {{ID: "2", Text: "btc again"}, {ID: "3", Text: "eth"}},
		},
		fail: map[string]error{"crypto": errors.New("rate limited")},
	}
	store := &fakeStore{}
	c := NewTwitterCollector(testTracer(), source, store, 10)

	n, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 distinct tweets, got %d", n)
	}
	if len(store.jsonKinds) != 1 || store.jsonKinds[0] != "tweets" {
		t.Fatalf("unexpected dumps: %v", store.jsonKinds)
	}
}

func TestTwitterCollectorDisabled(t *testing.T) {
	source := &fakeTwitterSource{enabled: false}
	store := &fakeStore{}
	c := NewTwitterCollector(testTracer(), source, store, 10)

	n, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 || len(source.queries) != 0 {
		t.Fatal("disabled provider must not be queried")
	}
}

func TestRunnerRunsAllSources(t *testing.T) {
	priceSource := &fakePriceSource{}
	redditSource := &fakeRedditSource{
		postsBySub: map[string][]domain.RedditPost{"bitcoin": {{ID: "b1", Title: "hi"}}},
	}
	twitterSource := &fakeTwitterSource{enabled: true, tweets: map[string][]domain.Tweet{
		"bitcoin": {{ID: "1", Text: "btc"}},
	}}
	store := &fakeStore{}

	prices, _ := newTestPriceCollector(priceSource, store)
	runner := NewRunner(testTracer(),
		prices,
		NewRedditCollector(testTracer(), redditSource, store, 50, 0),
		NewTwitterCollector(testTracer(), twitterSource, store, 10),
	)

	series, err := runner.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series) != len(domain.TrackedCoins) {
		t.Fatalf("expected history for all coins, got %d", len(series))
	}
	want := map[string]bool{"tweets": true, "reddit_posts": true, "prices_current": true}
	for _, kind := range store.jsonKinds {
		delete(want, kind)
	}
	if len(want) != 0 {
		t.Fatalf("missing dumps: %v (got %v)", want, store.jsonKinds)
	}
}

func TestSleepContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	start := time.Now()
	err := sleepContext(ctx, 5*time.Second)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("sleep did not abort promptly: %v", elapsed)
	}
}
