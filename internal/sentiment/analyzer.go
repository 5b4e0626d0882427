package sentiment

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"cryptopulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const defaultBatchSize = 24

// ArtifactStore is the slice of the file store the analyzer needs.
type ArtifactStore interface {
	LoadLatestJSON(kind, identifier string, v any) (string, error)
	SaveJSON(kind, identifier string, v any) (string, error)
}

// Analyzer scores the newest social dumps and persists the results as
// sentiment_* artifacts plus a cross-source summary.
type Analyzer struct {
	tracer    trace.Tracer
	store     ArtifactStore
	llm       BatchScorer
	batchSize int

	now func() time.Time
}

// NewAnalyzer creates an analyzer; llm may be nil (heuristic only).
func NewAnalyzer(tracer trace.Tracer, store ArtifactStore, llm BatchScorer, batchSize int) *Analyzer {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Analyzer{
		tracer:    tracer,
		store:     store,
		llm:       llm,
		batchSize: batchSize,
		now:       time.Now,
	}
}

// ScoredRedditPost is a harvested post with its sentiment verdict attached.
type ScoredRedditPost struct {
	domain.RedditPost
	SentimentAnalysis domain.SentimentResult `json:"sentiment_analysis"`
}

type ScoredRedditComment struct {
	domain.RedditComment
	SentimentAnalysis domain.SentimentResult `json:"sentiment_analysis"`
}

type ScoredTweet struct {
	domain.Tweet
	SentimentAnalysis domain.SentimentResult `json:"sentiment_analysis"`
}

// AnalyzeLatest scores the newest dump of each social source. A missing
// dump or a failed source is logged and skipped; the others still run.
func (a *Analyzer) AnalyzeLatest(ctx context.Context) ([]domain.SentimentSummary, error) {
	ctx, span := a.tracer.Start(ctx, "sentiment.analyze-latest")
	defer span.End()

	var summaries []domain.SentimentSummary

	if summary, err := a.analyzeRedditPosts(ctx); err != nil {
		logSourceError("reddit_posts", err)
	} else if summary != nil {
		summaries = append(summaries, *summary)
	}

	if summary, err := a.analyzeRedditComments(ctx); err != nil {
		logSourceError("reddit_comments", err)
	} else if summary != nil {
		summaries = append(summaries, *summary)
	}

	if summary, err := a.analyzeTweets(ctx); err != nil {
		logSourceError("tweets", err)
	} else if summary != nil {
		summaries = append(summaries, *summary)
	}

	if len(summaries) == 0 {
		return nil, nil
	}
	if _, err := a.store.SaveJSON("sentiment_summary", "", summaries); err != nil {
		log.Printf("save sentiment summary: %v", err)
	}
	return summaries, nil
}

func logSourceError(source string, err error) {
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("no %s dump to analyze yet", source)
		return
	}
	log.Printf("analyze %s: %v", source, err)
}

func (a *Analyzer) analyzeRedditPosts(ctx context.Context) (*domain.SentimentSummary, error) {
	var posts []domain.RedditPost
	if _, err := a.store.LoadLatestJSON("reddit_posts", "", &posts); err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, nil
	}

	texts := make([]string, len(posts))
	for i, p := range posts {
		texts[i] = p.Title + " " + p.Text
	}
	results := a.score(ctx, texts)

	scored := make([]ScoredRedditPost, len(posts))
	for i, p := range posts {
		scored[i] = ScoredRedditPost{RedditPost: p, SentimentAnalysis: results[i]}
	}
	if _, err := a.store.SaveJSON("sentiment_reddit_posts", "", scored); err != nil {
		return nil, err
	}
	summary := a.summarize("reddit_posts", results)
	return &summary, nil
}

func (a *Analyzer) analyzeRedditComments(ctx context.Context) (*domain.SentimentSummary, error) {
	var comments []domain.RedditComment
	if _, err := a.store.LoadLatestJSON("reddit_comments", "", &comments); err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return nil, nil
	}

	texts := make([]string, len(comments))
	for i, c := range comments {
		texts[i] = c.Text
	}
	results := a.score(ctx, texts)

	scored := make([]ScoredRedditComment, len(comments))
	for i, c := range comments {
		scored[i] = ScoredRedditComment{RedditComment: c, SentimentAnalysis: results[i]}
	}
	if _, err := a.store.SaveJSON("sentiment_reddit_comments", "", scored); err != nil {
		return nil, err
	}
	summary := a.summarize("reddit_comments", results)
	return &summary, nil
}

func (a *Analyzer) analyzeTweets(ctx context.Context) (*domain.SentimentSummary, error) {
	var tweets []domain.Tweet
	if _, err := a.store.LoadLatestJSON("tweets", "", &tweets); err != nil {
		return nil, err
	}
	if len(tweets) == 0 {
		return nil, nil
	}

	texts := make([]string, len(tweets))
	for i, tw := range tweets {
		texts[i] = tw.Text
	}
	results := a.score(ctx, texts)

	scored := make([]ScoredTweet, len(tweets))
	for i, tw := range tweets {
		scored[i] = ScoredTweet{Tweet: tw, SentimentAnalysis: results[i]}
	}
	if _, err := a.store.SaveJSON("sentiment_tweets", "", scored); err != nil {
		return nil, err
	}
	summary := a.summarize("tweets", results)
	return &summary, nil
}

// score runs the heuristic baseline over every text, then overlays LLM
// verdicts batch by batch. A failed batch keeps its heuristic results.
func (a *Analyzer) score(ctx context.Context, texts []string) []domain.SentimentResult {
	results := make([]domain.SentimentResult, len(texts))
	for i, text := range texts {
		results[i] = HeuristicScore(text)
	}

	if a.llm == nil {
		return results
	}

	for start := 0; start < len(texts); start += a.batchSize {
		end := start + a.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		refined, err := a.llm.ScoreBatch(ctx, texts[start:end])
		if err != nil {
			log.Printf("llm batch %d-%d failed, keeping heuristic scores: %v", start, end, err)
			continue
		}
		for i, r := range refined {
			if r.Model == "" {
				continue
			}
			results[start+i] = r
		}
	}
	return results
}

func (a *Analyzer) summarize(source string, results []domain.SentimentResult) domain.SentimentSummary {
	counts := map[string]int{LabelNegative: 0, LabelNeutral: 0, LabelPositive: 0}
	total := 0.0
	for _, r := range results {
		counts[r.Sentiment]++
		total += Polarity(r)
	}
	mean := 0.0
	if len(results) > 0 {
		mean = total / float64(len(results))
	}
	return domain.SentimentSummary{
		Source:      source,
		Counts:      counts,
		MeanScore:   mean,
		ItemsScored: len(results),
		GeneratedAt: a.now().UTC(),
	}
}
