package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"cryptopulse/internal/domain"
	"cryptopulse/internal/service"

	tele "gopkg.in/telebot.v3"
)

// StartTelegramBot launches the Telegram bot if TELEGRAM_BOT_TOKEN is
// set. Commands: /ping, /price <coin>, /sentiment, /feargreed.
func StartTelegramBot(priceService *service.PriceService, insightService *service.InsightService) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/price", func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return c.Send(fmt.Sprintf("Usage: /price bitcoin\nTracked: %s", strings.Join(domain.CoinIDs(), ", ")))
		}
		coinID := strings.ToLower(args[0])
		if _, ok := domain.CoinName[coinID]; !ok {
			return c.Send(fmt.Sprintf("Unknown coin: %s\nTracked: %s", coinID, strings.Join(domain.CoinIDs(), ", ")))
		}
		snapshot, err := priceService.GetCurrentPrice(context.Background(), coinID)
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching price for %s: %v", coinID, err))
		}
		msg := fmt.Sprintf(
			"%s\nPrice: $%.2f\n24h Change: %.2f%%\n24h Volume: $%.0f",
			snapshot.Name, snapshot.PriceUSD, snapshot.Change24hPct, snapshot.Volume24h,
		)
		return c.Send(msg)
	})

	b.Handle("/sentiment", func(c tele.Context) error {
		summaries, err := insightService.LatestSentiment(context.Background())
		if err != nil {
			return c.Send("No sentiment data collected yet.")
		}
		var sb strings.Builder
		sb.WriteString("Social sentiment\n")
		for _, s := range summaries {
			sb.WriteString(fmt.Sprintf(
				"%s: %d scored, mean %.2f (+%d / =%d / -%d)\n",
				s.Source, s.ItemsScored, s.MeanScore,
				s.Counts["positive"], s.Counts["neutral"], s.Counts["negative"],
			))
		}
		return c.Send(sb.String())
	})

	b.Handle("/feargreed", func(c tele.Context) error {
		point, err := insightService.FearGreed(context.Background())
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching fear & greed index: %v", err))
		}
		return c.Send(fmt.Sprintf("Fear & Greed Index: %d (%s)", point.Value, point.Classification))
	})

	log.Println("Telegram bot started")
	go b.Start()
}
