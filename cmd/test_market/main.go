// Command test_market runs the market client against a mock API and
// prints what the watcher would receive.
package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/eliseohh/coinwatcherbot/internal/market"
)

func main() {
	mux := http.NewServeMux()
	mux.HandleFunc("/price", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"bitcoin":{"eur":61234.5,"eur_24h_change":4.2}}`)
	})
	mux.HandleFunc("/news", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"results":[{"title":"Mock headline","url":"https://example.com/1"}]}`)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	client := market.NewClient(ts.URL+"/price", ts.URL+"/news", "test", "eur", 5*time.Second, 1)
	ctx := context.Background()

	quotes, err := client.Prices(ctx, []string{"bitcoin"})
	if err != nil {
		fmt.Printf("❌ prices: %v\n", err)
		os.Exit(1)
	}
	q, ok := quotes["bitcoin"]
	if !ok || q.Price == nil || q.Change24h == nil {
		fmt.Println("❌ prices: bitcoin quote incomplete")
		os.Exit(1)
	}
	fmt.Printf("✔ Prices OK: bitcoin %.2f EUR (%+.2f%%)\n", *q.Price, *q.Change24h)

	news, err := client.News(ctx, []string{"bitcoin"})
	if err != nil || len(news) != 1 {
		fmt.Printf("❌ news: %v (%d items)\n", err, len(news))
		os.Exit(1)
	}
	fmt.Printf("✔ News OK: %s\n", news[0].Title)
}
