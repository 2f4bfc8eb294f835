// Command geocode resolves a single address against the configured
// geocoding provider and prints the result. Useful for checking a
// provider endpoint or User-Agent before deploying.
//
// Usage:
//
//	go run ./cmd/geocode -address "Nowy Swiat 15, Warszawa, 00-029"
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/couchcryptid/restaurant-directory/internal/adapter/nominatim"
	"github.com/couchcryptid/restaurant-directory/internal/observability"
)

func main() {
	address := flag.String("address", "", "address text to resolve")
	baseURL := flag.String("base-url", nominatim.DefaultBaseURL, "geocoder base URL")
	userAgent := flag.String("user-agent", "restaurant-directory/1.0", "User-Agent sent to the provider")
	timeout := flag.Duration("timeout", 5*time.Second, "request timeout")
	flag.Parse()

	if *address == "" {
		fmt.Fprintln(os.Stderr, "usage: geocode -address \"<street>, <city>, <zip>\"")
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := nominatim.NewClient(*baseURL, *userAgent, *timeout, observability.NewMetrics(), logger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	loc, err := client.Resolve(ctx, *address)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lookup failed: %v\n", err)
		os.Exit(1)
	}
	if loc == nil {
		fmt.Println("no match")
		return
	}
	fmt.Printf("latitude=%.6f longitude=%.6f\n", loc.Latitude, loc.Longitude)
}
