// Command avida fetches marketplace listing feeds with cache-first loading.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"

	avida "github.com/kelvinofficial/avida-sub002"
	"github.com/kelvinofficial/avida-sub002/api"
	"github.com/kelvinofficial/avida-sub002/cache"
)

// Build-time variables (can be overridden with ldflags)
var (
	version   = avida.Version
	commit    = avida.GitCommit
	buildDate = avida.BuildDate
)

// envConfig is the environment half of the configuration; flags override it.
type envConfig struct {
	APIURL     string        `env:"AVIDA_API_URL"`
	APIKey     string        `env:"AVIDA_API_KEY"`
	RedisURL   string        `env:"AVIDA_REDIS_URL"`
	CacheDir   string        `env:"AVIDA_CACHE_DIR"`
	StaleAfter time.Duration `env:"AVIDA_STALE_AFTER" envDefault:"60s"`
	MaxAge     time.Duration `env:"AVIDA_MAX_AGE" envDefault:"24h"`
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("avida", flag.ContinueOnError)
	fs.SetOutput(stderr)

	// Flags
	category := fs.String("category", "", "Category id (e.g., property, vehicles)")
	subcategory := fs.String("subcategory", "", "Subcategory id (e.g., cars)")
	query := fs.String("query", "", "Free-text search query")
	location := fs.String("location", "", "Location filter")
	priceMin := fs.Int64("price-min", 0, "Minimum price in minor units")
	priceMax := fs.Int64("price-max", 0, "Maximum price in minor units")
	sortOrder := fs.String("sort", "", "Sort order: newest, price_asc, price_desc, relevance")
	limit := fs.Int("limit", 20, "Page size")
	cursor := fs.String("cursor", "", "Continuation cursor from a previous page")
	refresh := fs.Bool("refresh", false, "Force a network fetch, bypassing the cache")
	cacheKind := fs.String("cache", "file", "Cache backend: file, memory, redis, none")
	apiURL := fs.String("api-url", "", "API base URL (default: AVIDA_API_URL env)")
	exportPath := fs.String("export", "", "Export the cache snapshot to a file and exit")
	importPath := fs.String("import", "", "Import a cache snapshot from a file and exit")
	jsonOutput := fs.Bool("json", false, "Output result as JSON")
	quiet := fs.Bool("quiet", false, "Suppress progress output")
	verbose := fs.Bool("verbose", false, "Log cache and revalidation activity")
	showVersion := fs.Bool("version", false, "Show version")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "%s %s\n", avida.Name, version)
		if commit != "unknown" && commit != "" {
			fmt.Fprintf(stdout, "  commit:  %s\n", commit)
		}
		if buildDate != "unknown" && buildDate != "" {
			fmt.Fprintf(stdout, "  built:   %s\n", buildDate)
		}
		return nil
	}

	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}
	if *apiURL != "" {
		cfg.APIURL = *apiURL
	}

	store, err := buildStore(*cacheKind, cfg)
	if err != nil {
		return err
	}

	// Snapshot modes need only the store.
	if *exportPath != "" {
		return runExport(store, *exportPath, stdout, *quiet)
	}
	if *importPath != "" {
		return runImport(store, *importPath, stdout, *quiet)
	}

	if cfg.APIURL == "" {
		return fmt.Errorf("API URL required (--api-url or AVIDA_API_URL env)")
	}

	logger := zap.NewNop()
	if *verbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		defer logger.Sync() //nolint:errcheck
	}

	// Client with retry on top of the raw HTTP transport
	client := api.NewHTTPClient(api.Config{
		BaseURL: cfg.APIURL,
		APIKey:  cfg.APIKey,
	})
	source := avida.NewRetryableSource(client, avida.DefaultRetryConfig())

	opts := []avida.FeedOption{
		avida.WithStaleAfter(cfg.StaleAfter),
		avida.WithMaxAge(cfg.MaxAge),
		avida.WithPageSize(*limit),
		avida.WithLogger(logger),
	}
	if store != nil {
		opts = append(opts, avida.WithCache(store))
	}
	feed := avida.NewFeed(source, opts...)

	filter := avida.ListingFilter{
		Category:    *category,
		Subcategory: *subcategory,
		Query:       *query,
		Location:    *location,
		PriceMin:    *priceMin,
		PriceMax:    *priceMax,
		Sort:        avida.SortOrder(*sortOrder),
	}

	start := time.Now()
	result, err := loadPage(feed, filter, *cursor, *refresh)
	if err != nil {
		return fmt.Errorf("loading feed: %w", err)
	}
	elapsed := time.Since(start)

	// Let a stale-triggered background refresh land in the cache before the
	// process exits; the next run then starts fresh.
	feed.Wait()

	if *jsonOutput {
		return outputJSON(stdout, result, elapsed)
	}

	for _, l := range result.Page.Listings {
		fmt.Fprintf(stdout, "%s  %s  %s\n", l.ID, formatPrice(l.Price, l.Currency), listingLine(l))
	}
	if result.Page.NextCursor != "" {
		fmt.Fprintf(stdout, "\nnext: --cursor %s\n", result.Page.NextCursor)
	}

	if !*quiet {
		fmt.Fprintf(stderr, "\n%d listings in %v (origin: %s", len(result.Page.Listings),
			elapsed.Round(time.Millisecond), result.Origin)
		if result.Stale {
			fmt.Fprint(stderr, ", stale")
		}
		if result.Revalidating {
			fmt.Fprint(stderr, ", revalidating")
		}
		fmt.Fprintln(stderr, ")")
	}

	return nil
}

// loadPage dispatches between the three fetch modes.
func loadPage(feed *avida.Feed, filter avida.ListingFilter, cursor string, refresh bool) (*avida.FeedResult, error) {
	ctx := context.Background()

	if cursor != "" {
		page, err := feed.LoadMore(ctx, filter, cursor)
		if err != nil {
			return nil, err
		}
		return &avida.FeedResult{Page: *page, Origin: avida.OriginNetwork}, nil
	}
	if refresh {
		return feed.Refresh(ctx, filter)
	}
	return feed.Load(ctx, filter)
}

// buildStore creates the cache backend selected by --cache. "none" returns
// a nil store, making every load hit the network.
func buildStore(kind string, cfg envConfig) (cache.Store, error) {
	switch kind {
	case "none":
		return nil, nil
	case "memory":
		return cache.NewMemoryStore(), nil
	case "redis":
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("redis cache requires AVIDA_REDIS_URL env")
		}
		return cache.NewRedisStore(cache.RedisConfig{
			URL: cfg.RedisURL,
			TTL: int(cfg.MaxAge / time.Second),
		})
	case "file":
		dir := cfg.CacheDir
		if dir == "" {
			base, err := os.UserCacheDir()
			if err != nil {
				return nil, fmt.Errorf("resolving cache dir: %w", err)
			}
			dir = filepath.Join(base, "avida")
		}
		return cache.NewFileStore(dir)
	default:
		return nil, fmt.Errorf("unknown cache backend %q (want file, memory, redis, or none)", kind)
	}
}

// runExport writes the cache snapshot to a file.
func runExport(store cache.Store, path string, stdout io.Writer, quiet bool) error {
	if store == nil {
		return fmt.Errorf("--export needs a cache backend")
	}

	exporter := cache.NewExporter(store)
	metadata := map[string]string{"client": avida.UserAgent()}
	if err := exporter.ExportToFile(path, metadata); err != nil {
		return fmt.Errorf("exporting cache: %w", err)
	}

	if !quiet {
		fmt.Fprintf(stdout, "cache exported to %s\n", path)
	}
	return nil
}

// runImport loads a cache snapshot from a file.
func runImport(store cache.Store, path string, stdout io.Writer, quiet bool) error {
	if store == nil {
		return fmt.Errorf("--import needs a cache backend")
	}

	importer := cache.NewImporter(store)
	result, err := importer.ImportFromFile(path)
	if err != nil {
		return fmt.Errorf("importing cache: %w", err)
	}

	if !quiet {
		fmt.Fprintf(stdout, "imported %d entries (%d failed)\n", result.Imported, result.Failed)
	}
	return nil
}

func outputJSON(w io.Writer, result *avida.FeedResult, elapsed time.Duration) error {
	out := struct {
		*avida.FeedResult
		ElapsedMS int64 `json:"elapsed_ms"`
	}{result, elapsed.Milliseconds()}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func listingLine(l avida.Listing) string {
	line := l.Title
	if l.Location != "" {
		line += " (" + l.Location + ")"
	}
	return line
}

// formatPrice renders minor units as a major-unit amount with currency.
func formatPrice(minor int64, currency string) string {
	if currency == "" {
		currency = "?"
	}
	whole := minor / 100
	cents := minor % 100
	if cents < 0 {
		cents = -cents
	}
	return fmt.Sprintf("%s %d.%02d", strings.ToUpper(currency), whole, cents)
}
