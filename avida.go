// Package avida provides the cache-first listings feed engine for the Avida
// classifieds marketplace client.
//
// The engine renders paginated, filterable listing feeds without visible
// loading states: previously stored pages are returned immediately from a
// local cache, stale pages are silently revalidated in the background, and
// pagination continues through opaque server cursors. When the network is
// unreachable the engine falls back to whatever the cache holds.
//
// Basic usage:
//
//	import (
//	    "context"
//	    avida "github.com/kelvinofficial/avida-sub002"
//	    "github.com/kelvinofficial/avida-sub002/api"
//	    "github.com/kelvinofficial/avida-sub002/cache"
//	)
//
//	func main() {
//	    client := api.NewHTTPClient(api.Config{BaseURL: "https://api.avida.example"})
//
//	    feed := avida.NewFeed(client,
//	        avida.WithCache(cache.NewMemoryStore()),
//	        avida.WithStaleAfter(time.Minute),
//	    )
//
//	    res, err := feed.Load(context.Background(), avida.ListingFilter{
//	        Category: "property",
//	        Query:    "2 bedroom",
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    for _, l := range res.Page.Listings {
//	        fmt.Println(l.Title)
//	    }
//	}
package avida
