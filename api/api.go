// Package api implements clients for the Avida marketplace REST API.
package api

import avida "github.com/kelvinofficial/avida-sub002"

// ListingSource is the interface for listings API backends.
// This is an alias to the main package interface for convenience.
type ListingSource = avida.ListingSource

// Query is an alias to the main package type.
type Query = avida.Query
