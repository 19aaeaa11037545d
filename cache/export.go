package cache

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// SnapshotFormat is the JSON structure for cache snapshot export/import.
// Snapshots move a warmed feed cache between devices or seed CI fixtures.
type SnapshotFormat struct {
	Version    string            `json:"version"`
	ExportedAt string            `json:"exported_at"`
	Entries    []SnapshotEntry   `json:"entries"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// SnapshotEntry is a single exported cache entry.
type SnapshotEntry struct {
	Key   string `json:"key"`
	Entry Entry  `json:"entry"`
}

// snapshotVersion is the snapshot file format version, independent of the
// per-entry payload schema version.
const snapshotVersion = "1.0"

// Exporter writes cache snapshots.
type Exporter struct {
	store Store
}

// NewExporter creates a new cache exporter.
func NewExporter(store Store) *Exporter {
	return &Exporter{store: store}
}

// Export writes the store contents to a writer in JSON format.
func (e *Exporter) Export(w io.Writer, metadata map[string]string) error {
	keys := e.store.Keys()
	entries := make([]SnapshotEntry, 0, len(keys))
	for _, key := range keys {
		entry, ok := e.store.Get(key)
		if !ok {
			continue
		}
		entries = append(entries, SnapshotEntry{Key: key, Entry: entry})
	}

	snapshot := SnapshotFormat{
		Version:    snapshotVersion,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Entries:    entries,
		Metadata:   metadata,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snapshot); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}

	return nil
}

// ExportToFile exports the store to a file.
// The path is provided by the caller and is intentionally user-controlled.
func (e *Exporter) ExportToFile(path string, metadata map[string]string) error {
	f, err := os.Create(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	return e.Export(f, metadata)
}

// Importer loads cache snapshots.
type Importer struct {
	store Store
}

// NewImporter creates a new cache importer.
func NewImporter(store Store) *Importer {
	return &Importer{store: store}
}

// Import reads a snapshot from a reader and loads its entries into the
// store. Entries that fail to store are counted, not fatal.
func (i *Importer) Import(r io.Reader) (*ImportResult, error) {
	var snapshot SnapshotFormat
	if err := json.NewDecoder(r).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}

	result := &ImportResult{
		Version:  snapshot.Version,
		Metadata: snapshot.Metadata,
	}

	for _, se := range snapshot.Entries {
		if err := i.store.Set(se.Key, se.Entry); err != nil {
			result.Failed++
			continue
		}
		result.Imported++
	}

	return result, nil
}

// ImportFromFile imports a snapshot from a file.
// The path is provided by the caller and is intentionally user-controlled.
func (i *Importer) ImportFromFile(path string) (*ImportResult, error) {
	f, err := os.Open(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return i.Import(f)
}

// ImportResult contains statistics about an import operation.
type ImportResult struct {
	Version  string
	Metadata map[string]string
	Imported int
	Failed   int
}
