package avida

import "sort"

// DiffPages compares a previously cached first page with a freshly fetched
// one and reports which listings appeared, disappeared, or were updated.
// IDs in the result are sorted. A nil old page makes every fresh listing an
// addition.
func DiffPages(old, fresh *FeedPage) PageDiff {
	var diff PageDiff
	if fresh == nil {
		return diff
	}

	oldByID := make(map[string]Listing)
	if old != nil {
		for _, l := range old.Listings {
			oldByID[l.ID] = l
		}
	}

	freshIDs := make(map[string]bool, len(fresh.Listings))
	for _, l := range fresh.Listings {
		freshIDs[l.ID] = true
		prev, existed := oldByID[l.ID]
		if !existed {
			diff.Added = append(diff.Added, l.ID)
			continue
		}
		if l.UpdatedAt.After(prev.UpdatedAt) {
			diff.Changed = append(diff.Changed, l.ID)
		}
	}

	for id := range oldByID {
		if !freshIDs[id] {
			diff.Removed = append(diff.Removed, id)
		}
	}

	sort.Strings(diff.Added)
	sort.Strings(diff.Removed)
	sort.Strings(diff.Changed)
	return diff
}
