package catalog

import (
	"bytes"
	"encoding/json"
)

// SearchResult is a single hit returned by /search.
type SearchResult struct {
	Kind        string `json:"type"`
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
}

// SearchResults wraps the hits for a query.
type SearchResults struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
}

// UnmarshalJSON accepts either the wrapped object or a bare array of hits.
func (s *SearchResults) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var hits []SearchResult
		if err := json.Unmarshal(trimmed, &hits); err != nil {
			return err
		}
		*s = SearchResults{Results: hits}
		return nil
	}
	type wire SearchResults
	var decoded wire
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		return err
	}
	*s = SearchResults(decoded)
	return nil
}
