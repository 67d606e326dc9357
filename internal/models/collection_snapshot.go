package models

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
)

// ExportFileName names an export document after the given day.
func ExportFileName(now time.Time) string {
	return "vibes-collection-" + now.Format("2006-01-02") + ".json"
}

func MarshalSnapshot(state CollectionState) ([]byte, error) {
	if state == nil {
		state = CollectionState{}
	}
	return json.MarshalIndent(state, "", "  ")
}

// ParseSnapshot decodes an exported collection document. A document that is
// not a JSON object fails with ErrMalformedInput; individual counts that are
// missing, non-numeric, fractional or negative are read as zero.
func ParseSnapshot(raw []byte) (CollectionState, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return CollectionState{}, nil
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	state := make(CollectionState, len(doc))
	for cardID, rawEntry := range doc {
		var entry map[string]json.RawMessage
		if err := json.Unmarshal(rawEntry, &entry); err != nil {
			state[cardID] = VariantCounts{}
			continue
		}
		var counts VariantCounts
		for _, v := range Variants {
			counts.set(v, coerceCount(entry[string(v)]))
		}
		state[cardID] = counts
	}
	return state, nil
}

// coerceCount reads one variant count. Anything but a non-negative integer
// that fits in int reads as zero.
func coerceCount(raw json.RawMessage) int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] == '"' {
		return 0
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil || n == "" {
		return 0
	}
	if i, err := strconv.ParseInt(n.String(), 10, 0); err == nil {
		if i < 0 {
			return 0
		}
		return int(i)
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || f < 0 || f != math.Trunc(f) || f >= float64(math.MaxInt) {
		return 0
	}
	return int(f)
}
