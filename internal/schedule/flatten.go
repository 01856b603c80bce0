package schedule

import (
	"github.com/rs/zerolog"
)

// Flatten walks a monthly-schedule response and returns its raw match
// objects as one flat, order-preserving list, regardless of whether the
// provider grouped them by date, nested them under matchList, or returned
// them flat. A response whose code field is not 200 yields nothing: a
// provider-level failure must never read as "zero matches exist".
//
// Nodes that match no known shape are skipped and counted, never fatal.
func Flatten(resp map[string]any, logger zerolog.Logger) []map[string]any {
	if resp == nil || !statusOK(resp) {
		return nil
	}

	var (
		out     []map[string]any
		skipped int
	)
	collectMatches(resp["content"], &out, &skipped)

	if skipped > 0 {
		logger.Warn().
			Int("skipped", skipped).
			Int("matches", len(out)).
			Msg("skipped unrecognized nodes in schedule response")
	}
	return out
}

// statusOK reports whether the response-level code field signals success.
func statusOK(resp map[string]any) bool {
	code, ok := resp["code"]
	if !ok {
		return false
	}
	switch v := code.(type) {
	case float64:
		return v == 200
	case int:
		return v == 200
	case string:
		return v == "200"
	default:
		return false
	}
}

// collectMatches recognizes, in priority order: an object with a matches
// list, an object that is itself a match (carries matchId), an object with a
// matchList, and a plain list (recursed depth-first).
func collectMatches(node any, out *[]map[string]any, skipped *int) {
	switch n := node.(type) {
	case map[string]any:
		if ms, ok := n["matches"].([]any); ok {
			appendMatchObjects(ms, out, skipped)
			return
		}
		if _, ok := n["matchId"]; ok {
			*out = append(*out, n)
			return
		}
		if ml, ok := n["matchList"].([]any); ok {
			appendMatchObjects(ml, out, skipped)
			return
		}
		*skipped++
	case []any:
		for _, item := range n {
			collectMatches(item, out, skipped)
		}
	case nil:
	default:
		*skipped++
	}
}

func appendMatchObjects(items []any, out *[]map[string]any, skipped *int) {
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			*skipped++
			continue
		}
		*out = append(*out, m)
	}
}

// GraphQLMatches pulls the match list out of a GraphQL response body,
// tolerating a missing data envelope or a null field.
func GraphQLMatches(resp map[string]any, field string) []map[string]any {
	if resp == nil {
		return nil
	}
	data, ok := resp["data"].(map[string]any)
	if !ok {
		return nil
	}
	items, ok := data[field].([]any)
	if !ok {
		return nil
	}

	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
