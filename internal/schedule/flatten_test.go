package schedule

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	return m
}

func matchIDs(matches []map[string]any) []string {
	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i], _ = m["matchId"].(string)
	}
	return ids
}

func TestFlatten_FailureCodeShortCircuits(t *testing.T) {
	t.Parallel()

	resp := decode(t, `{
		"code": 500,
		"content": {"matches": [{"matchId": "m1"}]}
	}`)

	assert.Empty(t, Flatten(resp, zerolog.Nop()))
	assert.Empty(t, Flatten(nil, zerolog.Nop()))
	assert.Empty(t, Flatten(decode(t, `{"content": []}`), zerolog.Nop()))
}

func TestFlatten_EquivalentShapesConverge(t *testing.T) {
	t.Parallel()

	shapes := map[string]string{
		"matches field": `{
			"code": 200,
			"content": {"matches": [{"matchId": "m1"}, {"matchId": "m2"}, {"matchId": "m3"}]}
		}`,
		"grouped by date": `{
			"code": 200,
			"content": [
				{"date": "2024-04-01", "matchList": [{"matchId": "m1"}, {"matchId": "m2"}]},
				{"date": "2024-04-02", "matchList": [{"matchId": "m3"}]}
			]
		}`,
		"flat list of matches": `{
			"code": 200,
			"content": [{"matchId": "m1"}, {"matchId": "m2"}, {"matchId": "m3"}]
		}`,
		"nested lists": `{
			"code": 200,
			"content": [[{"matchId": "m1"}, {"matchId": "m2"}], [{"matchId": "m3"}]]
		}`,
	}

	for name, raw := range shapes {
		out := Flatten(decode(t, raw), zerolog.Nop())
		assert.Equal(t, []string{"m1", "m2", "m3"}, matchIDs(out), "shape %q", name)
	}
}

func TestFlatten_SingleMatchObject(t *testing.T) {
	t.Parallel()

	resp := decode(t, `{
		"code": 200,
		"content": {"matchId": "solo", "status": "not_started"}
	}`)

	out := Flatten(resp, zerolog.Nop())
	require.Len(t, out, 1)
	assert.Equal(t, "solo", out[0]["matchId"])
}

func TestFlatten_SkipsUnrecognizedNodes(t *testing.T) {
	t.Parallel()

	resp := decode(t, `{
		"code": 200,
		"content": [
			{"matchId": "m1"},
			{"somethingElse": true},
			"a stray string",
			42,
			{"matchList": [{"matchId": "m2"}, "not-an-object"]}
		]
	}`)

	out := Flatten(resp, zerolog.Nop())
	assert.Equal(t, []string{"m1", "m2"}, matchIDs(out))
}

func TestGraphQLMatches(t *testing.T) {
	t.Parallel()

	resp := decode(t, `{
		"data": {"matchesBySeries": [{"id": "1"}, {"id": "2"}]}
	}`)
	assert.Len(t, GraphQLMatches(resp, "matchesBySeries"), 2)

	assert.Empty(t, GraphQLMatches(nil, "matchesBySeries"))
	assert.Empty(t, GraphQLMatches(decode(t, `{"data": null}`), "matchesBySeries"))
	assert.Empty(t, GraphQLMatches(decode(t, `{"data": {"matchesBySeries": null}}`), "matchesBySeries"))
	assert.Empty(t, GraphQLMatches(decode(t, `{"errors": [{"message": "boom"}]}`), "matchesBySeries"))
}
