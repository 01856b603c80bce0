package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlayerSearch struct {
	page     []byte
	err      error
	gotQuery string
}

func (f *fakePlayerSearch) SearchPage(_ context.Context, query string) ([]byte, error) {
	f.gotQuery = query
	return f.page, f.err
}

const searchPageFixture = `<html><body>
<div class="wf-card">
	<a href="/player/4462/mako">
		<div class="search-item-title">mako</div>
		<div class="search-item-desc">Kim Myeong-gwan (김명관)</div>
	</a>
	<a href="/player/9999/mako2">
		<div class="search-item-title">Mako2</div>
	</a>
	<a href="/event/123/some-event">
		<div class="search-item-desc">no title, skipped</div>
	</a>
	<a href="https://www.vlr.gg/player/1/abs">
		<div class="search-item-title">abs</div>
		<div class="search-item-desc"></div>
	</a>
</div>
</body></html>`

func TestSearchPlayers_ParsesHitsInPageOrder(t *testing.T) {
	t.Parallel()

	provider := &fakePlayerSearch{page: []byte(searchPageFixture)}
	svc := NewPlayerService(provider, zerolog.Nop())

	players, err := svc.SearchPlayers(context.Background(), "mako")
	require.NoError(t, err)
	assert.Equal(t, "mako", provider.gotQuery)

	require.Len(t, players, 3)

	assert.Equal(t, "mako", players[0].Nickname)
	assert.Equal(t, "Kim Myeong-gwan (김명관)", players[0].RealName)
	// relative profile links resolve against the site root
	assert.Equal(t, "https://www.vlr.gg/player/4462/mako", players[0].ProfileURL)

	// a hit without descriptive text keeps the empty-string sentinel
	assert.Equal(t, "Mako2", players[1].Nickname)
	assert.Equal(t, "", players[1].RealName)
	assert.Equal(t, "https://www.vlr.gg/player/9999/mako2", players[1].ProfileURL)

	// absolute links pass through unchanged
	assert.Equal(t, "https://www.vlr.gg/player/1/abs", players[2].ProfileURL)
}

func TestSearchPlayers_NoHitsIsEmptyNotError(t *testing.T) {
	t.Parallel()

	provider := &fakePlayerSearch{page: []byte(`<html><body><div class="wf-card"></div></body></html>`)}
	svc := NewPlayerService(provider, zerolog.Nop())

	players, err := svc.SearchPlayers(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, players)
}

func TestSearchPlayers_TransportFailure(t *testing.T) {
	t.Parallel()

	provider := &fakePlayerSearch{err: errors.New("upstream 503")}
	svc := NewPlayerService(provider, zerolog.Nop())

	_, err := svc.SearchPlayers(context.Background(), "mako")
	require.Error(t, err)
}
