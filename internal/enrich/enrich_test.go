package enrich

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/justestif/go-mood-recommender/internal/catalog"
	"github.com/justestif/go-mood-recommender/internal/recommend"
	"github.com/justestif/go-mood-recommender/internal/spotify"
)

// mockProvider implements MetadataProvider for testing.
type mockProvider struct {
	infos map[string]spotify.TrackInfo
	err   error
	delay time.Duration
	ids   []string
	calls int
}

func (m *mockProvider) BatchLookup(ctx context.Context, ids []string) (map[string]spotify.TrackInfo, error) {
	m.calls++
	m.ids = ids
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return map[string]spotify.TrackInfo{}, ctx.Err()
		}
	}
	return m.infos, m.err
}

func scored(id int64, spotifyID string) recommend.ScoredSong {
	s := recommend.ScoredSong{Song: catalog.Song{ID: id}, Score: 1}
	if spotifyID != "" {
		s.Song.SpotifyID = &spotifyID
	}
	return s
}

func TestEnrich(t *testing.T) {
	p := &mockProvider{infos: map[string]spotify.TrackInfo{
		"sp1": {AlbumName: "First", Popularity: 10},
	}}
	e := New(p)

	items := []recommend.ScoredSong{scored(1, "sp1"), scored(2, "sp2"), scored(3, "")}
	got := e.Enrich(context.Background(), items)

	if len(got) != 3 {
		t.Fatalf("got %d items, want 3", len(got))
	}
	if got[0].Info == nil || got[0].Info.AlbumName != "First" {
		t.Errorf("item 1 info = %+v", got[0].Info)
	}
	if got[1].Info != nil {
		t.Errorf("unknown id should leave info empty, got %+v", got[1].Info)
	}
	if got[2].Info != nil || got[2].Song.ID != 3 {
		t.Errorf("song without external id = %+v", got[2])
	}
	if p.calls != 1 || len(p.ids) != 2 {
		t.Errorf("provider called %d times with %v", p.calls, p.ids)
	}
}

func TestEnrichProviderFailure(t *testing.T) {
	p := &mockProvider{err: errors.New("unreachable")}
	got := New(p).Enrich(context.Background(), []recommend.ScoredSong{scored(1, "sp1")})

	if len(got) != 1 || got[0].Info != nil {
		t.Errorf("failure should keep the item without info, got %+v", got)
	}
}

func TestEnrichTimeout(t *testing.T) {
	p := &mockProvider{delay: time.Second}
	e := New(p, WithTimeout(10*time.Millisecond))

	start := time.Now()
	got := e.Enrich(context.Background(), []recommend.ScoredSong{scored(1, "sp1")})
	if time.Since(start) > 500*time.Millisecond {
		t.Error("timeout not applied")
	}
	if len(got) != 1 || got[0].Info != nil {
		t.Errorf("got %+v", got)
	}
}

func TestEnrichWithoutProvider(t *testing.T) {
	got := New(nil).Enrich(context.Background(), []recommend.ScoredSong{scored(1, "sp1")})
	if len(got) != 1 || got[0].Info != nil {
		t.Errorf("got %+v", got)
	}

	p := &mockProvider{}
	New(p).Enrich(context.Background(), []recommend.ScoredSong{scored(1, "")})
	if p.calls != 0 {
		t.Error("provider called with no external ids")
	}
}
