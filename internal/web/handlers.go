package web

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/justestif/go-mood-recommender/internal/enrich"
	"github.com/justestif/go-mood-recommender/internal/metrics"
	"github.com/justestif/go-mood-recommender/internal/moodmap"
	"github.com/justestif/go-mood-recommender/internal/recommend"
	"github.com/justestif/go-mood-recommender/internal/spotify"
	"github.com/justestif/go-mood-recommender/internal/vad"
)

const defaultPageSize = 10

// Recommender ranks songs for the recommend endpoints.
type Recommender interface {
	Tags(ctx context.Context) ([]string, error)
	RecommendByTag(ctx context.Context, tag string, page recommend.Page, target recommend.Target) (*recommend.Result, error)
	RecommendByTags(ctx context.Context, tags []string, page recommend.Page, target recommend.Target) (*recommend.Result, error)
}

// Resolver turns emotion words into VAD triples.
type Resolver interface {
	Explain(ctx context.Context, word string) vad.Resolution
}

// Decorator attaches track metadata to a scored page.
type Decorator interface {
	Enrich(ctx context.Context, items []recommend.ScoredSong) []enrich.Recommendation
}

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	recommender Recommender
	resolver    Resolver
	enricher    Decorator
	moods       *moodmap.Map
	health      func(ctx context.Context) error
	log         zerolog.Logger
}

// HandlerOption configures Handlers.
type HandlerOption func(*Handlers)

// WithEnricher enables track metadata on recommendation responses.
func WithEnricher(d Decorator) HandlerOption {
	return func(h *Handlers) {
		h.enricher = d
	}
}

// WithMoodMap sets the mood regions served at /api/moods.
func WithMoodMap(m *moodmap.Map) HandlerOption {
	return func(h *Handlers) {
		h.moods = m
	}
}

// WithHealthCheck sets the probe behind /health.
func WithHealthCheck(fn func(ctx context.Context) error) HandlerOption {
	return func(h *Handlers) {
		h.health = fn
	}
}

// WithLogger sets the handler logger.
func WithLogger(l zerolog.Logger) HandlerOption {
	return func(h *Handlers) {
		h.log = l
	}
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(rec Recommender, res Resolver, opts ...HandlerOption) *Handlers {
	h := &Handlers{
		recommender: rec,
		resolver:    res,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SongResponse is one recommended song.
type SongResponse struct {
	ID           int64              `json:"id"`
	Track        string             `json:"track"`
	Artist       string             `json:"artist"`
	Genre        *string            `json:"genre"`
	SpotifyID    *string            `json:"spotify_id"`
	Tags         []string           `json:"tags"`
	Score        float64            `json:"score"`
	EmotionScore float64            `json:"emotion_score"`
	Similarity   float64            `json:"similarity"`
	TagMatches   int                `json:"tag_matches,omitempty"`
	Valence      float64            `json:"valence"`
	Arousal      float64            `json:"arousal"`
	Dominance    float64            `json:"dominance"`
	Normalized   vad.Triple         `json:"normalized"`
	SpotifyInfo  *spotify.TrackInfo `json:"spotify_info"`
}

// VADResponse is the resolution of one emotion word.
type VADResponse struct {
	vad.Resolution
	Region *moodmap.Region `json:"region,omitempty"`
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health(r.Context()); err != nil {
			h.log.Warn().Err(err).Msg("health check failed")
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Tags handles GET /api/tags.
func (h *Handlers) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.recommender.Tags(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to list tags", err)
		return
	}
	respondJSON(w, http.StatusOK, tags)
}

// Moods handles GET /api/moods.
func (h *Handlers) Moods(w http.ResponseWriter, r *http.Request) {
	m := h.moods
	if m == nil {
		m = &moodmap.Map{Regions: []moodmap.Region{}}
	}
	respondJSON(w, http.StatusOK, m)
}

// ResolveVAD handles GET /api/vad/{word}.
func (h *Handlers) ResolveVAD(w http.ResponseWriter, r *http.Request) {
	res := h.resolve(r.Context(), chi.URLParam(r, "word"))

	resp := VADResponse{Resolution: res}
	if h.moods != nil {
		if region, ok := h.moods.Nearest(res.Triple); ok {
			resp.Region = &region
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

// Recommend handles GET /api/recommend/{tag}.
func (h *Handlers) Recommend(w http.ResponseWriter, r *http.Request) {
	params, fields := h.parseParams(r)
	if len(fields) > 0 {
		metrics.RecordRecommendation("single", "invalid", -1)
		respondValidation(w, fields)
		return
	}

	tag := chi.URLParam(r, "tag")
	result, err := h.recommender.RecommendByTag(r.Context(), tag, params.page, params.target)
	if err != nil {
		h.recommendFailed(w, "single", err)
		return
	}

	metrics.RecordRecommendation("single", result.Status.String(), result.Total)
	h.respondResult(w, r, result, params.includeInfo)
}

// RecommendMultiple handles GET /api/recommend/multiple/?tags=a,b.
func (h *Handlers) RecommendMultiple(w http.ResponseWriter, r *http.Request) {
	params, fields := h.parseParams(r)
	if len(fields) > 0 {
		metrics.RecordRecommendation("multiple", "invalid", -1)
		respondValidation(w, fields)
		return
	}

	raw := r.URL.Query().Get("tags")
	var tags []string
	if strings.TrimSpace(raw) != "" {
		tags = strings.Split(raw, ",")
	}

	result, err := h.recommender.RecommendByTags(r.Context(), tags, params.page, params.target)
	if err != nil {
		h.recommendFailed(w, "multiple", err)
		return
	}

	metrics.RecordRecommendation("multiple", result.Status.String(), result.Total)
	if result.Status == recommend.StatusNotFound {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "No songs found with tags: "+raw, nil)
		return
	}
	h.respondResult(w, r, result, params.includeInfo)
}

func (h *Handlers) recommendFailed(w http.ResponseWriter, mode string, err error) {
	var verr *recommend.ValidationError
	if errors.As(err, &verr) {
		metrics.RecordRecommendation(mode, "invalid", -1)
		respondValidation(w, verr.Fields)
		return
	}
	metrics.RecordRecommendation(mode, "error", -1)
	respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to rank songs", err)
}

func (h *Handlers) respondResult(w http.ResponseWriter, r *http.Request, result *recommend.Result, includeInfo bool) {
	var recs []enrich.Recommendation
	if includeInfo && h.enricher != nil {
		recs = h.enricher.Enrich(r.Context(), result.Items)
	} else {
		recs = enrich.Wrap(result.Items)
	}

	out := make([]SongResponse, len(recs))
	for i, rec := range recs {
		out[i] = songResponse(rec)
	}

	w.Header().Set(totalCountHeader, strconv.Itoa(result.Total))
	respondJSON(w, http.StatusOK, out)
}

func songResponse(rec enrich.Recommendation) SongResponse {
	s := rec.Song
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	return SongResponse{
		ID:           s.ID,
		Track:        s.Track,
		Artist:       s.Artist,
		Genre:        s.Genre,
		SpotifyID:    s.SpotifyID,
		Tags:         tags,
		Score:        rec.Score,
		EmotionScore: rec.EmotionScore,
		Similarity:   rec.Similarity,
		TagMatches:   rec.TagMatches,
		Valence:      s.Raw.Valence,
		Arousal:      s.Raw.Arousal,
		Dominance:    s.Raw.Dominance,
		Normalized:   s.Normalized,
		SpotifyInfo:  rec.Info,
	}
}

// resolve runs the resolver and records which step matched.
func (h *Handlers) resolve(ctx context.Context, word string) vad.Resolution {
	res := h.resolver.Explain(ctx, word)
	metrics.RecordVADResolution(string(res.Source))
	return res
}

type recommendParams struct {
	page        recommend.Page
	target      recommend.Target
	includeInfo bool
}

// parseParams reads the shared query parameters. Malformed numbers are
// reported as field errors; range checks are left to the scorer.
func (h *Handlers) parseParams(r *http.Request) (recommendParams, []recommend.FieldError) {
	q := r.URL.Query()
	var fields []recommend.FieldError

	p := recommendParams{
		page:        recommend.Page{Number: 1, Size: defaultPageSize},
		includeInfo: true,
	}

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			fields = append(fields, recommend.FieldError{Field: "page", Tag: "integer"})
		}
		p.page.Number = n
	}
	if v := q.Get("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			fields = append(fields, recommend.FieldError{Field: "page_size", Tag: "integer"})
		}
		p.page.Size = n
	}
	if v := q.Get("include_spotify_info"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			fields = append(fields, recommend.FieldError{Field: "include_spotify_info", Tag: "boolean"})
		}
		p.includeInfo = b
	}

	for _, axis := range []struct {
		name string
		dst  **float64
	}{
		{"valence", &p.target.Valence},
		{"arousal", &p.target.Arousal},
		{"dominance", &p.target.Dominance},
	} {
		v := q.Get(axis.name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			fields = append(fields, recommend.FieldError{Field: axis.name, Tag: "number"})
			continue
		}
		*axis.dst = &f
	}

	if word := q.Get("emotion"); word != "" && !p.target.Complete() && len(fields) == 0 {
		res := h.resolve(r.Context(), word)
		p.target = recommend.NormalizedTarget(res.Triple)
	}

	return p, fields
}
