package cli

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mchmarny/revpulse/pkg/review"
	"github.com/mchmarny/revpulse/pkg/sentiment"
)

const (
	reviewLimitDefault = 10
	reviewLimitMax     = 500

	msgEmptyText = "please enter a review text to classify"
)

type SeriesData[T any] struct {
	Labels []string `json:"labels" yaml:"labels"`
	Data   []T      `json:"data" yaml:"data"`
}

type summaryResponse struct {
	Source          string               `json:"source"`
	Total           int                  `json:"total"`
	MeanScore       *float64             `json:"mean_score,omitempty"`
	PositiveScore   int                  `json:"positive_score"`
	Positive        int                  `json:"positive"`
	PositivePercent float64              `json:"positive_percent"`
	Scores          []*review.ScoreCount `json:"scores"`
}

type classifyRequest struct {
	Text string `json:"text"`
}

type healthResponse struct {
	Status         string `json:"status"`
	Version        string `json:"version"`
	DatasetLoaded  bool   `json:"dataset_loaded"`
	ModelAvailable bool   `json:"model_available"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func summaryAPIHandler(d *dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := &summaryResponse{
			Source:        d.source,
			PositiveScore: d.positiveScore,
			Scores:        []*review.ScoreCount{},
		}

		s, err := d.reviews.Summary(r.Context(), d.positiveScore)
		switch {
		case errors.Is(err, review.ErrEmptyTable):
			writeJSON(w, http.StatusOK, res)
			return
		case err != nil:
			slog.Error("failed to summarize reviews", "source", d.source, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to load reviews")
			return
		}

		res.Total = s.Total
		res.MeanScore = &s.MeanScore
		res.Positive = s.Positive
		res.PositivePercent = s.PositivePercent
		res.Scores = s.Scores
		writeJSON(w, http.StatusOK, res)
	}
}

func scoresAPIHandler(d *dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := &SeriesData[int]{
			Labels: make([]string, 0),
			Data:   make([]int, 0),
		}

		s, err := d.reviews.Summary(r.Context(), d.positiveScore)
		switch {
		case errors.Is(err, review.ErrEmptyTable):
			writeJSON(w, http.StatusOK, res)
			return
		case err != nil:
			slog.Error("failed to summarize reviews", "source", d.source, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to load reviews")
			return
		}

		for _, c := range s.Scores {
			res.Labels = append(res.Labels, strconv.Itoa(c.Score))
			res.Data = append(res.Data, c.Count)
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func reviewsAPIHandler(d *dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := queryParamInt(r, "limit", reviewLimitDefault, reviewLimitMax)

		list, err := d.reviews.Records(r.Context())
		if err != nil {
			slog.Error("failed to load reviews", "source", d.source, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to load reviews")
			return
		}

		if len(list) > limit {
			list = list[:limit]
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func classifyAPIHandler(d *dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req classifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			slog.Error("error binding json", "error", err)
			writeError(w, http.StatusBadRequest, "error binding json")
			return
		}

		res, err := d.model.Classify(req.Text)
		switch {
		case errors.Is(err, sentiment.ErrEmptyText):
			writeError(w, http.StatusBadRequest, msgEmptyText)
			return
		case errors.Is(err, sentiment.ErrModelUnavailable):
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		case err != nil:
			slog.Error("failed to classify text", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to classify text")
			return
		}

		writeJSON(w, http.StatusOK, res)
	}
}

func healthHandler(d *dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, &healthResponse{
			Status:         "ok",
			Version:        version,
			DatasetLoaded:  d.reviews.Loaded(),
			ModelAvailable: d.model.Available(),
		})
	}
}

func queryParamInt(r *http.Request, key string, def, maxVal int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}

	i, err := strconv.Atoi(v)
	if err != nil {
		slog.Error("error converting query string to int", "value", v, "error", err)
		return def
	}

	if i < 1 || i > maxVal {
		return def
	}

	return i
}
