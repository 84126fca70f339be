package cli

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/mchmarny/revpulse/pkg/review"
)

var templateFuncs = template.FuncMap{
	"mean": func(v float64) string {
		return fmt.Sprintf("%.2f", v)
	},
	"percent": func(v float64) string {
		return fmt.Sprintf("%.1f%%", v)
	},
}

func faviconHandler(w http.ResponseWriter, r *http.Request) {
	file, err := embedFS.ReadFile("assets/img/favicon.svg")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	if _, err = w.Write(file); err != nil {
		slog.Error("failed to write favicon", "error", err)
	}
}

func homeViewHandler(tmpl *template.Template, d *dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := map[string]any{
			"version":        version,
			"commit":         commit,
			"build_date":     date,
			"source":         d.source,
			"positive_score": d.positiveScore,
		}

		list, err := d.reviews.Records(r.Context())
		if err != nil {
			slog.Error("failed to load reviews", "source", d.source, "error", err)
			v["data_err"] = err.Error()
		} else {
			s, err := review.SummarizeAt(list, d.positiveScore)
			if err != nil {
				v["data_err"] = err.Error()
			} else {
				v["summary"] = s
			}
		}

		if _, err := d.model.Predictor(); err != nil {
			v["model_err"] = err.Error()
		}

		if err := tmpl.ExecuteTemplate(w, "home", v); err != nil {
			slog.Error("template render failed", "error", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}
