// Package server exposes the bot webhook and the dashboard over HTTP.
package server

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"stockAnalysis/internal/analytics"
	"stockAnalysis/internal/dashboard"
)

// DatasetFunc returns the dataset the dashboard is computed on.
type DatasetFunc func() (*dashboard.Dataset, error)

// NewHTTPMux registers the dashboard routes. webhook may be nil when the bot
// is disabled.
func NewHTTPMux(webhook http.HandlerFunc, svc *dashboard.Service, data DatasetFunc) *http.ServeMux {
	mux := http.NewServeMux()
	if webhook != nil {
		mux.HandleFunc("/telegram/webhook", webhook)
	}
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) })
	mux.HandleFunc("GET /charts/{file}", chartHandler(svc, data))
	mux.HandleFunc("GET /report.md", reportHandler(svc, data, false))
	mux.HandleFunc("GET /report.html", reportHandler(svc, data, true))
	return mux
}

// chartHandler serves /charts/{section}.png; ?month=YYYY-MM selects the
// month of the monthly chart.
func chartHandler(svc *dashboard.Service, data DatasetFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, ok := strings.CutSuffix(r.PathValue("file"), ".png")
		if !ok {
			http.NotFound(w, r)
			return
		}
		section, err := dashboard.ParseSection(name)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		ds, err := data()
		if err != nil {
			log.Error().Err(err).Msg("http: load dataset")
			http.Error(w, "data unavailable", http.StatusServiceUnavailable)
			return
		}
		start := time.Now()
		img, err := svc.Chart(ds, section, r.URL.Query().Get("month"))
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		log.Debug().Str("section", name).Dur("took", time.Since(start)).Msg("http: chart served")
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "max-age=60")
		w.Write(img)
	}
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// reportHandler serves the dashboard report as markdown, or as an HTML page
// when asHTML is set.
func reportHandler(svc *dashboard.Service, data DatasetFunc, asHTML bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ds, err := data()
		if err != nil {
			log.Error().Err(err).Msg("http: load dataset")
			http.Error(w, "data unavailable", http.StatusServiceUnavailable)
			return
		}
		report, err := svc.Report(ds, r.URL.Query().Get("month"))
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		md, err := report.Markdown()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if !asHTML {
			w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
			w.Write([]byte(md))
			return
		}
		var page bytes.Buffer
		page.WriteString("<!doctype html>\n<html><head><meta charset=\"utf-8\"><title>Stock Dashboard</title></head><body>\n")
		if err := markdown.Convert([]byte(md), &page); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		page.WriteString("</body></html>\n")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(page.Bytes())
	}
}

func statusFor(err error) int {
	var (
		insufficient *analytics.InsufficientDataError
		unknown      *analytics.UnknownTickerError
		schema       *analytics.SchemaError
	)
	switch {
	case errors.As(err, &insufficient), errors.As(err, &unknown):
		return http.StatusUnprocessableEntity
	case errors.As(err, &schema):
		return http.StatusInternalServerError
	case errors.Is(err, dashboard.ErrInvalidMonth):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func ListenAndServe(addr string, mux *http.ServeMux) error {
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	return srv.ListenAndServe()
}
