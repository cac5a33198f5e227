// Package server exposes a thin JSON journey-query endpoint over a RAPTOR
// Assembly. It does not render HTML or provide stop-name autocomplete —
// those remain external collaborators.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/SantaClaas/raptor-go/model"
	"github.com/SantaClaas/raptor-go/raptor"
)

// Handler answers journey queries against one fixed Assembly. Assemble a
// fresh Handler whenever the underlying feed changes; Handler itself holds
// no mutable state.
type Handler struct {
	assembly *model.Assembly
}

// NewHandler wraps assembly for serving.
func NewHandler(assembly *model.Assembly) *Handler {
	return &Handler{assembly: assembly}
}

// Router builds the chi router this Handler serves on.
func Router(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})
	r.Use(c.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/journey", h.GetJourney)
	})

	return r
}

type legJSON struct {
	Kind      string `json:"kind"`
	FromStop  string `json:"from_stop"`
	ToStop    string `json:"to_stop"`
	TripID    string `json:"trip_id,omitempty"`
	Departure string `json:"departure,omitempty"`
	Arrival   string `json:"arrival,omitempty"`
	WalkTime  string `json:"walk_time,omitempty"`
}

type journeyJSON struct {
	Arrival string    `json:"arrival"`
	Legs    []legJSON `json:"legs"`
}

// GetJourney answers GET /api/v1/journey?from=<stop_id>&to=<stop_id>&departure=<H:MM:SS>.
func (h *Handler) GetJourney(w http.ResponseWriter, r *http.Request) {
	fromID := r.URL.Query().Get("from")
	toID := r.URL.Query().Get("to")
	if fromID == "" || toID == "" {
		http.Error(w, "missing from/to stop id", http.StatusBadRequest)
		return
	}

	from, ok := h.assembly.IndexByStopID[fromID]
	if !ok {
		http.Error(w, "unknown from stop id", http.StatusNotFound)
		return
	}
	to, ok := h.assembly.IndexByStopID[toID]
	if !ok {
		http.Error(w, "unknown to stop id", http.StatusNotFound)
		return
	}

	departure := model.Finite(0)
	if param := r.URL.Query().Get("departure"); param != "" {
		parsed, err := model.ParseTime(param)
		if err != nil {
			http.Error(w, "malformed departure time", http.StatusBadRequest)
			return
		}
		departure = parsed
	}

	rounds := raptor.Query(from, to, departure, &h.assembly.Routes, &h.assembly.Stops)
	journey, found := raptor.Reconstruct(rounds, h.assembly, from, to)
	if !found {
		http.Error(w, "target unreachable", http.StatusNotFound)
		return
	}

	response := journeyJSON{Arrival: journey.Arrival.String()}
	for _, leg := range journey.Legs {
		lj := legJSON{
			FromStop: stopID(h.assembly, leg.FromStop),
			ToStop:   stopID(h.assembly, leg.ToStop),
		}
		switch leg.Kind {
		case raptor.ConnectionRide:
			lj.Kind = "ride"
			lj.TripID = leg.TripID
			lj.Departure = leg.Departure.String()
			lj.Arrival = leg.Arrival.String()
		case raptor.ConnectionFootPath:
			lj.Kind = "walk"
			lj.WalkTime = leg.WalkTime.String()
		}
		response.Legs = append(response.Legs, lj)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func stopID(assembly *model.Assembly, index int) string {
	return assembly.Stops.Stops[index].ID
}
