package toolrouter

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/golang-jwt/jwt/v5"

	"github.com/biotica/biotica/internal/eventlog"
)

// RunSurface is the set of mutating operations the HTTP layer exposes
// behind JWT auth, distinct from the read-only Router queries above (§4.12
// itself names only reads; the run surface — create/load/pause/resume/
// speed/reset — is the scheduler-and-kernel control plane this transport
// also fronts, per §6.3).
type RunSurface interface {
	Pause()
	Resume()
	SetSpeed(multiplier float64)
	CreateWorld(req CreateWorldRequest) error
	LoadWorld(blob []byte) error
	Reset(seed int32)
}

// Server wires Router's read operations and a RunSurface's mutating
// operations onto an HTTP mux, grounded on the same net/http + websocket
// pairing this module uses for its own dashboard.
type Server struct {
	router *Router
	run    RunSurface
	jwtKey []byte
	mux    *chi.Mux
}

// NewServer builds the HTTP surface. jwtKey authenticates requests to
// mutating routes under /run/*; read routes under /query/* are open.
func NewServer(rt *Router, run RunSurface, jwtKey []byte) *Server {
	s := &Server{router: rt, run: run, jwtKey: jwtKey}
	s.mux = chi.NewRouter()
	s.mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
	}))
	s.routes()
	return s
}

// ServeHTTP lets Server satisfy http.Handler directly.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.mux.ServeHTTP(w, r) }

func (s *Server) routes() {
	s.mux.Route("/query", func(r chi.Router) {
		r.Get("/world-summary", s.handleWorldSummary)
		r.Get("/species/top", s.handleTopSpecies)
		r.Get("/species/{id}", s.handleSpecies)
		r.Get("/species/{id}/lineage", s.handleSpeciesLineage)
		r.Get("/creatures/{id}", s.handleCreature)
		r.Get("/creatures", s.handleSearchCreatures)
		r.Get("/civs/{id}", s.handleCiv)
		r.Get("/civs", s.handleListCivs)
		r.Get("/civs/{id}/territory", s.handleTerritory)
		r.Get("/events/active", s.handleActiveEvents)
		r.Get("/events/{id}", s.handleEvent)
		r.Get("/eras", s.handleListEras)
		r.Get("/eras/{index}", s.handleEra)
		r.Get("/region", s.handleQueryRegion)
		r.Get("/logs", s.handleRecentLogs)
	})

	s.mux.Route("/run", func(r chi.Router) {
		r.Use(s.requireJWT)
		r.Post("/pause", s.handlePause)
		r.Post("/resume", s.handleResume)
		r.Post("/speed/{multiplier}", s.handleSpeed)
		r.Post("/create", s.handleCreateWorld)
		r.Post("/load", s.handleLoadWorld)
		r.Post("/reset/{seed}", s.handleReset)
	})
}

// requireJWT rejects any /run/* request lacking a valid bearer token
// signed with the server's key (§6: mutating run-surface routes are
// JWT-gated; reads are not).
func (s *Server) requireJWT(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("Authorization")
		if len(raw) < 8 || raw[:7] != "Bearer " {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		token, err := jwt.Parse(raw[7:], func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return s.jwtKey, nil
		})
		if err != nil || !token.Valid {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeNotFound(w http.ResponseWriter, err error) {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		w.WriteHeader(http.StatusNotFound)
		writeJSON(w, map[string]string{"kind": nf.Kind, "id": nf.ID})
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func (s *Server) handleWorldSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.router.GetWorldSummary())
}

func (s *Server) handleTopSpecies(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 0)
	size := queryInt(r, "size", 20)
	writeJSON(w, s.router.GetTopSpecies(page, size))
}

func (s *Server) handleSpecies(w http.ResponseWriter, r *http.Request) {
	sp, err := s.router.GetSpecies(chi.URLParam(r, "id"))
	if err != nil {
		writeNotFound(w, err)
		return
	}
	writeJSON(w, sp)
}

func (s *Server) handleSpeciesLineage(w http.ResponseWriter, r *http.Request) {
	chain, err := s.router.GetSpeciesLineage(chi.URLParam(r, "id"))
	if err != nil {
		writeNotFound(w, err)
		return
	}
	writeJSON(w, chain)
}

func (s *Server) handleCreature(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid creature id", http.StatusBadRequest)
		return
	}
	c, err := s.router.GetCreature(id)
	if err != nil {
		writeNotFound(w, err)
		return
	}
	writeJSON(w, c)
}

func (s *Server) handleSearchCreatures(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit := queryInt(r, "limit", 50)
	writeJSON(w, s.router.SearchCreatures(query, limit))
}

func (s *Server) handleCiv(w http.ResponseWriter, r *http.Request) {
	f, err := s.router.GetCiv(chi.URLParam(r, "id"))
	if err != nil {
		writeNotFound(w, err)
		return
	}
	writeJSON(w, f)
}

func (s *Server) handleListCivs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.router.ListCivs(queryInt(r, "limit", 0)))
}

func (s *Server) handleTerritory(w http.ResponseWriter, r *http.Request) {
	t, err := s.router.GetTerritory(chi.URLParam(r, "id"))
	if err != nil {
		writeNotFound(w, err)
		return
	}
	writeJSON(w, t)
}

func (s *Server) handleActiveEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.router.ListActiveEvents())
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid event id", http.StatusBadRequest)
		return
	}
	e, err := s.router.GetEvent(id)
	if err != nil {
		writeNotFound(w, err)
		return
	}
	writeJSON(w, e)
}

func (s *Server) handleListEras(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.router.ListEras())
}

func (s *Server) handleEra(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "invalid era index", http.StatusBadRequest)
		return
	}
	era, err := s.router.GetEra(idx)
	if err != nil {
		writeNotFound(w, err)
		return
	}
	writeJSON(w, era)
}

func (s *Server) handleQueryRegion(w http.ResponseWriter, r *http.Request) {
	x0 := queryInt(r, "x0", 0)
	y0 := queryInt(r, "y0", 0)
	x1 := queryInt(r, "x1", 0)
	y1 := queryInt(r, "y1", 0)
	writeJSON(w, s.router.QueryRegion(x0, y0, x1, y1))
}

func (s *Server) handleRecentLogs(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 50)
	writeJSON(w, s.router.GetRecentLogs(filterFromQuery(r), page, limit))
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.run.Pause()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	s.run.Resume()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	v, err := strconv.ParseFloat(chi.URLParam(r, "multiplier"), 64)
	if err != nil {
		http.Error(w, "invalid speed multiplier", http.StatusBadRequest)
		return
	}
	s.run.SetSpeed(v)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateWorld(w http.ResponseWriter, r *http.Request) {
	var req CreateWorldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid create-world body", http.StatusBadRequest)
		return
	}
	if err := s.run.CreateWorld(req); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLoadWorld(w http.ResponseWriter, r *http.Request) {
	blob, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read save blob", http.StatusBadRequest)
		return
	}
	if err := s.run.LoadWorld(blob); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	seed, err := strconv.ParseInt(chi.URLParam(r, "seed"), 10, 32)
	if err != nil {
		http.Error(w, "invalid seed", http.StatusBadRequest)
		return
	}
	s.run.Reset(int32(seed))
	w.WriteHeader(http.StatusNoContent)
}

func filterFromQuery(r *http.Request) eventlog.Filter {
	f := eventlog.Filter{
		SubjectID: r.URL.Query().Get("subjectId"),
		FactionID: r.URL.Query().Get("factionId"),
		SinceTick: queryInt(r, "sinceTick", 0),
	}
	if raw := r.URL.Query().Get("category"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			c := eventlog.Category(v)
			f.Category = &c
		}
	}
	if raw := r.URL.Query().Get("severity"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			sev := eventlog.Severity(v)
			f.Severity = &sev
		}
	}
	return f
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
