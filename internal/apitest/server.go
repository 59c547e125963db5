// Package apitest runs an in-process fake of the catalog service for tests.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/mavinms/prism-project/client"
)

// Route names used by Fail and Calls.
const (
	RouteTerms     = "terms"
	RouteSubjects  = "subjects"
	RouteBySubject = "by_subject"
	RouteTerm      = "term"
	RouteTermMeta  = "term_meta"
	RouteSetMeta   = "set_meta"
	RouteAllMeta   = "all_meta"
	RouteCounts    = "meta_counts"
	RouteFilter    = "meta_filter"
	RouteStats     = "stats"
)

// Server is a fake catalog service backed by memory.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	terms    []client.TermDetail
	meta     map[string]client.TermMetadata
	failures map[string]int
	calls    map[string]int
	tests    int
	now      func() time.Time
}

// New starts a fake service holding terms. Metadata starts empty.
func New(terms ...client.Term) *Server {
	s := &Server{
		meta:     make(map[string]client.TermMetadata),
		failures: make(map[string]int),
		calls:    make(map[string]int),
		now:      time.Now,
	}
	for _, t := range terms {
		s.terms = append(s.terms, client.TermDetail{Term: t})
	}
	sort.SliceStable(s.terms, func(i, j int) bool {
		if s.terms[i].Subject != s.terms[j].Subject {
			return s.terms[i].Subject < s.terms[j].Subject
		}
		return s.terms[i].Name < s.terms[j].Name
	})
	s.Server = httptest.NewServer(s.router())
	return s
}

func (s *Server) router() *mux.Router {
	r := mux.NewRouter().UseEncodedPath()
	r.HandleFunc("/api/terms", s.track(RouteTerms, s.listTerms)).Methods("GET")
	r.HandleFunc("/api/subjects", s.track(RouteSubjects, s.listSubjects)).Methods("GET")
	r.HandleFunc("/api/terms/subject/{subject}", s.track(RouteBySubject, s.bySubject)).Methods("GET")
	r.HandleFunc("/api/term/meta", s.track(RouteSetMeta, s.setMeta)).Methods("POST")
	r.HandleFunc("/api/term/meta/{term}", s.track(RouteTermMeta, s.termMeta)).Methods("GET")
	r.HandleFunc("/api/term/{term}", s.track(RouteTerm, s.getTerm)).Methods("GET")
	r.HandleFunc("/api/meta/all", s.track(RouteAllMeta, s.allMeta)).Methods("GET")
	r.HandleFunc("/api/meta/counts", s.track(RouteCounts, s.counts)).Methods("GET")
	r.HandleFunc("/api/meta/filter/{type}", s.track(RouteFilter, s.filter)).Methods("GET")
	r.HandleFunc("/api/meta/filter/{type}/{param}", s.track(RouteFilter, s.filter)).Methods("GET")
	r.HandleFunc("/api/stats/overview", s.track(RouteStats, s.stats)).Methods("GET")
	return r
}

// Fail makes route answer with status until cleared with status 0.
func (s *Server) Fail(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failures, route)
		return
	}
	s.failures[route] = status
}

// Calls returns how many requests route has served, failures included.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// SetMeta seeds metadata for term.
func (s *Server) SetMeta(term string, m client.TermMetadata) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta[term] = m
}

// Meta returns the stored metadata for term.
func (s *Server) Meta(term string) (client.TermMetadata, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.meta[term]
	return m, ok
}

// SetTestsCreated sets the tests_created stat.
func (s *Server) SetTestsCreated(n int) {
	s.mu.Lock()
	s.tests = n
	s.mu.Unlock()
}

func (s *Server) track(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[route]++
		status := s.failures[route]
		s.mu.Unlock()
		if status != 0 {
			writeJSON(w, status, client.ErrorResponse{Error: http.StatusText(status)})
			return
		}
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func pathVar(r *http.Request, name string) string {
	raw := mux.Vars(r)[name]
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func summary(t client.TermDetail) client.Term {
	return client.Term{Name: t.Name, Subject: t.Subject}
}

func (s *Server) metaFor(term string) client.TermMetadata {
	m, ok := s.meta[term]
	if !ok || m.Difficulty == "" {
		m.Difficulty = client.DifficultyUnknown
	}
	return m
}

func (s *Server) listTerms(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]client.Term, 0, len(s.terms))
	for _, t := range s.terms {
		out = append(out, summary(t))
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listSubjects(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	counts := make(map[string]int)
	for _, t := range s.terms {
		counts[t.Subject]++
	}
	s.mu.Unlock()
	out := make([]client.Subject, 0, len(counts))
	for name, n := range counts {
		out = append(out, client.Subject{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) bySubject(w http.ResponseWriter, r *http.Request) {
	subject := pathVar(r, "subject")
	out := s.selectTerms(func(t client.TermDetail, _ client.TermMetadata, _ bool) bool {
		return t.Subject == subject
	})
	writeJSON(w, http.StatusOK, out)
}

// selectTerms returns matching term summaries ordered by name.
func (s *Server) selectTerms(keep func(client.TermDetail, client.TermMetadata, bool) bool) []client.Term {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []client.Term{}
	for _, t := range s.terms {
		m, ok := s.meta[t.Name]
		if keep(t, m, ok) {
			out = append(out, summary(t))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Server) getTerm(w http.ResponseWriter, r *http.Request) {
	name := pathVar(r, "term")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.terms {
		if t.Name != name {
			continue
		}
		m := s.metaFor(name)
		now := s.now()
		m.LastViewed = &now
		s.meta[name] = m
		t.Meta = m
		writeJSON(w, http.StatusOK, t)
		return
	}
	writeJSON(w, http.StatusNotFound, client.ErrorResponse{Error: "Term not found"})
}

func (s *Server) termMeta(w http.ResponseWriter, r *http.Request) {
	name := pathVar(r, "term")
	s.mu.Lock()
	m := s.metaFor(name)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) setMeta(w http.ResponseWriter, r *http.Request) {
	var req client.SetMetaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, client.AckResponse{Error: "invalid JSON"})
		return
	}
	if strings.TrimSpace(req.Term) == "" {
		writeJSON(w, http.StatusBadRequest, client.AckResponse{Error: "Term is required"})
		return
	}
	s.mu.Lock()
	m := s.metaFor(req.Term)
	req.MetaUpdate.ApplyTo(&m)
	s.meta[req.Term] = m
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, client.AckResponse{Success: true})
}

func (s *Server) allMeta(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]client.MetaSummary, 0, len(s.meta))
	for term, m := range s.meta {
		out = append(out, client.MetaSummary{
			Term:       term,
			Favorite:   m.Favorite,
			Bookmark:   m.Bookmark,
			Difficulty: m.Difficulty,
			Rating:     m.Rating,
			HasNotes:   client.Flag(m.Notes != ""),
		})
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Term < out[j].Term })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) counts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	var c client.MetaCounts
	for _, m := range s.meta {
		if m.Notes != "" {
			c.WithNotes++
		}
		switch m.Difficulty {
		case client.DifficultyEasy:
			c.Easy++
		case client.DifficultyMedium:
			c.Medium++
		case client.DifficultyHard:
			c.Hard++
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) filter(w http.ResponseWriter, r *http.Request) {
	typ := client.FilterType(pathVar(r, "type"))
	param := pathVar(r, "param")

	var keep func(client.TermDetail, client.TermMetadata, bool) bool
	switch {
	case typ == client.FilterFavorites:
		keep = func(_ client.TermDetail, m client.TermMetadata, ok bool) bool { return ok && bool(m.Favorite) }
	case typ == client.FilterBookmarks:
		keep = func(_ client.TermDetail, m client.TermMetadata, ok bool) bool { return ok && bool(m.Bookmark) }
	case typ == client.FilterNotes:
		keep = func(_ client.TermDetail, m client.TermMetadata, ok bool) bool { return ok && m.Notes != "" }
	case typ == client.FilterDifficulty && param != "":
		keep = func(_ client.TermDetail, m client.TermMetadata, ok bool) bool {
			return ok && string(m.Difficulty) == param
		}
	default:
		writeJSON(w, http.StatusBadRequest, client.ErrorResponse{Error: "Invalid filter type"})
		return
	}
	writeJSON(w, http.StatusOK, s.selectTerms(keep))
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := client.StatsOverview{TotalTerms: len(s.terms), TestsCreated: s.tests}
	week := s.now().Add(-7 * 24 * time.Hour)
	for _, m := range s.meta {
		if m.Favorite {
			out.Favorites++
		}
		if m.Bookmark {
			out.Bookmarks++
		}
		if m.LastViewed != nil && m.LastViewed.After(week) {
			out.RecentViews++
		}
	}
	writeJSON(w, http.StatusOK, out)
}
