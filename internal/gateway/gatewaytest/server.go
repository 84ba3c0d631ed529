// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gatewaytest provides an in-process fake of the copilot service
// for tests.
package gatewaytest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/jeranaias/copilot-tui/internal/model"
)

// Account is a user the fake service accepts.
type Account struct {
	Password string
	User     model.User
}

// Answer is a canned reply to a query.
type Answer struct {
	Response    string
	Intent      string
	Suggestions []map[string]string
	KBMatches   []string
}

// Server is a fake copilot service. Fields may be changed between
// requests; all access is guarded by the server's lock.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	accounts  map[string]Account
	tokens    map[string]string // token -> username
	answers   map[string]Answer
	fallback  Answer
	failQuery int
	queries   []string
	feedback  []map[string]interface{}
}

// Default accounts mirror the service's demo users.
var (
	Alice = Account{Password: "alice123", User: model.User{Username: "alice", Name: "Alice Smith", Role: model.RoleUser}}
	Admin = Account{Password: "admin123", User: model.User{Username: "admin", Name: "Admin User", Role: model.RoleAdmin}}
)

// New starts a fake service with the default accounts.
func New() *Server {
	s := &Server{
		accounts: map[string]Account{
			Alice.User.Username: Alice,
			Admin.User.Username: Admin,
		},
		tokens:  make(map[string]string),
		answers: make(map[string]Answer),
		fallback: Answer{
			Response: "I can help you with Unix commands and system checks.",
			Intent:   "general_query",
		},
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Get("/profile", s.handleProfile)
	})
	r.Post("/chat/query", s.handleQuery)
	r.Post("/feedback/submit", s.handleFeedback)
	return r
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// AddAccount registers another user.
func (s *Server) AddAccount(a Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[a.User.Username] = a
}

// SetAnswer sets the reply for an exact query text.
func (s *Server) SetAnswer(query string, a Answer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers[query] = a
}

// SetFallback sets the reply for queries with no specific answer.
func (s *Server) SetFallback(a Answer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fallback = a
}

// FailQueries makes every query and feedback request answer with status.
// Zero restores normal behavior.
func (s *Server) FailQueries(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failQuery = status
}

// IssueToken creates a valid token for username without a login request.
func (s *Server) IssueToken(username string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := uuid.NewString()
	s.tokens[token] = username
	return token
}

// RevokeAll invalidates every issued token.
func (s *Server) RevokeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = make(map[string]string)
}

// Queries returns the query texts received so far.
func (s *Server) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries...)
}

// Feedback returns the feedback bodies received so far.
func (s *Server) Feedback() []map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]interface{}(nil), s.feedback...)
}

// =============================================================================
// HANDLERS
// =============================================================================

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Missing JSON in request")
		return
	}
	if body.Username == "" || body.Password == "" {
		respondError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	s.mu.Lock()
	acct, ok := s.accounts[body.Username]
	if !ok || acct.Password != body.Password {
		s.mu.Unlock()
		respondError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	token := uuid.NewString()
	s.tokens[token] = body.Username
	s.mu.Unlock()

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"access_token": token,
		"user":         acct.User,
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authorize(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid token")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authorize(r); !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid token")
		return
	}

	var body struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Query == "" {
		respondError(w, http.StatusBadRequest, "Query is required")
		return
	}

	s.mu.Lock()
	s.queries = append(s.queries, body.Query)
	status := s.failQuery
	answer, ok := s.answers[body.Query]
	if !ok {
		answer = s.fallback
	}
	s.mu.Unlock()

	if status != 0 {
		respondError(w, status, "Internal server error")
		return
	}

	suggestions := answer.Suggestions
	if suggestions == nil {
		suggestions = []map[string]string{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"intent":                 answer.Intent,
		"entities":               map[string][]string{},
		"response":               answer.Response,
		"automation_suggestions": suggestions,
		"kb_matches":             answer.KBMatches,
	})
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authorize(r); !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid token")
		return
	}

	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Missing JSON in request")
		return
	}

	s.mu.Lock()
	status := s.failQuery
	if status == 0 {
		s.feedback = append(s.feedback, body)
	}
	s.mu.Unlock()

	if status != 0 {
		respondError(w, status, "Internal server error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Feedback submitted successfully",
		"feedback": body,
	})
}

func (s *Server) authorize(r *http.Request) (model.User, bool) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token == "" {
		return model.User{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	username, ok := s.tokens[token]
	if !ok {
		return model.User{}, false
	}
	return s.accounts[username].User, true
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
