// Package apitest runs an in-process stand-in for the content API so the
// gateway, services and CLI can be exercised end to end over real HTTP.
//
// It is deliberately small: users and posts live in maps, tokens are HS256
// JWTs signed with a per-server secret, and a few knobs reproduce the
// envelope and error variations seen from the real API.
package apitest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Account is a user known to the fake API.
type Account struct {
	ID       string
	Name     string
	Email    string
	Password string
	Role     string
	Created  time.Time
}

// Article is a post known to the fake API.
type Article struct {
	ID       string
	Title    string
	Content  string
	Tags     []string
	AuthorID string
	Created  time.Time
}

type Server struct {
	*httptest.Server

	// ListKey wraps list responses: "" for a bare array, otherwise the key
	// ("data", "DATA", "posts", "users"). Defaults to "data".
	ListKey string
	// NestAuth puts login/register/me payloads under "data".
	NestAuth bool
	// LogoutStatus, when non-zero, is returned by the logout endpoint.
	LogoutStatus int

	mu       sync.Mutex
	secret   []byte
	accounts map[string]*Account
	articles map[string]*Article
	revoked  map[string]bool
	nextUser int
	nextPost int
	requests []string
}

type ctxKey struct{}

// NewServer starts a fake API; it is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		ListKey:  "data",
		secret:   []byte(uuid.NewString()),
		accounts: map[string]*Account{},
		articles: map[string]*Article{},
		revoked:  map[string]bool{},
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)

	r.Post("/api/auth/register", s.register)
	r.Post("/api/auth/login", s.login)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate(false))
		r.Get("/api/post", s.listPosts)
		r.Get("/api/post/{id}", s.getPost)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate(true))
		r.Post("/api/auth/logout", s.logout)
		r.Get("/api/users/me", s.me)
		r.Get("/api/post/my-posts", s.myPosts)

		r.With(s.requireRole("editor", "admin")).Post("/api/post", s.createPost)
		r.With(s.requireRole("editor", "admin")).Put("/api/post/{id}", s.updatePost)
		r.With(s.requireRole("editor", "admin")).Delete("/api/post/{id}", s.deletePost)

		r.With(s.requireRole("admin")).Get("/api/users", s.listUsers)
		r.With(s.requireRole("admin")).Delete("/api/users/{id}", s.deleteUser)
	})
	return r
}

// AddUser seeds an account and returns its id.
func (s *Server) AddUser(name, email, password, role string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(name, email, password, role).ID
}

func (s *Server) addUserLocked(name, email, password, role string) *Account {
	s.nextUser++
	a := &Account{
		ID:       fmt.Sprint(s.nextUser),
		Name:     name,
		Email:    email,
		Password: password,
		Role:     role,
		Created:  time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
	}
	s.accounts[a.ID] = a
	return a
}

// AddPost seeds a post and returns its id.
func (s *Server) AddPost(title, content string, tags []string, authorID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addPostLocked(title, content, tags, authorID).ID
}

func (s *Server) addPostLocked(title, content string, tags []string, authorID string) *Article {
	s.nextPost++
	a := &Article{
		ID:       fmt.Sprintf("p%d", s.nextPost),
		Title:    title,
		Content:  content,
		Tags:     tags,
		AuthorID: authorID,
		Created:  time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(s.nextPost) * time.Hour),
	}
	s.articles[a.ID] = a
	return a
}

// IssueToken mints a valid bearer token for the user id.
func (s *Server) IssueToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return tok
}

// Post returns a copy of the stored post, if any.
func (s *Server) Post(id string) (Article, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.articles[id]
	if !ok {
		return Article{}, false
	}
	return *a, true
}

// HasUser reports whether the account still exists.
func (s *Server) HasUser(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.accounts[id]
	return ok
}

// Requests returns "METHOD /path" for every request received so far.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// CountRequests counts received requests matching "METHOD /path".
func (s *Server) CountRequests(line string) int {
	n := 0
	for _, r := range s.Requests() {
		if r == line {
			n++
		}
	}
	return n
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Method+" "+r.URL.Path)
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				if required {
					writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "No token provided"})
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			acc, err := s.accountFromToken(raw)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid token"})
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, acc)))
		})
	}
}

func (s *Server) accountFromToken(raw string) (*Account, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revoked[claims.ID] {
		return nil, fmt.Errorf("token revoked")
	}
	acc, ok := s.accounts[claims.Subject]
	if !ok {
		return nil, fmt.Errorf("unknown subject")
	}
	copied := *acc
	return &copied, nil
}

func (s *Server) requireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			acc := current(r)
			for _, role := range roles {
				if acc.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeJSON(w, http.StatusForbidden, map[string]any{"message": "Access denied"})
		})
	}
}

func current(r *http.Request) *Account {
	acc, _ := r.Context().Value(ctxKey{}).(*Account)
	return acc
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name, Email, Password, Role string
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"msg": "Malformed body"})
		return
	}

	s.mu.Lock()
	for _, a := range s.accounts {
		if strings.EqualFold(a.Email, in.Email) {
			s.mu.Unlock()
			writeJSON(w, http.StatusBadRequest, map[string]any{"msg": "User already exists"})
			return
		}
	}
	if in.Role == "" {
		in.Role = "user"
	}
	acc := s.addUserLocked(in.Name, in.Email, in.Password, in.Role)
	s.mu.Unlock()

	s.writeAuth(w, http.StatusCreated, acc, "User registered successfully")
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var in struct{ Email, Password string }
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"msg": "Malformed body"})
		return
	}

	s.mu.Lock()
	var found *Account
	for _, a := range s.accounts {
		if strings.EqualFold(a.Email, in.Email) {
			found = a
		}
	}
	s.mu.Unlock()

	switch {
	case found == nil:
		writeJSON(w, http.StatusNotFound, map[string]any{"msg": "User not found"})
	case found.Password != in.Password:
		writeJSON(w, http.StatusUnauthorized, map[string]any{"msg": "Invalid password"})
	default:
		s.writeAuth(w, http.StatusOK, found, "")
	}
}

func (s *Server) writeAuth(w http.ResponseWriter, status int, acc *Account, msg string) {
	payload := map[string]any{"user": userJSON(acc), "token": s.IssueToken(acc.ID)}
	if s.NestAuth {
		payload = map[string]any{"data": payload}
	}
	if msg != "" {
		payload["msg"] = msg
	}
	writeJSON(w, status, payload)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if s.LogoutStatus != 0 {
		writeJSON(w, s.LogoutStatus, map[string]any{"message": http.StatusText(s.LogoutStatus)})
		return
	}

	raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err == nil {
		s.mu.Lock()
		s.revoked[claims.ID] = true
		s.mu.Unlock()
	}
	writeJSON(w, http.StatusOK, map[string]any{"msg": "Logged out"})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	payload := map[string]any{"user": userJSON(current(r))}
	if s.NestAuth {
		payload = map[string]any{"data": payload}
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	s.writeList(w, s.postsWhere(func(*Article) bool { return true }))
}

func (s *Server) myPosts(w http.ResponseWriter, r *http.Request) {
	me := current(r)
	s.writeList(w, s.postsWhere(func(a *Article) bool { return a.AuthorID == me.ID }))
}

func (s *Server) getPost(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	a, ok := s.articles[chi.URLParam(r, "id")]
	var out map[string]any
	if ok {
		out = s.postJSONLocked(a)
	}
	s.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Post not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"post": out})
}

type postBody struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tag     []string `json:"tag"`
	Author  string   `json:"author"`
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	var in postBody
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Title is required"})
		return
	}

	s.mu.Lock()
	a := s.addPostLocked(in.Title, in.Content, in.Tag, current(r).ID)
	out := s.postJSONLocked(a)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{"post": out})
}

func (s *Server) updatePost(w http.ResponseWriter, r *http.Request) {
	var in postBody
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Malformed body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.articles[chi.URLParam(r, "id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Post not found"})
		return
	}
	a.Title, a.Content, a.Tags = in.Title, in.Content, in.Tag
	writeJSON(w, http.StatusOK, map[string]any{"post": s.postJSONLocked(a)})
}

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	_, ok := s.articles[id]
	delete(s.articles, id)
	s.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Post not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Post deleted"})
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	ids := make([]string, 0, len(s.accounts))
	for id := range s.accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		out = append(out, userJSON(s.accounts[id]))
	}
	s.mu.Unlock()

	s.writeList(w, out)
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	_, ok := s.accounts[id]
	delete(s.accounts, id)
	s.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "User not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "User deleted"})
}

func (s *Server) postsWhere(keep func(*Article) bool) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]*Article, 0, len(s.articles))
	for _, a := range s.articles {
		if keep(a) {
			list = append(list, a)
		}
	}
	// newest first, like the real feed
	sort.Slice(list, func(i, j int) bool { return list[i].Created.After(list[j].Created) })

	out := make([]map[string]any, 0, len(list))
	for _, a := range list {
		out = append(out, s.postJSONLocked(a))
	}
	return out
}

func (s *Server) postJSONLocked(a *Article) map[string]any {
	var author any = a.AuthorID
	if acc, ok := s.accounts[a.AuthorID]; ok {
		author = map[string]any{"_id": acc.ID, "name": acc.Name}
	}
	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}
	return map[string]any{
		"_id":       a.ID,
		"title":     a.Title,
		"content":   a.Content,
		"tag":       tags,
		"author":    author,
		"createdAt": a.Created.Format(time.RFC3339),
	}
}

func userJSON(a *Account) map[string]any {
	return map[string]any{
		"id":        a.ID,
		"name":      a.Name,
		"email":     a.Email,
		"role":      a.Role,
		"createdAt": a.Created.Format(time.RFC3339),
	}
}

func (s *Server) writeList(w http.ResponseWriter, items []map[string]any) {
	if s.ListKey == "" {
		writeJSON(w, http.StatusOK, items)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{s.ListKey: items})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
