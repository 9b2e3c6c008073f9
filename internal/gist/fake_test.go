package gist

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"
)

// fakeGitHub serves the subset of the gists API the client uses.
type fakeGitHub struct {
	t     *testing.T
	srv   *httptest.Server
	token string

	mu      sync.Mutex
	gists   map[string]map[string]string
	nextID  int
	rawCode int
}

func newFakeGitHub(t *testing.T, token string) *fakeGitHub {
	t.Helper()

	f := &fakeGitHub{t: t, token: token, gists: map[string]map[string]string{}}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /gists", f.auth(f.list))
	mux.HandleFunc("POST /gists", f.auth(f.create))
	mux.HandleFunc("GET /gists/{id}", f.auth(f.get))
	mux.HandleFunc("PATCH /gists/{id}", f.auth(f.edit))
	mux.HandleFunc("GET /raw/{id}/{file}", f.raw)

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)

	return f
}

func (f *fakeGitHub) put(id, file, content string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.gists[id] == nil {
		f.gists[id] = map[string]string{}
	}

	f.gists[id][file] = content
}

func (f *fakeGitHub) content(id, file string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.gists[id][file]
}

func (f *fakeGitHub) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if f.token != "" && r.Header.Get("Authorization") != "Bearer "+f.token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
			return
		}

		next(w, r)
	}
}

func (f *fakeGitHub) gistJSON(id string) map[string]any {
	files := map[string]any{}
	for name := range f.gists[id] {
		files[name] = map[string]any{
			"filename": name,
			"raw_url":  fmt.Sprintf("%s/raw/%s/%s", f.srv.URL, id, name),
		}
	}

	return map[string]any{
		"id":          id,
		"description": "My App Data",
		"html_url":    "https://gist.github.com/" + id,
		"public":      false,
		"files":       files,
		"updated_at":  "2024-03-01T12:00:00Z",
	}
}

func (f *fakeGitHub) get(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := r.PathValue("id")
	if _, ok := f.gists[id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		return
	}

	writeJSON(w, http.StatusOK, f.gistJSON(id))
}

type gistPayload struct {
	Description string `json:"description"`
	Public      bool   `json:"public"`
	Files       map[string]struct {
		Content string `json:"content"`
	} `json:"files"`
}

func (f *fakeGitHub) edit(w http.ResponseWriter, r *http.Request) {
	var p gistPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	id := r.PathValue("id")
	if _, ok := f.gists[id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		return
	}

	for name, file := range p.Files {
		f.gists[id][name] = file.Content
	}

	writeJSON(w, http.StatusOK, f.gistJSON(id))
}

func (f *fakeGitHub) create(w http.ResponseWriter, r *http.Request) {
	var p gistPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	id := "abc123"
	if f.nextID > 0 {
		id = "gist" + strconv.Itoa(f.nextID)
	}
	f.nextID++

	f.gists[id] = map[string]string{}
	for name, file := range p.Files {
		f.gists[id][name] = file.Content
	}

	body := f.gistJSON(id)
	body["description"] = p.Description
	body["public"] = p.Public
	writeJSON(w, http.StatusCreated, body)
}

func (f *fakeGitHub) list(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := make([]string, 0, len(f.gists))
	for id := range f.gists {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page == 0 {
		page = 1
	}

	// one gist per page exercises pagination
	var out []map[string]any
	if page <= len(ids) {
		out = append(out, f.gistJSON(ids[page-1]))
	}

	if page < len(ids) {
		w.Header().Set("Link", fmt.Sprintf(`<%s/gists?page=%d>; rel="next"`, f.srv.URL, page+1))
	}

	if out == nil {
		out = []map[string]any{}
	}

	writeJSON(w, http.StatusOK, out)
}

func (f *fakeGitHub) raw(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.rawCode != 0 {
		w.WriteHeader(f.rawCode)
		return
	}

	content, ok := f.gists[r.PathValue("id")][r.PathValue("file")]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	_, _ = w.Write([]byte(content))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
