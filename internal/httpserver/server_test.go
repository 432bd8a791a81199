package httpserver

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/robalobadob/wordzapp/internal/config"
	"github.com/robalobadob/wordzapp/internal/game"
	"github.com/robalobadob/wordzapp/internal/progress"
	"github.com/robalobadob/wordzapp/internal/session"
	"github.com/robalobadob/wordzapp/internal/store"
	"github.com/robalobadob/wordzapp/internal/timer"
	"github.com/robalobadob/wordzapp/internal/words"
)

var testPacks = fstest.MapFS{
	"words.json":        {Data: []byte(`{"Food":["pie","pap","kota"],"Music":["jazz","kwaito"]}`)},
	"mzansi-words.json": {Data: []byte(`{"Braai":["boerewors","pap"],"Slang":["eish"]}`)},
}

type testEnv struct {
	srv      *Server
	sessions store.Store
	tracker  *progress.Tracker
}

func newTestEnv(t *testing.T, pinHash string) testEnv {
	t.Helper()
	sessions := store.NewMemoryStore()
	tracker := progress.NewTracker(progress.NewMemoryStore())
	srv := New(Deps{
		Config: config.Config{
			ClientOrigin:  "http://app.test",
			SessionSecret: "test-secret",
			SessionTTL:    time.Hour,
			ResetPINHash:  pinHash,
		},
		Sessions: sessions,
		Loader:   words.NewLoader(testPacks),
		Tracker:  tracker,
		HostOptions: session.Options{
			TickInterval:   50 * time.Millisecond,
			CountdownSteps: []timer.Step{},
			StartAfter:     time.Millisecond,
			Rand:           rand.New(rand.NewSource(1)),
		},
	})
	t.Cleanup(func() { sessions.Sweep(context.Background(), time.Now().Add(time.Hour)) })
	return testEnv{srv: srv, sessions: sessions, tracker: tracker}
}

func (e testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.srv.Router().ServeHTTP(rec, req)
	return rec
}

func (e testEnv) newSession(t *testing.T) (string, game.Session) {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/session", "", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /session = %d %s", rec.Code, rec.Body)
	}
	var res newSessionRes
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	return res.Token, res.State
}

func decodeOutcome(t *testing.T, rec *httptest.ResponseRecorder) session.Outcome {
	t.Helper()
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d %s", rec.Code, rec.Body)
	}
	var out session.Outcome
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	return out
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("error body not JSON: %v", err)
	}
	return body["error"]
}

func TestDiagnosticsAndCORS(t *testing.T) {
	e := newTestEnv(t, "")

	if rec := e.do(t, http.MethodGet, "/health", "", nil); rec.Code != 200 || !strings.Contains(rec.Body.String(), `"ok":true`) {
		t.Errorf("GET /health = %d %s", rec.Code, rec.Body)
	}

	rec := e.do(t, http.MethodGet, "/nope", "", nil)
	if rec.Code != http.StatusNotFound || errorCode(t, rec) != "not_found" {
		t.Errorf("GET /nope = %d", rec.Code)
	}

	rec = e.do(t, http.MethodOptions, "/session", "", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://app.test" {
		t.Errorf("Allow-Origin = %q", got)
	}
}

func TestCatalog(t *testing.T) {
	e := newTestEnv(t, "")

	var packs []words.Info
	rec := e.do(t, http.MethodGet, "/packs", "", nil)
	if err := json.NewDecoder(rec.Body).Decode(&packs); err != nil || len(packs) != 3 {
		t.Fatalf("GET /packs = %s (%v)", rec.Body, err)
	}

	rec = e.do(t, http.MethodGet, "/packs/standard", "", nil)
	var pack struct {
		ID         string         `json:"id"`
		Categories []categoryInfo `json:"categories"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&pack); err != nil {
		t.Fatal(err)
	}
	want := []categoryInfo{{"Food", 3}, {"Music", 2}}
	if len(pack.Categories) != 2 || pack.Categories[0] != want[0] || pack.Categories[1] != want[1] {
		t.Errorf("categories = %+v, want %+v", pack.Categories, want)
	}

	if rec := e.do(t, http.MethodGet, "/packs/klingon", "", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown pack = %d", rec.Code)
	}

	var modes []game.Policy
	rec = e.do(t, http.MethodGet, "/modes", "", nil)
	if err := json.NewDecoder(rec.Body).Decode(&modes); err != nil || len(modes) != 4 {
		t.Errorf("GET /modes = %s", rec.Body)
	}
}

func TestSessionAuth(t *testing.T) {
	e := newTestEnv(t, "")
	tests := []struct {
		name  string
		token string
		code  int
		err   string
	}{
		{"missing", "", http.StatusUnauthorized, "no_session"},
		{"forged", "not-a-jwt", http.StatusUnauthorized, "invalid_session"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(t, http.MethodGet, "/session", tt.token, nil)
			if rec.Code != tt.code || errorCode(t, rec) != tt.err {
				t.Errorf("GET /session = %d %s", rec.Code, rec.Body)
			}
		})
	}

	t.Run("swept", func(t *testing.T) {
		tok, _ := e.newSession(t)
		sid, err := e.srv.tokens.parse(tok)
		if err != nil {
			t.Fatal(err)
		}
		_ = e.sessions.Delete(context.Background(), sid)
		rec := e.do(t, http.MethodGet, "/session", tok, nil)
		if rec.Code != http.StatusNotFound || errorCode(t, rec) != "session_expired" {
			t.Errorf("GET /session = %d %s", rec.Code, rec.Body)
		}
	})

	t.Run("cookie", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, "/session", "", nil)
		var c *http.Cookie
		for _, ck := range rec.Result().Cookies() {
			if ck.Name == cookieName {
				c = ck
			}
		}
		if c == nil || !c.HttpOnly {
			t.Fatalf("session cookie = %+v", c)
		}
		req := httptest.NewRequest(http.MethodGet, "/session", nil)
		req.AddCookie(c)
		got := httptest.NewRecorder()
		e.srv.Router().ServeHTTP(got, req)
		if got.Code != http.StatusOK {
			t.Errorf("GET /session with cookie = %d", got.Code)
		}
	})
}

func TestNewSessionLoadsDefaultPack(t *testing.T) {
	e := newTestEnv(t, "")
	_, st := e.newSession(t)
	if st.Status != game.StatusIdle || st.WordPack != game.DefaultPack {
		t.Errorf("state = %+v", st)
	}
	if strings.Join(st.Categories, ",") != "Food,Music" {
		t.Errorf("categories = %v", st.Categories)
	}
}

func TestNewSessionReplacesOld(t *testing.T) {
	e := newTestEnv(t, "")
	old, _ := e.newSession(t)
	rec := e.do(t, http.MethodPost, "/session", old, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /session = %d", rec.Code)
	}
	if rec := e.do(t, http.MethodGet, "/session", old, nil); rec.Code != http.StatusNotFound {
		t.Errorf("old session still live: %d", rec.Code)
	}
}

func TestActionErrors(t *testing.T) {
	e := newTestEnv(t, "")
	tok, _ := e.newSession(t)
	tests := []struct {
		name string
		body any
		code int
		err  string
	}{
		{"unknown type", actionReq{Type: "dance"}, http.StatusBadRequest, "unknown_action"},
		{"tick", actionReq{Type: "tick"}, http.StatusBadRequest, "reserved_action"},
		{"bad mode", actionReq{Type: "setGameMode", Mode: "blitz"}, http.StatusBadRequest, "bad_value"},
		{"bad difficulty", actionReq{Type: "setDifficulty", Difficulty: "nightmare"}, http.StatusBadRequest, "bad_value"},
		{"unknown category", actionReq{Type: "selectCategory", Category: "Cars"}, http.StatusNotFound, "unknown_category"},
		{"unknown pack", actionReq{Type: "setWordPack", Pack: "klingon"}, http.StatusNotFound, "unknown_pack"},
		{"bad json", "{", http.StatusBadRequest, "bad_json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(t, http.MethodPost, "/session/actions", tok, tt.body)
			if rec.Code != tt.code || errorCode(t, rec) != tt.err {
				t.Errorf("POST /session/actions = %d %s", rec.Code, rec.Body)
			}
		})
	}
}

func TestPlayRoundAndProgress(t *testing.T) {
	e := newTestEnv(t, "")
	tok, _ := e.newSession(t)
	act := func(req actionReq) session.Outcome {
		t.Helper()
		return decodeOutcome(t, e.do(t, http.MethodPost, "/session/actions", tok, req))
	}

	out := act(actionReq{Type: "selectCategory", Category: "Food"})
	if out.State.SelectedCategory != "Food" || out.State.CurrentWord == "" || len(out.State.AvailableWords) != 2 {
		t.Fatalf("after selectCategory: %+v", out.State)
	}

	if out := act(actionReq{Type: "toggleTimer"}); out.State.Status != game.StatusCountdown {
		t.Fatalf("after toggleTimer: %s", out.State.Status)
	}
	deadline := time.Now().Add(2 * time.Second)
	for {
		var st game.Session
		_ = json.NewDecoder(e.do(t, http.MethodGet, "/session", tok, nil).Body).Decode(&st)
		if st.Status == game.StatusPlaying {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("countdown never finished: %s", st.Status)
		}
		time.Sleep(2 * time.Millisecond)
	}

	act(actionReq{Type: "markCorrect"})
	act(actionReq{Type: "markCorrect"})
	out = act(actionReq{Type: "markCorrect"})
	if out.State.Status != game.StatusEnded || len(out.State.CorrectWords) != 3 {
		t.Fatalf("after exhausting pool: %+v", out.State)
	}
	if len(out.Unlocked) != 1 || out.Unlocked[0].ID != "first_game" {
		t.Errorf("newAchievements = %+v", out.Unlocked)
	}

	var p progress.Progress
	_ = json.NewDecoder(e.do(t, http.MethodGet, "/progress", "", nil).Body).Decode(&p)
	if p.Stats.TotalGamesPlayed != 1 || p.Stats.TotalWordsGuessed != 3 || p.HighScores["Food"].Score != 3 {
		t.Errorf("progress = %+v", p)
	}

	var rows []struct {
		ID       string `json:"id"`
		Unlocked bool   `json:"unlocked"`
	}
	_ = json.NewDecoder(e.do(t, http.MethodGet, "/achievements", "", nil).Body).Decode(&rows)
	for _, r := range rows {
		if r.Unlocked != (r.ID == "first_game") {
			t.Errorf("achievement %s unlocked = %v", r.ID, r.Unlocked)
		}
	}

	if rec := e.do(t, http.MethodGet, "/history", "", nil); rec.Code != 200 || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("GET /history = %d %s", rec.Code, rec.Body)
	}
}

func TestSetWordPack(t *testing.T) {
	e := newTestEnv(t, "")
	tok, _ := e.newSession(t)
	out := decodeOutcome(t, e.do(t, http.MethodPost, "/session/actions", tok, actionReq{Type: "setWordPack", Pack: "all"}))
	if out.State.WordPack != "all" || strings.Join(out.State.Categories, ",") != "Food,Music,Braai,Slang" {
		t.Errorf("state = %+v", out.State)
	}
	out = decodeOutcome(t, e.do(t, http.MethodPost, "/session/actions", tok, actionReq{Type: "selectCategory", Category: "Braai"}))
	if out.State.SelectedCategory != "Braai" || out.State.CurrentWord == "" {
		t.Errorf("state = %+v", out.State)
	}
}

func TestTeamsOverHTTP(t *testing.T) {
	e := newTestEnv(t, "")
	tok, _ := e.newSession(t)
	act := func(req actionReq) session.Outcome {
		t.Helper()
		return decodeOutcome(t, e.do(t, http.MethodPost, "/session/actions", tok, req))
	}
	act(actionReq{Type: "setGameMode", Mode: "team"})
	out := act(actionReq{Type: "setTeams", Team1: " Lions ", Team2: ""})
	if out.State.Teams == nil || out.State.Teams[0].Name != "Lions" || out.State.Teams[1].Name != "Team 2" {
		t.Errorf("teams = %+v", out.State.Teams)
	}
}

func TestResetProgress(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("2468"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	e := newTestEnv(t, string(hash))
	e.tracker.RecordGameResult(context.Background(), progress.Result{Category: "Food", GameMode: "classic", CorrectCount: 2})

	req := httptest.NewRequest(http.MethodDelete, "/progress", nil)
	req.Header.Set("X-Reset-PIN", "1111")
	rec := httptest.NewRecorder()
	e.srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden || errorCode(t, rec) != "bad_pin" {
		t.Fatalf("wrong pin = %d %s", rec.Code, rec.Body)
	}

	req = httptest.NewRequest(http.MethodDelete, "/progress", nil)
	req.Header.Set("X-Reset-PIN", "2468")
	rec = httptest.NewRecorder()
	e.srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("right pin = %d %s", rec.Code, rec.Body)
	}
	if got := e.tracker.Progress(context.Background()).Stats.TotalGamesPlayed; got != 0 {
		t.Errorf("games after reset = %d", got)
	}
}

func TestEndSession(t *testing.T) {
	e := newTestEnv(t, "")
	tok, _ := e.newSession(t)
	if rec := e.do(t, http.MethodDelete, "/session", tok, nil); rec.Code != http.StatusOK {
		t.Fatalf("DELETE /session = %d", rec.Code)
	}
	if rec := e.do(t, http.MethodGet, "/session", tok, nil); rec.Code != http.StatusNotFound {
		t.Errorf("GET after delete = %d", rec.Code)
	}
}

func TestEventStream(t *testing.T) {
	e := newTestEnv(t, "")
	tok, _ := e.newSession(t)
	ts := httptest.NewServer(e.srv.Router())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/session/events", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q", ct)
	}

	sc := bufio.NewScanner(resp.Body)
	next := func() (string, string) {
		t.Helper()
		var kind, data string
		for sc.Scan() {
			line := sc.Text()
			switch {
			case strings.HasPrefix(line, "event: "):
				kind = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data = strings.TrimPrefix(line, "data: ")
			case line == "" && kind != "":
				return kind, data
			}
		}
		t.Fatalf("stream ended: %v", sc.Err())
		return "", ""
	}

	if kind, data := next(); kind != "state" || !strings.Contains(data, `"soundEnabled":true`) {
		t.Fatalf("first event = %s %s", kind, data)
	}

	post, _ := http.NewRequest(http.MethodPost, ts.URL+"/session/actions", strings.NewReader(`{"type":"toggleSound"}`))
	post.Header.Set("Authorization", "Bearer "+tok)
	pr, err := http.DefaultClient.Do(post)
	if err != nil {
		t.Fatal(err)
	}
	pr.Body.Close()

	if kind, data := next(); kind != "state" || !strings.Contains(data, `"soundEnabled":false`) {
		t.Errorf("pushed event = %s %s", kind, data)
	}
}

func TestHistoryLimit(t *testing.T) {
	e := newTestEnv(t, "")
	tests := []struct {
		query string
		code  int
	}{
		{"", http.StatusOK},
		{"?limit=5", http.StatusOK},
		{"?limit=5000000", http.StatusOK},
		{"?limit=abc", http.StatusBadRequest},
		{"?limit=0", http.StatusBadRequest},
		{"?limit=-2", http.StatusBadRequest},
		{"?limit=99999999999999999999", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := e.do(t, http.MethodGet, "/history"+tt.query, "", nil)
			if rec.Code != tt.code {
				t.Fatalf("GET /history%s = %d %s", tt.query, rec.Code, rec.Body)
			}
			if tt.code == http.StatusBadRequest && errorCode(t, rec) != "bad_value" {
				t.Errorf("error = %s", rec.Body)
			}
		})
	}
}
