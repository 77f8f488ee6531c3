package webform

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"
)

type recordRunner struct {
	mu   sync.Mutex
	args [][]string
	err  error
}

func (r *recordRunner) Run(_ context.Context, args []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.args = append(r.args, args)
	return r.err
}

func postForm(t *testing.T, h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIndex(t *testing.T) {
	s := New(Config{Runner: &recordRunner{}})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{`name="mp_id"`, `name="min_phonon"`, `name="max_phonon"`, `name="time_length"`, `action="/submit"`} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %s", want)
		}
	}
}

func TestIndex_UnknownPath(t *testing.T) {
	s := New(Config{Runner: &recordRunner{}})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestSubmit(t *testing.T) {
	runner := &recordRunner{}
	s := New(Config{Runner: runner})

	rec := postForm(t, s.Handler(), "/submit", url.Values{
		"mp_id":       {"mp-149", "mp-2534"},
		"min_phonon":  {"1.5"},
		"max_phonon":  {"12"},
		"time_length": {"3"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if rec.Body.String() != SuccessMessage {
		t.Errorf("body = %q", rec.Body.String())
	}

	want := []string{"play", "--min-phonon", "1.5", "--max-phonon", "12", "--timelength", "3", "--", "mp-149", "mp-2534"}
	if len(runner.args) != 1 || !slices.Equal(runner.args[0], want) {
		t.Errorf("args = %v, want %v", runner.args, want)
	}
}

func TestSubmit_OptionalFieldsOmitted(t *testing.T) {
	runner := &recordRunner{}
	s := New(Config{Runner: runner, ExtraArgs: []string{"--context", "lab"}})

	rec := postForm(t, s.Handler(), "/submit", url.Values{
		"mp_id":      {"mp-149, mp-1", ""},
		"min_phonon": {""},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	want := []string{"play", "--context", "lab", "--", "mp-149", "mp-1"}
	if !slices.Equal(runner.args[0], want) {
		t.Errorf("args = %v, want %v", runner.args[0], want)
	}
}

func TestSubmit_RunnerError(t *testing.T) {
	runner := &recordRunner{err: errors.New("exit status 1: no phonon data")}
	s := New(Config{Runner: runner})

	rec := postForm(t, s.Handler(), "/submit", url.Values{"mp_id": {"mp-0"}})
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if want := ErrorPrefix + "exit status 1: no phonon data"; rec.Body.String() != want {
		t.Errorf("body = %q, want %q", rec.Body.String(), want)
	}
}

func TestSubmit_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
	}{
		{"missing id", url.Values{"time_length": {"5"}}},
		{"blank id", url.Values{"mp_id": {"  "}}},
		{"flag as id", url.Values{"mp_id": {"--wav=/etc/passwd"}}},
		{"bad float", url.Values{"mp_id": {"mp-149"}, "max_phonon": {"lots"}}},
		{"NaN", url.Values{"mp_id": {"mp-149"}, "min_phonon": {"NaN"}}},
		{"infinite", url.Values{"mp_id": {"mp-149"}, "max_phonon": {"+Inf"}}},
		{"infinite length", url.Values{"mp_id": {"mp-149"}, "time_length": {"inf"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &recordRunner{}
			s := New(Config{Runner: runner})
			rec := postForm(t, s.Handler(), "/submit", tt.form)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if !strings.HasPrefix(rec.Body.String(), ErrorPrefix) {
				t.Errorf("body = %q", rec.Body.String())
			}
			if len(runner.args) != 0 {
				t.Errorf("runner called with %v", runner.args)
			}
		})
	}
}

func TestSubmit_MethodNotAllowed(t *testing.T) {
	s := New(Config{Runner: &recordRunner{}})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/submit", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestStaticAndPlot(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "dos.png"), []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	runner := &recordRunner{}
	s := New(Config{Runner: runner, StaticDir: dir})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/dos.png", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "png" {
		t.Errorf("static: status = %d, body = %q", rec.Code, rec.Body.String())
	}

	rec = postForm(t, s.Handler(), "/plot", url.Values{"mp_id": {"mp-149"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("plot: status = %d, body = %s", rec.Code, rec.Body)
	}
	want := []string{"plot", "--output", "dos.png", "--output-dir", dir, "--", "mp-149"}
	if !slices.Equal(runner.args[0], want) {
		t.Errorf("args = %v, want %v", runner.args[0], want)
	}
}

func TestStaticDisabled(t *testing.T) {
	s := New(Config{Runner: &recordRunner{}})
	rec := postForm(t, s.Handler(), "/plot", url.Values{"mp_id": {"mp-149"}})
	if rec.Code == http.StatusOK {
		t.Error("/plot served without a static dir")
	}
}

func TestServe_Shutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	s := New(Config{Runner: &recordRunner{}})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestParseSubmission(t *testing.T) {
	sub, err := ParseSubmission(url.Values{
		"mp_id":       {"mp-149"},
		"time_length": {" 2.5 "},
	})
	if err != nil {
		t.Fatal(err)
	}
	if sub.Seconds != "2.5" || sub.MinPhonon != "" {
		t.Errorf("sub = %+v", sub)
	}
	if _, err := ParseSubmission(url.Values{"mp_id": {"mp-1"}, "min_phonon": {"1e"}}); err == nil {
		t.Error("expected error for invalid float")
	}
}
