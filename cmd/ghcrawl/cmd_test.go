package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

const (
	searchPage1 = `<html><body>
<div data-testid="results-list">
	<div class="search-title"><a href="/alice/one">alice/one</a></div>
</div>
<a rel="next" href="/search?p=2">Next</a>
</body></html>`

	searchPage2 = `<html><body>
<div data-testid="results-list">
	<div class="search-title"><a href="/bob/two">bob/two</a></div>
</div>
</body></html>`

	repoPage = `<html><body>
<h2>Languages</h2>
<ul>
	<li><a class="d-inline-flex"><span>CSS</span><span>70.0%</span></a></li>
	<li><a class="d-inline-flex"><span>HTML</span><span>30.0%</span></a></li>
</ul>
</body></html>`
)

// newSearchServer serves a two-page repository search for "nova css".
// The second repository's page always fails.
func newSearchServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("p") == "2" {
			fmt.Fprint(w, searchPage2)
			return
		}
		if r.URL.Query().Get("q") != "nova css" {
			fmt.Fprint(w, `<html><body><div data-testid="results-list"></div></body></html>`)
			return
		}
		fmt.Fprint(w, searchPage1)
	})
	mux.HandleFunc("/alice/one", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, repoPage)
	})
	mux.HandleFunc("/bob/two", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// writeFile writes content to name inside dir and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// executeCmd runs the root command isolated from any config or dotenv
// file on the machine, and returns stdout and stderr.
func executeCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cfgPath := writeFile(t, t.TempDir(), "config.yaml", "")
	base := []string{"--config", cfgPath, "--env-file", ""}

	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(append([]string{}, args...), base...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
