package web

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spirefy/go-hcv/template"
	"github.com/spirefy/go-hcv/types"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	root := t.TempDir()
	html := filepath.Join(root, "html")
	require.NoError(t, os.Mkdir(html, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(html, "signin.html"), []byte("<form>#<?hcv request_number?></form>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(html, "index.html"), []byte("<h1>welcome <?hcv request_number?></h1>"), 0o644))

	expanders := template.NewRegistry(nil)
	template.RegisterBuiltins(expanders, nil)
	return NewServer(":0", root, expanders, nil)
}

func TestServer_LoginGet(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "<form>#1</form>\n", rec.Body.String())
}

func TestServer_HomeRendersSignIn(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "<form>#1</form>\n", rec.Body.String())
}

func TestServer_LoginPost(t *testing.T) {
	s := newTestServer(t)

	form := url.Values{"email": {"a@b.c"}, "password": {"secret"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<h1>welcome 1</h1>\n", rec.Body.String())
}

func TestServer_WrongMethod(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/login", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServer_MissingTemplate(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, os.Remove(filepath.Join(s.webRoot, "html", "signin.html")))

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_RequestNumbersAreUnique(t *testing.T) {
	s := newTestServer(t)

	var wg sync.WaitGroup
	bodies := make([]string, 50)
	for i := range bodies {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
			bodies[i] = rec.Body.String()
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, b := range bodies {
		assert.False(t, seen[b], "duplicate body %q", b)
		seen[b] = true
	}
	assert.Equal(t, int64(51), s.NextSerial())
}

func TestServer_Endpoint(t *testing.T) {
	s := newTestServer(t)
	var endpoint types.Endpoint = s

	endpoint.Handle("/hello", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "hello from plugin")
	}))
	require.NoError(t, endpoint.Expanders().Register("shout", func(t types.Target, instr types.Instruction) {
		io.WriteString(t.Output(), strings.ToUpper(instr.Arg))
	}))
	require.NoError(t, os.WriteFile(filepath.Join(s.webRoot, "html", "signin.html"), []byte("<?hcv shout hi?>"), 0o644))

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hello", nil))
	assert.Equal(t, "hello from plugin", rec.Body.String())

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Equal(t, "HI\n", rec.Body.String())

	assert.Equal(t, ":0", endpoint.Addr())
}

func TestTarget(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	target := NewTarget(9, rec, req)

	assert.Equal(t, types.TargetHTTP, target.Kind())
	assert.Equal(t, int64(9), target.Serial())
	assert.Same(t, req, target.Request())

	io.WriteString(target.Output(), "direct")
	assert.Equal(t, "direct", rec.Body.String())
}
