package web

import (
	"io"
	"net/http"
	"path/filepath"

	"go.uber.org/zap"
)

// render expands webRoot/html/page for a new request number and writes it as the response.
func (s *Server) render(w http.ResponseWriter, r *http.Request, page string) {
	target := NewTarget(s.NextSerial(), w, r)
	path := filepath.Join(s.webRoot, "html", page)

	out, err := s.expanders.ExpandFile(path, target)
	if err != nil {
		s.logger.Error("rendering view failed",
			zap.String("path", path),
			zap.Int64("request", target.Serial()),
			zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, out)
}

// HomeGet shows the sign in page until sessions exist.
func (s *Server) HomeGet(w http.ResponseWriter, r *http.Request) {
	s.LoginGet(w, r)
}

func (s *Server) LoginGet(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "signin.html")
}

// LoginPost accepts any credentials for now.
// TODO: check the password against the user store and set a session cookie.
func (s *Server) LoginPost(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("login attempt", zap.String("email", r.PostFormValue("email")))
	s.render(w, r, "index.html")
}
