// handlers.go
package main

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"time"

	"signalmap/internal/chart"
	"signalmap/internal/config"
	"signalmap/internal/decode"
	"signalmap/internal/highlight"
	"signalmap/internal/logging"
	"signalmap/internal/session"
	"signalmap/internal/summary"
)

// UploadPrompt is shown whenever the session holds nothing to chart.
const UploadPrompt = "Please upload a spreadsheet to see signal levels."

type server struct {
	cfg   *config.Config
	store *session.Store
	names chart.DisplayNames
	now   func() time.Time
}

func newServer(cfg *config.Config) *server {
	return &server{
		cfg:   cfg,
		store: session.NewStore(cfg.SessionTTL),
		names: chart.NewDisplayNames(cfg.DisplayNames),
		now:   time.Now,
	}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.dashboardHandler)
	mux.HandleFunc("POST /upload", s.uploadHandler)
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})
	mux.HandleFunc("GET /health", healthHandler)
	mux.HandleFunc("POST /api/validate", s.validateFileHandler)
	mux.HandleFunc("POST /api/upload", s.apiUploadHandler)
	mux.HandleFunc("GET /api/session", s.sessionHandler)
	mux.HandleFunc("GET /api/sheets/{sheet}/map", s.mapHandler)
	mux.HandleFunc("GET /api/sheets/{sheet}/line.png", s.linePNGHandler)
	mux.HandleFunc("POST /api/hover", s.hoverHandler)
	return logging.Middleware(mux)
}

// sessionID returns the id carried by the request cookie, issuing a new one
// when there is none.
func (s *server) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(session.CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := session.NewID()
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	return id
}

// applyUpload replaces the session with a decoded upload, or clears it when
// nothing usable was uploaded.
func (s *server) applyUpload(id, filename string, size int64, res decode.Result) session.Session {
	if res.Empty() {
		if res.Status == decode.StatusUndecodable {
			logging.Infof("upload %q not decoded: %v", filename, res.Err)
		}
		s.store.Clear(id)
		return session.Session{}
	}
	sess := session.New(filename, size, s.now(), res.Sheets)
	if err := s.store.Put(id, sess); err != nil {
		logging.Errorf("store session: %v", err)
		s.store.Clear(id)
		return session.Session{}
	}
	logging.Infof("upload %q: %d sheet(s)", filename, len(res.Sheets))
	return sess
}

// charted reports whether sess has at least one sheet to draw. A session
// holding only the sites sheet is shown like an empty one.
func charted(sess session.Session) bool {
	return len(sess.ChartSheets()) > 0
}

// sections builds one Section per chart sheet in upload order.
func (s *server) sections(sess session.Session) []Section {
	pairs := highlight.Pairs(sess)
	out := make([]Section, 0, len(pairs))
	for _, p := range pairs {
		t, _ := sess.Sheet(p.Sheet)
		title := s.names.Lookup(p.Sheet)
		line := chart.BuildLine(p.Sheet, t, s.cfg.Series[p.Sheet]...)
		view, _ := highlight.Render(sess, p.Sheet, highlight.Cleared)
		out = append(out, Section{
			Sheet:    p.Sheet,
			Title:    title,
			LineID:   p.LineID,
			MapID:    p.MapID,
			RowCount: len(t.Rows),
			Line:     chart.Options(chart.LineOptions(line, title)),
			Map:      chart.Options(chart.MapOptions(view)),
			Stats:    summary.Compute(line),
		})
	}
	return out
}

func (s *server) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	sess := s.store.Get(s.sessionID(w, r))

	page := DashboardPage{AssetsHost: chart.AssetsHost}
	if !charted(sess) {
		page.Prompt = UploadPrompt
	} else {
		page.FileName = sess.FileName
		page.FileSize = sess.FileSize
		page.UploadedAt = sess.UploadedAt
		page.Sections = s.sections(sess)
	}

	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, page); err != nil {
		logging.Errorf("Template error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(buf.Bytes())
}

func (s *server) uploadHandler(w http.ResponseWriter, r *http.Request) {
	id := s.sessionID(w, r)
	filename, size, res := readUpload(r, s.cfg.UploadMemory)
	s.applyUpload(id, filename, size, res)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// readUpload decodes the multipart "file" field of r.
func readUpload(r *http.Request, memory int64) (string, int64, decode.Result) {
	if err := r.ParseMultipartForm(memory); err != nil {
		logging.Debugf("parse upload: %v", err)
		return "", 0, decode.Result{Status: decode.StatusNoFile}
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) {
			logging.Debugf("read upload: %v", err)
		}
		return "", 0, decode.Result{Status: decode.StatusNoFile}
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		return header.Filename, header.Size, decode.Result{Status: decode.StatusUndecodable, Err: err}
	}
	return header.Filename, header.Size, decode.Decode(header.Filename, payload)
}
