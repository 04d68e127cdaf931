// api.go
package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"gonum.org/v1/plot/vg"

	"signalmap/internal/chart"
	"signalmap/internal/decode"
	"signalmap/internal/highlight"
	"signalmap/internal/httputil"
	"signalmap/internal/logging"
	"signalmap/internal/session"
)

const version = "1.0.0"

func healthHandler(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONOK(w, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   version,
	})
}

// validateFileHandler reports whether an upload would decode, without
// touching the session.
func (s *server) validateFileHandler(w http.ResponseWriter, r *http.Request) {
	filename, _, res := readUpload(r, s.cfg.UploadMemory)
	if res.Status == decode.StatusNoFile {
		httputil.WriteJSON(w, http.StatusBadRequest, APIResponse{Success: false, Error: "no file uploaded"})
		return
	}
	sheets := make([]string, 0, len(res.Sheets))
	for _, sh := range res.Sheets {
		sheets = append(sheets, sh.Name)
	}
	httputil.WriteJSONOK(w, APIResponse{
		Success: res.Status == decode.StatusDecoded,
		Data: map[string]interface{}{
			"filename":  filename,
			"supported": decode.Supported(filename),
			"status":    res.Status.String(),
			"sheets":    sheets,
		},
	})
}

// apiUploadHandler is the JSON form of the upload: the file arrives as a data
// URL and the resulting sections are returned.
func (s *server) apiUploadHandler(w http.ResponseWriter, r *http.Request) {
	id := s.sessionID(w, r)
	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.BadRequest(w, "invalid JSON body")
		return
	}

	res := decode.DecodeContents(req.Filename, req.Contents)
	sess := s.applyUpload(id, req.Filename, res.Size, res)
	if !charted(sess) {
		httputil.WriteJSONOK(w, APIResponse{Success: false, Error: UploadPrompt})
		return
	}
	httputil.WriteJSONOK(w, APIResponse{Success: true, Data: s.sections(sess)})
}

func (s *server) sessionHandler(w http.ResponseWriter, r *http.Request) {
	text, ok := s.store.Text(s.sessionID(w, r))
	if !ok {
		text, _ = session.Encode(session.Session{})
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(text))
}

// mapHandler recomputes one sheet's map for a hover over category x. A
// request without x clears the highlight.
func (s *server) mapHandler(w http.ResponseWriter, r *http.Request) {
	sheet := r.PathValue("sheet")
	h := highlight.Cleared
	if q := r.URL.Query(); q.Has("x") {
		h = highlight.At(q.Get("x"))
	}

	sess := s.store.Get(s.sessionID(w, r))
	view, ok := highlight.Render(sess, sheet, h)
	if !ok {
		httputil.NotFound(w, "unknown sheet")
		return
	}
	httputil.WriteJSONOK(w, chart.Options(chart.MapOptions(view)))
}

func (s *server) hoverHandler(w http.ResponseWriter, r *http.Request) {
	var req hoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.BadRequest(w, "invalid JSON body")
		return
	}
	hovers := make(map[string]highlight.Hover, len(req.Hovers))
	for sheet, x := range req.Hovers {
		hovers[sheet] = highlight.Hover{X: x}
	}

	sess := s.store.Get(s.sessionID(w, r))
	views, err := highlight.Batch(r.Context(), sess, hovers)
	if err != nil {
		logging.Warnf("hover batch: %v", err)
		httputil.InternalServerError(w, "failed to render maps")
		return
	}
	resp := hoverResponse{Maps: make(map[string]map[string]interface{}, len(views))}
	for sheet, view := range views {
		resp.Maps[sheet] = chart.Options(chart.MapOptions(view))
	}
	httputil.WriteJSONOK(w, resp)
}

func (s *server) linePNGHandler(w http.ResponseWriter, r *http.Request) {
	sheet := r.PathValue("sheet")
	sess := s.store.Get(s.sessionID(w, r))
	t, ok := sess.Sheet(sheet)
	if !ok {
		httputil.NotFound(w, "unknown sheet")
		return
	}

	line := chart.BuildLine(sheet, t, s.cfg.Series[sheet]...)
	var buf bytes.Buffer
	if err := chart.WritePNG(&buf, line, s.names.Lookup(sheet), 8*vg.Inch, 4*vg.Inch); err != nil {
		logging.Errorf("png %s: %v", sheet, err)
		httputil.InternalServerError(w, "failed to render chart")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}
