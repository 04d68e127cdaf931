package logging

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	prev := GetLevel()
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		atomic.StoreInt32(&currentLevel, int32(prev))
	})
	return &buf
}

func TestLevelFiltering(t *testing.T) {
	buf := capture(t)
	SetLevel("warn")

	Infof("hidden %d", 1)
	Warnf("shown %d", 2)
	Errorf("also shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN] shown 2")
	assert.Contains(t, out, "[ERROR] also shown")
}

func TestSetLevelIgnoresUnknown(t *testing.T) {
	capture(t)
	SetLevel("debug")
	SetLevel("verbose")
	assert.Equal(t, LevelDebug, GetLevel())
}

func TestPlainMessageKeepsPercent(t *testing.T) {
	buf := capture(t)
	SetLevel("info")
	Infof("100%")
	assert.Contains(t, buf.String(), "[INFO] 100%")
	assert.NotContains(t, buf.String(), "MISSING")
}

func TestMiddlewareLogsStatus(t *testing.T) {
	buf := capture(t)
	SetLevel("info")

	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health?x=1", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Contains(t, buf.String(), "[GET] /health?x=1")
	assert.Contains(t, buf.String(), "418")
}
