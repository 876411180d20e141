package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func TestFail_ServerErrorIsLoggedWithCause(t *testing.T) {
	r := gin.New()
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Request-ID", "rid-500")
		c.Set("logger", &logger)
		c.Next()
	})
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("db closed"))
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
	})

	w := (&testEnv{r: r}).do(http.MethodGet, "/boom", "", nil, nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", w.Code)
	}
	resp := decode[ErrorResponse](t, w)
	if resp.RequestID != "rid-500" || resp.Code != ErrCodeInternal || resp.Details != nil {
		t.Fatalf("unexpected body: %+v", resp)
	}
	logs := buf.String()
	if !strings.Contains(logs, `"level":"error"`) || !strings.Contains(logs, "db closed") {
		t.Fatalf("expected error log with cause, got: %s", logs)
	}
}

func TestFailWith_DetailsAndClientErrorsNotLogged(t *testing.T) {
	r := gin.New()
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	r.Use(func(c *gin.Context) {
		c.Set("logger", &logger)
		c.Next()
	})
	r.GET("/bad", func(c *gin.Context) {
		failWith(c, http.StatusBadRequest, ErrCodeValidation, "validation failed", []map[string]string{{"field": "phone"}})
	})
	r.GET("/missing", func(c *gin.Context) {
		Fail(c, http.StatusNotFound, ErrCodeNotFound, "nope")
	})
	r.DELETE("/gone", func(c *gin.Context) { noContent(c) })
	e := &testEnv{r: r}

	w := e.do(http.MethodGet, "/bad", "", nil, nil)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), `"details":[{"field":"phone"}]`) {
		t.Fatalf("unexpected 400: %d %s", w.Code, w.Body.String())
	}
	w = e.do(http.MethodGet, "/missing", "", nil, nil)
	if w.Code != http.StatusNotFound || strings.Contains(w.Body.String(), "details") {
		t.Fatalf("unexpected 404: %d %s", w.Code, w.Body.String())
	}
	if buf.Len() != 0 {
		t.Fatalf("4xx must not log, got: %s", buf.String())
	}

	w = e.do(http.MethodDelete, "/gone", "", nil, nil)
	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Fatalf("unexpected 204: %d %q", w.Code, w.Body.String())
	}
}
