package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

var correlationIDRE = regexp.MustCompile(`^[0-9a-z]+-[0-9a-z]{9}$`)

func TestNewCorrelationID_FormatAndUniqueness(t *testing.T) {
	seen := make(map[string]bool, 1000)
	for i := 0; i < 1000; i++ {
		id := NewCorrelationID()
		if !correlationIDRE.MatchString(id) {
			t.Fatalf("bad id format %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestRequestContextDecorator_EchoesAndScopes(t *testing.T) {
	buf := captureLogger(t)
	r := newEngine(ErrorOptions{})
	var rc *RequestContext
	r.GET("/ctx", func(c *gin.Context) {
		rc = FromContext(c.Request.Context())
		zerolog.Ctx(c.Request.Context()).Info().Msg("inside handler")
		c.Status(http.StatusNoContent)
	})

	w := doRequest(r, http.MethodGet, "/ctx", "", map[string]string{"User-Agent": "tester/2"})
	id := w.Header().Get(HeaderRequestID)
	if !correlationIDRE.MatchString(id) {
		t.Fatalf("X-Request-ID = %q", id)
	}
	if rc == nil || rc.CorrelationID != id || rc.UserAgent != "tester/2" || rc.StartedAt.IsZero() {
		t.Fatalf("unexpected request context: %+v", rc)
	}

	l := findLog(logLines(t, buf), "inside handler")
	if l == nil || l["correlation_id"] != id || l["user_agent"] != "tester/2" {
		t.Fatalf("ctx logger not scoped: %v", l)
	}
}

func TestRequestContextDecorator_InboundID(t *testing.T) {
	captureLogger(t)
	r := newEngine(ErrorOptions{})
	r.GET("/ctx", func(c *gin.Context) { c.String(http.StatusOK, CorrelationID(c)) })

	w := doRequest(r, http.MethodGet, "/ctx", "", map[string]string{HeaderRequestID: "edge-1234.abc_Z"})
	if got := w.Header().Get(HeaderRequestID); got != "edge-1234.abc_Z" || w.Body.String() != got {
		t.Fatalf("inbound id not honored: header=%q body=%q", got, w.Body.String())
	}

	w = doRequest(r, http.MethodGet, "/ctx", "", map[string]string{HeaderRequestID: "bad id <script>"})
	if got := w.Header().Get(HeaderRequestID); !correlationIDRE.MatchString(got) {
		t.Fatalf("malformed inbound id should be replaced, got %q", got)
	}
}

func TestRequestContextDecorator_LogsClientAbort(t *testing.T) {
	buf := captureLogger(t)
	r := newEngine(ErrorOptions{})
	r.GET("/slow", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/slow", nil).WithContext(ctx)
	r.ServeHTTP(httptest.NewRecorder(), req)

	l := findLog(logLines(t, buf), "request aborted by client")
	if l == nil || l["level"] != "warn" || l["path"] != "/slow" {
		t.Fatalf("expected abort warning, got %s", buf.String())
	}
}

func TestRequestContextFrom_Fallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	rc := RequestContextFrom(c)
	if rc == nil || rc.Logger == nil {
		t.Fatal("fallback context must be usable")
	}
	if LoggerFrom(c) == nil {
		t.Fatal("fallback logger must be usable")
	}
	if FromContext(context.Background()) != nil {
		t.Fatal("empty ctx should yield nil")
	}
}
