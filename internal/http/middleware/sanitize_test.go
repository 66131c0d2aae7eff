package middleware

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-portfolio-backend/internal/apperror"
)

func echoBody(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

func TestSanitizeString(t *testing.T) {
	cases := map[string]string{
		"Jane Doe":                               "Jane Doe",
		"<script>alert(1)</script>Hello":         "Hello",
		"a<SCRIPT type=x>\nsteal()\n</script >b": "ab",
		"javascript:alert(1)":                    "alert(1)",
		`<img onerror = "x">`:                    `<img  "x">`,
		"one onload=two":                         "one two",
	}
	for in, want := range cases {
		if got := SanitizeString(in); got != want {
			t.Errorf("SanitizeString(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSanitize_FiltersNestedStrings(t *testing.T) {
	captureLogger(t)
	r := newEngine(ErrorOptions{}, Sanitize())
	r.POST("/echo", echoBody)

	in := `{"name":"<script>x()</script>Jane","tags":["javascript:go","ok"],"meta":{"bio":"<b onclick=1>hi</b>"},"n":12345678901234567890}`
	w := doRequest(r, http.MethodPost, "/echo", in, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "12345678901234567890") {
		t.Fatalf("large number altered: %s", w.Body.String())
	}

	var got struct {
		Name string            `json:"name"`
		Tags []string          `json:"tags"`
		Meta map[string]string `json:"meta"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Name != "Jane" || got.Tags[0] != "go" || got.Tags[1] != "ok" || got.Meta["bio"] != "<b 1>hi</b>" {
		t.Fatalf("unexpected sanitized body: %+v", got)
	}
}

func TestSanitize_PassThrough(t *testing.T) {
	captureLogger(t)
	r := newEngine(ErrorOptions{}, Sanitize())
	r.POST("/echo", echoBody)

	w := doRequest(r, http.MethodPost, "/echo", "<script>x</script>", map[string]string{"Content-Type": "text/plain"})
	if w.Code != http.StatusOK || w.Body.String() != "<script>x</script>" {
		t.Fatalf("non-JSON body must be untouched: %d %q", w.Code, w.Body.String())
	}

	w = doRequest(r, http.MethodPost, "/echo", "", nil)
	if w.Code != http.StatusOK || w.Body.Len() != 0 {
		t.Fatalf("empty body: %d %q", w.Code, w.Body.String())
	}
}

func TestSanitize_MalformedJSON(t *testing.T) {
	captureLogger(t)
	r := newEngine(ErrorOptions{}, Sanitize())
	r.POST("/echo", echoBody)

	w := doRequest(r, http.MethodPost, "/echo", `{"name" "x"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Error.Code != apperror.CodeValidation || env.Error.Message != "Malformed JSON body" {
		t.Fatalf("unexpected envelope: %+v", env.Error)
	}
}

func TestSanitize_RejectsTrailingData(t *testing.T) {
	captureLogger(t)
	r := newEngine(ErrorOptions{}, Sanitize())
	r.POST("/echo", echoBody)

	for _, body := range []string{`{"a":1} garbage`, `{"a":1}{"b":2}`} {
		w := doRequest(r, http.MethodPost, "/echo", body, nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%q: status = %d", body, w.Code)
		}
		if env := decodeEnvelope(t, w); env.Error.Message != "Malformed JSON body" {
			t.Fatalf("%q: unexpected envelope: %+v", body, env.Error)
		}
	}

	if w := doRequest(r, http.MethodPost, "/echo", "{\"a\":1}\n", nil); w.Code != http.StatusOK {
		t.Fatalf("trailing whitespace should be accepted, got %d", w.Code)
	}
}

func TestLimitBody(t *testing.T) {
	captureLogger(t)
	r := newEngine(ErrorOptions{}, LimitBody(16), Sanitize())
	r.POST("/echo", echoBody)

	w := doRequest(r, http.MethodPost, "/echo", `{"message":"`+strings.Repeat("a", 64)+`"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Error.Message != "Request body too large" {
		t.Fatalf("unexpected message %q", env.Error.Message)
	}

	if w := doRequest(r, http.MethodPost, "/echo", `{"a":1}`, nil); w.Code != http.StatusOK {
		t.Fatalf("small body: status = %d", w.Code)
	}
}
