package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-portfolio-backend/internal/apperror"
)

func idemProbe(c *gin.Context) {
	key, has := GetIdempotencyKey(c)
	c.JSON(http.StatusOK, gin.H{
		"key":    key,
		"has":    has,
		"replay": IsReplay(c),
		"bypass": IsRateBypass(c),
	})
}

func TestIdempotencyValidator_IgnoresNonPOSTAndMissingHeader(t *testing.T) {
	captureLogger(t)
	called := false
	r := newEngine(ErrorOptions{}, IdempotencyValidator(IdempotencyOptions{}, func(context.Context, string, string) (bool, error) {
		called = true
		return true, nil
	}))
	r.GET("/p", idemProbe)
	r.POST("/p", idemProbe)

	w := doRequest(r, http.MethodGet, "/p", "", map[string]string{HeaderIdempotencyKey: "abc"})
	if !strings.Contains(w.Body.String(), `"has":false`) {
		t.Fatalf("GET should ignore the header: %s", w.Body.String())
	}
	w = doRequest(r, http.MethodPost, "/p", "", nil)
	if !strings.Contains(w.Body.String(), `"has":false`) {
		t.Fatalf("missing header should be a no-op: %s", w.Body.String())
	}
	if called {
		t.Fatal("lookup must not run without a key")
	}
}

func TestIdempotencyValidator_InvalidKey(t *testing.T) {
	captureLogger(t)
	r := newEngine(ErrorOptions{}, IdempotencyValidator(IdempotencyOptions{MaxLen: 10}, nil))
	r.POST("/p", idemProbe)

	for _, key := range []string{"has space", "toolong-123", "semi;colon"} {
		w := doRequest(r, http.MethodPost, "/p", "", map[string]string{HeaderIdempotencyKey: key})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%q: status = %d", key, w.Code)
		}
		env := decodeEnvelope(t, w)
		if env.Error.Code != apperror.CodeValidation || env.Error.Message != "Invalid Idempotency-Key" {
			t.Fatalf("%q: unexpected envelope %+v", key, env.Error)
		}
		if len(env.Error.Details) != 1 || env.Error.Details[0].Location != "headers" || env.Error.Details[0].Value != key {
			t.Fatalf("%q: unexpected details %+v", key, env.Error.Details)
		}
	}
}

func TestIdempotencyValidator_ReplayFlags(t *testing.T) {
	captureLogger(t)
	var gotClient, gotKey string
	r := newEngine(ErrorOptions{}, IdempotencyValidator(IdempotencyOptions{}, func(_ context.Context, clientKey, key string) (bool, error) {
		gotClient, gotKey = clientKey, key
		return key == "seen-1", nil
	}))
	r.POST("/p", idemProbe)

	w := doRequest(r, http.MethodPost, "/p", "", map[string]string{HeaderIdempotencyKey: "seen-1", "X-Forwarded-For": "203.0.113.7"})
	body := w.Body.String()
	if !strings.Contains(body, `"replay":true`) || !strings.Contains(body, `"bypass":true`) || !strings.Contains(body, `"key":"seen-1"`) {
		t.Fatalf("replay not flagged: %s", body)
	}
	if gotClient != "203.0.113.7" || gotKey != "seen-1" {
		t.Fatalf("lookup args = %q %q", gotClient, gotKey)
	}

	w = doRequest(r, http.MethodPost, "/p", "", map[string]string{HeaderIdempotencyKey: "fresh:2"})
	if body := w.Body.String(); !strings.Contains(body, `"replay":false`) || !strings.Contains(body, `"has":true`) {
		t.Fatalf("fresh key flagged as replay: %s", body)
	}
}

func TestIdempotencyValidator_LookupErrorDoesNotBlock(t *testing.T) {
	buf := captureLogger(t)
	r := newEngine(ErrorOptions{}, IdempotencyValidator(IdempotencyOptions{}, func(context.Context, string, string) (bool, error) {
		return false, errors.New("db locked")
	}))
	r.POST("/p", idemProbe)

	w := doRequest(r, http.MethodPost, "/p", "", map[string]string{HeaderIdempotencyKey: "k1"})
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"replay":false`) {
		t.Fatalf("unexpected: %d %s", w.Code, w.Body.String())
	}
	if findLog(logLines(t, buf), "idempotency lookup failed") == nil {
		t.Fatalf("expected lookup warning, got %s", buf.String())
	}
}
