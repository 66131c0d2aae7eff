package middleware

import (
	"net/http"
	"testing"

	"github.com/tbourn/go-portfolio-backend/internal/apperror"
)

func corsEngine(opts CORSOptions) http.Handler {
	r := newEngine(ErrorOptions{}, CORS(opts)...)
	r.GET("/api/about", okHandler)
	r.POST("/api/contact", okHandler)
	return r
}

func TestCORS_AllowList(t *testing.T) {
	captureLogger(t)
	r := corsEngine(CORSOptions{AllowedOrigins: []string{"https://portfolio.example/"}})

	w := doRequest(r, http.MethodGet, "/api/about", "", map[string]string{"Origin": "https://portfolio.example"})
	if w.Code != http.StatusOK || w.Header().Get("Access-Control-Allow-Origin") != "https://portfolio.example" {
		t.Fatalf("allowed origin: %d ACAO=%q", w.Code, w.Header().Get("Access-Control-Allow-Origin"))
	}

	w = doRequest(r, http.MethodGet, "/api/about", "", map[string]string{"Origin": "https://evil.example"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("disallowed origin: status = %d", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Error.Code != apperror.CodeAuthorization || env.Error.Message != "CORS policy violation" {
		t.Fatalf("unexpected envelope: %+v", env.Error)
	}

	if w := doRequest(r, http.MethodGet, "/api/about", "", nil); w.Code != http.StatusOK {
		t.Fatalf("no origin should pass, got %d", w.Code)
	}
}

func TestCORS_Preflight(t *testing.T) {
	captureLogger(t)
	r := corsEngine(CORSOptions{AllowedOrigins: []string{"https://portfolio.example"}})

	w := doRequest(r, http.MethodOptions, "/api/contact", "", map[string]string{
		"Origin":                         "https://portfolio.example",
		"Access-Control-Request-Method":  "POST",
		"Access-Control-Request-Headers": "Content-Type, Idempotency-Key",
	})
	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "https://portfolio.example" {
		t.Fatalf("ACAO = %q", w.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestCORS_DevelopmentOrigins(t *testing.T) {
	captureLogger(t)
	dev := corsEngine(CORSOptions{AllowedOrigins: []string{"https://portfolio.example"}, Development: true})
	if w := doRequest(dev, http.MethodGet, "/api/about", "", map[string]string{"Origin": "http://localhost:5173"}); w.Code != http.StatusOK {
		t.Fatalf("dev origin: status = %d", w.Code)
	}

	prod := corsEngine(CORSOptions{AllowedOrigins: []string{"https://portfolio.example"}})
	if w := doRequest(prod, http.MethodGet, "/api/about", "", map[string]string{"Origin": "http://localhost:5173"}); w.Code != http.StatusForbidden {
		t.Fatalf("dev origin outside development: status = %d", w.Code)
	}

	devOnly := corsEngine(CORSOptions{Development: true})
	w := doRequest(devOnly, http.MethodGet, "/api/about", "", map[string]string{"Origin": "http://localhost:3000"})
	if w.Code != http.StatusOK || w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Fatalf("dev origin with empty list: %d ACAO=%q", w.Code, w.Header().Get("Access-Control-Allow-Origin"))
	}
	if w := doRequest(devOnly, http.MethodGet, "/api/about", "", map[string]string{"Origin": "https://anything.example"}); w.Code != http.StatusForbidden {
		t.Fatalf("foreign origin in development: status = %d", w.Code)
	}
}

func TestCORS_EmptyAllowListRejectsEveryOrigin(t *testing.T) {
	captureLogger(t)
	r := corsEngine(CORSOptions{})

	for _, origin := range []string{"https://evil.example", "http://localhost:3000"} {
		w := doRequest(r, http.MethodGet, "/api/about", "", map[string]string{"Origin": origin})
		if w.Code != http.StatusForbidden {
			t.Fatalf("%s: status = %d", origin, w.Code)
		}
		if acao := w.Header().Get("Access-Control-Allow-Origin"); acao != "" {
			t.Fatalf("%s: ACAO = %q", origin, acao)
		}
		if env := decodeEnvelope(t, w); env.Error.Code != apperror.CodeAuthorization {
			t.Fatalf("%s: envelope = %+v", origin, env.Error)
		}
	}

	w := doRequest(r, http.MethodOptions, "/api/contact", "", map[string]string{
		"Origin":                        "https://evil.example",
		"Access-Control-Request-Method": "POST",
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("preflight: status = %d", w.Code)
	}

	if w := doRequest(r, http.MethodGet, "/api/about", "", nil); w.Code != http.StatusOK {
		t.Fatalf("no origin should pass, got %d", w.Code)
	}
}
