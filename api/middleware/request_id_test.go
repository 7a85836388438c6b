package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func serveWithRequestID(t *testing.T, inbound string) *httptest.ResponseRecorder {
	t.Helper()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if inbound != "" {
		req.Header.Set(requestIDHeader, inbound)
	}
	rec := httptest.NewRecorder()
	RequestID(nil)(next).ServeHTTP(rec, req)
	return rec
}

func TestRequestIDEchoesInboundID(t *testing.T) {
	rec := serveWithRequestID(t, "client-supplied-id")
	if got := rec.Header().Get(requestIDHeader); got != "client-supplied-id" {
		t.Fatalf("expected inbound ID echoed, got %q", got)
	}
}

func TestRequestIDMintsWhenAbsent(t *testing.T) {
	rec := serveWithRequestID(t, "")
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatal("expected a generated request ID")
	}
}

func TestRequestIDDiscardsHostileIDs(t *testing.T) {
	cases := []struct {
		name    string
		inbound string
	}{
		{name: "oversized", inbound: strings.Repeat("a", maxRequestIDLen+1)},
		{name: "control characters", inbound: "abc\r\ndef"},
		{name: "whitespace", inbound: "has spaces"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serveWithRequestID(t, tc.inbound)
			got := rec.Header().Get(requestIDHeader)
			if got == tc.inbound || got == "" {
				t.Fatalf("expected a replacement ID, got %q", got)
			}
		})
	}
}
