package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDecodeErr(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		expected int
	}{
		{name: "syntax", body: `{"k": }`, expected: http.StatusBadRequest},
		{name: "type", body: `{"k": "two"}`, expected: http.StatusBadRequest},
		{name: "unknown_field", body: `{"x": 1}`, expected: http.StatusBadRequest},
		{name: "empty", body: ``, expected: http.StatusBadRequest},
		{name: "unexpected_eof", err: io.ErrUnexpectedEOF, expected: http.StatusBadRequest},
		{name: "too_large", err: errors.New("http: request body too large"), expected: http.StatusRequestEntityTooLarge},
		{name: "other", err: errors.New("boom"), expected: http.StatusInternalServerError},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.err
			if err == nil {
				var v struct {
					K int `json:"k"`
				}
				d := json.NewDecoder(strings.NewReader(test.body))
				d.DisallowUnknownFields()
				err = d.Decode(&v)
				if err == nil {
					t.Fatalf("decoding %q should fail", test.body)
				}
			}
			w := httptest.NewRecorder()
			DecodeErr(context.Background(), w, err)
			if w.Code != test.expected {
				t.Errorf("status got: %d, expected: %d", w.Code, test.expected)
			}
			var resp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Error == "" {
				t.Errorf("body is not an error response: %q", w.Body.String())
			}
		})
	}
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	tests := []struct {
		name           string
		origins        []string
		origin         string
		method         string
		preflight      bool
		expectedStatus int
		expectedAllow  string
	}{
		{name: "wildcard", origins: []string{"*"}, origin: "http://a.example", method: http.MethodPost, expectedStatus: http.StatusTeapot, expectedAllow: "*"},
		{name: "listed", origins: []string{"http://a.example"}, origin: "http://a.example", method: http.MethodPost, expectedStatus: http.StatusTeapot, expectedAllow: "http://a.example"},
		{name: "not_listed", origins: []string{"http://a.example"}, origin: "http://b.example", method: http.MethodPost, expectedStatus: http.StatusTeapot, expectedAllow: ""},
		{name: "preflight", origins: []string{"*"}, origin: "http://a.example", method: http.MethodOptions, preflight: true, expectedStatus: http.StatusNoContent, expectedAllow: "*"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := httptest.NewRequest(test.method, "/api/kmeans", nil)
			r.Header.Set("Origin", test.origin)
			if test.preflight {
				r.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}
			w := httptest.NewRecorder()
			CORS(test.origins, next).ServeHTTP(w, r)
			if w.Code != test.expectedStatus {
				t.Errorf("status got: %d, expected: %d", w.Code, test.expectedStatus)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != test.expectedAllow {
				t.Errorf("allow origin got: %q, expected: %q", got, test.expectedAllow)
			}
		})
	}
}

func TestIsJSON(t *testing.T) {
	tests := []struct {
		contentType string
		expected    bool
	}{
		{contentType: "application/json", expected: true},
		{contentType: "application/json; charset=utf-8", expected: true},
		{contentType: "text/plain", expected: false},
		{contentType: "", expected: false},
	}
	for _, test := range tests {
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		r.Header.Set("Content-Type", test.contentType)
		if got := IsJSON(r); got != test.expected {
			t.Errorf("IsJSON(%q) got: %v, expected: %v", test.contentType, got, test.expected)
		}
	}
}
