package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLocaleDetection(t *testing.T) {
	tests := []struct {
		name   string
		accept string
		want   string
	}{
		{name: "spanish", accept: "es-MX,es;q=0.9", want: "es"},
		{name: "french", accept: "fr-CA", want: "fr"},
		{name: "unsupported falls back to english", accept: "zh-CN", want: "en"},
		{name: "missing header", accept: "", want: "en"},
		{name: "quality ordering", accept: "fr;q=0.3,es;q=0.9", want: "es"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got string
			handler := Locale(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = LocaleFromContext(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.accept != "" {
				req.Header.Set("Accept-Language", tc.accept)
			}
			handler.ServeHTTP(httptest.NewRecorder(), req)
			if got != tc.want {
				t.Fatalf("locale = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCountryResolution(t *testing.T) {
	lookupCalled := false
	lookup := func(ip string) (string, error) {
		lookupCalled = true
		if ip == "203.0.113.9" {
			return "de", nil
		}
		return "", errors.New("unknown ip")
	}

	t.Run("header wins over lookup", func(t *testing.T) {
		var got string
		handler := Locale(lookup)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = CountryFromContext(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("CF-IPCountry", "br")
		handler.ServeHTTP(httptest.NewRecorder(), req)
		if got != "BR" {
			t.Fatalf("country = %q, want BR", got)
		}
		if lookupCalled {
			t.Fatal("lookup should not run when a header hint exists")
		}
	})

	t.Run("accept-language region", func(t *testing.T) {
		var got string
		handler := Locale(lookup)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = CountryFromContext(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Language", "es-MX")
		handler.ServeHTTP(httptest.NewRecorder(), req)
		if got != "MX" {
			t.Fatalf("country = %q, want MX", got)
		}
	})

	t.Run("geoip fallback", func(t *testing.T) {
		var got string
		handler := Locale(lookup)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = CountryFromContext(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "203.0.113.9:443"
		handler.ServeHTTP(httptest.NewRecorder(), req)
		if got != "DE" {
			t.Fatalf("country = %q, want DE", got)
		}
	})

	t.Run("nothing resolvable", func(t *testing.T) {
		var got string
		handler := Locale(lookup)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = CountryFromContext(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "198.51.100.1:443"
		handler.ServeHTTP(httptest.NewRecorder(), req)
		if got != "" {
			t.Fatalf("country = %q, want empty", got)
		}
	})
}
