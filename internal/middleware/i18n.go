package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

type localeContextKey struct{}
type countryContextKey struct{}

var (
	localeKey  = localeContextKey{}
	countryKey = countryContextKey{}
)

// CountryLookup resolves ISO country codes for an IP address.
type CountryLookup func(ip string) (string, error)

var supportedLocales = []language.Tag{
	language.English,
	language.Spanish,
	language.French,
}

var localeMatcher = language.NewMatcher(supportedLocales)

// Locale detects the request locale from Accept-Language and the donor's
// country from headers or the IP lookup, and stores both on the context.
// The country tag ends up on donation records for regional reporting.
func Locale(lookup CountryLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), localeKey, detectLocale(r))
			if country := resolveCountry(r, lookup); country != "" {
				ctx = context.WithValue(ctx, countryKey, country)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LocaleFromContext returns the matched locale tag, defaulting to English.
func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(localeKey).(string); ok {
		return v
	}
	return "en"
}

// CountryFromContext returns the ISO country code detected for the request,
// or "" when nothing could be resolved.
func CountryFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(countryKey).(string); ok {
		return v
	}
	return ""
}

func detectLocale(r *http.Request) string {
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return "en"
	}
	_, index, _ := localeMatcher.Match(tags...)
	base, _ := supportedLocales[index].Base()
	return base.String()
}

func resolveCountry(r *http.Request, lookup CountryLookup) string {
	for _, key := range []string{"X-Country-Code", "CF-IPCountry"} {
		if val := strings.TrimSpace(r.Header.Get(key)); val != "" {
			return strings.ToUpper(val)
		}
	}
	if region := acceptLanguageRegion(r.Header.Get("Accept-Language")); region != "" {
		return region
	}
	if lookup != nil {
		if ip := ClientIP(r); ip != "" {
			if country, err := lookup(ip); err == nil && country != "" {
				return strings.ToUpper(country)
			}
		}
	}
	return ""
}

func acceptLanguageRegion(accept string) string {
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil {
		return ""
	}
	for _, tag := range tags {
		if region, confidence := tag.Region(); confidence >= language.High && region.IsCountry() {
			return region.String()
		}
	}
	return ""
}

// ClientIP returns the best-effort client IP address for the request.
func ClientIP(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		parts := strings.Split(xf, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
