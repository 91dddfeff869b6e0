// Package locale resolves the UI language of a request and carries it in the
// request context.
package locale

import (
	"context"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Supported lists the available locales; the first one is the default.
var Supported = []language.Tag{language.English, language.Croatian}

// Default is used when nothing else matches.
var Default = Supported[0]

var matcher = language.NewMatcher(Supported)

type contextKey struct{}

// WithLocale returns a copy of ctx carrying tag.
func WithLocale(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, contextKey{}, tag)
}

// FromContext returns the locale stored in ctx, or Default.
func FromContext(ctx context.Context) language.Tag {
	if tag, ok := ctx.Value(contextKey{}).(language.Tag); ok {
		return tag
	}
	return Default
}

// Match maps any tag to the closest supported locale.
func Match(tags ...language.Tag) language.Tag {
	_, i, _ := matcher.Match(tags...)
	return Supported[i]
}

// FromPath returns the supported locale named by the first path segment of
// urlPath ("/hr/calendar" -> hr), and whether there was one.
func FromPath(urlPath string) (language.Tag, bool) {
	seg := strings.TrimPrefix(urlPath, "/")
	if i := strings.IndexByte(seg, '/'); i >= 0 {
		seg = seg[:i]
	}
	if seg == "" {
		return Default, false
	}
	for _, tag := range Supported {
		if strings.EqualFold(seg, tag.String()) {
			return tag, true
		}
	}
	return Default, false
}

// StripPrefix removes a leading locale segment from urlPath.
func StripPrefix(urlPath string) string {
	tag, ok := FromPath(urlPath)
	if !ok {
		return urlPath
	}
	rest := urlPath[len(tag.String())+1:]
	if rest == "" {
		return "/"
	}
	return rest
}

// Resolve picks the locale of a request: an explicit path prefix wins over
// the Accept-Language header.
func Resolve(r *http.Request) language.Tag {
	if tag, ok := FromPath(r.URL.Path); ok {
		return tag
	}
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return Default
	}
	return Match(tags...)
}

// Middleware stores the resolved locale in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithLocale(r.Context(), Resolve(r))))
	})
}

var monthNames = map[language.Tag][12]string{
	language.English: {
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	},
	language.Croatian: {
		"siječanj", "veljača", "ožujak", "travanj", "svibanj", "lipanj",
		"srpanj", "kolovoz", "rujan", "listopad", "studeni", "prosinac",
	},
}

// MonthName returns the localized name of m; unsupported tags use Default.
func MonthName(tag language.Tag, m time.Month) string {
	names, ok := monthNames[tag]
	if !ok {
		names = monthNames[Match(tag)]
	}
	return names[m-1]
}

var weekdayNames = map[language.Tag][7]string{
	language.English:  {"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
	language.Croatian: {"ned", "pon", "uto", "sri", "čet", "pet", "sub"},
}

// WeekdayName returns the short localized name of d.
func WeekdayName(tag language.Tag, d time.Weekday) string {
	names, ok := weekdayNames[tag]
	if !ok {
		names = weekdayNames[Match(tag)]
	}
	return names[d]
}
