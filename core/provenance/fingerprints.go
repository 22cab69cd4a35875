package provenance

import "regexp"

// Fingerprint recognizes specifiers of one family of well-known packages.
type Fingerprint struct {
	Family  string
	Pattern *regexp.Regexp
}

// KnownPackages is the fixed fingerprint table consulted when nothing more
// explicit identified a module. Patterns match import specifiers.
var KnownPackages = []Fingerprint{
	{Family: "navigation", Pattern: regexp.MustCompile(`^(?:@react-navigation/|react-navigation|react-native-screens)`)},
	{Family: "lists", Pattern: regexp.MustCompile(`^(?:@shopify/flash-list|recyclerlistview|react-native-reanimated)`)},
	{Family: "date", Pattern: regexp.MustCompile(`^(?:moment|date-fns|dayjs|luxon)(?:/|$)`)},
	{Family: "http", Pattern: regexp.MustCompile(`^(?:axios|ky|superagent)(?:/|$)`)},
	{Family: "state", Pattern: regexp.MustCompile(`^(?:redux|react-redux|@reduxjs/toolkit|mobx|mobx-react|zustand|@tanstack/react-query|react-query)(?:/|$)`)},
	{Family: "utility", Pattern: regexp.MustCompile(`^(?:lodash|lodash-es|ramda|underscore)(?:/|$)`)},
}

// matchFingerprint returns the family of the first fingerprint that matches spec.
func matchFingerprint(spec string) (string, bool) {
	for _, fp := range KnownPackages {
		if fp.Pattern.MatchString(spec) {
			return fp.Family, true
		}
	}
	return "", false
}
