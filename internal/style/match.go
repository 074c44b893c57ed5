package style

import (
	"sort"
	"strings"
)

// Target describes the element rules are matched against.
type Target struct {
	// APIName is the element's full API name, e.g. "Ti.UI.Label".
	APIName string

	// Classes are the element's classes in attribute order.
	Classes []string

	// ID is the element's id, if any.
	ID string
}

// Match returns the rules that apply to target on platform, ordered by
// selector kind (type, class, id) and then by cascade position. Rules whose
// platform query excludes platform are dropped.
func Match(rules []Rule, target Target, platform string) []Rule {
	var matched []Rule
	for _, r := range rules {
		if !r.Queries.MatchesPlatform(platform) {
			continue
		}
		if appliesTo(r, target) {
			matched = append(matched, r)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Kind < matched[j].Kind
	})
	return matched
}

func appliesTo(r Rule, target Target) bool {
	switch r.Kind {
	case KindID:
		return target.ID != "" && r.Selector == "#"+target.ID
	case KindClass:
		name := strings.TrimPrefix(r.Selector, ".")
		for _, c := range target.Classes {
			if c == name {
				return true
			}
		}
		return false
	default:
		return r.Selector == target.APIName || r.Selector == shortName(target.APIName)
	}
}

// shortName returns the last dotted segment, "Ti.UI.Label" -> "Label".
func shortName(apiName string) string {
	if i := strings.LastIndexByte(apiName, '.'); i >= 0 {
		return apiName[i+1:]
	}
	return apiName
}

// ForPlatform returns the rules applicable on platform, in cascade order.
func ForPlatform(rules []Rule, platform string) []Rule {
	var out []Rule
	for _, r := range rules {
		if r.Queries.MatchesPlatform(platform) {
			out = append(out, r)
		}
	}
	return out
}
