package core

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Platform describes a build target.
type Platform struct {
	// Name is the platform name used in folders and style queries (e.g. "ios").
	Name string

	// TitaniumFolder is the folder name used by the Titanium SDK.
	TitaniumFolder string
}

// Platforms lists the supported build platforms.
var Platforms = []Platform{
	{Name: "android", TitaniumFolder: "android"},
	{Name: "ios", TitaniumFolder: "iphone"},
}

// PlatformNames returns the names of all supported platforms.
func PlatformNames() []string {
	names := make([]string, len(Platforms))
	for i, p := range Platforms {
		names[i] = p.Name
	}
	return names
}

// IsPlatformFolder reports whether name is a platform-specific folder name.
func IsPlatformFolder(name string) bool {
	for _, p := range Platforms {
		if p.Name == name || p.TitaniumFolder == name {
			return true
		}
	}
	return false
}

// MatchesPlatform evaluates a comma-separated platform attribute such as
// "ios,android" or "!android" against the build platform. An empty
// attribute matches every platform.
func MatchesPlatform(attr, platform string) bool {
	attr = strings.TrimSpace(attr)
	if attr == "" {
		return true
	}
	for _, p := range strings.Split(attr, ",") {
		p = strings.TrimSpace(p)
		if strings.HasPrefix(p, "!") {
			if p[1:] != platform {
				return true
			}
			continue
		}
		if p == platform {
			return true
		}
	}
	return false
}

// FormFactorCheck returns the runtime expression testing a form factor,
// e.g. "tablet" -> "Alloy.isTablet".
func FormFactorCheck(formFactor string) string {
	return "Alloy.is" + Ucfirst(formFactor)
}

// Ucfirst upper-cases the first rune of s.
func Ucfirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
