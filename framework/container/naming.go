package container

import (
	"regexp"
	"strings"
)

var (
	firstCapRe = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	allCapRe   = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

// StandardParamName converts a Go type or field name to the lowercase,
// underscore separated form used for name based lookups.
//
//	StandardParamName("HTTPResponse")    // "http_response"
//	StandardParamName("ICatsRepository") // "icats_repository"
//	StandardParamName("UFO")             // "ufo"
func StandardParamName(name string) string {
	value := firstCapRe.ReplaceAllString(name, "${1}_${2}")
	value = strings.ToLower(allCapRe.ReplaceAllString(value, "${1}_${2}"))
	if strings.HasPrefix(value, "i_") {
		return "i" + value[2:]
	}
	return value
}

// isInterfaceName matches the ICatsRepository naming convention.
func isInterfaceName(name string) bool {
	return len(name) > 1 && name[0] == 'I' && name[1] >= 'A' && name[1] <= 'Z'
}
