package shader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/naga/glsl"
)

// Dialect is the target GLSL version.
type Dialect = glsl.Version

var (
	DefaultDesktop  = glsl.Version410
	DefaultEmbedded = glsl.VersionES300
)

// ParseDialect accepts "410 core", "300 es", "120", "100" or a full
// "#version ..." directive.
func ParseDialect(s string) (Dialect, error) {
	fields := strings.Fields(strings.TrimPrefix(strings.TrimSpace(s), "#version"))
	if len(fields) == 0 {
		return Dialect{}, fmt.Errorf("empty shader dialect")
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 100 {
		return Dialect{}, fmt.Errorf("shader dialect %q: bad version number", s)
	}
	es := n == 100
	if len(fields) > 1 {
		switch fields[1] {
		case "es":
			es = true
		case "core", "compatibility":
		default:
			return Dialect{}, fmt.Errorf("shader dialect %q: unknown profile %q", s, fields[1])
		}
	}
	return Dialect{Major: uint8(n / 100), Minor: uint8(n % 100), ES: es}, nil
}

// Directive returns the #version line for d.
func Directive(d Dialect) string {
	if legacy(d) || (!d.ES && number(d) < 150) {
		return "#version " + d.VersionNumber()
	}
	return "#version " + d.String()
}

func number(d Dialect) int {
	return int(d.Major)*100 + int(d.Minor)
}

// legacy dialects use attribute/varying, texture2D and gl_FragColor.
func legacy(d Dialect) bool {
	if d.ES {
		return d.Major < 3
	}
	return number(d) < 130
}
