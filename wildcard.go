package ndsfs

import (
	"regexp"
	"strings"

	"github.com/aligator/ndsfs/checkpoint"
)

// wildcardPattern translates a wildcard into an anchored, case insensitive regular expression.
// "*" matches any sequence of characters, "?" exactly one. An empty pattern matches everything.
func wildcardPattern(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		pattern = "*"
	}

	var expr strings.Builder
	expr.WriteString("(?is)^")
	for i, literal := range strings.Split(pattern, "*") {
		if i > 0 {
			expr.WriteString(".*")
		}
		for j, piece := range strings.Split(literal, "?") {
			if j > 0 {
				expr.WriteString(".")
			}
			expr.WriteString(regexp.QuoteMeta(piece))
		}
	}
	expr.WriteString("$")

	re, err := regexp.Compile(expr.String())
	if err != nil {
		return nil, checkpoint.Wrapf(err, "wildcard %q", pattern)
	}
	return re, nil
}
