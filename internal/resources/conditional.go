package resources

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/raysh454/harplay/internal/model"
	"github.com/raysh454/harplay/internal/useragent"
)

var (
	conditionalRe = regexp.MustCompile(`(?is)^\s*\[if\s+([^\]]+)\]>(.*)<!\[endif\]\s*$`)
	ieConditionRe = regexp.MustCompile(`(?i)^(!)?\s*(?:(lt|lte|gt|gte)\s+)?IE(?:\s+(\d+))?$`)
)

// conditionalContent returns the markup inside an IE conditional comment
// when ua would render it. Only Internet Explorer evaluates these comments;
// every other browser treats them as plain comments.
func conditionalContent(comment string, ua *model.UserAgent) (string, bool) {
	if ua == nil || ua.Name != useragent.InternetExplorer {
		return "", false
	}
	m := conditionalRe.FindStringSubmatch(comment)
	if m == nil {
		return "", false
	}
	if !ieConditionHolds(strings.TrimSpace(m[1]), ua.Major) {
		return "", false
	}
	return m[2], true
}

// ieConditionHolds evaluates the single-term forms "IE", "IE 8", "lt IE 9",
// "gte IE 7" and their "!" negations. Compound expressions are not
// evaluated and count as false.
func ieConditionHolds(cond string, major int) bool {
	m := ieConditionRe.FindStringSubmatch(cond)
	if m == nil {
		return false
	}

	holds := true
	if m[3] != "" {
		v, err := strconv.Atoi(m[3])
		if err != nil {
			return false
		}
		switch strings.ToLower(m[2]) {
		case "":
			holds = major == v
		case "lt":
			holds = major < v
		case "lte":
			holds = major <= v
		case "gt":
			holds = major > v
		case "gte":
			holds = major >= v
		}
	}

	if m[1] == "!" {
		return !holds
	}
	return holds
}
