package resources

import (
	"regexp"
	"sort"
)

var (
	cssURLRe    = regexp.MustCompile(`url\(\s*(?:"([^"]*)"|'([^']*)'|([^)"'\s]*))\s*\)`)
	cssImportRe = regexp.MustCompile(`@import\s+(?:"([^"]*)"|'([^']*)')`)
)

// cssReferences returns url(...) and @import targets in the order they
// appear in text.
func cssReferences(text string) []string {
	type match struct {
		pos int
		ref string
	}
	var found []match
	for _, re := range []*regexp.Regexp{cssURLRe, cssImportRe} {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			for g := 1; g*2+1 < len(m); g++ {
				start, end := m[g*2], m[g*2+1]
				if start >= 0 && end > start {
					found = append(found, match{pos: m[0], ref: text[start:end]})
					break
				}
			}
		}
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].pos < found[j].pos })

	out := make([]string, 0, len(found))
	for _, f := range found {
		out = append(out, f.ref)
	}
	return out
}
