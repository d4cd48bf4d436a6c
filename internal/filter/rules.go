package filter

import (
	"fmt"
	"net/url"
	"regexp"
)

// Rule decides whether a request URL belongs in the scenario.
type Rule interface {
	Accept(url string) bool
}

// RuleFunc adapts a plain function to Rule.
type RuleFunc func(url string) bool

func (f RuleFunc) Accept(url string) bool { return f(url) }

// Rules is an ordered rule list folded with logical AND. An empty list
// accepts everything.
type Rules []Rule

func (rs Rules) Accept(url string) bool {
	for _, r := range rs {
		if !r.Accept(url) {
			return false
		}
	}
	return true
}

// Compile compiles patterns for AllowList and DenyList. Each pattern must
// match the whole URL.
func Compile(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(`^(?:` + p + `)$`)
		if err != nil {
			return nil, fmt.Errorf("compile filter pattern %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

func matchAny(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// AllowList accepts URLs matching at least one pattern. With no patterns it
// accepts everything.
type AllowList struct {
	patterns []*regexp.Regexp
}

func NewAllowList(patterns ...string) (*AllowList, error) {
	res, err := Compile(patterns)
	if err != nil {
		return nil, err
	}
	return &AllowList{patterns: res}, nil
}

func (a *AllowList) Accept(url string) bool {
	return len(a.patterns) == 0 || matchAny(a.patterns, url)
}

// DenyList rejects URLs matching any pattern.
type DenyList struct {
	patterns []*regexp.Regexp
}

func NewDenyList(patterns ...string) (*DenyList, error) {
	res, err := Compile(patterns)
	if err != nil {
		return nil, err
	}
	return &DenyList{patterns: res}, nil
}

func (d *DenyList) Accept(url string) bool {
	return !matchAny(d.patterns, url)
}

// StaticPatterns are the asset and browser-probe URLs a recorded session
// almost never needs to replay as top-level requests.
var StaticPatterns = []string{
	`.*\.js(?:\?.*)?`,
	`.*\.css(?:\?.*)?`,
	`.*\.gif(?:\?.*)?`,
	`.*\.jpe?g(?:\?.*)?`,
	`.*\.ico(?:\?.*)?`,
	`.*\.woff2?(?:\?.*)?`,
	`.*\.(?:t|o)tf(?:\?.*)?`,
	`.*\.png(?:\?.*)?`,
	`.*\.svg(?:\?.*)?`,
	`.*\.webp(?:\?.*)?`,
	`.*detectportal\.firefox\.com.*`,
}

// StaticResources returns a DenyList for StaticPatterns.
func StaticResources() *DenyList {
	d, err := NewDenyList(StaticPatterns...)
	if err != nil {
		panic(err)
	}
	return d
}

// HostList accepts URLs whose host is one of the configured hosts. Hosts are
// compared case-insensitively, without port, after IDN normalization.
type HostList struct {
	hosts map[string]struct{}
}

func NewHostList(hosts ...string) (*HostList, error) {
	hl := &HostList{hosts: make(map[string]struct{}, len(hosts))}
	for _, h := range hosts {
		n, err := normalizeHost(h)
		if err != nil {
			return nil, err
		}
		hl.hosts[n] = struct{}{}
	}
	return hl, nil
}

func (hl *HostList) Accept(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host, err := normalizeHost(u.Hostname())
	if err != nil {
		return false
	}
	_, ok := hl.hosts[host]
	return ok
}

// Build assembles the usual rule chain: static-resource deny list, then host
// list, allow list and deny list. Empty inputs add no rule.
func Build(allow, deny, hosts []string, skipStatic bool) (Rules, error) {
	var rs Rules
	if skipStatic {
		rs = append(rs, StaticResources())
	}
	if len(hosts) > 0 {
		hl, err := NewHostList(hosts...)
		if err != nil {
			return nil, fmt.Errorf("host list: %w", err)
		}
		rs = append(rs, hl)
	}
	if len(allow) > 0 {
		a, err := NewAllowList(allow...)
		if err != nil {
			return nil, fmt.Errorf("allow list: %w", err)
		}
		rs = append(rs, a)
	}
	if len(deny) > 0 {
		d, err := NewDenyList(deny...)
		if err != nil {
			return nil, fmt.Errorf("deny list: %w", err)
		}
		rs = append(rs, d)
	}
	return rs, nil
}
