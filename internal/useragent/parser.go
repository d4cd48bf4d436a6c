// Package useragent turns User-Agent header values into the descriptor the
// resource extractor uses to evaluate browser-specific markup.
package useragent

import (
	"strconv"
	"strings"

	ua "github.com/mileusna/useragent"

	"github.com/raysh454/harplay/internal/model"
)

// InternetExplorer is the browser name reported for MSIE and Trident agents.
const InternetExplorer = ua.InternetExplorer

// known lists the names the library assigns after recognizing a browser,
// app or crawler. Anything else is the first token of an unrecognized
// string.
var known = map[string]struct{}{
	ua.Opera: {}, ua.OperaMini: {}, ua.OperaTouch: {}, ua.Chrome: {},
	ua.HeadlessChrome: {}, ua.Firefox: {}, ua.InternetExplorer: {}, ua.Safari: {},
	ua.Edge: {}, ua.Vivaldi: {}, ua.MobileSafari: {}, ua.NetFront: {},
	ua.SamsungBrowser: {}, ua.GoogleAdsBot: {}, ua.Googlebot: {}, ua.Twitterbot: {},
	ua.FacebookExternalHit: {}, ua.Applebot: {}, ua.Bingbot: {}, ua.YandexBot: {},
	ua.YandexAdNet: {}, ua.FacebookApp: {}, ua.InstagramApp: {}, ua.TiktokApp: {},
	"Bytespider": {},
}

// Parser implements interfaces.UserAgentParser.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse returns nil when raw is empty or names no recognizable browser.
func (p *Parser) Parse(raw string) *model.UserAgent {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parsed := ua.Parse(raw)
	if _, ok := known[parsed.Name]; !ok {
		return nil
	}

	return &model.UserAgent{
		Name:    parsed.Name,
		Version: parsed.Version,
		Major:   majorVersion(parsed.Version),
		OS:      parsed.OS,
		Mobile:  parsed.Mobile,
		Bot:     parsed.Bot,
	}
}

func majorVersion(v string) int {
	head, _, _ := strings.Cut(v, ".")
	n, err := strconv.Atoi(head)
	if err != nil {
		return 0
	}
	return n
}
