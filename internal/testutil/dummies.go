// Package testutil provides shared test doubles for use across package tests.
// All dummies implement the corresponding interfaces from the production code,
// allowing injection into components under test without real parsing or I/O.
package testutil

import (
	"strings"
	"sync"

	"github.com/raysh454/harplay/internal/logging"
	"github.com/raysh454/harplay/internal/model"
)

// ─── Logger ────────────────────────────────────────────────────────────

// DummyLogger implements logging.Logger with in-memory recording.
type DummyLogger struct {
	mu     sync.Mutex
	Errors []string
	Infos  []string
	Debugs []string
	Warns  []string
}

func (l *DummyLogger) Debug(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Debugs = append(l.Debugs, msg)
}

func (l *DummyLogger) Info(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Infos = append(l.Infos, msg)
}

func (l *DummyLogger) Warn(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warns = append(l.Warns, msg)
}

func (l *DummyLogger) Error(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, msg)
}

func (l *DummyLogger) With(_ ...logging.Field) logging.Logger { return l }

// ─── Resource extractor ────────────────────────────────────────────────

// ExtractCall records the arguments of one Extract call.
type ExtractCall struct {
	BaseURL  string
	Document string
	UA       *model.UserAgent
}

// DummyExtractor implements interfaces.ResourceExtractor.
// It returns Resources for every call and records what it was given.
type DummyExtractor struct {
	mu        sync.Mutex
	Resources []string
	Calls     []ExtractCall
}

func (d *DummyExtractor) Extract(baseURL, document string, ua *model.UserAgent) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls = append(d.Calls, ExtractCall{BaseURL: baseURL, Document: document, UA: ua})
	return append([]string(nil), d.Resources...)
}

// ─── User agent parser ─────────────────────────────────────────────────

// DummyUserAgents implements interfaces.UserAgentParser. Any header value
// containing "MSIE" becomes an Internet Explorer descriptor; everything else
// is unparseable.
type DummyUserAgents struct {
	Major int
}

func (d DummyUserAgents) Parse(raw string) *model.UserAgent {
	if !strings.Contains(raw, "MSIE") {
		return nil
	}
	return &model.UserAgent{Name: "Internet Explorer", Major: d.Major}
}
