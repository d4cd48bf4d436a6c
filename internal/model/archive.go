package model

import "time"

// Archive is a parsed browser session. It lives for a single conversion.
type Archive struct {
	Log Log
}

// Log holds the recorded exchanges in capture order.
type Log struct {
	Entries []Entry
}

// Entry is one recorded request/response exchange.
type Entry struct {
	// SendTime is the entry's startedDateTime, the only timestamp the
	// conversion relies on.
	SendTime time.Time
	Request  Request
	Response Response
}
