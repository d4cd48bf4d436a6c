package server

import "github.com/raysh454/harplay/internal/logging"

type Config struct {
	// ListenAddr is the HTTP listen address, e.g. ":8080".
	ListenAddr string `json:"listen_addr"`

	// MaxBodyBytes caps the size of an uploaded archive. Zero means
	// DefaultMaxBodyBytes.
	MaxBodyBytes int64 `json:"max_body_bytes"`

	// RequestsPerSecond and Burst configure the per-client rate limit.
	// RequestsPerSecond <= 0 disables limiting.
	RequestsPerSecond float64 `json:"requests_per_second"`
	Burst             int     `json:"burst"`

	Logger logging.Logger `json:"-"`
}

const DefaultMaxBodyBytes = 64 << 20
