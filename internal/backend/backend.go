package backend

import (
	"finview/internal/api"
)

// Backend bundles every port the front end needs from a data source.
type Backend interface {
	api.TransactionLister
	api.TransactionWriter
	api.AccountLister
	api.AccountWriter
	api.Authenticator
}

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func() error

// Result contains the backend instance and an optional cleanup function.
type Result struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Type selects the backend implementation.
type Type string

const (
	// RESTBackend talks to the external finance REST API.
	RESTBackend Type = "rest"
	// MemoryBackend serves seeded in-process data for demos and tests.
	MemoryBackend Type = "memory"
)

func (t Type) String() string { return string(t) }

func (t Type) IsValid() bool {
	switch t {
	case RESTBackend, MemoryBackend:
		return true
	}
	return false
}

// Types lists every valid backend type.
func Types() []Type {
	return []Type{RESTBackend, MemoryBackend}
}
