package api

import "github.com/casualjim/hangar/provider"

// Model is a named model bound to the provider that serves it.
type Model interface {
	Name() string
	Family() provider.Family
	Provider() provider.Provider
}
