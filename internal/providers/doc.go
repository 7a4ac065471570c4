// Package providers groups the action providers registered with the
// dispatcher.
//
// A provider contributes a service definition plus its actions, each a
// tool schema with a handler and an optional summarizer. The only
// provider today is filesystem, which implements the sandboxed file and
// directory actions.
//
//	registry := service.NewRegistry()
//	err := registry.Register(filesystem.NewProvider(filesystem.NewOps(root, logger)))
package providers
