// Package service maps action names to their schema, handler and summarizer.
//
// The registry is the single catalog shared by every entry point. Structured
// callers use Dispatcher.Call and get typed results and typed errors; the
// summarized path, Dispatcher.Dispatch, never fails and always yields one
// human-readable sentence. Commander layers a planner in front of Dispatch
// for natural-language requests.
//
// Components:
//   - Registry: thread-safe catalog of actions grouped by provider
//   - Validate: argument checking against a tool's parameter schema
//   - Dispatcher: bounded, deadline-aware execution with metrics and logs
//   - Summaries: per-action result sentences with a JSON fallback
//   - Commander: planner round trip followed by Dispatch
//   - ExportCatalog: json, yaml or toml dumps of the catalog
//
// Example Usage:
//
//	registry := service.NewRegistry()
//	registry.Register(filesystem.NewProvider(ops))
//	dispatcher := service.NewDispatcher(registry, service.DispatchConfig{}, logger, metrics)
//	out := dispatcher.Dispatch(ctx, types.ActionDescriptor{Name: "list_directory"})
//	fmt.Println(out.Summary)
package service
