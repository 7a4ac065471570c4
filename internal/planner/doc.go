// Package planner turns free text into an action descriptor with a language model.
//
// The planner is advisory. Its output is parsed leniently (code fences,
// surrounding prose, two key styles) and handed to the dispatcher, which
// revalidates the name and arguments against the catalog before anything
// touches the filesystem.
//
//	gemini := planner.NewGemini(cfg, logger, metrics)
//	desc, err := gemini.Plan(ctx, "list files in Desktop", registry.List())
package planner
