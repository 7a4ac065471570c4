package filesystem

import (
	"context"

	"github.com/GriffinCanCode/fsagent/internal/service"
	"github.com/GriffinCanCode/fsagent/internal/types"
)

// Provider exposes Ops as registry actions
type Provider struct {
	ops *Ops
}

// NewProvider creates the filesystem action provider
func NewProvider(ops *Ops) *Provider {
	return &Provider{ops: ops}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "filesystem",
		Name:        "Filesystem Service",
		Description: "File and directory operations confined to FS_ROOT",
		Category:    types.CategoryFilesystem,
		Capabilities: []string{
			"list",
			"read",
			"write",
			"create",
			"delete",
			"search",
			"stat",
			"copy",
			"move",
		},
		Tools: Tools(),
	}
}

func str(name, description string, required bool, def interface{}) types.Parameter {
	return types.Parameter{Name: name, Type: types.TypeString, Description: description, Required: required, Default: def}
}

func flag(name, description string, def bool) types.Parameter {
	return types.Parameter{Name: name, Type: types.TypeBoolean, Description: description, Default: def}
}

var (
	patternParam   = str("pattern", "Optional glob on the root-relative path (e.g. '**/*.go')", false, nil)
	gitignoreParam = flag("gitignore", "Skip entries ignored by the directory's .gitignore", false)
	encodingParam  = str("encoding", "Text encoding name, or 'auto' to detect", false, "utf-8")
)

// Tools returns the catalog entries in registration order
func Tools() []types.Tool {
	return []types.Tool{
		{
			Name:        "list_directory",
			Description: "List entries in a directory under FS_ROOT.",
			Parameters:  []types.Parameter{str("path", "Directory path", false, ".")},
			Returns:     "array",
		},
		{
			Name:        "read_file",
			Description: "Read and return file contents.",
			Parameters: []types.Parameter{
				str("path", "File path", true, nil),
				encodingParam,
			},
			Returns: "string",
		},
		{
			Name:        "write_file",
			Description: "Write text to a file. Creates it when missing, appends when it exists.",
			Parameters: []types.Parameter{
				str("path", "File path", true, nil),
				str("content", "Text to write", true, nil),
				encodingParam,
			},
			Returns: "string",
		},
		{
			Name:        "create_directory",
			Description: "Create a directory (and parents).",
			Parameters: []types.Parameter{
				str("path", "Directory path", true, nil),
				flag("exist_ok", "Succeed when the directory already exists", true),
			},
			Returns: "string",
		},
		{
			Name:        "delete_file",
			Description: "Delete a file or directory (with recursive option).",
			Parameters: []types.Parameter{
				str("path", "File or directory path", true, nil),
				flag("recursive", "Remove a non-empty directory tree", false),
			},
			Returns: "string",
		},
		{
			Name:        "search_files",
			Description: "Find files by name substring within a directory tree.",
			Parameters: []types.Parameter{
				str("path", "Directory to search", false, "."),
				str("name_contains", "Case-insensitive substring of the file name", false, ""),
				patternParam,
				gitignoreParam,
			},
			Returns: "array",
		},
		{
			Name:        "search_in_files",
			Description: "Search for text within files under a directory tree.",
			Parameters: []types.Parameter{
				str("path", "Directory to search", false, "."),
				str("text", "Literal text to find", false, ""),
				encodingParam,
				patternParam,
				gitignoreParam,
			},
			Returns: "array",
		},
		{
			Name:        "get_file_info",
			Description: "Return basic metadata for a file or directory.",
			Parameters: []types.Parameter{
				str("path", "File or directory path", true, nil),
				str("checksum", "Optional digest of the contents: sha256 or blake2b", false, nil),
			},
			Returns: "object",
		},
		{
			Name:        "copy_file",
			Description: "Copy a file within FS_ROOT.",
			Parameters: []types.Parameter{
				str("src", "Source file", true, nil),
				str("dst", "Destination file or directory", true, nil),
				flag("overwrite", "Replace an existing destination", true),
			},
			Returns: "string",
		},
		{
			Name:        "move_file",
			Description: "Move/rename a file or directory within FS_ROOT.",
			Parameters: []types.Parameter{
				str("src", "Source path", true, nil),
				str("dst", "Destination path or directory", true, nil),
				flag("overwrite", "Replace an existing destination", true),
			},
			Returns: "string",
		},
	}
}

// Actions binds each catalog entry to its handler and summarizer
func (p *Provider) Actions() []service.Action {
	handlers := map[string]struct {
		run       service.Handler
		summarize service.Summarizer
	}{
		"list_directory":   {p.listDirectory, service.SummarizeListing},
		"read_file":        {p.readFile, service.SummarizeRead},
		"write_file":       {p.writeFile, service.SummarizeText},
		"create_directory": {p.createDirectory, service.SummarizeText},
		"delete_file":      {p.deleteFile, service.SummarizeText},
		"search_files":     {p.searchFiles, service.SummarizeFileSearch},
		"search_in_files":  {p.searchInFiles, service.SummarizeContentSearch},
		"get_file_info":    {p.getFileInfo, service.SummarizeInfo},
		"copy_file":        {p.copyFile, service.SummarizeText},
		"move_file":        {p.moveFile, service.SummarizeText},
	}

	tools := Tools()
	actions := make([]service.Action, 0, len(tools))
	for _, tool := range tools {
		h := handlers[tool.Name]
		actions = append(actions, service.Action{Tool: tool, Handler: h.run, Summarize: h.summarize})
	}
	return actions
}

func searchOptions(args map[string]interface{}) SearchOptions {
	return SearchOptions{
		Pattern:   service.StringArg(args, "pattern"),
		Gitignore: service.BoolArg(args, "gitignore"),
	}
}

func (p *Provider) listDirectory(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	return p.ops.ListDirectory(ctx, service.StringArg(args, "path"))
}

func (p *Provider) readFile(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	return p.ops.ReadFile(ctx, service.StringArg(args, "path"), service.StringArg(args, "encoding"))
}

func (p *Provider) writeFile(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	return p.ops.WriteFile(ctx,
		service.StringArg(args, "path"),
		service.StringArg(args, "content"),
		service.StringArg(args, "encoding"))
}

func (p *Provider) createDirectory(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	return p.ops.CreateDirectory(ctx, service.StringArg(args, "path"), service.BoolArg(args, "exist_ok"))
}

func (p *Provider) deleteFile(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	return p.ops.DeleteFile(ctx, service.StringArg(args, "path"), service.BoolArg(args, "recursive"))
}

func (p *Provider) searchFiles(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	return p.ops.SearchFiles(ctx,
		service.StringArg(args, "path"),
		service.StringArg(args, "name_contains"),
		searchOptions(args))
}

func (p *Provider) searchInFiles(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	return p.ops.SearchInFiles(ctx,
		service.StringArg(args, "path"),
		service.StringArg(args, "text"),
		service.StringArg(args, "encoding"),
		searchOptions(args))
}

func (p *Provider) getFileInfo(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	return p.ops.GetFileInfo(ctx, service.StringArg(args, "path"), service.StringArg(args, "checksum"))
}

func (p *Provider) copyFile(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	return p.ops.CopyFile(ctx,
		service.StringArg(args, "src"),
		service.StringArg(args, "dst"),
		service.BoolArg(args, "overwrite"))
}

func (p *Provider) moveFile(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	return p.ops.MoveFile(ctx,
		service.StringArg(args, "src"),
		service.StringArg(args, "dst"),
		service.BoolArg(args, "overwrite"))
}
