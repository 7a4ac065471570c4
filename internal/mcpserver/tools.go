package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

func (s *Server) registerTools() {
	addAction[listDirectoryParams](s, "list_directory")
	addAction[readFileParams](s, "read_file")
	addAction[writeFileParams](s, "write_file")
	addAction[createDirectoryParams](s, "create_directory")
	addAction[deleteFileParams](s, "delete_file")
	addAction[searchFilesParams](s, "search_files")
	addAction[searchInFilesParams](s, "search_in_files")
	addAction[getFileInfoParams](s, "get_file_info")
	addAction[transferParams](s, "copy_file")
	addAction[transferParams](s, "move_file")

	if s.commander != nil {
		mcp.AddTool(s.mcp, &mcp.Tool{
			Name:        "nl_command",
			Description: "Run a natural-language filesystem request and return a one-line summary.",
		}, s.runCommand)
	}
}

// addAction publishes a catalog action under its typed schema. Actions
// missing from the registry are skipped.
func addAction[In any](s *Server, name string) {
	action, ok := s.dispatcher.Registry().Get(name)
	if !ok {
		s.logger.Warn("action not in registry, not exposed", zap.String("tool", name))
		return
	}

	tool := &mcp.Tool{Name: name, Description: action.Tool.Description}
	mcp.AddTool(s.mcp, tool, func(ctx context.Context, _ *mcp.CallToolRequest, in In) (*mcp.CallToolResult, any, error) {
		args, err := toArgs(in)
		if err != nil {
			return nil, nil, err
		}
		return s.call(ctx, name, args), nil, nil
	})
}

func (s *Server) runCommand(ctx context.Context, _ *mcp.CallToolRequest, in commandParams) (*mcp.CallToolResult, any, error) {
	out := s.commander.Execute(ctx, in.Prompt)
	return textResult(out.Summary), nil, nil
}
