// Package mcpserver exposes memo generation as Model Context Protocol tools,
// served with the official MCP Go SDK.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/gijiroku/memogen/pkg/memo"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Generator is the slice of the memo façade the server needs. *memo.Generator
// satisfies it.
type Generator interface {
	Generate(ctx context.Context, transcription string) (string, error)
	GenerateFromFile(ctx context.Context, inputPath, outputPath string) (string, error)
}

// MCPServer serves the memo tools over the MCP protocol.
type MCPServer struct {
	server *mcp.Server
	gen    Generator
}

// New creates an MCPServer with the given identity and registers the
// generate_memo and generate_memo_from_file tools.
func New(name, version string, gen Generator) *MCPServer {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    name,
		Version: version,
	}, nil)

	s := &MCPServer{server: server, gen: gen}

	server.AddTool(&mcp.Tool{
		Name:        "generate_memo",
		Description: "Generate meeting minutes from transcript text and return them.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"transcription": {"type": "string", "description": "Meeting transcript text"}
			},
			"required": ["transcription"]
		}`),
	}, s.handleGenerate)

	server.AddTool(&mcp.Tool{
		Name:        "generate_memo_from_file",
		Description: "Read a transcript file, generate meeting minutes, and write them next to the input (or to output_path).",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"input_path": {"type": "string", "description": "Path to the transcript file"},
				"output_path": {"type": "string", "description": "Where to write the memo (optional)"}
			},
			"required": ["input_path"]
		}`),
	}, s.handleGenerateFromFile)

	return s
}

// Serve reads MCP requests from in and writes responses to out. It blocks
// until ctx is canceled or the transport closes. The CLI passes stdin/stdout.
func (s *MCPServer) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	transport := &mcp.IOTransport{
		Reader: io.NopCloser(in),
		Writer: nopWriteCloser{out},
	}

	return s.run(ctx, transport)
}

// run starts the server on the given transport. Exported via Serve for
// production use; called directly by tests with InMemoryTransport.
func (s *MCPServer) run(ctx context.Context, transport mcp.Transport) error {
	return s.server.Run(ctx, transport)
}

type generateArgs struct {
	Transcription string `json:"transcription"`
}

func (s *MCPServer) handleGenerate(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args generateArgs
	if err := unmarshalArgs(req, &args); err != nil {
		return toolError(err), nil
	}

	if args.Transcription == "" {
		return toolError(errors.New("transcription must not be empty")), nil
	}

	text, err := s.gen.Generate(ctx, args.Transcription)
	if err != nil {
		return toolError(err), nil
	}

	return toolText(text), nil
}

type generateFromFileArgs struct {
	InputPath  string `json:"input_path"`
	OutputPath string `json:"output_path"`
}

// fileResult is what generate_memo_from_file returns, as JSON text content.
type fileResult struct {
	OutputPath string `json:"output_path"`
	Text       string `json:"text"`
}

func (s *MCPServer) handleGenerateFromFile(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args generateFromFileArgs
	if err := unmarshalArgs(req, &args); err != nil {
		return toolError(err), nil
	}

	if args.InputPath == "" {
		return toolError(errors.New("input_path must not be empty")), nil
	}

	text, err := s.gen.GenerateFromFile(ctx, args.InputPath, args.OutputPath)
	if err != nil {
		return toolError(err), nil
	}

	output := args.OutputPath
	if output == "" {
		output = memo.OutputPath(args.InputPath, "")
	}

	payload, err := json.Marshal(fileResult{OutputPath: output, Text: text})
	if err != nil {
		return toolError(err), nil
	}

	return toolText(string(payload)), nil
}

// unmarshalArgs decodes the request arguments, treating absent arguments as
// an empty object.
func unmarshalArgs(req *mcp.CallToolRequest, dest any) error {
	args := req.Params.Arguments
	if args == nil {
		args = json.RawMessage("{}")
	}

	return json.Unmarshal(args, dest)
}

func toolText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// toolError maps a handler failure to an MCP tool error, never a protocol
// error: the client keeps its session.
func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
		IsError: true,
	}
}

// nopWriteCloser wraps an io.Writer as an io.WriteCloser with a no-op Close.
type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
