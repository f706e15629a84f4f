package pipeline

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/surveyforge/draftd/docpipe"
	"github.com/surveyforge/draftd/survey"
)

// IngestInput is the input schema for the draft_ingest tool.
type IngestInput struct {
	Path string `json:"path" jsonschema:"path to the draft file to load and segment"`
}

// IngestOutput is the output schema for the draft_ingest tool.
type IngestOutput struct {
	Chunks []string `json:"chunks"`
	Count  int      `json:"count"`
}

// ExtractInput is the input schema for the draft_extract tool.
type ExtractInput struct {
	Path string `json:"path" jsonschema:"path to the draft file to run the full pipeline on"`
}

// ExportInput is the input schema for the survey_export tool.
type ExportInput struct {
	Survey survey.Survey `json:"survey" jsonschema:"canonical survey record to render as Decipher XML"`
}

// ExportOutput is the output schema for the survey_export tool.
type ExportOutput struct {
	XML string `json:"xml"`
}

// FormatsOutput is the output schema for the draft_formats tool.
type FormatsOutput struct {
	Formats []string `json:"formats"`
}

// RegisterMCP registers the pipeline tools on an MCP server.
func (s *Service) RegisterMCP(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "draft_ingest",
		Description: "Load a survey draft (txt, docx, pdf) and segment it into question chunks.",
	}, s.handleIngestTool)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "draft_extract",
		Description: "Run the full draft pipeline: segment, classify, validate. Returns the canonical survey with its validation report.",
	}, s.handleExtractTool)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "survey_export",
		Description: "Render a canonical survey record as Decipher-style survey XML.",
	}, s.handleExportTool)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "draft_formats",
		Description: "List the supported draft file formats.",
	}, s.handleFormatsTool)
}

func (s *Service) handleIngestTool(ctx context.Context, _ *mcp.CallToolRequest, input IngestInput) (*mcp.CallToolResult, IngestOutput, error) {
	structured, err := s.Ingest(ctx, input.Path)
	if err != nil {
		return nil, IngestOutput{}, err
	}
	return nil, IngestOutput{Chunks: structured.Chunks, Count: len(structured.Chunks)}, nil
}

func (s *Service) handleExtractTool(ctx context.Context, _ *mcp.CallToolRequest, input ExtractInput) (*mcp.CallToolResult, Result, error) {
	result, err := s.Extract(ctx, input.Path)
	if err != nil {
		return nil, Result{}, err
	}
	return nil, *result, nil
}

func (s *Service) handleExportTool(ctx context.Context, _ *mcp.CallToolRequest, input ExportInput) (*mcp.CallToolResult, ExportOutput, error) {
	xml, err := s.Export(ctx, &input.Survey)
	if err != nil {
		return nil, ExportOutput{}, err
	}
	return nil, ExportOutput{XML: xml}, nil
}

func (s *Service) handleFormatsTool(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, FormatsOutput, error) {
	return nil, FormatsOutput{Formats: docpipe.SupportedFormats()}, nil
}
