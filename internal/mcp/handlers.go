package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/clickr/internal/config"
	"github.com/hpungsan/clickr/internal/errors"
	"github.com/hpungsan/clickr/internal/keys"
	"github.com/hpungsan/clickr/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db      *sql.DB
	cfg     *config.Config
	daemon  ops.Daemon
	address string
	target  keys.OS
	logger  *slog.Logger
}

// HandlersOptions configures NewHandlers.
type HandlersOptions struct {
	DB      *sql.DB
	Config  *config.Config
	Daemon  ops.Daemon
	Address string       // daemon address, reported by daemon_status
	Target  keys.OS      // default target for compile, translate, import and activate
	Logger  *slog.Logger // optional
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(opts HandlersOptions) *Handlers {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		db:      opts.DB,
		cfg:     opts.Config,
		daemon:  opts.Daemon,
		address: opts.Address,
		target:  opts.Target,
		logger:  logger,
	}
}

// Request types for each tool

// ListRequest represents the arguments for profile_list.
type ListRequest struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// ShowRequest represents the arguments for profile_show.
type ShowRequest struct {
	Name   string `json:"name,omitempty"`
	Active bool   `json:"active,omitempty"`
}

// SaveRequest represents the arguments for profile_save.
type SaveRequest struct {
	Profile json.RawMessage `json:"profile"`
	Mode    string          `json:"mode,omitempty"`
}

// NameRequest represents the arguments for tools addressing one stored profile.
type NameRequest struct {
	Name   string `json:"name"`
	Target string `json:"target,omitempty"`
}

// ImportRequest represents the arguments for profile_import.
type ImportRequest struct {
	Path   string `json:"path"`
	Mode   string `json:"mode,omitempty"`
	Target string `json:"target,omitempty"`
}

// ExportRequest represents the arguments for profile_export.
type ExportRequest struct {
	Name string `json:"name"`
	Path string `json:"path,omitempty"`
}

// ProfileRequest addresses a stored profile by name or carries one inline.
type ProfileRequest struct {
	Name    string          `json:"name,omitempty"`
	Profile json.RawMessage `json:"profile,omitempty"`
	Target  string          `json:"target,omitempty"`
	Save    bool            `json:"save,omitempty"`
	Format  string          `json:"format,omitempty"`
}

// KeysRequest represents the arguments for keys_list.
type KeysRequest struct {
	OS     string `json:"os,omitempty"`
	Filter string `json:"filter,omitempty"`
}

// FrequenciesRequest represents the arguments for daemon_frequencies.
type FrequenciesRequest struct {
	Top int `json:"top,omitempty"`
}

// Handler implementations

// HandleList handles the profile_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	result, err := ops.List(h.db, ops.ListInput{Limit: input.Limit, Offset: input.Offset})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleShow handles the profile_show tool call.
func (h *Handlers) HandleShow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ShowRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	result, err := ops.Fetch(h.db, ops.FetchInput{Name: input.Name, Active: input.Active})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleSave handles the profile_save tool call.
func (h *Handlers) HandleSave(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SaveRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	result, err := ops.Save(h.db, ops.SaveInput{Profile: input.Profile, Mode: ops.SaveMode(input.Mode)})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleDelete handles the profile_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[NameRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	result, err := ops.Delete(h.db, ops.DeleteInput{Name: input.Name})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleImport handles the profile_import tool call.
func (h *Handlers) HandleImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ImportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	target, err := h.resolveTarget(input.Target)
	if err != nil {
		return errorResult(err), nil
	}
	result, err := ops.Import(h.db, h.cfg, ops.ImportInput{
		Path:   input.Path,
		Mode:   ops.SaveMode(input.Mode),
		Target: target,
		Logger: h.logger,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleExport handles the profile_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	result, err := ops.Export(ctx, h.db, h.cfg, ops.ExportInput{Name: input.Name, Path: input.Path})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleValidate handles the profile_validate tool call.
func (h *Handlers) HandleValidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ProfileRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	result, err := ops.Validate(h.db, ops.ValidateInput{Name: input.Name, Profile: input.Profile})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleCompile handles the profile_compile tool call.
func (h *Handlers) HandleCompile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ProfileRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	target, err := h.resolveTarget(input.Target)
	if err != nil {
		return errorResult(err), nil
	}
	result, err := ops.Compile(h.db, ops.CompileInput{
		Name:    input.Name,
		Profile: input.Profile,
		Target:  target,
		Logger:  h.logger,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleTranslate handles the profile_translate tool call.
func (h *Handlers) HandleTranslate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ProfileRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	target, err := h.resolveTarget(input.Target)
	if err != nil {
		return errorResult(err), nil
	}
	result, err := ops.Translate(h.db, ops.TranslateInput{
		Name:    input.Name,
		Profile: input.Profile,
		Target:  target,
		Save:    input.Save,
		Logger:  h.logger,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleSheet handles the profile_sheet tool call.
func (h *Handlers) HandleSheet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ProfileRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	result, err := ops.Sheet(h.db, ops.SheetInput{Name: input.Name, Profile: input.Profile, Format: input.Format})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleKeys handles the keys_list tool call.
func (h *Handlers) HandleKeys(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[KeysRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	o, err := h.resolveTarget(input.OS)
	if err != nil {
		return errorResult(err), nil
	}
	result, err := ops.Keys(ops.KeysInput{OS: o, Filter: input.Filter})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleActivate handles the daemon_activate tool call.
func (h *Handlers) HandleActivate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[NameRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	target, err := h.resolveTarget(input.Target)
	if err != nil {
		return errorResult(err), nil
	}
	result, err := ops.Activate(ctx, h.db, h.daemon, ops.ActivateInput{Name: input.Name, Target: target, Logger: h.logger})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleFrequencies handles the daemon_frequencies tool call.
func (h *Handlers) HandleFrequencies(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FrequenciesRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	result, err := ops.Frequencies(ctx, h.daemon, ops.FrequenciesInput{Top: input.Top})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleStatus handles the daemon_status tool call.
func (h *Handlers) HandleStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.Status(ctx, h.daemon, h.address)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// resolveTarget parses an optional OS argument, falling back to the
// handler's default target.
func (h *Handlers) resolveTarget(s string) (keys.OS, error) {
	if s == "" {
		return h.target, nil
	}
	o, ok := keys.ParseOS(s)
	if !ok || !o.Named() {
		return "", errors.NewInvalidRequest("target must be one of: macOS, Windows, Linux")
	}
	return o, nil
}

// errorResult converts an error into an MCP error result. Wrapping context
// such as "layer 1: remapping 0:" is kept in the message.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var cErr *errors.ClickrError
	if stderrors.As(err, &cErr) {
		message := cErr.Message
		if prefix, ok := strings.CutSuffix(err.Error(), cErr.Error()); ok && prefix != "" {
			message = prefix + message
		}
		errorObj := map[string]any{
			"code":    cErr.Code,
			"message": message,
			"status":  cErr.Status,
		}
		// INTERNAL details may carry paths or SQL text
		if cErr.Code != errors.ErrInternal && cErr.Details != nil {
			errorObj["details"] = cErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    errors.ErrInternal,
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates a success result with JSON-encoded data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
