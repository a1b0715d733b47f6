package mcp

import (
	"slices"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

var toolRegistry = map[string]toolEntry{
	"profile_list":       {listToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleList }},
	"profile_show":       {showToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleShow }},
	"profile_save":       {saveToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleSave }},
	"profile_delete":     {deleteToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleDelete }},
	"profile_import":     {importToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleImport }},
	"profile_export":     {exportToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleExport }},
	"profile_validate":   {validateToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleValidate }},
	"profile_compile":    {compileToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleCompile }},
	"profile_translate":  {translateToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleTranslate }},
	"profile_sheet":      {sheetToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleSheet }},
	"keys_list":          {keysToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleKeys }},
	"daemon_activate":    {activateToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleActivate }},
	"daemon_frequencies": {frequenciesToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleFrequencies }},
	"daemon_status":      {statusToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleStatus }},
}

// AllToolNames returns every tool name, sorted.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ValidateDisabledTools returns the names in the list that are not tools.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates an MCP server with the clickr tools registered, minus
// those named in the config's disabled_tools.
func NewServer(h *Handlers, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"clickr",
		version,
		server.WithToolCapabilities(true),
	)

	disabled := make(map[string]bool)
	if h.cfg != nil {
		for _, name := range h.cfg.DisabledTools {
			disabled[name] = true
		}
	}
	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}
	return s
}

// Run serves the tools over stdio until stdin closes.
func Run(h *Handlers, version string) error {
	return server.ServeStdio(NewServer(h, version))
}
