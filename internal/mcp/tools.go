package mcp

import "github.com/mark3labs/mcp-go/mcp"

// Shared argument descriptions.
const (
	nameDesc    = "Stored profile name (case and whitespace insensitive)"
	profileDesc = "Profile JSON object: {profile_name, layer_count, OS, layers}. Use instead of name to work on an unsaved profile."
	targetDesc  = "Target OS: macOS, Windows or Linux. Defaults to the OS clickr runs on."
	modeDesc    = "What to do when the name is taken: error (default), replace or rename"
)

var listToolDef = mcp.NewTool("profile_list",
	mcp.WithDescription("List stored profiles, most recently updated first."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithNumber("limit", mcp.Description("Page size, default 20, max 100")),
	mcp.WithNumber("offset", mcp.Description("Items to skip")),
)

var showToolDef = mcp.NewTool("profile_show",
	mcp.WithDescription("Fetch a stored profile's JSON by name, or the active profile."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("name", mcp.Description(nameDesc)),
	mcp.WithBoolean("active", mcp.Description("Fetch the profile last sent to the daemon")),
)

var saveToolDef = mcp.NewTool("profile_save",
	mcp.WithDescription("Store a profile in the library exactly as given."),
	mcp.WithObject("profile", mcp.Required(), mcp.Description(profileDesc)),
	mcp.WithString("mode", mcp.Enum("error", "replace", "rename"), mcp.Description(modeDesc)),
)

var deleteToolDef = mcp.NewTool("profile_delete",
	mcp.WithDescription("Permanently remove a stored profile."),
	mcp.WithDestructiveHintAnnotation(true),
	mcp.WithString("name", mcp.Required(), mcp.Description(nameDesc)),
)

var importToolDef = mcp.NewTool("profile_import",
	mcp.WithDescription("Import a Profile JSON file, translating its keys to the target OS."),
	mcp.WithString("path", mcp.Required(), mcp.Description("A .json file in ~/.clickr/exports or an allowed path")),
	mcp.WithString("mode", mcp.Enum("error", "replace", "rename"), mcp.Description(modeDesc)),
	mcp.WithString("target", mcp.Description(targetDesc)),
)

var exportToolDef = mcp.NewTool("profile_export",
	mcp.WithDescription("Write a stored profile to a Profile JSON file."),
	mcp.WithString("name", mcp.Required(), mcp.Description(nameDesc)),
	mcp.WithString("path", mcp.Description("Destination .json file; default ~/.clickr/exports/<name>-<timestamp>.json")),
)

var validateToolDef = mcp.NewTool("profile_validate",
	mcp.WithDescription("Check every key and layer reference of a profile against its OS."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("name", mcp.Description(nameDesc)),
	mcp.WithObject("profile", mcp.Description(profileDesc)),
)

var compileToolDef = mcp.NewTool("profile_compile",
	mcp.WithDescription("Compile a profile to the daemon's flat instruction format without sending it."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("name", mcp.Description(nameDesc)),
	mcp.WithObject("profile", mcp.Description(profileDesc)),
	mcp.WithString("target", mcp.Description(targetDesc)),
)

var translateToolDef = mcp.NewTool("profile_translate",
	mcp.WithDescription("Rewrite a profile's keys for another OS. Keys with no equivalent are kept and reported as warnings."),
	mcp.WithString("name", mcp.Description(nameDesc)),
	mcp.WithObject("profile", mcp.Description(profileDesc)),
	mcp.WithString("target", mcp.Description(targetDesc)),
	mcp.WithBoolean("save", mcp.Description("Replace the stored profile with the translation (requires name)")),
)

var sheetToolDef = mcp.NewTool("profile_sheet",
	mcp.WithDescription("Render a cheat sheet listing every layer and rule."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("name", mcp.Description(nameDesc)),
	mcp.WithObject("profile", mcp.Description(profileDesc)),
	mcp.WithString("format", mcp.Enum("markdown", "html"), mcp.Description("Output format, default markdown")),
)

var keysToolDef = mcp.NewTool("keys_list",
	mcp.WithDescription("List the key identifiers valid on an OS."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("os", mcp.Description(targetDesc)),
	mcp.WithString("filter", mcp.Description("Case-insensitive substring")),
)

var activateToolDef = mcp.NewTool("daemon_activate",
	mcp.WithDescription("Compile a stored profile and load it into the running daemon."),
	mcp.WithString("name", mcp.Required(), mcp.Description(nameDesc)),
	mcp.WithString("target", mcp.Description(targetDesc)),
)

var frequenciesToolDef = mcp.NewTool("daemon_frequencies",
	mcp.WithDescription("Key-press counts recorded by the daemon, most pressed first."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithNumber("top", mcp.Description("Only return the N most pressed keys")),
)

var statusToolDef = mcp.NewTool("daemon_status",
	mcp.WithDescription("Report whether the daemon is running."),
	mcp.WithReadOnlyHintAnnotation(true),
)
