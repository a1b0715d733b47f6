package main

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/clickr/internal/bridge"
	"github.com/hpungsan/clickr/internal/config"
	"github.com/hpungsan/clickr/internal/db"
	"github.com/hpungsan/clickr/internal/keys"
	"github.com/hpungsan/clickr/internal/mcp"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"list": true, "show": true, "save": true, "delete": true,
	"import": true, "export": true,
	"validate": true, "compile": true, "translate": true, "sheet": true,
	"keys": true, "activate": true, "frequencies": true, "status": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode(args []string) bool {
	if len(args) < 2 {
		return false
	}
	arg := args[1]
	if cliCommands[arg] {
		return true
	}
	return isHelpOrVersion(args)
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion(args []string) bool {
	if len(args) < 2 {
		return false
	}
	switch args[1] {
	case "--help", "-h", "--version", "-v", "help":
		return true
	}
	return false
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

func printBanner() {
	fmt.Println(`
        _ _      _
    ___| (_) ___| | ___ __
   / __| | |/ __| |/ / '__|
  | (__| | | (__|   <| |
   \___|_|_|\___|_|\_\_|

  Keyboard remapping profiles

  Usage: clickr <command> [options]
         clickr --help

  MCP server mode requires piped input.`)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

// exitCode prints err, if any, and returns the process exit status.
// cli.Exit errors carry their own status and may have an empty message.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	code := 1
	var coder cli.ExitCoder
	if stderrors.As(err, &coder) {
		code = coder.ExitCode()
	}
	if msg := err.Error(); msg != "" {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	}
	return code
}

func main() {
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Help and version need no database.
	if isHelpOrVersion(os.Args) {
		os.Exit(exitCode(newCLIApp(nil).Run(os.Args)))
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fatalf("could not determine home directory: %v", err)
	}
	baseDir := filepath.Join(homeDir, config.DirName)

	database, err := db.Init(baseDir)
	if err != nil {
		fatalf("failed to initialize database: %v", err)
	}
	defer database.Close()

	cwd, err := os.Getwd()
	if err != nil {
		cwd = baseDir
	}
	cfg, err := config.LoadWithRepo(baseDir, cwd)
	if err != nil {
		database.Close()
		fatalf("failed to load config: %v", err)
	}
	db.ConfigurePool(database, cfg)

	logger := cfg.Logger(os.Stderr)
	address := cfg.DaemonAddress(runtime.GOOS)
	client := bridge.New(bridge.Options{
		Address: address,
		Timeout: cfg.DaemonTimeout(),
		Logger:  logger,
	})

	env := &cliEnv{
		db:      database,
		cfg:     cfg,
		daemon:  client,
		address: client.Address(),
		target:  cfg.Target(keys.Current()),
		logger:  logger,
	}

	if isCLIMode(os.Args) {
		code := exitCode(newCLIApp(env).Run(os.Args))
		database.Close()
		os.Exit(code)
	}

	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'clickr --help' for usage.\n")
		database.Close()
		os.Exit(1)
	}

	handlers := mcp.NewHandlers(mcp.HandlersOptions{
		DB:      database,
		Config:  cfg,
		Daemon:  client,
		Address: client.Address(),
		Target:  env.target,
		Logger:  logger,
	})
	if err := mcp.Run(handlers, Version); err != nil {
		database.Close()
		fatalf("%v", err)
	}
}
