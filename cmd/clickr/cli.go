package main

import (
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/clickr/internal/config"
	"github.com/hpungsan/clickr/internal/errors"
	"github.com/hpungsan/clickr/internal/keys"
	"github.com/hpungsan/clickr/internal/ops"
)

// cliEnv carries what every command needs. It is nil when the app only
// serves --help and --version.
type cliEnv struct {
	db      *sql.DB
	cfg     *config.Config
	daemon  ops.Daemon
	address string
	target  keys.OS
	logger  *slog.Logger
}

// newCLIApp creates the CLI application.
func newCLIApp(env *cliEnv) *cli.App {
	return &cli.App{
		Name:    "clickr",
		Usage:   "Keyboard remapping profiles",
		Version: Version,
		Commands: []*cli.Command{
			listCmd(env),
			showCmd(env),
			saveCmd(env),
			deleteCmd(env),
			importCmd(env),
			exportCmd(env),
			validateCmd(env),
			compileCmd(env),
			translateCmd(env),
			sheetCmd(env),
			keysCmd(env),
			activateCmd(env),
			frequenciesCmd(env),
			statusCmd(env),
		},
		// Errors are printed once by main.
		ExitErrHandler: func(c *cli.Context, err error) {},
	}
}

func fileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "file",
		Aliases: []string{"f"},
		Usage:   "Read the Profile JSON from a file (- for stdin) instead of the library",
	}
}

func targetFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "target",
		Aliases: []string{"t"},
		Usage:   "Target OS: macOS, Windows or Linux (default: this machine or config target_os)",
	}
}

func modeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "mode",
		Aliases: []string{"m"},
		Usage:   "When the name is taken: error, replace or rename",
		Value:   string(ops.SaveModeError),
	}
}

func listCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List stored profiles",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Max items to return", Value: ops.DefaultListLimit},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Usage: "Items to skip"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.List(env.db, ops.ListInput{
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

func showCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Print a stored profile",
		ArgsUsage: "[name]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "active", Aliases: []string{"a"}, Usage: "Show the profile last loaded into the daemon"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Fetch(env.db, ops.FetchInput{
				Name:   c.Args().First(),
				Active: c.Bool("active"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

func saveCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:  "save",
		Usage: "Store a Profile JSON document as is",
		Flags: []cli.Flag{fileFlag(), modeFlag()},
		Action: func(c *cli.Context) error {
			raw, err := readProfile(c)
			if err != nil {
				return outputError(err)
			}
			if raw == nil {
				return outputError(errors.NewInvalidRequest("--file is required"))
			}
			output, err := ops.Save(env.db, ops.SaveInput{
				Profile: raw,
				Mode:    ops.SaveMode(c.String("mode")),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

func deleteCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Permanently remove a stored profile",
		ArgsUsage: "<name>",
		Action: func(c *cli.Context) error {
			output, err := ops.Delete(env.db, ops.DeleteInput{Name: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

func importCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import a Profile JSON file, translating it to the target OS",
		ArgsUsage: "<path>",
		Flags:     []cli.Flag{modeFlag(), targetFlag()},
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return outputError(errors.NewInvalidRequest("path is required"))
			}
			target, err := parseTarget(c.String("target"), env.target)
			if err != nil {
				return outputError(err)
			}
			output, err := ops.Import(env.db, env.cfg, ops.ImportInput{
				Path:   path,
				Mode:   ops.SaveMode(c.String("mode")),
				Target: target,
				Logger: env.logger,
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

func exportCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Write a stored profile to a Profile JSON file",
		ArgsUsage: "<name>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Destination .json file (default: ~/.clickr/exports/<name>-<timestamp>.json)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Export(c.Context, env.db, env.cfg, ops.ExportInput{
				Name: c.Args().First(),
				Path: c.String("path"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

func validateCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Check a profile's keys and layer references",
		ArgsUsage: "[name]",
		Flags:     []cli.Flag{fileFlag()},
		Action: func(c *cli.Context) error {
			raw, err := readProfile(c)
			if err != nil {
				return outputError(err)
			}
			output, err := ops.Validate(env.db, ops.ValidateInput{Name: c.Args().First(), Profile: raw})
			if err != nil {
				return outputError(err)
			}
			if err := outputJSON(c, output); err != nil {
				return err
			}
			if !output.Valid {
				return cli.Exit("", 2)
			}
			return nil
		},
	}
}

func compileCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:      "compile",
		Usage:     "Print the daemon instructions a profile compiles to",
		ArgsUsage: "[name]",
		Flags:     []cli.Flag{fileFlag(), targetFlag()},
		Action: func(c *cli.Context) error {
			raw, err := readProfile(c)
			if err != nil {
				return outputError(err)
			}
			target, err := parseTarget(c.String("target"), env.target)
			if err != nil {
				return outputError(err)
			}
			output, err := ops.Compile(env.db, ops.CompileInput{
				Name:    c.Args().First(),
				Profile: raw,
				Target:  target,
				Logger:  env.logger,
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

func translateCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:      "translate",
		Usage:     "Rewrite a profile's keys for another OS",
		ArgsUsage: "[name]",
		Flags: []cli.Flag{
			fileFlag(),
			targetFlag(),
			&cli.BoolFlag{Name: "save", Aliases: []string{"s"}, Usage: "Replace the stored profile with the translation"},
		},
		Action: func(c *cli.Context) error {
			raw, err := readProfile(c)
			if err != nil {
				return outputError(err)
			}
			target, err := parseTarget(c.String("target"), env.target)
			if err != nil {
				return outputError(err)
			}
			output, err := ops.Translate(env.db, ops.TranslateInput{
				Name:    c.Args().First(),
				Profile: raw,
				Target:  target,
				Save:    c.Bool("save"),
				Logger:  env.logger,
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

func sheetCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:      "sheet",
		Usage:     "Render a cheat sheet of every layer and rule",
		ArgsUsage: "[name]",
		Flags: []cli.Flag{
			fileFlag(),
			&cli.StringFlag{Name: "format", Usage: "markdown or html", Value: ops.SheetMarkdown},
			&cli.BoolFlag{Name: "json", Usage: "Wrap the sheet in a JSON object"},
		},
		Action: func(c *cli.Context) error {
			raw, err := readProfile(c)
			if err != nil {
				return outputError(err)
			}
			output, err := ops.Sheet(env.db, ops.SheetInput{
				Name:    c.Args().First(),
				Profile: raw,
				Format:  c.String("format"),
			})
			if err != nil {
				return outputError(err)
			}
			if c.Bool("json") {
				return outputJSON(c, output)
			}
			_, err = io.WriteString(c.App.Writer, output.Content)
			return err
		},
	}
}

func keysCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:  "keys",
		Usage: "List the key identifiers valid on an OS",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "os", Usage: "macOS, Windows or Linux (default: target OS)"},
			&cli.StringFlag{Name: "filter", Usage: "Case-insensitive substring"},
		},
		Action: func(c *cli.Context) error {
			o, err := parseTarget(c.String("os"), env.target)
			if err != nil {
				return outputError(err)
			}
			output, err := ops.Keys(ops.KeysInput{OS: o, Filter: c.String("filter")})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

func activateCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:      "activate",
		Usage:     "Compile a stored profile and load it into the daemon",
		ArgsUsage: "<name>",
		Flags:     []cli.Flag{targetFlag()},
		Action: func(c *cli.Context) error {
			target, err := parseTarget(c.String("target"), env.target)
			if err != nil {
				return outputError(err)
			}
			output, err := ops.Activate(c.Context, env.db, env.daemon, ops.ActivateInput{
				Name:   c.Args().First(),
				Target: target,
				Logger: env.logger,
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

func frequenciesCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:  "frequencies",
		Usage: "Show key-press counts recorded by the daemon",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "top", Aliases: []string{"n"}, Usage: "Only the N most pressed keys"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Frequencies(c.Context, env.daemon, ops.FrequenciesInput{Top: c.Int("top")})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

func statusCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Report whether the daemon is running",
		Action: func(c *cli.Context) error {
			output, err := ops.Status(c.Context, env.daemon, env.address)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// Helper functions

// outputJSON writes v to the app's writer as indented JSON.
func outputJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats err for the terminal, keeping any wrapping context.
func outputError(err error) error {
	var cErr *errors.ClickrError
	if stderrors.As(err, &cErr) {
		message := cErr.Message
		if prefix, ok := strings.CutSuffix(err.Error(), cErr.Error()); ok {
			message = prefix + message
		}
		return cli.Exit(fmt.Sprintf("[%s] %s", cErr.Code, message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// readProfile returns the --file contents, or nil when the flag is unset.
func readProfile(c *cli.Context) (json.RawMessage, error) {
	path := c.String("file")
	if path == "" {
		return nil, nil
	}
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(io.LimitReader(c.App.Reader, ops.MaxImportSize+1))
	} else {
		data, err = os.ReadFile(path)
		if os.IsNotExist(err) {
			return nil, errors.NewFileNotFound(path)
		}
	}
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("read profile: %w", err))
	}
	if len(data) > ops.MaxImportSize {
		return nil, errors.NewFileTooLarge(ops.MaxImportSize, int64(len(data)))
	}
	data = []byte(strings.TrimSpace(string(data)))
	if len(data) == 0 {
		return nil, errors.NewInvalidRequest("profile input is empty")
	}
	return data, nil
}

// parseTarget parses an optional OS flag, falling back to def.
func parseTarget(s string, def keys.OS) (keys.OS, error) {
	if s == "" {
		return def, nil
	}
	o, ok := keys.ParseOS(s)
	if !ok || !o.Named() {
		return "", errors.NewInvalidRequest("target must be one of: macOS, Windows, Linux")
	}
	return o, nil
}
