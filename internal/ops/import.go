package ops

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"github.com/hpungsan/clickr/internal/config"
	"github.com/hpungsan/clickr/internal/errors"
	"github.com/hpungsan/clickr/internal/keys"
	"github.com/hpungsan/clickr/internal/profile"
)

// MaxImportSize caps the Profile JSON file Import will read.
const MaxImportSize = 4 << 20

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	Path   string       // required, .json
	Mode   SaveMode     // default: error
	Target keys.OS      // OS to translate to; empty keeps the file's OS
	Logger *slog.Logger // optional
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	SaveOutput
	SourceOS   string            `json:"source_os"`
	Translated bool              `json:"translated"`
	Warnings   []profile.Warning `json:"warnings"`
}

// Import reads a Profile JSON file, translates it to Target when it was
// authored on another OS, and stores it in the library.
func Import(database *sql.DB, cfg *config.Config, input ImportInput) (*ImportOutput, error) {
	if err := ValidatePath(input.Path, PathCheckRead, cfg); err != nil {
		return nil, err
	}

	file, err := openFileNoFollowRead(input.Path)
	if err != nil {
		if _, ok := err.(*errors.ClickrError); ok {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open import file: %w", err))
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxImportSize+1))
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to read import file: %w", err))
	}
	if int64(len(data)) > MaxImportSize {
		size := int64(len(data))
		if info, err := file.Stat(); err == nil {
			size = info.Size()
		}
		return nil, errors.NewFileTooLarge(MaxImportSize, size)
	}

	p, err := profile.Decode(data)
	if err != nil {
		return nil, err
	}
	source := p.OS

	var warnings []profile.Warning
	if input.Target != "" && input.Target != p.OS {
		warnings = p.Translate(input.Target, input.Logger)
	}

	saved, err := saveProfile(database, p, input.Mode)
	if err != nil {
		return nil, err
	}
	if warnings == nil {
		warnings = []profile.Warning{}
	}
	return &ImportOutput{
		SaveOutput: *saved,
		SourceOS:   string(source),
		Translated: p.OS != source,
		Warnings:   warnings,
	}, nil
}
