package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/hpungsan/clickr/internal/config"
	"github.com/hpungsan/clickr/internal/errors"
)

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Name string // required
	Path string // optional, default: ~/.clickr/exports/<name>-<timestamp>.json
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string `json:"path"`
	Name       string `json:"name"`
	OS         string `json:"os"`
	ExportedAt int64  `json:"exported_at"`
}

// Export writes a stored profile to a Profile JSON file. The file is written
// to a temp sibling and renamed into place so a failed export never clobbers
// an existing file.
func Export(ctx context.Context, database *sql.DB, cfg *config.Config, input ExportInput) (*ExportOutput, error) {
	_, p, err := load(database, input.Name)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	exportPath := input.Path
	if exportPath == "" {
		dir, err := DefaultExportsDir()
		if err != nil {
			return nil, err
		}
		stem := SanitizeForFilename(p.Name)
		exportPath = filepath.Join(dir, fmt.Sprintf("%s-%s%s", stem, now.Format("2006-01-02T150405"), profileExt))
	}
	if err := ValidatePath(exportPath, PathCheckWrite, cfg); err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	data = append(data, '\n')

	if err := ctx.Err(); err != nil {
		return nil, errors.NewCancelled("export")
	}
	if err := writeAtomic(exportPath, data); err != nil {
		return nil, err
	}

	return &ExportOutput{
		Path:       exportPath,
		Name:       p.Name,
		OS:         string(p.OS),
		ExportedAt: now.Unix(),
	}, nil
}

func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := path + "." + hex.EncodeToString(randBytes) + ".tmp"
	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	if _, err := file.Write(data); err != nil {
		return errors.NewInternal(err)
	}
	if err := file.Sync(); err != nil {
		return errors.NewInternal(err)
	}
	// Windows cannot rename an open file.
	if err := file.Close(); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	file = nil

	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return errors.NewInvalidRequest("export path is a symlink")
	}
	if err := os.Rename(tempPath, path); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(path); statErr == nil {
				return errors.NewInvalidRequest("export destination already exists; choose a new path or delete the existing file")
			}
		}
		return errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}
	success = true
	return nil
}
