package ops

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/hpungsan/clickr/internal/db"
	"github.com/hpungsan/clickr/internal/errors"
	"github.com/hpungsan/clickr/internal/keys"
	"github.com/hpungsan/clickr/internal/ll"
	"github.com/hpungsan/clickr/internal/profile"
)

func TestValidate_Stored(t *testing.T) {
	database := openTestDB(t)
	saveTestProfile(t, database, macProfile("Work"))

	out, err := Validate(database, ValidateInput{Name: "work"})
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !out.Valid || len(out.Problems) != 0 || out.OS != "macOS" {
		t.Errorf("output = %+v", out)
	}
}

func TestValidate_Problems(t *testing.T) {
	p := profile.New("typo", keys.Windows)
	_ = p.AddRemapping(0, profile.Modification{
		Trigger: profile.KeyPress{Value: "Escpae"},
		Bind:    profile.SwapLayer{LayerNumber: 9},
	})

	out, err := Validate(nil, ValidateInput{Profile: profileJSON(t, p)})
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if out.Valid || len(out.Problems) != 2 {
		t.Fatalf("problems = %+v, want 2", out.Problems)
	}
	var suggested bool
	for _, pr := range out.Problems {
		if pr.Value == "Escpae" && pr.Suggestion == "Escape" {
			suggested = true
		}
	}
	if !suggested {
		t.Errorf("no Escape suggestion in %+v", out.Problems)
	}
}

func TestResolve_Errors(t *testing.T) {
	database := openTestDB(t)

	if _, err := resolve(database, "", nil); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("neither = %v, want INVALID_REQUEST", err)
	}
	if _, err := resolve(database, "x", json.RawMessage(`{}`)); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("both = %v, want INVALID_REQUEST", err)
	}
	if _, err := resolve(database, "missing", nil); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("missing = %v, want NOT_FOUND", err)
	}
	if _, err := resolve(database, "", json.RawMessage(`[]`)); !errors.IsSchema(err) {
		t.Errorf("array = %v, want a schema error", err)
	}
}

func TestCompile_TranslatesFirst(t *testing.T) {
	database := openTestDB(t)
	saveTestProfile(t, database, macProfile("Work"))

	out, err := Compile(database, CompileInput{Name: "Work", Target: keys.Windows, Logger: discardLogger()})
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if out.Target != "Windows" || len(out.Warnings) != 0 {
		t.Errorf("output = %+v", out)
	}
	if len(out.Compiled.Layers) != 2 {
		t.Fatalf("layers = %d, want 2", len(out.Compiled.Layers))
	}
	mod := out.Compiled.Layers[0][0]
	if *mod.Trigger != ll.KeyDown("Digit1") {
		t.Errorf("trigger = %+v", mod.Trigger)
	}
	want := []ll.To{ll.Press("WinLeft"), ll.Release("WinLeft")}
	if len(mod.Binds) != 2 || mod.Binds[0] != want[0] || mod.Binds[1] != want[1] {
		t.Errorf("binds = %+v, want %+v", mod.Binds, want)
	}
	if got := out.Compiled.Layers[1][0].Binds; len(got) != 1 || got[0] != ll.Swap(0) {
		t.Errorf("swap binds = %+v", got)
	}

	// the stored profile keeps its OS
	rec, err := db.GetByName(database, "work")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if rec.OS != "macOS" {
		t.Errorf("stored OS = %q, want macOS", rec.OS)
	}
}

func TestCompile_Errors(t *testing.T) {
	p := profile.New("hold", keys.Linux)
	_ = p.AddRemapping(0, profile.Modification{
		Trigger: profile.Hold{Value: "A", WaitMs: 200},
		Bind:    profile.TapKey{Value: "B"},
	})

	_, err := Compile(nil, CompileInput{Profile: profileJSON(t, p), Target: keys.Linux})
	if !errors.Is(err, errors.ErrNotImplemented) {
		t.Errorf("hold = %v, want NOT_IMPLEMENTED", err)
	}

	_, err = Compile(nil, CompileInput{Profile: profileJSON(t, macProfile("x")), Target: keys.Unknown})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("unknown target = %v, want INVALID_REQUEST", err)
	}
}

func TestTranslate(t *testing.T) {
	database := openTestDB(t)
	saveTestProfile(t, database, macProfile("Work"))

	out, err := Translate(database, TranslateInput{Name: "Work", Target: keys.Linux, Logger: discardLogger()})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if out.From != "macOS" || out.To != "Linux" || out.Saved {
		t.Errorf("output = %+v", out)
	}
	if !strings.Contains(string(out.Profile), `"SuperLeft"`) {
		t.Errorf("translated profile = %s", out.Profile)
	}
	rec, _ := db.GetByName(database, "work")
	if rec.OS != "macOS" {
		t.Errorf("stored OS changed without save: %q", rec.OS)
	}

	out, err = Translate(database, TranslateInput{Name: "Work", Target: keys.Linux, Save: true, Logger: discardLogger()})
	if err != nil {
		t.Fatalf("Translate save failed: %v", err)
	}
	if !out.Saved {
		t.Error("Saved = false")
	}
	rec, _ = db.GetByName(database, "work")
	if rec.OS != "Linux" || !strings.Contains(rec.ProfileJSON, "SuperLeft") {
		t.Errorf("stored = %s %s", rec.OS, rec.ProfileJSON)
	}
}

func TestTranslate_Warnings(t *testing.T) {
	p := profile.New("mac only", keys.MacOS)
	_ = p.AddRemapping(0, profile.Modification{
		Trigger: profile.KeyPress{Value: "MacFn"},
		Bind:    profile.TapKey{Value: "A"},
	})

	out, err := Translate(nil, TranslateInput{Profile: profileJSON(t, p), Target: keys.Windows, Logger: discardLogger()})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if len(out.Warnings) != 1 || out.Warnings[0].Value != "MacFn" {
		t.Errorf("warnings = %+v, want one for MacFn", out.Warnings)
	}
}

func TestTranslate_InvalidInput(t *testing.T) {
	raw := profileJSON(t, macProfile("x"))
	if _, err := Translate(nil, TranslateInput{Profile: raw}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("no target = %v, want INVALID_REQUEST", err)
	}
	if _, err := Translate(nil, TranslateInput{Profile: raw, Target: keys.Linux, Save: true}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("save without name = %v, want INVALID_REQUEST", err)
	}
}

func TestSheet(t *testing.T) {
	database := openTestDB(t)
	saveTestProfile(t, database, macProfile("Work_1"))

	out, err := Sheet(database, SheetInput{Name: "work_1"})
	if err != nil {
		t.Fatalf("Sheet failed: %v", err)
	}
	want := "# Work\\_1\n\n" +
		"macOS, 2 layers\n" +
		"\n## Layer 0: Layer 0\n\n" +
		"1. Digit1 pressed → Tap MacCommandLeft\n" +
		"\n## Layer 1: Layer 1\n\n" +
		"1. Escape pressed → Swap to layer 0\n"
	if out.Format != SheetMarkdown || out.Content != want {
		t.Errorf("content =\n%s\nwant\n%s", out.Content, want)
	}

	html, err := Sheet(database, SheetInput{Name: "work_1", Format: SheetHTML})
	if err != nil {
		t.Fatalf("Sheet html failed: %v", err)
	}
	for _, fragment := range []string{"<h1>Work_1</h1>", "<h2>Layer 0: Layer 0</h2>", "<li>Digit1 pressed → Tap MacCommandLeft</li>"} {
		if !strings.Contains(html.Content, fragment) {
			t.Errorf("html missing %q:\n%s", fragment, html.Content)
		}
	}

	if _, err := Sheet(database, SheetInput{Name: "work_1", Format: "pdf"}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("pdf = %v, want INVALID_REQUEST", err)
	}
}

func TestSheet_EmptyLayer(t *testing.T) {
	out, err := Sheet(nil, SheetInput{Profile: profileJSON(t, profile.New("empty", keys.Linux))})
	if err != nil {
		t.Fatalf("Sheet failed: %v", err)
	}
	if strings.Count(out.Content, "_No rules._") != 2 {
		t.Errorf("content = %s", out.Content)
	}
}

func TestKeys(t *testing.T) {
	out, err := Keys(KeysInput{OS: keys.MacOS, Filter: "command"})
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if out.Count != 2 || out.Keys[0] != "MacCommandLeft" || out.Keys[1] != "MacCommandRight" {
		t.Errorf("keys = %v", out.Keys)
	}

	all, err := Keys(KeysInput{OS: keys.Windows})
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if all.Count != len(keys.Catalog(keys.Windows)) {
		t.Errorf("count = %d", all.Count)
	}

	if _, err := Keys(KeysInput{OS: keys.Unknown}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("unknown = %v, want INVALID_REQUEST", err)
	}
}
