package profile

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/clickr/internal/keys"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestTranslate_MacToWindows(t *testing.T) {
	p := New("p", keys.MacOS)
	require.NoError(t, p.AddRemapping(0, Modification{Trigger: KeyPress{Value: "Digit1"}, Bind: TapKey{Value: "MacCommandLeft"}}))

	warnings := p.Translate(keys.Windows, discardLogger())
	require.Empty(t, warnings)
	require.Equal(t, keys.Windows, p.OS)

	l, err := p.Layer(0)
	require.NoError(t, err)
	require.True(t, l.Remappings[0].Equal(Modification{Trigger: KeyPress{Value: "Digit1"}, Bind: TapKey{Value: "WinLeft"}}))
}

func TestTranslate_WalksEveryShape(t *testing.T) {
	p := New("p", keys.Windows)
	require.NoError(t, p.AddRemapping(0, Modification{
		Trigger: TapSequence{Pairs: []KeyDelay{{"AltLeft", 100}, {"WinRight", 250}}},
		Bind: Repeat{
			Value:          Macro{Binds: []Bind{PressKey{Value: "WinLeft"}, TimedMacro{Binds: []Bind{TapKey{Value: "Delete"}}, Times: []int{5}}}},
			TimeDelayMs:    10,
			TimesToExecute: 2,
			CancelTrigger:  KeyRelease{Value: "AltRight"},
		},
	}))
	require.NoError(t, p.AddRemapping(1, Modification{Trigger: Hold{Value: "PrintScreen", WaitMs: 400}, Bind: ReleaseKey{Value: "A"}}))
	require.NoError(t, p.AddRemapping(1, Modification{Trigger: AppFocus{AppName: "Word", Value: "Pause"}, Bind: OpenApp{AppName: "Word"}}))

	require.Empty(t, p.Translate(keys.MacOS, discardLogger()))

	layers := p.Layers()
	want := Modification{
		Trigger: TapSequence{Pairs: []KeyDelay{{"MacOptionLeft", 100}, {"MacCommandRight", 250}}},
		Bind: Repeat{
			Value:          Macro{Binds: []Bind{PressKey{Value: "MacCommandLeft"}, TimedMacro{Binds: []Bind{TapKey{Value: "ForwardDelete"}}, Times: []int{5}}}},
			TimeDelayMs:    10,
			TimesToExecute: 2,
			CancelTrigger:  KeyRelease{Value: "MacOptionRight"},
		},
	}
	require.True(t, layers[0].Remappings[0].Equal(want), "got %s", layers[0].Remappings[0].Describe())
	require.Equal(t, Hold{Value: "F13", WaitMs: 400}, layers[1].Remappings[0].Trigger)
	require.Equal(t, AppFocus{AppName: "Word", Value: "F15"}, layers[1].Remappings[1].Trigger)
}

func TestTranslate_MissingEquivalent(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	p := New("p", keys.MacOS)
	require.NoError(t, p.AddRemapping(0, Modification{Trigger: KeyPress{Value: "MacFn"}, Bind: TapKey{Value: "A"}}))

	warnings := p.Translate(keys.Linux, logger)
	require.Len(t, warnings, 1)
	require.Equal(t, "layers[0].remappings[0].trigger.value", warnings[0].Path)
	require.Equal(t, "MacFn", warnings[0].Value)
	require.Equal(t, keys.Linux, p.OS)
	require.Contains(t, logs.String(), "key not translated")

	l, _ := p.Layer(0)
	require.Equal(t, KeyPress{Value: "MacFn"}, l.Remappings[0].Trigger)
}

func TestTranslate_NoTable(t *testing.T) {
	p := New("p", keys.Unknown)
	require.NoError(t, p.AddRemapping(0, rule("A", "B")))

	warnings := p.Translate(keys.Windows, discardLogger())
	require.Len(t, warnings, 1)
	require.Equal(t, "OS", warnings[0].Path)
	require.Equal(t, keys.Unknown, p.OS)
}

func TestTranslate_NilLeafWarns(t *testing.T) {
	p := New("p", keys.Windows)
	require.NoError(t, p.AddRemapping(0, Modification{Trigger: KeyPress{Value: "A"}, Bind: Macro{Binds: []Bind{nil, TapKey{Value: "WinLeft"}}}}))

	warnings := p.Translate(keys.Linux, discardLogger())
	require.Len(t, warnings, 1)
	require.Equal(t, "layers[0].remappings[0].bind.binds[0]", warnings[0].Path)

	l, _ := p.Layer(0)
	require.Equal(t, TapKey{Value: "SuperLeft"}, l.Remappings[0].Bind.(Macro).Binds[1])
}

func TestTranslate_Closure(t *testing.T) {
	for _, from := range keys.Families {
		for _, to := range keys.Families {
			if from == to {
				continue
			}
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				p := New("closure", from)
				var originals []string
				for _, key := range keys.Catalog(from) {
					there, ok := keys.Remap(key, from, to)
					if !ok {
						continue
					}
					if back, ok := keys.Remap(there, to, from); !ok || back != key {
						continue
					}
					originals = append(originals, key)
					require.NoError(t, p.AddRemapping(0, rule(key, key)))
				}
				require.NotEmpty(t, originals)

				before, err := json.Marshal(p)
				require.NoError(t, err)

				require.Empty(t, p.Translate(to, discardLogger()))
				require.Empty(t, p.Translate(from, discardLogger()))

				after, err := json.Marshal(p)
				require.NoError(t, err)
				require.JSONEq(t, string(before), string(after))
			})
		}
	}
}

func TestUnmarshal(t *testing.T) {
	data := []byte(`{
		"profile_name": "mac",
		"layer_count": 1,
		"OS": "macOS",
		"layers": [{"layer_name": "Base", "remappings": [
			{"type": "advanced", "trigger": {"type": "key_press", "value": "Digit1"}, "bind": {"type": "tap_key", "value": "MacCommandLeft"}}
		]}]
	}`)

	t.Run("same OS", func(t *testing.T) {
		p, warnings, err := Unmarshal(data, keys.MacOS, discardLogger())
		require.NoError(t, err)
		require.Empty(t, warnings)
		require.Equal(t, keys.MacOS, p.OS)
	})

	t.Run("translated", func(t *testing.T) {
		p, warnings, err := Unmarshal(data, keys.Windows, discardLogger())
		require.NoError(t, err)
		require.Empty(t, warnings)
		require.Equal(t, keys.Windows, p.OS)
		l, _ := p.Layer(0)
		require.Equal(t, TapKey{Value: "WinLeft"}, l.Remappings[0].Bind)
	})

	t.Run("schema error", func(t *testing.T) {
		_, _, err := Unmarshal([]byte(`{"profile_name":"x"}`), keys.Linux, nil)
		require.Error(t, err)
	})
}
