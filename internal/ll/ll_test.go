package ll

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStepJSON(t *testing.T) {
	tests := []struct {
		name string
		step any
		want string
	}{
		{"key down", KeyDown("Q"), `{"type":"key_down","value":"Q"}`},
		{"key up", KeyUp("Q"), `{"type":"key_up","value":"Q"}`},
		{"wait from", WaitUpTo(300), `{"type":"wait","value":300}`},
		{"timeout", HeldFor(500), `{"type":"timeout","value":500}`},
		{"press", Press("B"), `{"type":"press_key","value":"B"}`},
		{"release", Release("B"), `{"type":"release_key","value":"B"}`},
		{"swap", Swap(2), `{"type":"swap_layer","value":2}`},
		{"sleep", Sleep(0), `{"type":"wait","value":0}`},
		{"script", Script("open -a 'Safari'", "sh"), `{"type":"run_script","script":"open -a 'Safari'","interpreter":"sh"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.step)
			require.NoError(t, err)
			require.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestStepJSON_Decode(t *testing.T) {
	var from []From
	require.NoError(t, json.Unmarshal([]byte(`[{"type":"key_down","value":"Q"},{"type":"wait","value":300}]`), &from))
	require.Equal(t, []From{KeyDown("Q"), WaitUpTo(300)}, from)

	var to []To
	require.NoError(t, json.Unmarshal([]byte(`[{"type":"swap_layer","value":1},{"type":"run_script","script":"ls","interpreter":"sh"}]`), &to))
	require.Equal(t, []To{Swap(1), Script("ls", "sh")}, to)

	var bad To
	require.Error(t, json.Unmarshal([]byte(`{"type":"explode","value":1}`), &bad))
	require.Error(t, json.Unmarshal([]byte(`{"type":"press_key"}`), &bad))
}

func TestStepJSON_UnknownType(t *testing.T) {
	_, err := json.Marshal(From{Type: "bogus"})
	require.Error(t, err)
	_, err = json.Marshal(To{Type: "bogus"})
	require.Error(t, err)
}

func TestModShape(t *testing.T) {
	simple := Mod{Trigger: &From{Type: FromKeyDown, Key: "A"}, Binds: []To{Press("B")}}
	require.False(t, simple.Advanced())
	data, err := json.Marshal(simple)
	require.NoError(t, err)
	require.JSONEq(t, `{"trigger":{"type":"key_down","value":"A"},"binds":[{"type":"press_key","value":"B"}],"priority":0}`, string(data))

	advanced := Mod{Triggers: []From{KeyDown("A"), KeyUp("A")}, Behavior: "default", Binds: []To{}, Priority: 3}
	require.True(t, advanced.Advanced())
	data, err = json.Marshal(advanced)
	require.NoError(t, err)
	require.JSONEq(t, `{"triggers":[{"type":"key_down","value":"A"},{"type":"key_up","value":"A"}],"behavior":"default","binds":[],"priority":3}`, string(data))

	var decoded Mod
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, advanced, decoded)
}
