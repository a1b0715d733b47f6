package keys

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseOS(t *testing.T) {
	tests := []struct {
		input  string
		want   OS
		wantOK bool
	}{
		{"macOS", MacOS, true},
		{"Windows", Windows, true},
		{"Linux", Linux, true},
		{"Unknown", Unknown, true},
		{"darwin", MacOS, true},
		{" linux ", Linux, true},
		{"WIN", Windows, true},
		{"plan9", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseOS(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseOS(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFromGOOS(t *testing.T) {
	require.Equal(t, MacOS, FromGOOS("darwin"))
	require.Equal(t, Windows, FromGOOS("windows"))
	require.Equal(t, Linux, FromGOOS("linux"))
	require.Equal(t, Unknown, FromGOOS("freebsd"))
}

func TestCatalog(t *testing.T) {
	require.True(t, Valid(MacOS, "MacCommandLeft"))
	require.False(t, Valid(Windows, "MacCommandLeft"))
	require.True(t, Valid(Windows, "WinLeft"))
	require.True(t, Valid(Linux, "SuperLeft"))
	require.True(t, Valid(Linux, "Digit1"))
	require.False(t, Valid(Unknown, "Digit1"))
	require.Nil(t, Catalog(Unknown))

	cat := Catalog(Linux)
	require.NotEmpty(t, cat)
	for i := 1; i < len(cat); i++ {
		require.Less(t, cat[i-1], cat[i], "catalog must be sorted")
	}
}

func TestSuggest(t *testing.T) {
	require.Equal(t, "WinLeft", Suggest(Windows, "winleft"))
	require.Equal(t, "MacCommandLeft", Suggest(MacOS, "MacComandLeft"))
	require.Equal(t, "", Suggest(Windows, "CompletelyUnrelatedName"))
	require.Equal(t, "", Suggest(Unknown, "A"))
}

func TestRemap_Directional(t *testing.T) {
	tests := []struct {
		key      string
		from, to OS
		want     string
		wantOK   bool
	}{
		{"MacCommandLeft", MacOS, Windows, "WinLeft", true},
		{"MacCommandLeft", MacOS, Linux, "SuperLeft", true},
		{"WinRight", Windows, Linux, "SuperRight", true},
		{"SuperRight", Linux, Windows, "WinRight", true},
		{"AltLeft", Windows, MacOS, "MacOptionLeft", true},
		{"MacOptionRight", MacOS, Linux, "AltRight", true},
		{"ForwardDelete", MacOS, Windows, "Delete", true},
		{"Q", Windows, MacOS, "Q", true},
		{"Digit1", MacOS, Linux, "Digit1", true},
		{"Insert", Windows, MacOS, "Insert", false},
		{"MacFn", MacOS, Windows, "MacFn", false},
		{"A", Unknown, Windows, "A", false},
		{"A", Windows, Unknown, "A", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to)+"/"+tt.key, func(t *testing.T) {
			got, ok := Remap(tt.key, tt.from, tt.to)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestRemap_Closure(t *testing.T) {
	for _, a := range Families {
		for _, b := range Families {
			if a == b {
				continue
			}
			for _, key := range Catalog(a) {
				there, ok := Remap(key, a, b)
				if !ok {
					continue
				}
				back, ok := Remap(there, b, a)
				require.True(t, ok, "%s: %s->%s->%s lost the key", key, a, b, a)
				require.Equal(t, key, back, "%s->%s->%s", a, b, a)
			}
		}
	}
}

func TestTablesCoverEveryPair(t *testing.T) {
	for _, a := range Families {
		for _, b := range Families {
			_, ok := TableFor(a, b)
			require.Equal(t, a != b, ok, "table %s->%s", a, b)
		}
	}
}

func TestTablesTargetCatalog(t *testing.T) {
	for dir, table := range tables {
		for from, to := range table.pairs {
			require.True(t, Valid(dir.from, from), "%s->%s: %s not in source catalog", dir.from, dir.to, from)
			require.True(t, Valid(dir.to, to), "%s->%s: %s not in target catalog", dir.from, dir.to, to)
		}
	}
}
