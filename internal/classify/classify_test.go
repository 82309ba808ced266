package classify

import "testing"

func TestClassifyFirstCharacterOnly(t *testing.T) {
	cases := []struct {
		in   string
		want Mode
	}{
		// Initials.
		{"ni", Pinyin},
		{"nihao", Pinyin},
		{"pin", Pinyin},
		{"zhong", Pinyin},
		// A valid initial followed by garbage still classifies as Pinyin.
		{"xyz", Pinyin},
		{"dog", Pinyin},
		{"bob", Pinyin},
		// Finals.
		{"a", Pinyin},
		{"en", Pinyin},
		{"ou", Pinyin},
		{"vne", Pinyin},
		{"ü", Pinyin},
		// Everything else is English. r/w/y are not in the initial set.
		{"world", English},
		{"yes", English},
		{"ren", English},
		{"running", English},
	}

	for _, tc := range cases {
		if got := Classify(tc.in); got != tc.want {
			t.Errorf("Classify(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	for _, pair := range [][2]string{{"Ni", "ni"}, {"XYZ", "xyz"}, {"World", "world"}, {"Ü", "ü"}} {
		if Classify(pair[0]) != Classify(pair[1]) {
			t.Errorf("Classify(%q) != Classify(%q)", pair[0], pair[1])
		}
	}
}

// The result must depend on the first character alone: any suffix appended to
// a string keeps its classification.
func TestClassifyPrefixProperty(t *testing.T) {
	prefixes := []string{"n", "x", "w", "r", "a", "q", "B", "Y"}
	suffixes := []string{"", "a", "zzz", "hello", "qqqq"}

	for _, p := range prefixes {
		base := Classify(p)
		for _, s := range suffixes {
			if got := Classify(p + s); got != base {
				t.Errorf("Classify(%q) = %v, want %v (same as Classify(%q))", p+s, got, base, p)
			}
		}
	}
}

func TestClassifyDeterministic(t *testing.T) {
	for i := 0; i < 100; i++ {
		if Classify("nihao") != Pinyin || Classify("wow") != English {
			t.Fatal("Classify must be deterministic")
		}
	}
}

func TestModeString(t *testing.T) {
	cases := map[Mode]string{Unknown: "unknown", Pinyin: "pinyin", English: "english"}
	for m, want := range cases {
		if m.String() != want {
			t.Errorf("Mode(%d).String() = %q, want %q", m, m.String(), want)
		}
		if ParseMode(want) != m {
			t.Errorf("ParseMode(%q) = %v, want %v", want, ParseMode(want), m)
		}
	}
	if ParseMode("bogus") != Unknown {
		t.Error("ParseMode of garbage should be Unknown")
	}
}
