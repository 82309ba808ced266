package pinyin

import (
	"reflect"
	"testing"

	"smartinput/internal/dict"
)

func TestSplitChunks(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"ni", []string{"ni"}},
		{"nih", []string{"ni", "h"}},
		{"niha", []string{"ni", "ha"}},
		{"nihao", []string{"ni", "ha", "o"}},
		{"xyz", []string{"xy", "z"}},
		{"shuru", []string{"sh", "ur", "u"}},
	}
	for _, tc := range cases {
		got := SplitChunks(tc.in)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("SplitChunks(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func testDict(t *testing.T) *dict.Dict {
	t.Helper()
	d := dict.New()
	d.MergeEntries([]dict.FileEntry{
		{Pinyin: "ni", Word: "你", Freq: 8000},
		{Pinyin: "ni", Word: "尼", Freq: 2000},
		{Pinyin: "ni", Word: "呢", Freq: 1500},
		{Pinyin: "ni", Word: "拟", Freq: 800},
		{Pinyin: "ni", Word: "泥", Freq: 700},
		{Pinyin: "ni", Word: "逆", Freq: 500},
		{Pinyin: "ha", Word: "哈", Freq: 1000},
		{Pinyin: "o", Word: "哦", Freq: 300},
		{Pinyin: "hao", Word: "好", Freq: 9000},
		{Pinyin: "nihao", Word: "你好", Freq: 6000},
	})
	return d
}

func TestLookupSingleSyllable(t *testing.T) {
	d := testDict(t)

	got := Lookup(d, "ni", 5)
	want := []string{"你", "尼", "呢", "拟", "泥"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lookup(ni) = %v, want %v", got, want)
	}

	// topK caps the result.
	if got := Lookup(d, "ni", 2); len(got) != 2 {
		t.Errorf("Lookup(ni, 2) returned %d candidates", len(got))
	}
}

func TestLookupMergesChunks(t *testing.T) {
	d := testDict(t)

	// "nihao" chunks as [ni ha o]; the word edge and the merged hao edge
	// must both be found, and the whole-word path must rank first.
	got := Lookup(d, "nihao", 5)
	if len(got) == 0 {
		t.Fatal("expected candidates for nihao")
	}
	if got[0] != "你好" {
		t.Errorf("Lookup(nihao)[0] = %q, want 你好", got[0])
	}
	for _, c := range got[1:] {
		if c == got[0] {
			t.Error("candidates must be deduplicated")
		}
	}
}

func TestLookupNoPathIsEmpty(t *testing.T) {
	d := testDict(t)

	// 'x' is a valid initial so the classifier calls this Pinyin, but no
	// dictionary path covers it; the lookup degrades to empty.
	if got := Lookup(d, "xyz", 5); len(got) != 0 {
		t.Errorf("Lookup(xyz) = %v, want empty", got)
	}

	// Partial coverage is not enough: every chunk must be on a path.
	if got := Lookup(d, "nix", 5); len(got) != 0 {
		t.Errorf("Lookup(nix) = %v, want empty", got)
	}
}

func TestLookupEdgeInputs(t *testing.T) {
	d := testDict(t)

	if got := Lookup(d, "", 5); got != nil {
		t.Errorf("Lookup of empty string = %v, want nil", got)
	}
	if got := Lookup(d, "ni", 0); got != nil {
		t.Errorf("Lookup with topK=0 = %v, want nil", got)
	}
	if got := Lookup(nil, "ni", 5); got != nil {
		t.Errorf("Lookup with nil dict = %v, want nil", got)
	}
	if got := Lookup(dict.New(), "ni", 5); len(got) != 0 {
		t.Errorf("Lookup against empty dict = %v, want empty", got)
	}
	// Upper case input is normalized.
	if got := Lookup(d, "NI", 1); len(got) != 1 || got[0] != "你" {
		t.Errorf("Lookup(NI) = %v, want [你]", got)
	}
}

func TestLookupDeterministic(t *testing.T) {
	d := testDict(t)
	first := Lookup(d, "nihao", 5)
	for i := 0; i < 20; i++ {
		if got := Lookup(d, "nihao", 5); !reflect.DeepEqual(got, first) {
			t.Fatalf("Lookup not deterministic: %v vs %v", got, first)
		}
	}
}
