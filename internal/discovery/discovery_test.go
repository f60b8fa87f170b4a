package discovery

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/insajin/vstscan/internal/vst"
)

// sortCandidates는 비교를 위해 후보를 경로 순으로 정렬합니다.
func sortCandidates(c []vst.Candidate) []vst.Candidate {
	sort.Slice(c, func(i, j int) bool { return c[i].FilePath < c[j].FilePath })
	return c
}

// TestResolver_SharedObjects는 파일 확장자 필터와 재귀 탐색을 테스트합니다.
func TestResolver_SharedObjects(t *testing.T) {
	fs := afero.NewMemMapFs()
	files := []string{
		"/usr/lib/vst/reverb.so",
		"/usr/lib/vst/Delay.SO",
		"/usr/lib/vst/vendor/sub/chorus.so",
		"/usr/lib/vst/legacy.o",
		"/usr/lib/vst/readme.txt",
		"/usr/lib/vst/noext",
		"/home/me/.vst/comp.so",
	}
	for _, f := range files {
		_ = afero.WriteFile(fs, f, []byte{0}, 0644)
	}

	r := New(
		WithFs(fs),
		WithRoots("/usr/lib/vst", "/usr/lib/missing"),
		WithExtraRoots("/home/me/.vst"),
		WithExtensions(false, ".so", ".o"),
		WithLogger(zerolog.Nop()),
	)

	got := sortCandidates(r.Candidates())
	want := sortCandidates([]vst.Candidate{
		{DisplayName: "reverb", FilePath: filepath.FromSlash("/usr/lib/vst/reverb.so")},
		{DisplayName: "Delay", FilePath: filepath.FromSlash("/usr/lib/vst/Delay.SO")},
		{DisplayName: "chorus", FilePath: filepath.FromSlash("/usr/lib/vst/vendor/sub/chorus.so")},
		{DisplayName: "legacy", FilePath: filepath.FromSlash("/usr/lib/vst/legacy.o")},
		{DisplayName: "comp", FilePath: filepath.FromSlash("/home/me/.vst/comp.so")},
	})

	if len(got) != len(want) {
		t.Fatalf("후보 수 got %d, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("후보[%d] got %+v, want %+v", i, got[i], want[i])
		}
	}
}

// TestResolver_Bundles는 번들 디렉토리를 후보로 내보내고 내부로 내려가지 않는지 테스트합니다.
func TestResolver_Bundles(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/Library/VST/Reverb.vst/Contents/MacOS/Reverb", []byte{0}, 0755)
	_ = afero.WriteFile(fs, "/Library/VST/Acme/Delay.VST/Contents/MacOS/Delay", []byte{0}, 0755)
	// 번들 내부의 번들은 후보가 아닙니다
	_ = afero.WriteFile(fs, "/Library/VST/Reverb.vst/Contents/Resources/Inner.vst/x", []byte{0}, 0644)
	// 번들 확장자를 가진 일반 파일은 후보가 아닙니다
	_ = afero.WriteFile(fs, "/Library/VST/stray.vst", []byte{0}, 0644)

	r := New(WithFs(fs), WithRoots("/Library/VST"), WithExtensions(true, ".vst"))

	got := sortCandidates(r.Candidates())
	want := sortCandidates([]vst.Candidate{
		{DisplayName: "Reverb", FilePath: filepath.FromSlash("/Library/VST/Reverb.vst")},
		{DisplayName: "Delay", FilePath: filepath.FromSlash("/Library/VST/Acme/Delay.VST")},
	})

	if len(got) != len(want) {
		t.Fatalf("후보 수 got %d, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("후보[%d] got %+v, want %+v", i, got[i], want[i])
		}
	}
}

// TestResolver_NoRoots는 루트가 모두 없을 때 빈 결과를 반환하는지 테스트합니다.
func TestResolver_NoRoots(t *testing.T) {
	r := New(WithFs(afero.NewMemMapFs()), WithRoots("/nope", "/also/nope"))
	if got := r.Candidates(); len(got) != 0 {
		t.Errorf("후보가 없어야 합니다: %v", got)
	}
}

// TestResolver_Roots는 추가 루트의 ~ 확장을 테스트합니다.
func TestResolver_Roots(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	r := New(WithRoots("/a"), WithExtraRoots("~/plugins", "", "/b"))
	got := r.Roots()
	want := []string{"/a", filepath.Join(home, "plugins"), "/b"}

	if len(got) != len(want) {
		t.Fatalf("Roots() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Roots()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

// TestMatch는 확장자 매칭과 표시 이름 생성을 테스트합니다.
func TestMatch(t *testing.T) {
	r := New(WithExtensions(false, ".so", ".o"))

	tests := []struct {
		name     string
		wantName string
		wantOK   bool
	}{
		{"reverb.so", "reverb", true},
		{"Reverb.So", "Reverb", true},
		{"tal.noizemaker.so", "tal.noizemaker", true},
		{"object.o", "object", true},
		{"reverb.so.1", "", false},
		{"sound", "", false},
		{".so", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.match(tt.name)
			if ok != tt.wantOK || got != tt.wantName {
				t.Errorf("match(%q) = (%q, %v), want (%q, %v)", tt.name, got, ok, tt.wantName, tt.wantOK)
			}
		})
	}
}
