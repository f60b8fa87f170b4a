//go:build darwin

package discovery

// EnvSearchPath는 macOS에서 사용하지 않습니다.
const EnvSearchPath = ""

// .vst는 디렉토리 번들입니다.
var defaultExtensions = []string{".vst"}

const bundleExtensions = true

// DefaultRoots는 macOS의 기본 검색 루트를 반환합니다.
func DefaultRoots() []string {
	roots := []string{"/Library/Audio/Plug-Ins/VST"}
	return append(roots, homeRoots("Library/Audio/Plug-Ins/VST")...)
}
