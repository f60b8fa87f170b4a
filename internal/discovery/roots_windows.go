//go:build windows

package discovery

import (
	"os"
	"path/filepath"
)

// EnvSearchPath는 윈도우에서 사용하지 않습니다.
const EnvSearchPath = ""

var defaultExtensions = []string{".dll"}

const bundleExtensions = false

// DefaultRoots는 윈도우의 기본 검색 루트를 반환합니다.
// 환경변수가 비어 있는 루트는 제외합니다.
func DefaultRoots() []string {
	programFiles := os.Getenv("ProgramFiles")
	commonFiles := os.Getenv("CommonProgramFiles")

	var roots []string
	if programFiles != "" {
		roots = append(roots, filepath.Join(programFiles, "Steinberg", "VstPlugins"))
	}
	if commonFiles != "" {
		roots = append(roots,
			filepath.Join(commonFiles, "Steinberg", "Shared Components"),
			filepath.Join(commonFiles, "VST2"),
			filepath.Join(commonFiles, "Steinberg", "VST2"),
			filepath.Join(commonFiles, "VSTPlugins"),
		)
	}
	if programFiles != "" {
		roots = append(roots, filepath.Join(programFiles, "VSTPlugins"))
	}
	return roots
}
