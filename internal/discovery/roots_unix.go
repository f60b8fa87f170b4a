//go:build !darwin && !windows

package discovery

import (
	"os"
	"path/filepath"
)

// EnvSearchPath가 설정되면 기본 검색 루트 전체를 대체합니다 (콜론 구분).
const EnvSearchPath = "VST_PATH"

var defaultExtensions = []string{".so", ".o"}

const bundleExtensions = false

// DefaultRoots는 리눅스 계열의 기본 검색 루트를 반환합니다.
func DefaultRoots() []string {
	if env, ok := os.LookupEnv(EnvSearchPath); ok {
		var roots []string
		for _, root := range filepath.SplitList(env) {
			if root != "" {
				roots = append(roots, root)
			}
		}
		return roots
	}

	roots := []string{
		"/usr/lib/vst",
		"/usr/lib/lxvst",
		"/usr/lib/linux_vst",
		"/usr/lib64/vst",
		"/usr/lib64/lxvst",
		"/usr/lib64/linux_vst",
		"/usr/local/lib/vst",
		"/usr/local/lib/lxvst",
		"/usr/local/lib/linux_vst",
		"/usr/local/lib64/vst",
		"/usr/local/lib64/lxvst",
		"/usr/local/lib64/linux_vst",
	}
	return append(roots, homeRoots(".vst", ".lxvst")...)
}
