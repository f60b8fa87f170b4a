//go:build (darwin || freebsd || linux) && !android && (amd64 || arm64)

package loader

import (
	"strings"

	"github.com/ebitengine/purego"
)

// archErrorMarkers는 dlopen 오류 메시지 중 아키텍처 불일치를 뜻하는 문구입니다.
var archErrorMarkers = []string{
	"wrong elf class",
	"incompatible architecture",
	"wrong architecture",
	"exec format error",
	"elf file's machine",
}

// openNative는 dlopen으로 라이브러리를 로드합니다.
// RTLD_LOCAL로 열어 플러그인 심볼이 서로 섞이지 않게 합니다.
func openNative(path string) (uintptr, error) {
	return purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
}

func lookupSymbol(handle uintptr, name string) (uintptr, error) {
	return purego.Dlsym(handle, name)
}

func closeNative(handle uintptr) error {
	return purego.Dlclose(handle)
}

// isArchError는 dlerror 메시지로 아키텍처 불일치를 판별합니다.
func isArchError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range archErrorMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
