//go:build !(((darwin || freebsd || linux) && !android || windows) && (amd64 || arm64))

package loader

import (
	"github.com/insajin/vstscan/internal/vst"
)

// openNative는 지원하지 않는 플랫폼에서 항상 ErrUnsupported를 반환합니다.
func openNative(path string) (uintptr, error) {
	return 0, ErrUnsupported
}

func lookupSymbol(handle uintptr, name string) (uintptr, error) {
	return 0, ErrUnsupported
}

func closeNative(handle uintptr) error {
	return nil
}

func isArchError(err error) bool {
	return false
}

func newEntryPoint(sym uintptr) EntryPoint {
	return func() vst.Effect { return nil }
}
