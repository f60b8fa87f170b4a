//go:build windows && (amd64 || arm64)

package loader

import (
	"errors"

	"golang.org/x/sys/windows"
)

// openNative는 LoadLibraryEx로 DLL을 로드합니다.
// LOAD_WITH_ALTERED_SEARCH_PATH로 플러그인 폴더의 의존 DLL을 먼저 찾습니다.
func openNative(path string) (uintptr, error) {
	h, err := windows.LoadLibraryEx(path, 0, windows.LOAD_WITH_ALTERED_SEARCH_PATH)
	if err != nil {
		return 0, err
	}
	return uintptr(h), nil
}

func lookupSymbol(handle uintptr, name string) (uintptr, error) {
	return windows.GetProcAddress(windows.Handle(handle), name)
}

func closeNative(handle uintptr) error {
	return windows.FreeLibrary(windows.Handle(handle))
}

// isArchError는 ERROR_BAD_EXE_FORMAT(193)을 아키텍처 불일치로 분류합니다.
func isArchError(err error) bool {
	return errors.Is(err, windows.ERROR_BAD_EXE_FORMAT)
}
