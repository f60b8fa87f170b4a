package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"howett.net/plist"
)

// bundleInfo는 Contents/Info.plist에서 필요한 키만 담습니다.
type bundleInfo struct {
	Executable string `plist:"CFBundleExecutable"`
	Identifier string `plist:"CFBundleIdentifier"`
}

// ResolveBinary는 로드할 실제 바이너리 경로를 반환합니다.
// 일반 파일은 그대로, 번들 디렉토리는 BundleExecutable 결과를 반환합니다.
func ResolveBinary(fs afero.Fs, path string) (string, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return path, nil
	}
	return BundleExecutable(fs, path)
}

// BundleExecutable은 .vst 번들의 실행 파일 경로를 찾습니다.
// Info.plist의 CFBundleExecutable을 우선하고, 없으면 Contents/MacOS/<번들 이름>을 사용합니다.
func BundleExecutable(fs afero.Fs, bundlePath string) (string, error) {
	macosDir := filepath.Join(bundlePath, "Contents", "MacOS")

	name := ""
	if data, err := afero.ReadFile(fs, filepath.Join(bundlePath, "Contents", "Info.plist")); err == nil {
		var info bundleInfo
		if _, err := plist.Unmarshal(data, &info); err == nil {
			name = info.Executable
		}
	}
	if name == "" {
		base := filepath.Base(bundlePath)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	exe := filepath.Join(macosDir, name)
	if ok, _ := afero.Exists(fs, exe); !ok {
		return "", fmt.Errorf("번들 실행 파일을 찾을 수 없습니다: %s", exe)
	}
	return exe, nil
}
