// Package loader는 네이티브 VST 라이브러리의 로드, 엔트리 포인트 조회, 해제를 담당합니다.
// 플랫폼별 구현은 빌드 태그로 선택되며, 핵심 코드는 Loader 인터페이스만 사용합니다.
package loader

import (
	"errors"
	"fmt"

	"github.com/insajin/vstscan/internal/vst"
)

// 로더 관련 에러 정의
var (
	// ErrLoad는 라이브러리를 메모리에 매핑할 수 없을 때 반환됩니다.
	ErrLoad = errors.New("library could not be loaded")

	// ErrArchMismatch는 라이브러리가 호스트와 다른 아키텍처로 빌드되었을 때 반환됩니다.
	ErrArchMismatch = errors.New("library architecture does not match host")

	// ErrNoEntryPoint는 알려진 엔트리 포인트 심볼이 하나도 없을 때 반환됩니다.
	ErrNoEntryPoint = errors.New("no VST entry point exported")

	// ErrUnsupported는 현재 플랫폼에서 네이티브 라이브러리 로드를 지원하지 않을 때 반환됩니다.
	ErrUnsupported = errors.New("native plugin loading is not supported on this platform")
)

// EntryPointNames는 엔트리 포인트 심볼의 조회 순서입니다.
var EntryPointNames = []string{"VSTPluginMain", "VstPluginMain()", "main"}

// EntryPoint는 호스트 콜백을 넘겨 플러그인 인스턴스를 생성합니다.
// 플러그인이 null을 반환하면 nil을 반환합니다.
type EntryPoint func() vst.Effect

// Library는 로드된 라이브러리 핸들입니다. 한 번의 프로브 동안만 소유됩니다.
type Library interface {
	// Path는 Open에 전달된 경로를 반환합니다.
	Path() string
	// EntryPoint는 EntryPointNames 순서로 심볼을 찾습니다.
	EntryPoint() (EntryPoint, error)
	// Close는 OS 핸들을 해제합니다. 이미 닫힌 핸들에 대해서는 아무것도 하지 않습니다.
	Close() error
}

// Loader는 경로에서 라이브러리를 엽니다.
type Loader interface {
	Open(path string) (Library, error)
}

// LoadError는 로드 실패를 나타냅니다. Kind는 ErrLoad 또는 ErrArchMismatch입니다.
type LoadError struct {
	Path  string
	Kind  error
	Cause error
}

func (e *LoadError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %v", e.Path, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Path, e.Kind, e.Cause)
}

// Unwrap은 errors.Is로 Kind와 Cause를 모두 매칭할 수 있게 합니다.
func (e *LoadError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}
