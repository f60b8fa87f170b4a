package loader

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Native는 OS의 동적 로더를 사용하는 Loader 구현입니다.
type Native struct {
	// fs는 번들 메타데이터와 바이너리 헤더를 읽는 파일시스템입니다.
	fs afero.Fs
	// logger는 구조화된 로거입니다.
	logger zerolog.Logger
}

// Option은 Native 설정 옵션입니다.
type Option func(*Native)

// WithFs는 헤더 검사에 사용할 파일시스템을 설정합니다.
func WithFs(fs afero.Fs) Option {
	return func(n *Native) {
		n.fs = fs
	}
}

// WithLogger는 로거를 설정합니다.
func WithLogger(logger zerolog.Logger) Option {
	return func(n *Native) {
		n.logger = logger
	}
}

// New는 새로운 네이티브 로더를 생성합니다.
func New(opts ...Option) *Native {
	n := &Native{
		fs:     afero.NewOsFs(),
		logger: zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// Open은 라이브러리를 로드합니다.
// macOS 번들 디렉토리는 실행 파일 경로로 변환한 뒤 로드합니다.
func (n *Native) Open(path string) (Library, error) {
	target, err := ResolveBinary(n.fs, path)
	if err != nil {
		return nil, &LoadError{Path: path, Kind: ErrLoad, Cause: err}
	}

	// 헤더로 아키텍처를 먼저 확인해 잘못된 바이너리를 매핑하지 않습니다
	if err := CheckArch(n.fs, target); err != nil {
		return nil, &LoadError{Path: path, Kind: ErrArchMismatch, Cause: err}
	}

	handle, err := openNative(target)
	if err != nil {
		kind := ErrLoad
		if isArchError(err) {
			kind = ErrArchMismatch
		}
		return nil, &LoadError{Path: path, Kind: kind, Cause: err}
	}

	n.logger.Debug().Str("path", path).Str("binary", target).Msg("라이브러리 로드 완료")
	return &library{path: path, handle: handle, logger: n.logger}, nil
}

// library는 플랫폼 핸들을 감싼 Library 구현입니다.
type library struct {
	mu     sync.Mutex
	path   string
	handle uintptr
	logger zerolog.Logger
}

func (l *library) Path() string {
	return l.path
}

// EntryPoint는 EntryPointNames 순서로 심볼을 조회합니다.
func (l *library) EntryPoint() (EntryPoint, error) {
	l.mu.Lock()
	handle := l.handle
	l.mu.Unlock()

	if handle == 0 {
		return nil, fmt.Errorf("%w: null handle (%s)", ErrNoEntryPoint, l.path)
	}

	for _, name := range EntryPointNames {
		sym, err := lookupSymbol(handle, name)
		if err != nil || sym == 0 {
			continue
		}
		l.logger.Debug().Str("path", l.path).Str("symbol", name).Msg("엔트리 포인트 발견")
		return newEntryPoint(sym), nil
	}

	return nil, fmt.Errorf("%w: %s", ErrNoEntryPoint, l.path)
}

// Close는 핸들을 한 번만 해제합니다.
func (l *library) Close() error {
	if l == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.handle == 0 {
		return nil
	}
	handle := l.handle
	l.handle = 0

	if err := closeNative(handle); err != nil {
		return fmt.Errorf("라이브러리 해제 실패 (%s): %w", l.path, err)
	}
	return nil
}
