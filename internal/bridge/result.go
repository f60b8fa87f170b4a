package bridge

import (
	"context"
	"errors"
	"fmt"

	"github.com/insajin/vstscan/internal/loader"
	"github.com/insajin/vstscan/internal/vst"
)

// 프로브 관련 에러 정의
var (
	// ErrNullInstance는 엔트리 포인트가 null 인스턴스를 반환했을 때 사용됩니다.
	ErrNullInstance = errors.New("entry point returned a null effect instance")

	// ErrABIMismatch는 인스턴스의 magic 값이 'VstP'가 아닐 때 사용됩니다.
	ErrABIMismatch = errors.New("effect magic does not match VstP")

	// ErrPanic은 프로브 중 패닉이 발생했을 때 사용됩니다.
	ErrPanic = errors.New("panic during probe")
)

// Kind는 프로브 실패 분류입니다.
type Kind string

const (
	KindNone         Kind = ""
	KindLoad         Kind = "load"
	KindArch         Kind = "arch"
	KindNoEntryPoint Kind = "no-entry-point"
	KindNullInstance Kind = "null-instance"
	KindABIMismatch  Kind = "abi-mismatch"
	KindPanic        Kind = "panic"
	KindTimeout      Kind = "timeout"
	KindCrash        Kind = "crash"
	KindCanceled     Kind = "canceled"
)

// ProbeError는 한 후보의 프로브 실패를 나타냅니다.
type ProbeError struct {
	Kind Kind
	Path string
	Err  error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("프로브 실패 [%s] %s: %v", e.Kind, e.Path, e.Err)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}

// KindOf는 에러 체인에서 실패 분류를 결정합니다.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}

	var pe *ProbeError
	if errors.As(err, &pe) {
		return pe.Kind
	}

	switch {
	case errors.Is(err, loader.ErrArchMismatch):
		return KindArch
	case errors.Is(err, loader.ErrLoad), errors.Is(err, loader.ErrUnsupported):
		return KindLoad
	case errors.Is(err, loader.ErrNoEntryPoint):
		return KindNoEntryPoint
	case errors.Is(err, ErrNullInstance):
		return KindNullInstance
	case errors.Is(err, ErrABIMismatch):
		return KindABIMismatch
	case errors.Is(err, ErrPanic):
		return KindPanic
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return KindLoad
	}
}

// Result는 한 후보의 프로브 결과입니다. Err가 nil이면 Effects가 유효합니다.
type Result struct {
	Candidate vst.Candidate
	Effects   []vst.EffectDescriptor
	Err       error
}

// OK는 프로브가 성공했는지 반환합니다.
func (r Result) OK() bool {
	return r.Err == nil
}

// Kind는 실패 분류를 반환합니다. 성공이면 KindNone입니다.
func (r Result) Kind() Kind {
	return KindOf(r.Err)
}
