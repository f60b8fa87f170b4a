package isolate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/insajin/vstscan/internal/bridge"
	"github.com/insajin/vstscan/internal/loader"
	"github.com/insajin/vstscan/internal/vst"
)

// Report는 probe 하위 명령이 stdout에 기록하는 JSON 결과입니다.
type Report struct {
	Effects []vst.EffectDescriptor `json:"effects"`
	Kind    bridge.Kind            `json:"kind,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

// WriteReport는 보고서를 한 줄의 JSON으로 기록합니다.
// 플러그인이 줄바꿈 없이 남긴 출력과 섞이지 않도록 새 줄에서 시작합니다.
func WriteReport(w io.Writer, r Report) error {
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(r)
}

// NewReport는 프로브 결과를 보고서로 변환합니다.
func NewReport(res bridge.Result) Report {
	r := Report{Effects: res.Effects}
	if r.Effects == nil {
		r.Effects = []vst.EffectDescriptor{}
	}
	if res.Err != nil {
		r.Kind = res.Kind()
		r.Error = res.Err.Error()
	}
	return r
}

// Result는 보고서를 후보 c의 프로브 결과로 복원합니다.
// 실패 분류는 같은 센티넬 에러로 다시 감싸므로 errors.Is가 프로세스 경계를 넘어 동작합니다.
func (r Report) Result(c vst.Candidate) bridge.Result {
	if r.Kind == bridge.KindNone && r.Error == "" {
		return bridge.Result{Candidate: c, Effects: r.Effects}
	}

	kind := r.Kind
	if kind == bridge.KindNone {
		kind = bridge.KindLoad
	}

	return bridge.Result{
		Candidate: c,
		Err: &bridge.ProbeError{
			Kind: kind,
			Path: c.FilePath,
			Err:  fmt.Errorf("%w: %s", sentinelFor(kind), r.Error),
		},
	}
}

func sentinelFor(kind bridge.Kind) error {
	switch kind {
	case bridge.KindLoad:
		return loader.ErrLoad
	case bridge.KindArch:
		return loader.ErrArchMismatch
	case bridge.KindNoEntryPoint:
		return loader.ErrNoEntryPoint
	case bridge.KindNullInstance:
		return bridge.ErrNullInstance
	case bridge.KindABIMismatch:
		return bridge.ErrABIMismatch
	case bridge.KindPanic:
		return bridge.ErrPanic
	case bridge.KindTimeout:
		return ErrTimeout
	case bridge.KindCanceled:
		return context.Canceled
	default:
		return ErrCrashed
	}
}

// errorResult는 자식 프로세스 수준의 실패를 결과로 만듭니다.
func errorResult(c vst.Candidate, kind bridge.Kind, err error) bridge.Result {
	return bridge.Result{
		Candidate: c,
		Err:       &bridge.ProbeError{Kind: kind, Path: c.FilePath, Err: err},
	}
}

