// Package bridge는 후보 라이브러리 하나를 로드부터 해제까지 구동해 이펙트 정보를 추출합니다.
// 한 번에 하나의 라이브러리만 다루며, 어떤 실패도 호출자에게 패닉으로 전파하지 않습니다.
package bridge

import (
	"context"
	"fmt"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/insajin/vstscan/internal/loader"
	"github.com/insajin/vstscan/internal/vst"
)

// DefaultMaxShellPlugins는 셸 열거 반복의 기본 상한입니다.
const DefaultMaxShellPlugins = 1024

// Bridge는 Loader로 라이브러리를 열고 VST ABI로 메타데이터를 질의합니다.
type Bridge struct {
	// loader는 라이브러리 로더입니다.
	loader loader.Loader
	// maxShellPlugins는 셸 플러그인당 최대 서브 플러그인 수입니다.
	maxShellPlugins int
	// logger는 구조화된 로거입니다.
	logger zerolog.Logger
}

// Option은 Bridge 설정 옵션입니다.
type Option func(*Bridge)

// WithLogger는 로거를 설정합니다.
func WithLogger(logger zerolog.Logger) Option {
	return func(b *Bridge) {
		b.logger = logger
	}
}

// WithMaxShellPlugins는 셸 열거 상한을 설정합니다. 0이면 상한이 없고 음수는 무시됩니다.
func WithMaxShellPlugins(n int) Option {
	return func(b *Bridge) {
		if n >= 0 {
			b.maxShellPlugins = n
		}
	}
}

// New는 새로운 Bridge를 생성합니다.
func New(l loader.Loader, opts ...Option) *Bridge {
	b := &Bridge{
		loader:          l,
		maxShellPlugins: DefaultMaxShellPlugins,
		logger:          zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Probe는 후보 하나를 구동하고 결과를 반환합니다.
// 실패는 Result.Err로만 보고되며, 정리 단계는 모든 경로에서 정확히 한 번 실행됩니다.
func (b *Bridge) Probe(ctx context.Context, c vst.Candidate) Result {
	if err := ctx.Err(); err != nil {
		return Result{Candidate: c, Err: &ProbeError{Kind: KindCanceled, Path: c.FilePath, Err: err}}
	}

	// 플러그인이 스레드 로컬 상태를 가질 수 있으므로 한 OS 스레드에서 구동합니다
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	log := b.logger.With().Str("path", c.FilePath).Logger()

	effects, err := b.probe(c, log)
	if err != nil {
		log.Warn().Err(err).Str("kind", string(KindOf(err))).Msg("플러그인 프로브 실패, 건너뜁니다")
		return Result{Candidate: c, Err: err}
	}

	log.Debug().Int("effects", len(effects)).Msg("플러그인 프로브 완료")
	return Result{Candidate: c, Effects: effects}
}

// probe는 로드 후 인스턴스 수명을 instance에 맡기고 패닉을 경계에서 복구합니다.
func (b *Bridge) probe(c vst.Candidate, log zerolog.Logger) (effects []vst.EffectDescriptor, err error) {
	lib, err := b.loader.Open(c.FilePath)
	if err != nil {
		return nil, &ProbeError{Kind: KindOf(err), Path: c.FilePath, Err: err}
	}

	inst := &instance{lib: lib, logger: log}
	defer inst.release()

	defer func() {
		if r := recover(); r != nil {
			effects = nil
			err = &ProbeError{Kind: KindPanic, Path: c.FilePath, Err: fmt.Errorf("%w: %v", ErrPanic, r)}
		}
	}()

	return b.inspect(inst, c)
}

// inspect는 엔트리 포인트 호출부터 분류, 메타데이터 질의까지 수행합니다.
func (b *Bridge) inspect(inst *instance, c vst.Candidate) ([]vst.EffectDescriptor, error) {
	entry, err := inst.lib.EntryPoint()
	if err != nil {
		return nil, &ProbeError{Kind: KindNoEntryPoint, Path: c.FilePath, Err: err}
	}

	effect := entry()
	if effect == nil {
		return nil, &ProbeError{Kind: KindNullInstance, Path: c.FilePath, Err: ErrNullInstance}
	}
	inst.effect = effect

	if magic := effect.Magic(); magic != vst.Magic {
		return nil, &ProbeError{
			Kind: KindABIMismatch,
			Path: c.FilePath,
			Err:  fmt.Errorf("%w: got 0x%08x", ErrABIMismatch, uint32(magic)),
		}
	}

	var buf vst.NameBuffer
	effect.Dispatch(vst.EffGetVendorString, 0, 0, buf.Bytes(), 0)
	vendor := buf.String()

	category := vst.Category(effect.Dispatch(vst.EffGetPlugCategory, 0, 0, nil, 0))
	inst.logger.Debug().Str("vendor", vendor).Str("category", category.String()).Msg("플러그인 분류")

	if category == vst.CategoryShell {
		return b.enumerateShell(inst, c, vendor, &buf), nil
	}

	buf.Reset()
	effect.Dispatch(vst.EffGetEffectName, 0, 0, buf.Bytes(), 0)

	return []vst.EffectDescriptor{{
		ID:           vst.MakeID(c.FilePath, 0),
		FileName:     c.DisplayName,
		FilePath:     c.FilePath,
		EffectName:   buf.String(),
		VendorString: vendor,
	}}, nil
}

// enumerateShell은 셸 플러그인의 서브 플러그인을 열거합니다.
// ID가 0이거나, 이름이 비었거나, 이미 나온 ID가 반복되면 종료합니다.
// maxShellPlugins가 0이면 반복 횟수 상한이 없습니다.
func (b *Bridge) enumerateShell(inst *instance, c vst.Candidate, vendor string, buf *vst.NameBuffer) []vst.EffectDescriptor {
	var effects []vst.EffectDescriptor
	seen := make(map[int32]struct{})

	for i := 0; b.maxShellPlugins == 0 || i < b.maxShellPlugins; i++ {
		buf.Reset()
		id := int32(inst.effect.Dispatch(vst.EffShellGetNextPlugin, 0, 0, buf.Bytes(), 0))
		if id == 0 || buf.Empty() {
			return effects
		}
		if _, dup := seen[id]; dup {
			inst.logger.Warn().Int32("plugin_id", id).Msg("셸 플러그인이 중복 ID를 반환해 열거를 중단합니다")
			return effects
		}
		seen[id] = struct{}{}

		effects = append(effects, vst.EffectDescriptor{
			ID:           vst.MakeID(c.FilePath, id),
			FileName:     c.DisplayName,
			FilePath:     c.FilePath,
			EffectName:   buf.String(),
			VendorString: vendor,
			Shell:        true,
			PluginID:     id,
		})
	}

	inst.logger.Warn().Int("limit", b.maxShellPlugins).Msg("셸 플러그인 열거 상한에 도달했습니다")
	return effects
}
