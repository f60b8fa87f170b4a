package bridge

import (
	"github.com/rs/zerolog"

	"github.com/insajin/vstscan/internal/loader"
	"github.com/insajin/vstscan/internal/vst"
)

// instance는 한 번의 프로브 동안 라이브러리와 이펙트 인스턴스를 소유합니다.
// release는 어느 경로로 빠져나가든 정확히 한 번 실행됩니다.
type instance struct {
	lib      loader.Library
	effect   vst.Effect
	released bool
	logger   zerolog.Logger
}

// release는 effMainsChanged, effClose 순으로 종료를 알리고 라이브러리를 해제합니다.
func (i *instance) release() {
	if i.released {
		return
	}
	i.released = true

	if i.effect != nil {
		i.shutdown()
		i.effect = nil
	}

	if i.lib != nil {
		if err := i.lib.Close(); err != nil {
			i.logger.Warn().Err(err).Msg("라이브러리 해제 실패")
		}
		i.lib = nil
	}
}

// shutdown 중 패닉이 나도 라이브러리 해제는 계속되어야 합니다.
func (i *instance) shutdown() {
	defer func() {
		if r := recover(); r != nil {
			i.logger.Error().Interface("panic", r).Msg("플러그인 종료 중 패닉 발생")
		}
	}()

	i.effect.Dispatch(vst.EffMainsChanged, 0, 0, nil, 0)
	i.effect.Dispatch(vst.EffClose, 0, 0, nil, 0)
}
