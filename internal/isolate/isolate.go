// Package isolate는 후보 하나의 프로브를 자식 프로세스에서 실행합니다.
// 플러그인이 세그폴트를 내거나 멈춰도 호출한 프로세스는 영향을 받지 않습니다.
package isolate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/insajin/vstscan/internal/bridge"
	"github.com/insajin/vstscan/internal/vst"
)

// 격리 프로브 에러 정의
var (
	// ErrTimeout은 자식 프로세스가 제한 시간 안에 끝나지 않았을 때 사용됩니다.
	ErrTimeout = errors.New("isolated probe timed out")

	// ErrCrashed는 자식 프로세스가 비정상 종료했거나 보고서를 남기지 않았을 때 사용됩니다.
	ErrCrashed = errors.New("isolated probe process crashed")
)

const (
	// DefaultTimeout은 프로브 하나의 기본 제한 시간입니다.
	DefaultTimeout = 30 * time.Second

	// StopGracePeriod는 SIGTERM 후 강제 종료까지의 유예 시간입니다.
	StopGracePeriod = 2 * time.Second

	// ProbeCommand는 자식 프로세스에서 실행할 하위 명령 이름입니다.
	ProbeCommand = "probe"
)

// Prober는 실행 파일의 probe 하위 명령으로 후보를 프로브합니다.
type Prober struct {
	executable  string
	argsPrefix  []string
	timeout     time.Duration
	gracePeriod time.Duration
	logger      zerolog.Logger
}

// Option은 Prober 설정 옵션입니다.
type Option func(*Prober)

// WithTimeout은 프로브 하나의 제한 시간을 설정합니다.
func WithTimeout(d time.Duration) Option {
	return func(p *Prober) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithGracePeriod는 종료 신호 후 강제 종료까지의 유예 시간을 설정합니다.
func WithGracePeriod(d time.Duration) Option {
	return func(p *Prober) {
		if d > 0 {
			p.gracePeriod = d
		}
	}
}

// WithArgs는 probe 하위 명령 앞에 붙일 인자를 설정합니다.
func WithArgs(prefix ...string) Option {
	return func(p *Prober) {
		p.argsPrefix = prefix
	}
}

// WithLogger는 로거를 설정합니다.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Prober) {
		p.logger = logger
	}
}

// New는 executable을 자식 프로세스로 실행하는 Prober를 생성합니다.
func New(executable string, opts ...Option) *Prober {
	p := &Prober{
		executable:  executable,
		timeout:     DefaultTimeout,
		gracePeriod: StopGracePeriod,
		logger:      zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// args는 후보 c에 대한 자식 프로세스 인자를 만듭니다.
func (p *Prober) args(c vst.Candidate) []string {
	args := make([]string, 0, len(p.argsPrefix)+4)
	args = append(args, p.argsPrefix...)
	return append(args, ProbeCommand, c.FilePath, "--name", c.DisplayName)
}

// Probe는 자식 프로세스에서 후보 하나를 프로브합니다.
// 제한 시간을 넘기면 KindTimeout, 비정상 종료면 KindCrash로 보고합니다.
func (p *Prober) Probe(ctx context.Context, c vst.Candidate) bridge.Result {
	if err := ctx.Err(); err != nil {
		return errorResult(c, bridge.KindCanceled, err)
	}

	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	log := p.logger.With().Str("path", c.FilePath).Logger()

	cmd := exec.CommandContext(probeCtx, p.executable, p.args(c)...)
	cmd.SysProcAttr = setSysProcAttr()
	cmd.Cancel = func() error {
		return sendTermSignal(cmd.Process)
	}
	cmd.WaitDelay = p.gracePeriod

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &logWriter{logger: log}

	start := time.Now()
	runErr := cmd.Run()

	switch {
	case ctx.Err() != nil:
		return errorResult(c, bridge.KindCanceled, ctx.Err())
	case errors.Is(probeCtx.Err(), context.DeadlineExceeded):
		log.Warn().Dur("timeout", p.timeout).Msg("격리 프로브 제한 시간 초과, 프로세스를 종료했습니다")
		return errorResult(c, bridge.KindTimeout, fmt.Errorf("%w after %s", ErrTimeout, p.timeout))
	}

	report, parseErr := parseReport(stdout.Bytes())
	if runErr != nil {
		// 보고서를 남긴 뒤 종료 단계에서 죽은 플러그인은 보고서를 신뢰합니다
		if parseErr == nil {
			log.Warn().Err(runErr).Msg("프로브 프로세스가 보고서 기록 후 비정상 종료했습니다")
			return report.Result(c)
		}
		log.Warn().Err(runErr).Msg("프로브 프로세스 비정상 종료")
		return errorResult(c, bridge.KindCrash, fmt.Errorf("%w: %v", ErrCrashed, runErr))
	}
	if parseErr != nil {
		return errorResult(c, bridge.KindCrash, fmt.Errorf("%w: %v", ErrCrashed, parseErr))
	}

	log.Debug().Dur("elapsed", time.Since(start)).Int("effects", len(report.Effects)).Msg("격리 프로브 완료")
	return report.Result(c)
}

// parseReport는 stdout에서 보고서를 해석합니다.
// 플러그인이 stdout에 쓴 잡음이 앞에 있을 수 있으므로 마지막 비어 있지 않은 줄을 사용합니다.
func parseReport(out []byte) (Report, error) {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	if last == "" {
		return Report{}, errors.New("프로브 보고서가 비어 있습니다")
	}

	var r Report
	if err := json.Unmarshal([]byte(last), &r); err != nil {
		return Report{}, fmt.Errorf("프로브 보고서 파싱 실패: %w", err)
	}
	if r.Effects == nil && r.Kind == bridge.KindNone && r.Error == "" {
		return Report{}, errors.New("프로브 보고서에 결과가 없습니다")
	}
	return r, nil
}

// logWriter는 자식 프로세스의 stderr를 zerolog로 전달합니다.
type logWriter struct {
	logger zerolog.Logger
}

func (w *logWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if line != "" {
			w.logger.Debug().Str("child", line).Msg("프로브 프로세스 출력")
		}
	}
	return len(p), nil
}
