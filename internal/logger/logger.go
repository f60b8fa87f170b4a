// Package logger는 구조화된 로깅을 제공합니다.
// 기본 출력은 stderr이며, stdout은 명령 결과와 MCP 스트림에 사용됩니다.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/insajin/vstscan/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// homeMaskWriter는 로그 줄에서 사용자 홈 디렉토리를 ~로 바꾸는 io.Writer입니다.
// 플러그인 경로에는 사용자 이름이 들어가는 경우가 많습니다.
type homeMaskWriter struct {
	underlying io.Writer
	home       string
}

// Write는 홈 디렉토리를 치환한 후 기록합니다.
// 반환하는 길이는 원본 길이이므로 zerolog가 짧은 쓰기로 오인하지 않습니다.
func (w *homeMaskWriter) Write(p []byte) (int, error) {
	masked := MaskHome(string(p), w.home)
	if _, err := w.underlying.Write([]byte(masked)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Setup은 전역 로거를 초기화합니다.
func Setup(cfg config.LoggingConfig) {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339

	var output io.Writer = os.Stderr
	if cfg.File != "" {
		file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			// 파일 열기 실패 시 stderr 사용
			log.Warn().Err(err).Str("file", cfg.File).Msg("로그 파일을 열 수 없어 stderr를 사용합니다")
		} else {
			output = file
		}
	}

	if cfg.MaskHome {
		if home, err := os.UserHomeDir(); err == nil {
			output = &homeMaskWriter{underlying: output, home: home}
		}
	}

	log.Logger = New(cfg.Format, output)
}

// New는 포맷에 맞는 로거를 생성합니다. text는 콘솔 포맷, 그 외는 JSON입니다.
func New(format string, output io.Writer) zerolog.Logger {
	if format == "text" {
		consoleWriter := zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
		return zerolog.New(consoleWriter).With().Timestamp().Logger()
	}
	return zerolog.New(output).With().Timestamp().Caller().Logger()
}

// parseLevel은 문자열 레벨을 zerolog.Level로 변환합니다.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// MaskHome은 문자열에서 home 경로를 ~로 치환합니다.
// JSON 로그에서 백슬래시가 이스케이프된 형태도 함께 처리합니다.
func MaskHome(input, home string) string {
	home = strings.TrimRight(home, `/\`)
	if len(home) < 2 {
		return input
	}
	result := strings.ReplaceAll(input, home, "~")
	if strings.Contains(home, `\`) {
		result = strings.ReplaceAll(result, strings.ReplaceAll(home, `\`, `\\`), "~")
	}
	return result
}

// Get은 전역 로거를 반환합니다.
func Get() zerolog.Logger {
	return log.Logger
}

// WithComponent는 컴포넌트 이름을 추가한 로거를 반환합니다.
func WithComponent(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// WithScanID는 재스캔 ID를 추가한 로거를 반환합니다.
func WithScanID(base zerolog.Logger, scanID string) zerolog.Logger {
	return base.With().Str("scan_id", scanID).Logger()
}
