// Package config는 vstscan의 설정 관리를 담당합니다.
// 설정 우선순위는 환경변수 > 설정파일 > 기본값입니다.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// 기본값
const (
	DefaultProbeTimeout    = 30 * time.Second
	DefaultMaxShellPlugins = 1024
)

// Config는 전체 애플리케이션 설정을 나타냅니다.
type Config struct {
	Scan    ScanConfig    `mapstructure:"scan" yaml:"scan"`
	Cache   CacheConfig   `mapstructure:"cache" yaml:"cache"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// ScanConfig는 스캔 설정입니다.
type ScanConfig struct {
	// SearchPaths는 플랫폼 기본 경로 뒤에 추가로 검색할 디렉토리입니다.
	SearchPaths []string `mapstructure:"search_paths" yaml:"search_paths"`
	// Isolate가 true면 각 후보를 자식 프로세스에서 프로브합니다.
	Isolate bool `mapstructure:"isolate" yaml:"isolate"`
	// ProbeTimeout은 격리 프로브 하나의 제한 시간입니다.
	ProbeTimeout time.Duration `mapstructure:"probe_timeout" yaml:"probe_timeout"`
	// MaxShellPlugins는 셸 플러그인 하나에서 열거할 최대 서브 플러그인 수입니다.
	MaxShellPlugins int `mapstructure:"max_shell_plugins" yaml:"max_shell_plugins"`
}

// CacheConfig는 카탈로그 캐시 설정입니다.
type CacheConfig struct {
	// Dir은 addonlist.json이 저장되는 디렉토리입니다.
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// LoggingConfig는 로깅 설정입니다.
type LoggingConfig struct {
	// Level은 로그 레벨입니다 (debug, info, warn, error).
	Level string `mapstructure:"level" yaml:"level"`
	// Format은 로그 포맷입니다 (json, text).
	Format string `mapstructure:"format" yaml:"format"`
	// File은 로그 파일 경로입니다. 비어있으면 stderr로 출력합니다.
	File string `mapstructure:"file" yaml:"file"`
	// MaskHome이 true면 로그의 홈 디렉토리 경로를 ~로 치환합니다.
	MaskHome bool `mapstructure:"mask_home" yaml:"mask_home"`
}

// Load는 설정을 로드하고 Config 구조체를 반환합니다.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("설정 파싱 실패: %w", err)
	}

	// 홈 디렉토리 경로 확장
	cfg.Cache.Dir = expandPath(cfg.Cache.Dir)
	cfg.Logging.File = expandPath(cfg.Logging.File)
	for i, p := range cfg.Scan.SearchPaths {
		cfg.Scan.SearchPaths[i] = expandPath(p)
	}

	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = DefaultCacheDir()
	}
	if cfg.Scan.ProbeTimeout == 0 {
		cfg.Scan.ProbeTimeout = DefaultProbeTimeout
	}
	// 0은 무제한이므로 키가 없을 때만 기본값을 사용합니다
	if !viper.IsSet("scan.max_shell_plugins") {
		cfg.Scan.MaxShellPlugins = DefaultMaxShellPlugins
	}

	return &cfg, nil
}

// Validate는 설정의 유효성을 검사합니다.
func (c *Config) Validate() error {
	// 로그 레벨 검증
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("유효하지 않은 로그 레벨: %s (debug, info, warn, error 중 하나)", c.Logging.Level)
	}

	// 로그 포맷 검증
	validFormats := map[string]bool{
		"json": true,
		"text": true,
	}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("유효하지 않은 로그 포맷: %s (json, text 중 하나)", c.Logging.Format)
	}

	if c.Scan.ProbeTimeout <= 0 {
		return fmt.Errorf("probe_timeout은 0보다 커야 합니다: %s", c.Scan.ProbeTimeout)
	}

	if c.Scan.MaxShellPlugins < 0 {
		return fmt.Errorf("max_shell_plugins는 0 이상이어야 합니다: %d", c.Scan.MaxShellPlugins)
	}

	if c.Cache.Dir == "" {
		return fmt.Errorf("cache.dir이 비어 있습니다")
	}

	return nil
}

// expandPath는 ~를 홈 디렉토리로 확장합니다.
func expandPath(path string) string {
	if path == "" {
		return ""
	}

	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}

	return path
}

// Dir은 설정 디렉토리 경로를 반환합니다.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "vstscan")
}

// EnsureConfigDir는 설정 디렉토리가 존재하는지 확인하고 없으면 생성합니다.
func EnsureConfigDir() error {
	dir := Dir()
	if dir == "" {
		return fmt.Errorf("홈 디렉토리를 찾을 수 없습니다")
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("설정 디렉토리 생성 실패: %w", err)
	}

	return nil
}

// DefaultConfigPath는 기본 설정 파일 경로를 반환합니다.
func DefaultConfigPath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// DefaultCacheDir은 기본 캐시 디렉토리를 반환합니다. 설정 디렉토리와 같습니다.
func DefaultCacheDir() string {
	return Dir()
}
