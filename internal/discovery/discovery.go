// Package discovery는 플랫폼별 VST 설치 디렉토리를 재귀적으로 탐색해 후보 라이브러리를 찾습니다.
package discovery

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/insajin/vstscan/internal/vst"
)

// Resolver는 검색 루트를 순회하며 후보 라이브러리를 수집합니다.
type Resolver struct {
	// fs는 탐색에 사용하는 파일시스템입니다.
	fs afero.Fs
	// roots는 기본 검색 루트입니다.
	roots []string
	// extraRoots는 설정에서 추가한 검색 루트입니다.
	extraRoots []string
	// extensions는 후보로 인정하는 확장자 목록입니다 (대소문자 무시).
	extensions []string
	// bundles가 true면 확장자가 맞는 디렉토리를 번들로 보고 내려가지 않습니다.
	bundles bool
	// logger는 구조화된 로거입니다.
	logger zerolog.Logger
}

// Option은 Resolver 설정 옵션입니다.
type Option func(*Resolver)

// WithFs는 파일시스템을 설정합니다.
func WithFs(fs afero.Fs) Option {
	return func(r *Resolver) {
		r.fs = fs
	}
}

// WithRoots는 기본 검색 루트를 대체합니다.
func WithRoots(roots ...string) Option {
	return func(r *Resolver) {
		r.roots = roots
	}
}

// WithExtraRoots는 기본 검색 루트 뒤에 루트를 추가합니다.
func WithExtraRoots(roots ...string) Option {
	return func(r *Resolver) {
		r.extraRoots = append(r.extraRoots, roots...)
	}
}

// WithExtensions는 확장자 필터와 번들 여부를 설정합니다.
func WithExtensions(bundles bool, exts ...string) Option {
	return func(r *Resolver) {
		r.extensions = exts
		r.bundles = bundles
	}
}

// WithLogger는 로거를 설정합니다.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// New는 현재 플랫폼의 기본값으로 Resolver를 생성합니다.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		fs:         afero.NewOsFs(),
		roots:      DefaultRoots(),
		extensions: defaultExtensions,
		bundles:    bundleExtensions,
		logger:     zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Roots는 실제로 탐색할 검색 루트 목록을 반환합니다.
func (r *Resolver) Roots() []string {
	roots := make([]string, 0, len(r.roots)+len(r.extraRoots))
	roots = append(roots, r.roots...)
	for _, root := range r.extraRoots {
		if root = expandHome(root); root != "" {
			roots = append(roots, root)
		}
	}
	return roots
}

// Candidates는 모든 검색 루트를 재귀 탐색한 결과를 반환합니다.
// 읽을 수 없는 디렉토리는 디버그 로그만 남기고 건너뜁니다. 순서는 보장하지 않습니다.
func (r *Resolver) Candidates() []vst.Candidate {
	var candidates []vst.Candidate

	for _, root := range r.Roots() {
		found := 0
		_ = afero.Walk(r.fs, root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				r.logger.Debug().Err(err).Str("path", path).Msg("디렉토리를 읽을 수 없어 건너뜁니다")
				if info != nil && info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			name, ok := r.match(info.Name())
			if !ok {
				return nil
			}

			if info.IsDir() {
				if !r.bundles || path == root {
					return nil
				}
				candidates = append(candidates, vst.Candidate{DisplayName: name, FilePath: path})
				found++
				return filepath.SkipDir
			}

			if !r.bundles {
				candidates = append(candidates, vst.Candidate{DisplayName: name, FilePath: path})
				found++
			}
			return nil
		})

		if found > 0 {
			r.logger.Debug().Str("root", root).Int("count", found).Msg("후보 라이브러리 발견")
		}
	}

	return candidates
}

// match는 확장자가 필터에 맞으면 확장자를 뗀 표시 이름을 반환합니다.
func (r *Resolver) match(name string) (string, bool) {
	ext := filepath.Ext(name)
	if ext == "" {
		return "", false
	}
	for _, want := range r.extensions {
		if strings.EqualFold(ext, want) {
			return strings.TrimSuffix(name, ext), true
		}
	}
	return "", false
}

// expandHome은 ~를 홈 디렉토리로 확장합니다.
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// homeRoots는 홈 디렉토리 아래의 상대 경로를 절대 경로로 만듭니다.
func homeRoots(rel ...string) []string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return nil
	}
	roots := make([]string, 0, len(rel))
	for _, r := range rel {
		roots = append(roots, filepath.Join(home, r))
	}
	return roots
}
