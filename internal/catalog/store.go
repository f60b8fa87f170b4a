package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/insajin/vstscan/internal/vst"
)

// CacheFileName은 캐시 디렉토리 안의 카탈로그 파일 이름입니다.
const CacheFileName = "addonlist.json"

// 캐시 관련 에러 정의
var (
	// ErrCacheCorrupt는 캐시 파일을 해석할 수 없거나 vst 배열이 없을 때 반환됩니다.
	ErrCacheCorrupt = errors.New("cache file is corrupt")

	// ErrCacheWrite는 캐시 파일을 기록하지 못했을 때 반환됩니다.
	ErrCacheWrite = errors.New("cache file could not be written")
)

// cacheFile은 addonlist.json의 최상위 구조입니다.
// VST가 nil이면 배열 필드가 없는 것으로 판단합니다.
type cacheFile struct {
	VST *[]vst.EffectDescriptor `json:"vst"`
}

// Store는 카탈로그를 JSON 파일로 보관합니다.
// 쓰기는 임시 파일에 기록한 뒤 기존 파일을 .bkp로 옮기고 임시 파일을 교체합니다.
type Store struct {
	fs  afero.Fs
	dir string
}

// NewStore는 dir 아래에 캐시를 보관하는 Store를 생성합니다.
func NewStore(fs afero.Fs, dir string) *Store {
	return &Store{fs: fs, dir: dir}
}

// Path는 캐시 파일 경로를 반환합니다.
func (s *Store) Path() string {
	return filepath.Join(s.dir, CacheFileName)
}

func (s *Store) backupPath() string {
	return s.Path() + ".bkp"
}

func (s *Store) tempPath() string {
	return s.Path() + ".tmp"
}

// Save는 카탈로그 전체를 기록합니다.
func (s *Store) Save(list []vst.EffectDescriptor) error {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: 캐시 디렉토리 생성 실패: %v", ErrCacheWrite, err)
	}

	if list == nil {
		list = []vst.EffectDescriptor{}
	}
	data, err := json.MarshalIndent(cacheFile{VST: &list}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCacheWrite, err)
	}

	if err := s.writeTemp(data); err != nil {
		_ = s.fs.Remove(s.tempPath())
		return fmt.Errorf("%w: %v", ErrCacheWrite, err)
	}

	// 기존 파일은 .bkp로 보관합니다
	if ok, _ := afero.Exists(s.fs, s.Path()); ok {
		_ = s.fs.Remove(s.backupPath())
		if err := s.fs.Rename(s.Path(), s.backupPath()); err != nil {
			_ = s.fs.Remove(s.tempPath())
			return fmt.Errorf("%w: 백업 생성 실패: %v", ErrCacheWrite, err)
		}
	}

	if err := s.fs.Rename(s.tempPath(), s.Path()); err != nil {
		return fmt.Errorf("%w: 캐시 파일 교체 실패: %v", ErrCacheWrite, err)
	}

	return nil
}

// writeTemp는 임시 파일에 기록하고 디스크에 동기화합니다.
func (s *Store) writeTemp(data []byte) error {
	f, err := s.fs.OpenFile(s.tempPath(), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load는 캐시를 읽습니다. 기본 파일이 없거나 손상되었으면 .bkp를 시도합니다.
// 둘 다 사용할 수 없으면 기본 파일의 에러를 반환합니다 (os.ErrNotExist 또는 ErrCacheCorrupt).
func (s *Store) Load() ([]vst.EffectDescriptor, error) {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("캐시 디렉토리 생성 실패: %w", err)
	}

	list, err := s.read(s.Path())
	if err == nil {
		return list, nil
	}

	if backup, bkpErr := s.read(s.backupPath()); bkpErr == nil {
		return backup, nil
	}

	return nil, err
}

func (s *Store) read(path string) ([]vst.EffectDescriptor, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, err
	}

	var cf cacheFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCacheCorrupt, path, err)
	}
	if cf.VST == nil {
		return nil, fmt.Errorf("%w: %s: vst 배열이 없습니다", ErrCacheCorrupt, path)
	}

	return *cf.VST, nil
}
