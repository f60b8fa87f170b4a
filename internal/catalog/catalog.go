// Package catalog는 스캔 결과를 모아 정렬된 카탈로그 스냅샷으로 보관하고 조회 API를 제공합니다.
// 재스캔은 직렬화되며, 읽기는 잠금 없이 항상 완성된 스냅샷을 봅니다.
package catalog

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/insajin/vstscan/internal/bridge"
	"github.com/insajin/vstscan/internal/logger"
	"github.com/insajin/vstscan/internal/metrics"
	"github.com/insajin/vstscan/internal/vst"
)

// ErrNoStore는 Store 없이 저장을 요청했을 때 반환됩니다.
var ErrNoStore = errors.New("catalog has no cache store")

// CandidateSource는 후보 라이브러리 목록을 제공합니다.
type CandidateSource interface {
	Candidates() []vst.Candidate
}

// Prober는 후보 하나를 프로브합니다. 실패는 Result.Err로 보고합니다.
type Prober interface {
	Probe(ctx context.Context, c vst.Candidate) bridge.Result
}

// Catalog는 VST 이펙트 카탈로그입니다.
type Catalog struct {
	source  CandidateSource
	prober  Prober
	store   *Store
	metrics *metrics.Metrics
	logger  zerolog.Logger

	// scanMu는 재스캔과 캐시 로드를 직렬화합니다.
	scanMu   sync.Mutex
	snapshot atomic.Pointer[[]vst.EffectDescriptor]
}

// Option은 Catalog 설정 옵션입니다.
type Option func(*Catalog)

// WithStore는 캐시 저장소를 설정합니다.
func WithStore(store *Store) Option {
	return func(c *Catalog) {
		c.store = store
	}
}

// WithMetrics는 스캔 통계 수집기를 설정합니다.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Catalog) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithLogger는 로거를 설정합니다.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Catalog) {
		c.logger = logger
	}
}

// New는 빈 카탈로그를 생성합니다.
func New(source CandidateSource, prober Prober, opts ...Option) *Catalog {
	c := &Catalog{
		source:  source,
		prober:  prober,
		metrics: metrics.NewMetrics(),
		logger:  zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	empty := []vst.EffectDescriptor{}
	c.snapshot.Store(&empty)
	return c
}

// Metrics는 카탈로그가 기록하는 통계를 반환합니다.
func (c *Catalog) Metrics() *metrics.Metrics {
	return c.metrics
}

// Rescan은 모든 후보를 순차적으로 프로브해 카탈로그를 통째로 교체하고 캐시에 저장합니다.
// 후보 사이에서 ctx 취소를 확인하며, 취소되면 이전 스냅샷을 유지하고 ctx.Err()를 반환합니다.
// 캐시 저장 실패는 로그만 남기고 nil을 반환합니다.
func (c *Catalog) Rescan(ctx context.Context) error {
	c.scanMu.Lock()
	defer c.scanMu.Unlock()

	log := logger.WithScanID(c.logger, uuid.NewString())
	start := time.Now()
	c.metrics.ScansStarted.Add(1)

	candidates := c.source.Candidates()
	c.metrics.CandidatesFound.Add(int64(len(candidates)))
	log.Info().Int("candidates", len(candidates)).Msg("VST 재스캔 시작")

	list := make([]vst.EffectDescriptor, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))

	for _, cand := range candidates {
		if err := ctx.Err(); err != nil {
			return c.canceled(log, err)
		}

		probeStart := time.Now()
		res := c.prober.Probe(ctx, cand)
		c.metrics.RecordProbe(string(res.Kind()), len(res.Effects), countShell(res.Effects), time.Since(probeStart))

		if !res.OK() {
			continue
		}

		for _, d := range res.Effects {
			if _, dup := seen[d.ID]; dup {
				log.Warn().Str("id", d.ID).Msg("중복 ID를 가진 이펙트를 건너뜁니다")
				continue
			}
			seen[d.ID] = struct{}{}
			list = append(list, d)

			log.Info().
				Str("effect", d.EffectName).
				Str("vendor", d.VendorString).
				Int32("plugin_id", d.PluginID).
				Str("file", d.FileName).
				Msg("VST 발견")
		}
	}

	// 마지막 프로브 도중 취소된 경우도 이전 스냅샷을 유지합니다
	if err := ctx.Err(); err != nil {
		return c.canceled(log, err)
	}

	SortByName(list)
	c.snapshot.Store(&list)

	elapsed := time.Since(start)
	c.metrics.RecordScan(elapsed)
	log.Info().Int("effects", len(list)).Dur("elapsed", elapsed).Msg("VST 재스캔 완료")

	if c.store != nil {
		if err := c.saveList(list); err != nil {
			log.Warn().Err(err).Msg("캐시 저장 실패, 메모리 카탈로그는 유지합니다")
		}
	}

	return nil
}

func (c *Catalog) canceled(log zerolog.Logger, err error) error {
	c.metrics.ScansCanceled.Add(1)
	log.Warn().Err(err).Msg("VST 재스캔이 취소되어 이전 카탈로그를 유지합니다")
	return err
}

// Initialize는 캐시 복원을 시도하고, 실패하면 전체 재스캔을 수행합니다.
func (c *Catalog) Initialize(ctx context.Context) error {
	if c.Load() {
		return nil
	}
	return c.Rescan(ctx)
}

// Load는 캐시에서 카탈로그를 복원합니다.
// 캐시가 없거나 손상되었으면 false를 반환하고 메모리 카탈로그는 그대로 둡니다.
func (c *Catalog) Load() bool {
	if c.store == nil {
		return false
	}

	c.scanMu.Lock()
	defer c.scanMu.Unlock()

	list, err := c.store.Load()
	if err != nil {
		c.metrics.CacheLoadFailures.Add(1)
		c.logger.Debug().Err(err).Str("path", c.store.Path()).Msg("캐시를 불러올 수 없습니다")
		return false
	}

	list = dedupe(list)
	SortByName(list)
	c.snapshot.Store(&list)
	c.metrics.CacheLoads.Add(1)
	c.logger.Info().Int("effects", len(list)).Str("path", c.store.Path()).Msg("캐시에서 카탈로그 복원")
	return true
}

// Save는 현재 스냅샷을 캐시에 기록합니다.
// 재스캔의 캐시 쓰기와 같은 임시 파일을 쓰므로 재스캔 잠금을 잡습니다.
func (c *Catalog) Save() error {
	if c.store == nil {
		return ErrNoStore
	}

	c.scanMu.Lock()
	defer c.scanMu.Unlock()

	return c.saveList(*c.snapshot.Load())
}

func (c *Catalog) saveList(list []vst.EffectDescriptor) error {
	if err := c.store.Save(list); err != nil {
		c.metrics.CacheSaveFailures.Add(1)
		return err
	}
	c.metrics.CacheSaves.Add(1)
	return nil
}

// LookupByID는 ID가 정확히 일치하는 항목을 찾습니다.
func (c *Catalog) LookupByID(id string) (vst.EffectDescriptor, bool) {
	for _, d := range *c.snapshot.Load() {
		if d.ID == id {
			return d, true
		}
	}
	return vst.EffectDescriptor{}, false
}

// LookupByPath는 FilePath가 정확히 일치하는 첫 항목을 찾습니다.
// 경로만 저장했던 이전 설정을 ID로 옮길 때 사용합니다.
func (c *Catalog) LookupByPath(path string) (vst.EffectDescriptor, bool) {
	for _, d := range *c.snapshot.Load() {
		if d.FilePath == path {
			return d, true
		}
	}
	return vst.EffectDescriptor{}, false
}

// All은 현재 스냅샷의 복사본을 반환합니다.
func (c *Catalog) All() []vst.EffectDescriptor {
	return slices.Clone(*c.snapshot.Load())
}

// Len은 현재 스냅샷의 항목 수를 반환합니다.
func (c *Catalog) Len() int {
	return len(*c.snapshot.Load())
}

// SortByName은 EffectName 오름차순으로 안정 정렬합니다.
func SortByName(list []vst.EffectDescriptor) {
	slices.SortStableFunc(list, func(a, b vst.EffectDescriptor) int {
		return cmp.Compare(a.EffectName, b.EffectName)
	})
}

// dedupe는 ID가 중복된 항목 중 처음 것만 남깁니다.
func dedupe(list []vst.EffectDescriptor) []vst.EffectDescriptor {
	seen := make(map[string]struct{}, len(list))
	out := list[:0]
	for _, d := range list {
		if _, dup := seen[d.ID]; dup {
			continue
		}
		seen[d.ID] = struct{}{}
		out = append(out, d)
	}
	return out
}

func countShell(list []vst.EffectDescriptor) int {
	n := 0
	for _, d := range list {
		if d.Shell {
			n++
		}
	}
	return n
}
