package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/afero"

	"github.com/insajin/vstscan/internal/bridge"
	"github.com/insajin/vstscan/internal/catalog"
	"github.com/insajin/vstscan/internal/config"
	"github.com/insajin/vstscan/internal/discovery"
	"github.com/insajin/vstscan/internal/isolate"
	"github.com/insajin/vstscan/internal/loader"
	"github.com/insajin/vstscan/internal/logger"
)

// app은 명령어들이 공유하는 구성 요소입니다.
type app struct {
	cfg      *config.Config
	resolver *discovery.Resolver
	catalog  *catalog.Catalog
}

// newApp은 설정을 로드하고 Resolver, Prober, Store, Catalog를 조립합니다.
func newApp() (*app, error) {
	return buildApp(false)
}

// newIsolatedApp은 scan.isolate 설정과 관계없이 격리 프로버를 사용하는 app을 만듭니다.
// stdout을 프로토콜 스트림으로 쓰는 명령어에서 사용합니다.
func newIsolatedApp() (*app, error) {
	return buildApp(true)
}

func buildApp(forceIsolate bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	prober, err := newProber(cfg, forceIsolate)
	if err != nil {
		return nil, err
	}

	resolver := discovery.New(
		discovery.WithExtraRoots(cfg.Scan.SearchPaths...),
		discovery.WithLogger(logger.WithComponent("discovery")),
	)

	store := catalog.NewStore(afero.NewOsFs(), cfg.Cache.Dir)

	cat := catalog.New(resolver, prober,
		catalog.WithStore(store),
		catalog.WithLogger(logger.WithComponent("catalog")),
	)

	return &app{cfg: cfg, resolver: resolver, catalog: cat}, nil
}

// cachePath는 카탈로그 캐시 파일 경로를 반환합니다.
func cachePath(a *app) string {
	return filepath.Join(a.cfg.Cache.Dir, catalog.CacheFileName)
}

// loadConfig는 설정을 로드하고 검증합니다.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("설정 로드 실패: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("설정 검증 실패: %w", err)
	}
	return cfg, nil
}

// newProber는 scan.isolate 설정 또는 forceIsolate에 따라 격리 프로버나 프로세스 내 브리지를 반환합니다.
// forceIsolate이면 격리 프로버를 만들 수 없을 때 에러를 반환합니다.
func newProber(cfg *config.Config, forceIsolate bool) (catalog.Prober, error) {
	if !cfg.Scan.Isolate && !forceIsolate {
		return newBridge(cfg), nil
	}

	exe, err := os.Executable()
	if err != nil {
		if forceIsolate {
			return nil, fmt.Errorf("격리 프로브에 필요한 실행 파일 경로를 알 수 없습니다: %w", err)
		}
		logger.WithComponent("isolate").Warn().Err(err).
			Msg("실행 파일 경로를 알 수 없어 프로세스 내 프로브를 사용합니다")
		return newBridge(cfg), nil
	}

	return isolate.New(exe,
		isolate.WithTimeout(cfg.Scan.ProbeTimeout),
		isolate.WithArgs(childArgs()...),
		isolate.WithLogger(logger.WithComponent("isolate")),
	), nil
}

// newBridge는 네이티브 로더를 사용하는 Bridge를 생성합니다.
func newBridge(cfg *config.Config) *bridge.Bridge {
	l := loader.New(loader.WithLogger(logger.WithComponent("loader")))
	return bridge.New(l,
		bridge.WithMaxShellPlugins(cfg.Scan.MaxShellPlugins),
		bridge.WithLogger(logger.WithComponent("bridge")),
	)
}

// childArgs는 자식 프로브 프로세스에 전달할 전역 플래그입니다.
func childArgs() []string {
	var args []string
	if cfgFile != "" {
		args = append(args, "--config", cfgFile)
	}
	if verbose {
		args = append(args, "--verbose")
	}
	return args
}

// signalContext는 SIGINT/SIGTERM에서 취소되는 컨텍스트를 반환합니다.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
