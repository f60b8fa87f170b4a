package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/insajin/vstscan/internal/logger"
	"github.com/insajin/vstscan/internal/mcpserver"
)

func init() {
	rootCmd.AddCommand(mcpServeCmd)
}

// mcpServeCmd는 MCP 서버를 시작하는 Cobra 서브커맨드입니다.
var mcpServeCmd = &cobra.Command{
	Use:   "mcp-serve",
	Short: "카탈로그 조회 API를 MCP 서버로 제공합니다 (stdio 트랜스포트)",
	Long: `vstscan MCP 서버를 stdio 트랜스포트로 시작합니다.
MCP 클라이언트가 VST 카탈로그를 도구와 리소스로 조회할 수 있습니다.

도구: list_effects, get_effect, find_effect_by_path, rescan
리소스: vstscan://catalog, vstscan://metrics

사용 예시 (MCP 클라이언트 설정):
  {
    "mcpServers": {
      "vstscan": {
        "command": "vstscan",
        "args": ["mcp-serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

// runMCPServe는 카탈로그를 준비한 후 MCP 서버를 시작합니다.
// 로그는 stderr로 출력되며 stdout은 MCP stdio에서 사용합니다.
// 플러그인 출력이 stdout에 섞이지 않도록 프로브는 항상 자식 프로세스에서 실행합니다.
func runMCPServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("mcp-serve")

	a, err := newIsolatedApp()
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	if err := a.catalog.Initialize(ctx); err != nil {
		return fmt.Errorf("카탈로그 준비 실패: %w", err)
	}

	cooldownStr := viper.GetString("mcpserver.rescan_cooldown")
	cooldown, err := time.ParseDuration(cooldownStr)
	if err != nil {
		cooldown = mcpserver.DefaultRescanCooldown
		log.Warn().
			Str("configured", cooldownStr).
			Str("fallback", cooldown.String()).
			Msg("유효하지 않은 재스캔 간격 설정, 기본값 사용")
	}

	mcpserver.ServerVersion = appVersion
	srv := mcpserver.NewServer(a.catalog, log, cooldown)

	// 시그널 핸들링 (graceful shutdown)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("종료 시그널 수신, MCP 서버를 종료합니다")
		stop()
		os.Exit(0)
	}()

	log.Info().
		Int("effects", a.catalog.Len()).
		Str("cache", cachePath(a)).
		Msg("MCP 서버 준비 완료, stdio 대기 중...")

	if err := srv.Start(); err != nil {
		return fmt.Errorf("MCP 서버 실행 실패: %w", err)
	}

	return nil
}
