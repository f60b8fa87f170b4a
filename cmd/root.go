// Package cmd는 vstscan CLI의 명령어를 정의합니다.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/insajin/vstscan/internal/config"
	"github.com/insajin/vstscan/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// 전역 플래그
	cfgFile string
	verbose bool

	// 버전 정보 (main에서 주입)
	appVersion   string
	appCommit    string
	appBuildDate string
)

// rootCmd는 CLI의 루트 명령어입니다.
var rootCmd = &cobra.Command{
	Use:   "vstscan",
	Short: "VST 2.x 플러그인 스캐너",
	Long: `vstscan은 플랫폼별 VST 검색 경로에서 VST 2.x 플러그인을 찾아
각 라이브러리를 로드해 이펙트 이름, 벤더, 셸 서브 플러그인 정보를 수집하고
정렬된 카탈로그로 캐시합니다.

카탈로그는 ~/.config/vstscan/addonlist.json에 저장됩니다.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 로거 초기화
		return initLogger()
	},
}

// Execute는 루트 명령어를 실행합니다.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo는 버전 정보를 설정합니다.
func SetVersionInfo(version, commit, buildDate string) {
	appVersion = version
	appCommit = commit
	appBuildDate = buildDate
}

// GetVersionInfo는 버전 정보를 반환합니다.
func GetVersionInfo() (version, commit, buildDate string) {
	return appVersion, appCommit, appBuildDate
}

func init() {
	cobra.OnInitialize(initConfig)

	// 전역 플래그 정의
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"설정 파일 경로 (기본값: ~/.config/vstscan/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"상세 로그 출력 (debug 레벨)")
}

// initConfig는 설정 파일을 초기화합니다.
// 설정 우선순위: 환경변수 > 설정파일 > 기본값
func initConfig() {
	if cfgFile != "" {
		// 명시적 설정 파일 사용
		viper.SetConfigFile(cfgFile)
	} else {
		// 기본 설정 경로: ~/.config/vstscan/config.yaml
		configDir := config.Dir()
		if configDir == "" {
			fmt.Fprintln(os.Stderr, "홈 디렉토리를 찾을 수 없습니다")
			os.Exit(1)
		}

		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// 환경변수 자동 바인딩 (VSTSCAN_ 접두사, scan.isolate -> VSTSCAN_SCAN_ISOLATE)
	viper.SetEnvPrefix("VSTSCAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 기본값 설정
	setDefaults()

	// 설정 파일 읽기 (없어도 오류 아님)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// 설정 파일이 있지만 읽기 실패한 경우만 오류
			fmt.Fprintf(os.Stderr, "설정 파일 읽기 실패: %v\n", err)
		}
	}
}

// setDefaults는 기본 설정값을 정의합니다.
func setDefaults() {
	// 스캔 설정
	viper.SetDefault("scan.search_paths", []string{})
	viper.SetDefault("scan.isolate", false)
	viper.SetDefault("scan.probe_timeout", config.DefaultProbeTimeout.String())
	viper.SetDefault("scan.max_shell_plugins", config.DefaultMaxShellPlugins)

	// 캐시 설정
	viper.SetDefault("cache.dir", config.DefaultCacheDir())

	// 로깅 설정
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
	viper.SetDefault("logging.file", "")
	viper.SetDefault("logging.mask_home", false)

	// MCP 서버 설정
	viper.SetDefault("mcpserver.rescan_cooldown", "30s")
}

// initLogger는 로거를 초기화합니다.
func initLogger() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("설정 로드 실패: %w", err)
	}

	// verbose 플래그가 설정되면 debug 레벨로 오버라이드
	if verbose {
		cfg.Logging.Level = "debug"
	}

	logger.Setup(cfg.Logging)
	return nil
}
