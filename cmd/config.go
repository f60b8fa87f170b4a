// Package cmd는 vstscan CLI의 명령어를 정의합니다.
// config.go는 설정 관리 명령을 구현합니다.
package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/insajin/vstscan/internal/config"
)

// configCmd는 설정 관리를 위한 상위 명령어입니다.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "설정을 관리합니다",
	Long: `설정 파일의 값을 조회하거나 수정합니다.

설정 파일 위치: ~/.config/vstscan/config.yaml

모든 키는 VSTSCAN_ 접두사 환경변수로도 지정할 수 있습니다.
  예: VSTSCAN_SCAN_ISOLATE=true, VSTSCAN_LOGGING_LEVEL=debug`,
}

// configSetCmd는 설정 값을 저장하는 명령어입니다.
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "설정 값을 저장합니다",
	Long: `설정 파일에 값을 저장합니다.

키는 점(.)으로 구분된 경로를 사용합니다.
예시:
  vstscan config set scan.isolate true
  vstscan config set scan.probe_timeout 45s
  vstscan config set scan.search_paths ~/vst,/opt/vst

지원하는 설정 키:
  scan.search_paths        - 추가 검색 경로 (쉼표로 구분)
  scan.isolate             - 자식 프로세스에서 프로브 (true, false)
  scan.probe_timeout       - 라이브러리당 프로브 제한 시간 (예: 30s)
  scan.max_shell_plugins   - 셸 플러그인당 최대 서브 플러그인 수 (0이면 무제한)
  cache.dir                - 카탈로그 캐시 디렉토리
  logging.level            - 로그 레벨 (debug, info, warn, error)
  logging.format           - 로그 포맷 (json, text)
  logging.file             - 로그 파일 경로 (비어있으면 stderr)
  logging.mask_home        - 로그의 홈 디렉토리 경로를 ~로 표시
  mcpserver.rescan_cooldown - MCP rescan 도구 재실행 간격 (예: 30s)`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

// configGetCmd는 설정 값을 조회하는 명령어입니다.
var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "설정 값을 조회합니다",
	Long: `설정 파일에서 특정 키의 값을 조회합니다.

예시:
  vstscan config get scan.search_paths
  vstscan config get logging.level`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

// configListCmd는 전체 설정을 출력하는 명령어입니다.
var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "전체 설정을 출력합니다",
	Long:  `기본값과 환경변수가 반영된 현재 설정을 YAML 포맷으로 출력합니다.`,
	RunE:  runConfigList,
}

// configPathCmd는 설정 파일 경로를 출력하는 명령어입니다.
var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "설정 파일 경로를 출력합니다",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), config.DefaultConfigPath())
		return nil
	},
}

// configInitCmd는 기본 설정 파일을 생성하는 명령어입니다.
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "기본 설정 파일을 생성합니다",
	Long: `기본 설정 파일을 ~/.config/vstscan/config.yaml에 생성합니다.

이미 파일이 존재하면 덮어쓰지 않습니다.
강제로 덮어쓰려면 --force 플래그를 사용하세요.`,
	RunE: runConfigInit,
}

var forceInit bool

// defaultConfigYAML은 config init이 생성하는 파일 내용입니다.
const defaultConfigYAML = `# vstscan 설정 파일
# 생성됨: vstscan config init

scan:
  search_paths: []          # 플랫폼 기본 경로에 추가로 검색할 디렉토리
  isolate: false            # true면 라이브러리마다 자식 프로세스에서 프로브
  probe_timeout: "30s"      # isolate 모드의 라이브러리당 제한 시간
  max_shell_plugins: 1024   # 셸 플러그인당 최대 서브 플러그인 수 (0이면 무제한)

cache:
  dir: "~/.config/vstscan"  # addonlist.json 저장 위치

logging:
  level: "info"    # debug, info, warn, error
  format: "text"   # json, text
  file: ""         # 비어있으면 stderr
  mask_home: false # 홈 디렉토리 경로를 ~로 표시

mcpserver:
  rescan_cooldown: "30s"
`

func init() {
	rootCmd.AddCommand(configCmd)

	// 하위 명령 등록
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)

	// init 명령 플래그
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "기존 파일을 덮어씁니다")
}

// runConfigSet은 설정 값을 저장합니다.
func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	// 유효한 키인지 확인
	if !isValidConfigKey(key) {
		return fmt.Errorf("알 수 없는 설정 키: %s", key)
	}

	parsedValue, err := parseConfigValue(key, value)
	if err != nil {
		return err
	}

	viper.Set(key, parsedValue)

	// 설정 디렉토리 확인/생성
	if err := config.EnsureConfigDir(); err != nil {
		return fmt.Errorf("설정 디렉토리 생성 실패: %w", err)
	}

	configPath := viper.ConfigFileUsed()
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}
	if err := viper.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("설정 파일 저장 실패: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s = %v\n", key, parsedValue)
	fmt.Fprintf(out, "설정이 저장되었습니다: %s\n", configPath)
	return nil
}

// runConfigGet은 설정 값을 조회합니다.
func runConfigGet(cmd *cobra.Command, args []string) error {
	key := args[0]

	value := viper.Get(key)
	if value == nil {
		return fmt.Errorf("설정 키를 찾을 수 없습니다: %s", key)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s = %v\n", key, value)
	return nil
}

// runConfigList는 전체 설정을 출력합니다.
func runConfigList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("설정 로드 실패: %w", err)
	}

	out := cmd.OutOrStdout()

	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		fmt.Fprintf(out, "# 설정 파일: %s\n", configFile)
	} else {
		fmt.Fprintf(out, "# 설정 파일: (기본값 사용 중)\n")
	}
	fmt.Fprintln(out)

	yamlData, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("YAML 직렬화 실패: %w", err)
	}
	fmt.Fprint(out, string(yamlData))

	fmt.Fprintf(out, "\n# mcpserver.rescan_cooldown: %s\n", viper.GetString("mcpserver.rescan_cooldown"))
	return nil
}

// runConfigInit은 기본 설정 파일을 생성합니다.
func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := config.DefaultConfigPath()

	// 기존 파일 확인
	if !forceInit {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("설정 파일이 이미 존재합니다: %s\n--force 플래그로 덮어쓸 수 있습니다", configPath)
		}
	}

	if err := config.EnsureConfigDir(); err != nil {
		return fmt.Errorf("설정 디렉토리 생성 실패: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(defaultConfigYAML), 0600); err != nil {
		return fmt.Errorf("설정 파일 생성 실패: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "설정 파일이 생성되었습니다: %s\n", configPath)
	return nil
}

// configKeyKinds는 설정 키별 값 형식입니다.
var configKeyKinds = map[string]string{
	"scan.search_paths":         "list",
	"scan.isolate":              "bool",
	"scan.probe_timeout":        "duration",
	"scan.max_shell_plugins":    "int",
	"cache.dir":                 "string",
	"logging.level":             "string",
	"logging.format":            "string",
	"logging.file":              "string",
	"logging.mask_home":         "bool",
	"mcpserver.rescan_cooldown": "duration",
}

// isValidConfigKey는 유효한 설정 키인지 확인합니다.
func isValidConfigKey(key string) bool {
	_, ok := configKeyKinds[key]
	return ok
}

// parseConfigValue는 키의 형식에 맞게 문자열 값을 변환합니다.
// 기간 값은 설정 파일에 "30s" 같은 문자열로 저장됩니다.
func parseConfigValue(key, value string) (interface{}, error) {
	switch configKeyKinds[key] {
	case "bool":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%s: 불리언 값이 필요합니다: %q", key, value)
		}
		return b, nil
	case "int":
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("%s: 정수 값이 필요합니다: %q", key, value)
		}
		return n, nil
	case "duration":
		d, err := time.ParseDuration(value)
		if err != nil {
			return nil, fmt.Errorf("%s: 기간 값이 필요합니다 (예: 30s): %q", key, value)
		}
		return d.String(), nil
	case "list":
		var items []string
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		if items == nil {
			items = []string{}
		}
		return items, nil
	default:
		return value, nil
	}
}
