package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/insajin/vstscan/internal/catalog"
	"github.com/insajin/vstscan/internal/tui"
	"github.com/insajin/vstscan/internal/vst"
)

// listCmd는 카탈로그를 출력하는 명령어입니다.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "카탈로그의 이펙트 목록을 출력합니다",
	Long: `캐시된 카탈로그를 불러와 이펙트 이름 순으로 출력합니다.
캐시가 없거나 손상되었으면 먼저 전체 재스캔을 실행합니다.

예시:
  vstscan list
  vstscan list --vendor Waves --shell
  vstscan list --name reverb --format json`,
	RunE: runList,
}

var (
	listFormat string
	listVendor string
	listName   string
	listShell  bool
	listRescan bool
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listFormat, "format", "f", "table", "출력 포맷 (table, json, yaml)")
	listCmd.Flags().StringVar(&listVendor, "vendor", "", "벤더 문자열 일치 (대소문자 무시)")
	listCmd.Flags().StringVar(&listName, "name", "", "이펙트 이름 부분 일치 (대소문자 무시)")
	listCmd.Flags().BoolVar(&listShell, "shell", false, "셸 서브 플러그인만 출력합니다")
	listCmd.Flags().BoolVar(&listRescan, "rescan", false, "캐시를 무시하고 재스캔합니다")
}

// runList는 필터를 적용한 목록을 출력합니다.
func runList(cmd *cobra.Command, args []string) error {
	if !isValidFormat(listFormat) {
		return fmt.Errorf("유효하지 않은 출력 포맷: %s (table, json, yaml 중 하나)", listFormat)
	}

	a, err := newApp()
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	if listRescan {
		err = a.catalog.Rescan(ctx)
	} else {
		err = a.catalog.Initialize(ctx)
	}
	if err != nil {
		return fmt.Errorf("카탈로그 준비 실패: %w", err)
	}

	list := catalog.Filter(a.catalog.All(), catalog.Query{
		Vendor:    listVendor,
		Name:      listName,
		ShellOnly: listShell,
	})

	return writeEffects(cmd.OutOrStdout(), list, listFormat)
}

// isValidFormat은 지원하는 출력 포맷인지 확인합니다.
func isValidFormat(format string) bool {
	validFormats := map[string]bool{
		"table": true,
		"json":  true,
		"yaml":  true,
	}
	return validFormats[format]
}

// writeEffects는 목록을 지정한 포맷으로 기록합니다.
func writeEffects(w io.Writer, list []vst.EffectDescriptor, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(list)

	case "yaml":
		data, err := yaml.Marshal(list)
		if err != nil {
			return fmt.Errorf("YAML 직렬화 실패: %w", err)
		}
		_, err = w.Write(data)
		return err

	default:
		if len(list) == 0 {
			_, err := fmt.Fprintln(w, "이펙트가 없습니다")
			return err
		}
		_, err := fmt.Fprintf(w, "%s\n%d개 이펙트\n", tui.RenderTable(list), len(list))
		return err
	}
}
