package cmd

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// scanCmd는 전체 재스캔을 실행하는 명령어입니다.
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "모든 검색 경로를 재스캔하고 카탈로그를 저장합니다",
	Long: `플랫폼 검색 경로와 scan.search_paths의 모든 후보를 순서대로 프로브해
카탈로그를 통째로 교체하고 캐시 파일에 저장합니다.

Ctrl+C로 중단하면 이전 카탈로그와 캐시는 그대로 유지됩니다.
scan.isolate가 true이면 각 플러그인을 별도 프로세스에서 프로브합니다.`,
	RunE: runScan,
}

var scanJSON bool

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "통계를 JSON으로 출력합니다")
}

// runScan은 재스캔 후 요약을 출력합니다.
func runScan(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	if err := a.catalog.Rescan(ctx); err != nil {
		return fmt.Errorf("재스캔 실패: %w", err)
	}

	snap := a.catalog.Metrics().Snapshot()
	out := cmd.OutOrStdout()

	if scanJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}

	fmt.Fprintf(out, "스캔 완료: 이펙트 %d개 (%.0fms)\n", a.catalog.Len(), snap.LastScanMs)
	fmt.Fprintf(out, "  후보:        %d\n", snap.CandidatesFound)
	fmt.Fprintf(out, "  프로브 성공: %d\n", snap.ProbesSucceeded)
	fmt.Fprintf(out, "  프로브 실패: %d\n", snap.ProbesFailed)
	if len(snap.FailuresByKind) > 0 {
		kinds := make([]string, 0, len(snap.FailuresByKind))
		for k := range snap.FailuresByKind {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			fmt.Fprintf(out, "    %-16s %d\n", k, snap.FailuresByKind[k])
		}
	}
	fmt.Fprintf(out, "  셸 이펙트:   %d\n", snap.ShellEffects)
	fmt.Fprintf(out, "  캐시:        %s\n", cachePath(a))
	if snap.CacheSaveFailures > 0 {
		fmt.Fprintln(out, "  (캐시 저장에 실패했습니다. 로그를 확인하세요)")
	}

	return nil
}
