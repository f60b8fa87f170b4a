package cmd

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/insajin/vstscan/internal/isolate"
	"github.com/insajin/vstscan/internal/vst"
)

// probeCmd는 라이브러리 하나를 프로브해 JSON 보고서를 출력하는 명령어입니다.
// 격리 프로버가 자식 프로세스로 실행합니다.
var probeCmd = &cobra.Command{
	Use:    isolate.ProbeCommand + " <path>",
	Short:  "라이브러리 하나를 프로브하고 JSON 결과를 출력합니다",
	Hidden: true,
	Args:   cobra.ExactArgs(1),
	RunE:   runProbe,
}

var probeName string

func init() {
	rootCmd.AddCommand(probeCmd)

	probeCmd.Flags().StringVar(&probeName, "name", "", "표시 이름 (기본값: 확장자를 뺀 파일 이름)")
}

// runProbe는 프로세스 내 브리지로 프로브하고 보고서를 stdout에 한 줄로 기록합니다.
// 프로브 실패도 보고서로 전달하므로 종료 코드는 0입니다.
func runProbe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := args[0]
	name := probeName
	if name == "" {
		base := filepath.Base(path)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	ctx, stop := signalContext()
	defer stop()

	res := newBridge(cfg).Probe(ctx, vst.Candidate{DisplayName: name, FilePath: path})

	return isolate.WriteReport(cmd.OutOrStdout(), isolate.NewReport(res))
}
