package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/insajin/vstscan/internal/vst"
)

// showCmd는 이펙트 하나를 조회하는 명령어입니다.
var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "ID 또는 라이브러리 경로로 이펙트를 조회합니다",
	Long: `카탈로그에서 이펙트 하나를 찾아 출력합니다.

ID는 "<파일 경로>:<플러그인 ID>" 형식입니다.
--path를 사용하면 해당 파일에서 로드된 첫 이펙트를 찾습니다.

예시:
  vstscan show /usr/lib/vst/reverb.so:0
  vstscan show --path /usr/lib/vst/reverb.so`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

var (
	showPath   string
	showFormat string
)

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().StringVar(&showPath, "path", "", "라이브러리 파일 경로로 조회합니다")
	showCmd.Flags().StringVarP(&showFormat, "format", "f", "text", "출력 포맷 (text, json, yaml)")
}

// runShow는 ID 또는 경로로 조회한 이펙트를 출력합니다.
func runShow(cmd *cobra.Command, args []string) error {
	if (len(args) == 1) == (showPath != "") {
		return errors.New("ID 또는 --path 중 하나만 지정하세요")
	}

	a, err := newApp()
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	if err := a.catalog.Initialize(ctx); err != nil {
		return fmt.Errorf("카탈로그 준비 실패: %w", err)
	}

	var (
		d     vst.EffectDescriptor
		found bool
		key   string
	)
	if showPath != "" {
		key = showPath
		d, found = a.catalog.LookupByPath(showPath)
	} else {
		key = args[0]
		d, found = a.catalog.LookupByID(args[0])
	}
	if !found {
		return fmt.Errorf("이펙트를 찾을 수 없습니다: %s", key)
	}

	out := cmd.OutOrStdout()
	if showFormat == "json" || showFormat == "yaml" {
		return writeEffects(out, []vst.EffectDescriptor{d}, showFormat)
	}
	return writeEffectDetail(out, d)
}

// writeEffectDetail은 이펙트의 모든 필드를 키-값 형식으로 기록합니다.
func writeEffectDetail(w io.Writer, d vst.EffectDescriptor) error {
	shell := "no"
	if d.Shell {
		shell = fmt.Sprintf("yes (plugin id %d)", d.PluginID)
	}

	_, err := fmt.Fprintf(w,
		"ID:       %s\nEffect:   %s\nVendor:   %s\nFile:     %s\nPath:     %s\nShell:    %s\n",
		d.ID, d.EffectName, d.VendorString, d.FileName, d.FilePath, shell)
	return err
}
