package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/insajin/vstscan/internal/tui"
)

// browseCmd는 카탈로그 브라우저를 실행하는 명령어입니다.
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "카탈로그를 대화형으로 탐색하고 선택한 이펙트 ID를 출력합니다",
	Long: `터미널 UI로 카탈로그를 탐색합니다.

키 바인딩:
  enter     선택한 이펙트 ID를 출력하고 종료
  /         이름 또는 벤더로 필터
  s         셸 서브 플러그인만 보기
  r         새로 고침
  tab       패널 전환
  q, esc    종료`,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

// runBrowse는 카탈로그를 준비한 후 브라우저를 실행합니다.
func runBrowse(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	if err := a.catalog.Initialize(ctx); err != nil {
		return fmt.Errorf("카탈로그 준비 실패: %w", err)
	}

	p := tea.NewProgram(tui.NewModel(a.catalog), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("브라우저 실행 실패: %w", err)
	}

	if m, ok := final.(tui.Model); ok {
		if d, chosen := m.Chosen(); chosen {
			fmt.Fprintln(cmd.OutOrStdout(), d.ID)
		}
	}

	return nil
}
