package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// candidatesCmd는 검색 경로와 후보 라이브러리를 출력하는 명령어입니다.
var candidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "검색 경로와 발견된 후보 라이브러리를 출력합니다",
	Long: `플러그인을 로드하지 않고 디렉토리 검색 결과만 출력합니다.
검색 경로가 올바른지 확인할 때 사용합니다.`,
	RunE: runCandidates,
}

func init() {
	rootCmd.AddCommand(candidatesCmd)
}

// runCandidates는 검색 경로와 후보 목록을 출력합니다.
func runCandidates(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "# 검색 경로")
	for _, root := range a.resolver.Roots() {
		fmt.Fprintf(out, "  %s\n", root)
	}

	candidates := a.resolver.Candidates()
	fmt.Fprintf(out, "\n# 후보 %d개\n", len(candidates))
	for _, c := range candidates {
		fmt.Fprintf(out, "  %-32s %s\n", c.DisplayName, c.FilePath)
	}

	return nil
}
