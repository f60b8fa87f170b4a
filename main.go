// Package main은 vstscan CLI의 진입점입니다.
// 설치된 VST 2.x 플러그인을 검색하고 카탈로그로 제공합니다.
package main

import (
	"os"

	"github.com/insajin/vstscan/cmd"
)

// 빌드 시 ldflags로 주입되는 버전 정보
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// 버전 정보를 root 패키지에 설정
	cmd.SetVersionInfo(version, commit, buildDate)

	// CLI 실행
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
