//go:build windows

package isolate

import (
	"os"
	"syscall"
)

// setSysProcAttr는 Windows에서 프로세스 속성을 반환합니다.
// Windows에서는 프로세스 그룹 설정이 불필요합니다.
func setSysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{}
}

// sendTermSignal은 Windows에서 프로세스를 종료합니다.
// Windows에는 SIGTERM이 없으므로 Kill을 사용합니다.
func sendTermSignal(process *os.Process) error {
	return process.Kill()
}
