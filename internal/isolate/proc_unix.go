//go:build !windows

package isolate

import (
	"os"
	"syscall"
)

// setSysProcAttr는 프로세스 그룹을 설정합니다 (Unix).
// 플러그인이 띄운 자식 프로세스도 함께 종료되도록 Setpgid를 활성화합니다.
func setSysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

// sendTermSignal은 프로세스 그룹에 SIGTERM을 전송합니다 (Unix).
func sendTermSignal(process *os.Process) error {
	if err := syscall.Kill(-process.Pid, syscall.SIGTERM); err != nil {
		return process.Signal(syscall.SIGTERM)
	}
	return nil
}
