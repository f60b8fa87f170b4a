package vst

import (
	"unsafe"
)

// CapabilityShellCategory는 호스트가 지원한다고 답하는 유일한 canDo 문자열입니다.
const CapabilityShellCategory = "shellCategory"

// maxCanDoLength는 canDo 문자열을 읽을 때의 상한입니다.
const maxCanDoLength = 256

// HostDispatch는 플러그인이 호출하는 호스트 콜백의 응답을 계산합니다.
// ptr은 canDo 질의에서만 읽으며, 그 외 opcode에서는 건드리지 않습니다.
func HostDispatch(opcode int32, ptr unsafe.Pointer) int {
	switch opcode {
	case AudioMasterVersion:
		return HostVersion
	case AudioMasterCurrentID:
		return 0
	case AudioMasterCanDo:
		if ptr == nil {
			return 0
		}
		if CanDo(CString(ptr, maxCanDoLength)) {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// CanDo는 호스트가 해당 기능을 지원하는지 반환합니다.
func CanDo(what string) bool {
	return what == CapabilityShellCategory
}

// CString은 NUL로 끝나는 C 문자열을 최대 limit 바이트까지 읽습니다.
// 한 바이트씩 읽어 NUL 뒤의 메모리는 건드리지 않습니다.
func CString(p unsafe.Pointer, limit int) string {
	if p == nil || limit <= 0 {
		return ""
	}
	n := 0
	for n < limit && *(*byte)(unsafe.Add(p, n)) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(p), n))
}
