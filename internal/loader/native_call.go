//go:build ((darwin || freebsd || linux) && !android || windows) && (amd64 || arm64)

package loader

import (
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/insajin/vstscan/internal/vst"
)

// aeffectHeader는 AEffect 구조체의 앞부분입니다. magic과 dispatcher만 읽습니다.
type aeffectHeader struct {
	magic      int32
	dispatcher uintptr
}

// dispatcherFunc는 AEffect.dispatcher의 Go 측 시그니처입니다.
type dispatcherFunc func(effect unsafe.Pointer, opcode, index int32, value int, ptr unsafe.Pointer, opt float32) int

var (
	hostCallbackOnce sync.Once
	hostCallbackPtr  uintptr
)

// hostCallback은 프로세스 전체에서 하나뿐인 audioMaster 트램펄린을 반환합니다.
// purego 콜백은 개수 제한이 있으므로 한 번만 만듭니다.
func hostCallback() uintptr {
	hostCallbackOnce.Do(func() {
		hostCallbackPtr = purego.NewCallback(func(_ purego.CDecl, effect unsafe.Pointer, opcode, index int32, value uintptr, ptr unsafe.Pointer) uintptr {
			return uintptr(vst.HostDispatch(opcode, ptr))
		})
	})
	return hostCallbackPtr
}

// newEntryPoint는 엔트리 포인트 심볼을 호출 가능한 Go 함수로 감쌉니다.
func newEntryPoint(sym uintptr) EntryPoint {
	var pluginMain func(host uintptr) unsafe.Pointer
	purego.RegisterFunc(&pluginMain, sym)

	return func() vst.Effect {
		p := pluginMain(hostCallback())
		if p == nil {
			return nil
		}
		return newNativeEffect(p)
	}
}

// nativeEffect는 네이티브 AEffect 포인터를 감싼 vst.Effect 구현입니다.
type nativeEffect struct {
	ptr      unsafe.Pointer
	dispatch dispatcherFunc
}

func newNativeEffect(p unsafe.Pointer) *nativeEffect {
	e := &nativeEffect{ptr: p}
	if fn := (*aeffectHeader)(p).dispatcher; fn != 0 {
		purego.RegisterFunc(&e.dispatch, fn)
	}
	return e
}

func (e *nativeEffect) Magic() int32 {
	return (*aeffectHeader)(e.ptr).magic
}

// Dispatch는 디스패처를 호출합니다. 디스패처가 null이면 0을 반환합니다.
func (e *nativeEffect) Dispatch(opcode, index int32, value int, buf []byte, opt float32) int {
	if e.dispatch == nil {
		return 0
	}
	var p unsafe.Pointer
	if len(buf) > 0 {
		p = unsafe.Pointer(&buf[0])
	}
	return e.dispatch(e.ptr, opcode, index, value, p, opt)
}
