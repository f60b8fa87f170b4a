// Package vst는 레거시 VST 2.x C 구조체 ABI의 상수와 호스트 측 타입을 정의합니다.
// 네이티브 코드에 의존하지 않으므로 모든 플랫폼에서 빌드되고 테스트됩니다.
package vst

// Magic은 AEffect.magic 필드에 있어야 하는 'VstP' 태그입니다.
const Magic int32 = 0x56737450

// HostVersion은 audioMasterVersion 질의에 응답하는 프로토콜 버전입니다.
const HostVersion = 2400

// 플러그인이 호스트 콜백으로 보내는 opcode (audioMaster*)
const (
	AudioMasterVersion   int32 = 1
	AudioMasterCurrentID int32 = 2
	AudioMasterCanDo     int32 = 37
)

// 호스트가 디스패처로 보내는 opcode (eff*)
const (
	EffClose              int32 = 1
	EffMainsChanged       int32 = 12
	EffGetPlugCategory    int32 = 35
	EffGetEffectName      int32 = 45
	EffGetVendorString    int32 = 47
	EffShellGetNextPlugin int32 = 70
)

// Category는 effGetPlugCategory가 반환하는 플러그인 분류입니다.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryEffect
	CategorySynth
	CategoryAnalysis
	CategoryMastering
	CategorySpacializer
	CategoryRoomFx
	CategorySurroundFx
	CategoryRestoration
	CategoryOfflineProcess
	CategoryShell
	CategoryGenerator
)

var categoryNames = [...]string{
	"unknown", "effect", "synth", "analysis", "mastering", "spacializer",
	"roomfx", "surroundfx", "restoration", "offline", "shell", "generator",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "unknown"
	}
	return categoryNames[c]
}

// Effect는 엔트리 포인트가 반환한 AEffect 인스턴스입니다.
// 구현체는 네이티브 구조체(loader 패키지)나 테스트용 가짜일 수 있습니다.
type Effect interface {
	// Magic은 인스턴스의 magic 필드 값을 반환합니다.
	Magic() int32
	// Dispatch는 디스패처를 호출합니다. buf가 비어 있으면 null 포인터가 전달됩니다.
	Dispatch(opcode, index int32, value int, buf []byte, opt float32) int
}
