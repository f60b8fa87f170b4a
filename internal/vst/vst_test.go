package vst

import (
	"testing"
	"unsafe"
)

// cstr는 테스트용 NUL 종료 바이트열을 만듭니다.
func cstr(s string) unsafe.Pointer {
	b := append([]byte(s), 0)
	return unsafe.Pointer(&b[0])
}

// TestHostDispatch는 호스트 콜백의 opcode별 응답을 테스트합니다.
func TestHostDispatch(t *testing.T) {
	tests := []struct {
		name   string
		opcode int32
		ptr    unsafe.Pointer
		want   int
	}{
		{"버전 질의", AudioMasterVersion, nil, 2400},
		{"현재 ID 질의", AudioMasterCurrentID, nil, 0},
		{"shellCategory 지원", AudioMasterCanDo, cstr("shellCategory"), 1},
		{"다른 기능은 미지원", AudioMasterCanDo, cstr("sendVstEvents"), 0},
		{"대소문자 구분", AudioMasterCanDo, cstr("ShellCategory"), 0},
		{"canDo null 포인터", AudioMasterCanDo, nil, 0},
		{"알 수 없는 opcode", 99, cstr("shellCategory"), 0},
		{"음수 opcode", -1, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HostDispatch(tt.opcode, tt.ptr); got != tt.want {
				t.Errorf("HostDispatch(%d) = %d, want %d", tt.opcode, got, tt.want)
			}
		})
	}
}

// TestCString은 길이 상한이 있는 C 문자열 읽기를 테스트합니다.
func TestCString(t *testing.T) {
	if got := CString(nil, 10); got != "" {
		t.Errorf("nil 포인터 결과가 비어 있지 않습니다: %q", got)
	}
	if got := CString(cstr("shellCategory"), 256); got != "shellCategory" {
		t.Errorf("got %q, want shellCategory", got)
	}

	// 종료 NUL이 없어도 상한에서 멈춰야 합니다
	raw := []byte("abcdefgh")
	if got := CString(unsafe.Pointer(&raw[0]), 4); got != "abcd" {
		t.Errorf("상한 적용 결과 got %q, want abcd", got)
	}
}

// TestNameBuffer는 이름 버퍼의 초기화와 문자열 해석을 테스트합니다.
func TestNameBuffer(t *testing.T) {
	var buf NameBuffer
	if !buf.Empty() {
		t.Fatal("새 버퍼가 비어 있지 않습니다")
	}

	copy(buf.Bytes(), "Acme\x00garbage")
	if got := buf.String(); got != "Acme" {
		t.Errorf("String() = %q, want Acme", got)
	}

	buf.Reset()
	if !buf.Empty() || buf.String() != "" {
		t.Error("Reset 후 버퍼가 비어 있지 않습니다")
	}
	for i, b := range buf.Bytes() {
		if b != 0 {
			t.Fatalf("Reset 후 %d번째 바이트가 0이 아닙니다", i)
		}
	}
}

// TestNameBuffer_Bounds는 64바이트를 넘겨 쓴 이름이 잘리는지 테스트합니다.
func TestNameBuffer_Bounds(t *testing.T) {
	var buf NameBuffer
	for i := range buf.Bytes() {
		buf[i] = 'x'
	}
	if got := len(buf.String()); got != NameBufferSize {
		t.Errorf("문자열 길이 got %d, want %d", got, NameBufferSize)
	}
}

// TestNameBuffer_InvalidUTF8은 잘못된 UTF-8 바이트가 대체되는지 테스트합니다.
func TestNameBuffer_InvalidUTF8(t *testing.T) {
	var buf NameBuffer
	copy(buf.Bytes(), []byte{'A', 0xff, 'B'})
	if got := buf.String(); got != "A�B" {
		t.Errorf("String() = %q, want %q", got, "A�B")
	}

	buf.Reset()
	copy(buf.Bytes(), "리버브")
	if got := buf.String(); got != "리버브" {
		t.Errorf("String() = %q, want 리버브", got)
	}
}

// TestMakeID는 카탈로그 키 생성을 테스트합니다.
func TestMakeID(t *testing.T) {
	tests := []struct {
		path string
		id   int32
		want string
	}{
		{"/plugins/reverb.so", 0, "/plugins/reverb.so:0"},
		{"/plugins/shell.so", 1397772896, "/plugins/shell.so:1397772896"},
		{"C:\\VST\\a.dll", -5, "C:\\VST\\a.dll:-5"},
	}

	for _, tt := range tests {
		if got := MakeID(tt.path, tt.id); got != tt.want {
			t.Errorf("MakeID(%q, %d) = %q, want %q", tt.path, tt.id, got, tt.want)
		}
	}
}

// TestEffectDescriptor_Label은 표시용 라벨을 테스트합니다.
func TestEffectDescriptor_Label(t *testing.T) {
	d := EffectDescriptor{EffectName: "ReverbFX", VendorString: "Acme"}
	if got := d.Label(); got != "ReverbFX (Acme)" {
		t.Errorf("Label() = %q", got)
	}
	d.VendorString = ""
	if got := d.Label(); got != "ReverbFX" {
		t.Errorf("벤더 없는 Label() = %q", got)
	}
}

// TestCategory_String은 카테고리 이름을 테스트합니다.
func TestCategory_String(t *testing.T) {
	if CategoryShell.String() != "shell" {
		t.Errorf("CategoryShell = %s", CategoryShell)
	}
	if Category(10) != CategoryShell {
		t.Error("kPlugCategShell 값은 10이어야 합니다")
	}
	if Category(42).String() != "unknown" {
		t.Errorf("범위 밖 카테고리 = %s", Category(42))
	}
}
