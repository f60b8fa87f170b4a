//go:build (darwin || freebsd || linux) && !android && (amd64 || arm64)

package loader

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/insajin/vstscan/internal/vst"
)

// fixtureSource는 테스트용 VST 라이브러리입니다.
// 엔트리 포인트가 호출될 때 호스트 콜백의 응답을 기록하고,
// 100번대 opcode로 그 값을 돌려줍니다.
const fixtureSource = `
#include <stdint.h>

typedef intptr_t (*host_cb)(void *, int32_t, int32_t, intptr_t, void *, float);
typedef intptr_t (*dispatch_fn)(void *, int32_t, int32_t, intptr_t, void *, float);

struct effect {
	int32_t magic;
	dispatch_fn dispatcher;
};

static struct effect fx;
static intptr_t host_version, host_shell, host_other, host_null;

static void put(void *dst, const char *s) {
	char *d = (char *)dst;
	while ((*d++ = *s++) != 0) {
	}
}

static intptr_t dispatch(void *e, int32_t op, int32_t idx, intptr_t val, void *ptr, float opt) {
	switch (op) {
	case 47: put(ptr, "Acme"); return 1;
	case 45: put(ptr, "ReverbFX"); return 1;
	case 100: return host_version;
	case 101: return host_shell;
	case 102: return host_other;
	case 103: return host_null;
	case 104: return (intptr_t)(opt * 1000.0f);
	case 105: return val + idx;
	}
	return 0;
}

static struct effect *create(host_cb host, int32_t magic) {
	host_version = host(0, 1, 0, 0, 0, 0.0f);
	host_shell = host(0, 37, 0, 0, (void *)"shellCategory", 0.0f);
	host_other = host(0, 37, 0, 0, (void *)"sendVstEvents", 0.0f);
	host_null = host(0, 37, 0, 0, 0, 0.0f);
	fx.magic = magic;
	fx.dispatcher = dispatch;
	return &fx;
}

#ifdef WITH_PLUGIN_MAIN
struct effect *VSTPluginMain(host_cb host) { return create(host, 0x56737450); }
#endif

#ifdef WITH_LEGACY_MAIN
struct effect *main(host_cb host) { return create(host, 0x4c656761); }
#endif

#ifdef WITH_NULL_MAIN
struct effect *VSTPluginMain(host_cb host) { return 0; }
#endif

int fixture_marker(void) { return 7; }
`

// legacyMagic은 main 엔트리 포인트가 기록하는 magic 값입니다.
const legacyMagic int32 = 0x4c656761

// buildFixture는 C 컴파일러로 fixtureSource를 공유 라이브러리로 빌드합니다.
// 컴파일러가 없으면 테스트를 건너뜁니다.
func buildFixture(t *testing.T, name string, defines ...string) string {
	t.Helper()

	cc, err := exec.LookPath("cc")
	if err != nil {
		t.Skip("C 컴파일러(cc)가 없어 건너뜁니다")
	}

	dir := t.TempDir()
	src := filepath.Join(dir, "fixture.c")
	if err := os.WriteFile(src, []byte(fixtureSource), 0644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, name)
	args := []string{"-shared", "-fPIC", "-ffreestanding", "-w", "-o", out}
	for _, d := range defines {
		args = append(args, "-D"+d)
	}
	args = append(args, src)

	if output, err := exec.Command(cc, args...).CombinedOutput(); err != nil {
		t.Fatalf("픽스처 빌드 실패: %v\n%s", err, output)
	}
	return out
}

// openFixture는 픽스처를 열고 테스트 종료 시 닫습니다.
func openFixture(t *testing.T, path string) Library {
	t.Helper()

	lib, err := New(WithLogger(zerolog.Nop())).Open(path)
	if err != nil {
		t.Fatalf("Open(%s) 에러: %v", path, err)
	}
	t.Cleanup(func() {
		if err := lib.Close(); err != nil {
			t.Errorf("Close 에러: %v", err)
		}
	})
	return lib
}

// TestNative_EntryPointPriority는 VSTPluginMain이 main보다 먼저 선택되는지 테스트합니다.
func TestNative_EntryPointPriority(t *testing.T) {
	tests := []struct {
		name      string
		defines   []string
		wantMagic int32
	}{
		{"VSTPluginMain과 main 모두 있음", []string{"WITH_PLUGIN_MAIN", "WITH_LEGACY_MAIN"}, vst.Magic},
		{"main만 있음", []string{"WITH_LEGACY_MAIN"}, legacyMagic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib := openFixture(t, buildFixture(t, "plugin.so", tt.defines...))

			entry, err := lib.EntryPoint()
			if err != nil {
				t.Fatalf("EntryPoint() 에러: %v", err)
			}

			effect := entry()
			if effect == nil {
				t.Fatal("이펙트 인스턴스가 nil입니다")
			}
			if got := effect.Magic(); got != tt.wantMagic {
				t.Errorf("Magic() = %#x, want %#x", got, tt.wantMagic)
			}
		})
	}
}

// TestNative_HostCallbackAndDispatcher는 호스트 콜백 응답과 디스패처 인자 전달을 테스트합니다.
func TestNative_HostCallbackAndDispatcher(t *testing.T) {
	lib := openFixture(t, buildFixture(t, "reverb.so", "WITH_PLUGIN_MAIN"))

	entry, err := lib.EntryPoint()
	if err != nil {
		t.Fatalf("EntryPoint() 에러: %v", err)
	}
	effect := entry()
	if effect == nil {
		t.Fatal("이펙트 인스턴스가 nil입니다")
	}

	// 엔트리 포인트 호출 중 플러그인이 받은 호스트 응답
	hostAnswers := []struct {
		name   string
		opcode int32
		want   int
	}{
		{"audioMasterVersion", 100, vst.HostVersion},
		{"canDo shellCategory", 101, 1},
		{"canDo 기타 기능", 102, 0},
		{"canDo null 포인터", 103, 0},
	}
	for _, tt := range hostAnswers {
		if got := effect.Dispatch(tt.opcode, 0, 0, nil, 0); got != tt.want {
			t.Errorf("%s: got %d, want %d", tt.name, got, tt.want)
		}
	}

	var buf vst.NameBuffer
	effect.Dispatch(vst.EffGetVendorString, 0, 0, buf.Bytes(), 0)
	if got := buf.String(); got != "Acme" {
		t.Errorf("벤더 got %q, want %q", got, "Acme")
	}

	buf.Reset()
	effect.Dispatch(vst.EffGetEffectName, 0, 0, buf.Bytes(), 0)
	if got := buf.String(); got != "ReverbFX" {
		t.Errorf("이펙트 이름 got %q, want %q", got, "ReverbFX")
	}

	if got := effect.Dispatch(104, 0, 0, nil, 0.5); got != 500 {
		t.Errorf("float32 인자 got %d, want 500", got)
	}
	if got := effect.Dispatch(105, 3, 40, nil, 0); got != 43 {
		t.Errorf("index/value 인자 got %d, want 43", got)
	}
}

// TestNative_NullInstance는 엔트리 포인트가 null을 반환하면 nil 이펙트가 되는지 테스트합니다.
func TestNative_NullInstance(t *testing.T) {
	lib := openFixture(t, buildFixture(t, "null.so", "WITH_NULL_MAIN"))

	entry, err := lib.EntryPoint()
	if err != nil {
		t.Fatalf("EntryPoint() 에러: %v", err)
	}
	if effect := entry(); effect != nil {
		t.Errorf("nil 이펙트가 와야 합니다: %v", effect)
	}
}

// TestNative_NoEntryPoint는 엔트리 포인트가 없는 라이브러리를 테스트합니다.
func TestNative_NoEntryPoint(t *testing.T) {
	var paths []string
	if _, err := exec.LookPath("cc"); err == nil {
		paths = append(paths, buildFixture(t, "plain.so"))
	}

	// 시스템 수학 라이브러리도 VST 엔트리 포인트를 내보내지 않습니다
	for _, libm := range []string{
		"/lib/x86_64-linux-gnu/libm.so.6",
		"/lib/aarch64-linux-gnu/libm.so.6",
		"/usr/lib/x86_64-linux-gnu/libm.so.6",
		"/usr/lib/aarch64-linux-gnu/libm.so.6",
		"/lib64/libm.so.6",
		"/usr/lib64/libm.so.6",
	} {
		if _, err := os.Stat(libm); err == nil {
			paths = append(paths, libm)
			break
		}
	}
	if len(paths) == 0 {
		t.Skip("C 컴파일러와 libm이 모두 없어 건너뜁니다")
	}

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			lib := openFixture(t, path)

			if _, err := lib.EntryPoint(); !errors.Is(err, ErrNoEntryPoint) {
				t.Errorf("EntryPoint() got %v, want ErrNoEntryPoint", err)
			}
		})
	}
}
