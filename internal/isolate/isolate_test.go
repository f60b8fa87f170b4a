package isolate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/insajin/vstscan/internal/bridge"
	"github.com/insajin/vstscan/internal/loader"
	"github.com/insajin/vstscan/internal/vst"
)

const helperEnv = "VSTSCAN_ISOLATE_HELPER"

// TestHelperProcess는 자식 프로세스 역할을 합니다. 직접 실행되지 않습니다.
func TestHelperProcess(t *testing.T) {
	mode := os.Getenv(helperEnv)
	if mode == "" {
		return
	}

	args := os.Args
	for len(args) > 0 {
		if args[0] == "--" {
			args = args[1:]
			break
		}
		args = args[1:]
	}
	// args: probe <path> --name <name>
	if len(args) != 4 || args[0] != ProbeCommand || args[2] != "--name" {
		fmt.Fprintf(os.Stderr, "잘못된 인자: %v\n", args)
		os.Exit(2)
	}
	path, name := args[1], args[3]

	switch mode {
	case "ok":
		fmt.Fprintln(os.Stdout, "plugin banner on stdout")
		_ = json.NewEncoder(os.Stdout).Encode(Report{Effects: []vst.EffectDescriptor{{
			ID: vst.MakeID(path, 0), FileName: name, FilePath: path,
			EffectName: "ReverbFX", VendorString: "Acme",
		}}})
	case "fail":
		_ = json.NewEncoder(os.Stdout).Encode(Report{
			Effects: []vst.EffectDescriptor{},
			Kind:    bridge.KindNoEntryPoint,
			Error:   "no entry point",
		})
	case "crash":
		fmt.Fprintln(os.Stderr, "segmentation fault")
		os.Exit(139)
	case "crash-after-report":
		_ = json.NewEncoder(os.Stdout).Encode(Report{Effects: []vst.EffectDescriptor{{
			ID: vst.MakeID(path, 0), FilePath: path, EffectName: "Late",
		}}})
		os.Exit(134)
	case "unterminated":
		fmt.Fprint(os.Stdout, "plugin says hi")
		_ = WriteReport(os.Stdout, Report{Effects: []vst.EffectDescriptor{{
			ID: vst.MakeID(path, 7), FilePath: path, EffectName: "Chatty",
		}}})
	case "garbage":
		fmt.Fprintln(os.Stdout, "not a report")
	case "hang":
		time.Sleep(time.Minute)
	}
	os.Exit(0)
}

func newHelperProber(t *testing.T, mode string, opts ...Option) *Prober {
	t.Helper()
	t.Setenv(helperEnv, mode)
	opts = append([]Option{WithArgs("-test.run=TestHelperProcess", "--")}, opts...)
	return New(os.Args[0], opts...)
}

var candidate = vst.Candidate{DisplayName: "reverb", FilePath: "/plugins/reverb.so"}

// TestProber_Success는 자식 보고서가 결과로 복원되는지 테스트합니다.
func TestProber_Success(t *testing.T) {
	p := newHelperProber(t, "ok")

	res := p.Probe(context.Background(), candidate)
	if !res.OK() {
		t.Fatalf("프로브 실패: %v", res.Err)
	}
	if len(res.Effects) != 1 {
		t.Fatalf("effects got %d, want 1", len(res.Effects))
	}
	d := res.Effects[0]
	if d.ID != "/plugins/reverb.so:0" || d.FileName != "reverb" || d.EffectName != "ReverbFX" {
		t.Errorf("설명자 got %+v", d)
	}
	if res.Candidate != candidate {
		t.Errorf("Candidate got %+v", res.Candidate)
	}
}

// TestProber_UnterminatedPluginOutput은 줄바꿈 없는 플러그인 출력 뒤의 보고서를 읽는지 테스트합니다.
func TestProber_UnterminatedPluginOutput(t *testing.T) {
	p := newHelperProber(t, "unterminated")

	res := p.Probe(context.Background(), candidate)
	if !res.OK() {
		t.Fatalf("프로브 실패: %v", res.Err)
	}
	if len(res.Effects) != 1 || res.Effects[0].EffectName != "Chatty" {
		t.Errorf("effects got %+v", res.Effects)
	}
}

// TestProber_Failures는 자식 프로세스 실패 분류를 테스트합니다.
func TestProber_Failures(t *testing.T) {
	tests := []struct {
		name     string
		mode     string
		wantKind bridge.Kind
		wantErr  error
	}{
		{"보고된 실패", "fail", bridge.KindNoEntryPoint, loader.ErrNoEntryPoint},
		{"비정상 종료", "crash", bridge.KindCrash, ErrCrashed},
		{"잘못된 보고서", "garbage", bridge.KindCrash, ErrCrashed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newHelperProber(t, tt.mode)
			res := p.Probe(context.Background(), candidate)
			if res.OK() {
				t.Fatal("실패해야 합니다")
			}
			if res.Kind() != tt.wantKind {
				t.Errorf("Kind = %q, want %q", res.Kind(), tt.wantKind)
			}
			if !errors.Is(res.Err, tt.wantErr) {
				t.Errorf("err = %v, want %v", res.Err, tt.wantErr)
			}
			if len(res.Effects) != 0 {
				t.Errorf("실패한 결과에 이펙트가 있습니다: %v", res.Effects)
			}
		})
	}
}

// TestProber_CrashAfterReport는 보고서 기록 후 종료 단계에서 죽어도 보고서를 사용하는지 테스트합니다.
func TestProber_CrashAfterReport(t *testing.T) {
	p := newHelperProber(t, "crash-after-report")

	res := p.Probe(context.Background(), candidate)
	if !res.OK() || len(res.Effects) != 1 || res.Effects[0].EffectName != "Late" {
		t.Errorf("got %+v", res)
	}
}

// TestProber_Timeout은 멈춘 자식 프로세스가 제한 시간 후 종료되는지 테스트합니다.
func TestProber_Timeout(t *testing.T) {
	p := newHelperProber(t, "hang",
		WithTimeout(300*time.Millisecond),
		WithGracePeriod(200*time.Millisecond))

	start := time.Now()
	res := p.Probe(context.Background(), candidate)
	elapsed := time.Since(start)

	if res.Kind() != bridge.KindTimeout {
		t.Errorf("Kind = %q, want timeout", res.Kind())
	}
	if !errors.Is(res.Err, ErrTimeout) {
		t.Errorf("err = %v, want ErrTimeout", res.Err)
	}
	if elapsed > 10*time.Second {
		t.Errorf("종료가 너무 늦습니다: %v", elapsed)
	}
}

// TestProber_Canceled는 취소된 컨텍스트에서 프로세스를 띄우지 않는지 테스트합니다.
func TestProber_Canceled(t *testing.T) {
	p := New("/nonexistent/vstscan")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := p.Probe(ctx, candidate)
	if res.Kind() != bridge.KindCanceled {
		t.Errorf("Kind = %q, want canceled", res.Kind())
	}
}

// TestProber_MissingExecutable은 실행 파일이 없을 때 크래시로 분류하는지 테스트합니다.
func TestProber_MissingExecutable(t *testing.T) {
	p := New("/nonexistent/vstscan")

	res := p.Probe(context.Background(), candidate)
	if res.Kind() != bridge.KindCrash {
		t.Errorf("Kind = %q, want crash", res.Kind())
	}
}

// TestReport_RoundTrip은 실패 분류가 보고서를 거쳐도 유지되는지 테스트합니다.
func TestReport_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"로드 실패", &loader.LoadError{Path: "/p", Kind: loader.ErrLoad}, loader.ErrLoad},
		{"아키텍처 불일치", &loader.LoadError{Path: "/p", Kind: loader.ErrArchMismatch}, loader.ErrArchMismatch},
		{"null 인스턴스", &bridge.ProbeError{Kind: bridge.KindNullInstance, Path: "/p", Err: bridge.ErrNullInstance}, bridge.ErrNullInstance},
		{"magic 불일치", &bridge.ProbeError{Kind: bridge.KindABIMismatch, Path: "/p", Err: bridge.ErrABIMismatch}, bridge.ErrABIMismatch},
		{"패닉", &bridge.ProbeError{Kind: bridge.KindPanic, Path: "/p", Err: bridge.ErrPanic}, bridge.ErrPanic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := bridge.Result{Candidate: candidate, Err: tt.err}

			data, err := json.Marshal(NewReport(want))
			if err != nil {
				t.Fatal(err)
			}
			r, err := parseReport(data)
			if err != nil {
				t.Fatalf("parseReport() error: %v", err)
			}

			got := r.Result(candidate)
			if got.Kind() != want.Kind() {
				t.Errorf("Kind = %q, want %q", got.Kind(), want.Kind())
			}
			if !errors.Is(got.Err, tt.wantErr) {
				t.Errorf("err = %v, want %v", got.Err, tt.wantErr)
			}
		})
	}
}

// TestParseReport_Invalid는 보고서로 볼 수 없는 출력을 테스트합니다.
func TestParseReport_Invalid(t *testing.T) {
	for _, out := range []string{"", "\n\n", "{}", "banner\n{broken"} {
		if _, err := parseReport([]byte(out)); err == nil {
			t.Errorf("parseReport(%q) 에러가 없습니다", out)
		}
	}
}
