package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// TestMaskHome은 홈 디렉토리 치환을 테스트합니다.
func TestMaskHome(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		home     string
		expected string
	}{
		{
			name:     "유닉스 홈 경로",
			input:    `{"path":"/home/alice/.vst/reverb.so"}`,
			home:     "/home/alice",
			expected: `{"path":"~/.vst/reverb.so"}`,
		},
		{
			name:     "끝 슬래시가 있는 홈",
			input:    "/Users/bob/Library/Audio/Plug-Ins/VST/x.vst",
			home:     "/Users/bob/",
			expected: "~/Library/Audio/Plug-Ins/VST/x.vst",
		},
		{
			name:     "JSON 이스케이프된 윈도우 경로",
			input:    `{"path":"C:\\Users\\carol\\VST\\eq.dll"}`,
			home:     `C:\Users\carol`,
			expected: `{"path":"~\\VST\\eq.dll"}`,
		},
		{
			name:     "홈이 포함되지 않은 문자열",
			input:    "/usr/lib/vst/comp.so",
			home:     "/home/alice",
			expected: "/usr/lib/vst/comp.so",
		},
		{
			name:     "루트 홈은 치환하지 않음",
			input:    "/usr/lib/vst/comp.so",
			home:     "/",
			expected: "/usr/lib/vst/comp.so",
		},
		{
			name:     "빈 문자열",
			input:    "",
			home:     "/home/alice",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MaskHome(tt.input, tt.home)
			if result != tt.expected {
				t.Errorf("MaskHome() = %q, want %q", result, tt.expected)
			}
		})
	}
}

// TestHomeMaskWriter는 Writer가 원본 길이를 반환하는지 테스트합니다.
func TestHomeMaskWriter(t *testing.T) {
	var buf bytes.Buffer
	w := &homeMaskWriter{underlying: &buf, home: "/home/alice"}

	input := []byte("/home/alice/.vst/a.so\n")
	n, err := w.Write(input)
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if n != len(input) {
		t.Errorf("n = %d, want %d", n, len(input))
	}
	if buf.String() != "~/.vst/a.so\n" {
		t.Errorf("출력 = %q", buf.String())
	}
}

// TestParseLevel은 로그 레벨 파싱을 테스트합니다.
func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"unknown", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

// TestWithScanID는 scan_id 필드가 추가되는지 테스트합니다.
func TestWithScanID(t *testing.T) {
	var buf bytes.Buffer
	l := WithScanID(New("json", &buf), "scan-123")
	l.Info().Msg("hello")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("JSON 파싱 실패: %v", err)
	}
	if entry["scan_id"] != "scan-123" {
		t.Errorf("scan_id = %v", entry["scan_id"])
	}
	if entry["message"] != "hello" {
		t.Errorf("message = %v", entry["message"])
	}
}

// TestNew_TextFormat은 text 포맷이 JSON이 아닌 콘솔 출력을 만드는지 테스트합니다.
func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New("text", &buf)
	l.Info().Str("effect", "ReverbFX").Msg("VST 발견")

	out := buf.String()
	if strings.HasPrefix(out, "{") {
		t.Errorf("콘솔 포맷이 아닙니다: %q", out)
	}
	if !strings.Contains(out, "ReverbFX") {
		t.Errorf("필드가 출력되지 않았습니다: %q", out)
	}
}
