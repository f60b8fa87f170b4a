package vst

import (
	"bytes"
	"strings"
)

// NameBufferSize는 벤더/이펙트 이름 질의에 쓰는 고정 버퍼 크기입니다.
const NameBufferSize = 64

// nameBufferGuard는 64바이트 계약을 넘겨 쓰는 플러그인의 초과분을 받아냅니다.
const nameBufferGuard = 192

// NameBuffer는 문자열 질의용 고정 크기 버퍼입니다.
type NameBuffer [NameBufferSize + nameBufferGuard]byte

// Reset은 버퍼 전체를 0으로 채웁니다.
func (b *NameBuffer) Reset() {
	*b = NameBuffer{}
}

// Bytes는 디스패처에 넘길 슬라이스를 반환합니다.
func (b *NameBuffer) Bytes() []byte {
	return b[:]
}

// Empty는 첫 바이트가 NUL인지 확인합니다.
func (b *NameBuffer) Empty() bool {
	return b[0] == 0
}

// String은 첫 NUL까지를 UTF-8로 해석합니다. 잘못된 바이트열은 U+FFFD로 대체됩니다.
func (b *NameBuffer) String() string {
	raw := b[:NameBufferSize]
	if n := bytes.IndexByte(raw, 0); n >= 0 {
		raw = raw[:n]
	}
	return strings.ToValidUTF8(string(raw), "�")
}
