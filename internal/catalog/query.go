package catalog

import (
	"strings"

	"github.com/insajin/vstscan/internal/vst"
)

// Query는 목록 조회 필터입니다. 빈 필드는 조건에서 제외됩니다.
type Query struct {
	// Vendor는 벤더 문자열과 대소문자 무시로 일치해야 합니다.
	Vendor string
	// Name은 이펙트 이름에 대소문자 무시로 포함되어야 합니다.
	Name string
	// ShellOnly가 true면 셸 서브 플러그인만 남깁니다.
	ShellOnly bool
}

// Matches는 설명자가 조건을 만족하는지 확인합니다.
func (q Query) Matches(d vst.EffectDescriptor) bool {
	if q.Vendor != "" && !strings.EqualFold(d.VendorString, q.Vendor) {
		return false
	}
	if q.Name != "" && !strings.Contains(strings.ToLower(d.EffectName), strings.ToLower(q.Name)) {
		return false
	}
	if q.ShellOnly && !d.Shell {
		return false
	}
	return true
}

// Filter는 조건에 맞는 항목을 순서를 유지한 채 반환합니다.
func Filter(list []vst.EffectDescriptor, q Query) []vst.EffectDescriptor {
	out := make([]vst.EffectDescriptor, 0, len(list))
	for _, d := range list {
		if q.Matches(d) {
			out = append(out, d)
		}
	}
	return out
}
