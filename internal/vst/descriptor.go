package vst

import (
	"strconv"
)

// Candidate는 디렉토리 탐색이 찾아낸 후보 라이브러리입니다. 저장되지 않습니다.
type Candidate struct {
	DisplayName string `json:"displayName"`
	FilePath    string `json:"filePath"`
}

// EffectDescriptor는 카탈로그의 한 항목입니다.
// 셸 플러그인이면 같은 FilePath와 VendorString을 가진 항목이 여러 개 생기고
// PluginID와 EffectName으로 구분됩니다.
type EffectDescriptor struct {
	ID           string `json:"id" yaml:"id"`
	FileName     string `json:"fileName" yaml:"file_name"`
	FilePath     string `json:"filePath" yaml:"file_path"`
	EffectName   string `json:"effectName" yaml:"effect_name"`
	VendorString string `json:"vendorString" yaml:"vendor_string"`
	Shell        bool   `json:"shell" yaml:"shell"`
	PluginID     int32  `json:"pluginId" yaml:"plugin_id"`
}

// MakeID는 "경로:서브플러그인ID" 형태의 카탈로그 기본 키를 만듭니다.
func MakeID(filePath string, pluginID int32) string {
	return filePath + ":" + strconv.FormatInt(int64(pluginID), 10)
}

// Label은 선택 목록에 표시할 "이름 (벤더)" 문자열을 반환합니다.
func (d EffectDescriptor) Label() string {
	if d.VendorString == "" {
		return d.EffectName
	}
	return d.EffectName + " (" + d.VendorString + ")"
}
