package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// 리소스 URI 상수
const (
	uriCatalog = "vstscan://catalog"
	uriMetrics = "vstscan://metrics"
)

// newTextResource는 텍스트 리소스 콘텐츠를 생성하는 헬퍼입니다.
func newTextResource(uri, text, mimeType string) mcp.TextResourceContents {
	return mcp.TextResourceContents{
		URI:      uri,
		MIMEType: mimeType,
		Text:     text,
	}
}

// handleCatalogResource는 vstscan://catalog 리소스 핸들러입니다.
// addonlist.json과 같은 {"vst": [...]} 구조를 반환합니다.
func (s *Server) handleCatalogResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(map[string]interface{}{"vst": s.catalog.All()}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("카탈로그 직렬화 실패: %w", err)
	}

	return []mcp.ResourceContents{
		newTextResource(request.Params.URI, string(data), "application/json"),
	}, nil
}

// handleMetricsResource는 vstscan://metrics 리소스 핸들러입니다.
func (s *Server) handleMetricsResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := s.catalog.Metrics().ToJSON()
	if err != nil {
		return nil, fmt.Errorf("통계 직렬화 실패: %w", err)
	}

	return []mcp.ResourceContents{
		newTextResource(request.Params.URI, string(data), "application/json"),
	}, nil
}
