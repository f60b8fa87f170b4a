package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/insajin/vstscan/internal/catalog"
	"github.com/insajin/vstscan/internal/metrics"
	"github.com/insajin/vstscan/internal/vst"
)

const cacheKeyRescan = "tool:rescan"

// EffectList는 list_effects 응답입니다.
type EffectList struct {
	Total   int                    `json:"total"`
	Count   int                    `json:"count"`
	Effects []vst.EffectDescriptor `json:"effects"`
}

// RescanSummary는 rescan 응답입니다.
type RescanSummary struct {
	Effects    int                     `json:"effects"`
	ElapsedMs  int64                   `json:"elapsed_ms"`
	FinishedAt string                  `json:"finished_at"`
	Metrics    metrics.MetricsSnapshot `json:"metrics"`
	Cached     bool                    `json:"cached,omitempty"`
}

// jsonResult는 값을 JSON 텍스트 결과로 만듭니다.
func jsonResult(v interface{}) *mcp.CallToolResult {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError("Failed to serialize response")
	}
	return mcp.NewToolResultText(string(data))
}

// handleListEffects는 list_effects 도구 핸들러입니다.
func (s *Server) handleListEffects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q := catalog.Query{
		Vendor:    request.GetString("vendor", ""),
		Name:      request.GetString("name", ""),
		ShellOnly: request.GetBool("shell_only", false),
	}

	limit := request.GetInt("limit", 100)
	if limit <= 0 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}

	all := s.catalog.All()
	matched := catalog.Filter(all, q)
	if len(matched) > limit {
		matched = matched[:limit]
	}

	s.logger.Debug().
		Str("vendor", q.Vendor).
		Str("name", q.Name).
		Int("count", len(matched)).
		Msg("이펙트 목록 조회")

	return jsonResult(EffectList{Total: len(all), Count: len(matched), Effects: matched}), nil
}

// handleGetEffect는 get_effect 도구 핸들러입니다.
func (s *Server) handleGetEffect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil || id == "" {
		return mcp.NewToolResultError("required parameter 'id' is missing or invalid"), nil
	}

	d, ok := s.catalog.LookupByID(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("No effect with id %q", id)), nil
	}

	return jsonResult(d), nil
}

// handleFindEffectByPath는 find_effect_by_path 도구 핸들러입니다.
func (s *Server) handleFindEffectByPath(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil || path == "" {
		return mcp.NewToolResultError("required parameter 'path' is missing or invalid"), nil
	}

	d, ok := s.catalog.LookupByPath(path)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("No effect loaded from %q", path)), nil
	}

	return jsonResult(d), nil
}

// handleRescan은 rescan 도구 핸들러입니다.
// 최근 재스캔 결과가 캐시에 있으면 force 없이는 그대로 반환합니다.
func (s *Server) handleRescan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	force := request.GetBool("force", false)

	if !force {
		if summary, _, ok := s.cache.Get(cacheKeyRescan); ok {
			summary.Cached = true
			s.logger.Debug().Msg("최근 재스캔 결과를 반환합니다")
			return jsonResult(summary), nil
		}
	}

	s.logger.Info().Bool("force", force).Msg("재스캔 요청")

	start := time.Now()
	if err := s.catalog.Rescan(ctx); err != nil {
		s.logger.Error().Err(err).Msg("재스캔 실패")
		return mcp.NewToolResultError(fmt.Sprintf("Rescan failed: %s", err.Error())), nil
	}

	summary := RescanSummary{
		Effects:    s.catalog.Len(),
		ElapsedMs:  time.Since(start).Milliseconds(),
		FinishedAt: time.Now().Format(time.RFC3339),
		Metrics:    s.catalog.Metrics().Snapshot(),
	}
	s.cache.Set(cacheKeyRescan, summary)

	return jsonResult(summary), nil
}
