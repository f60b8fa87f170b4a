// Package mcpserver는 VST 카탈로그 조회 API를 MCP stdio 서버로 노출합니다.
package mcpserver

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/insajin/vstscan/internal/metrics"
	"github.com/insajin/vstscan/internal/vst"
)

const (
	// ServerName은 MCP 서버 이름입니다.
	ServerName = "vstscan"

	// DefaultRescanCooldown은 force 없이 재스캔을 다시 실행하기까지의 최소 간격입니다.
	DefaultRescanCooldown = 30 * time.Second
)

// ServerVersion은 MCP 서버 버전입니다. 빌드 시 cmd에서 설정됩니다.
var ServerVersion = "dev"

// Catalog는 서버가 사용하는 카탈로그 API입니다.
type Catalog interface {
	All() []vst.EffectDescriptor
	LookupByID(id string) (vst.EffectDescriptor, bool)
	LookupByPath(path string) (vst.EffectDescriptor, bool)
	Rescan(ctx context.Context) error
	Len() int
	Metrics() *metrics.Metrics
}

// Server는 vstscan MCP 서버입니다.
// mark3labs/mcp-go를 사용하여 stdio 기반 MCP 프로토콜을 처리합니다.
type Server struct {
	mcpServer *server.MCPServer
	catalog   Catalog
	cache     *Cache[RescanSummary]
	logger    zerolog.Logger
}

// NewServer는 새 MCP 서버를 생성합니다.
// rescanCooldown이 0 이하이면 DefaultRescanCooldown을 사용합니다.
func NewServer(catalog Catalog, logger zerolog.Logger, rescanCooldown time.Duration) *Server {
	if rescanCooldown <= 0 {
		rescanCooldown = DefaultRescanCooldown
	}

	s := &Server{
		catalog: catalog,
		cache:   NewCache[RescanSummary](rescanCooldown),
		logger:  logger.With().Str("component", "mcpserver").Logger(),
	}

	s.mcpServer = server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
	)

	s.registerTools()
	s.registerResources()

	s.logger.Info().
		Str("name", ServerName).
		Str("version", ServerVersion).
		Int("effects", catalog.Len()).
		Msg("MCP 서버 초기화 완료")

	return s
}

// Start는 stdio 기반 MCP 서버를 시작합니다.
// 이 함수는 서버가 종료될 때까지 블로킹됩니다.
func (s *Server) Start() error {
	s.logger.Info().Msg("MCP 서버 시작 (stdio 트랜스포트)")
	return server.ServeStdio(s.mcpServer)
}

// registerTools는 모든 MCP 도구를 등록합니다.
func (s *Server) registerTools() {
	listEffectsTool := mcp.NewTool("list_effects",
		mcp.WithDescription("List VST effects in the catalog, sorted by effect name. Filters are optional and combined."),
		mcp.WithString("vendor",
			mcp.Description("Exact vendor string (case-insensitive)"),
		),
		mcp.WithString("name",
			mcp.Description("Substring of the effect name (case-insensitive)"),
		),
		mcp.WithBoolean("shell_only",
			mcp.Description("Only return sub-plugins of shell plugins"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results to return (default: 100, max: 1000)"),
		),
	)
	s.mcpServer.AddTool(listEffectsTool, s.handleListEffects)

	getEffectTool := mcp.NewTool("get_effect",
		mcp.WithDescription("Get one VST effect by its catalog id (\"<file path>:<plugin id>\")."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Catalog id of the effect"),
		),
	)
	s.mcpServer.AddTool(getEffectTool, s.handleGetEffect)

	findByPathTool := mcp.NewTool("find_effect_by_path",
		mcp.WithDescription("Find the first VST effect loaded from the given library file path."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Absolute path of the plugin library"),
		),
	)
	s.mcpServer.AddTool(findByPathTool, s.handleFindEffectByPath)

	rescanTool := mcp.NewTool("rescan",
		mcp.WithDescription("Rescan all VST search directories and replace the catalog. Recent results are reused unless force is set."),
		mcp.WithBoolean("force",
			mcp.Description("Rescan even if a rescan finished recently"),
		),
	)
	s.mcpServer.AddTool(rescanTool, s.handleRescan)

	s.logger.Debug().Msg("MCP 도구 4개 등록 완료")
}

// registerResources는 모든 MCP 리소스를 등록합니다.
func (s *Server) registerResources() {
	catalogResource := mcp.NewResource(
		uriCatalog,
		"VST Catalog",
		mcp.WithResourceDescription("All VST effects currently in the catalog"),
		mcp.WithMIMEType("application/json"),
	)
	s.mcpServer.AddResource(catalogResource, s.handleCatalogResource)

	metricsResource := mcp.NewResource(
		uriMetrics,
		"Scan Metrics",
		mcp.WithResourceDescription("Scan and probe statistics since the server started"),
		mcp.WithMIMEType("application/json"),
	)
	s.mcpServer.AddResource(metricsResource, s.handleMetricsResource)

	s.logger.Debug().Msg("MCP 리소스 2개 등록 완료")
}
