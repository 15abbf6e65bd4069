package http

import (
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/webcache/internal/domain/registry"
	"github.com/GriffinCanCode/webcache/internal/domain/webcache"
	"github.com/GriffinCanCode/webcache/internal/shared/types"
)

// Handlers serves the admin API and the renderer bridge
type Handlers struct {
	cache     *webcache.Manager
	processes *registry.Manager
	logger    *zap.Logger
}

// NewHandlers creates a new handlers instance
func NewHandlers(cache *webcache.Manager, processes *registry.Manager, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		cache:     cache,
		processes: processes,
		logger:    logger.Named("http"),
	}
}

// RegisterAdmin mounts the cache administration routes
func (h *Handlers) RegisterAdmin(r gin.IRouter) {
	r.GET("/health", h.Health)
	r.GET("/cache", h.GetCache)
	r.PUT("/cache/limit", h.SetLimit)
	r.POST("/cache/clear", h.ClearAll)
	r.POST("/cache/revise", h.Revise)
}

// RegisterBridge mounts the renderer bridge routes
func (h *Handlers) RegisterBridge(r gin.IRouter) {
	r.POST("/processes/:pid", h.RegisterProcess)
	r.DELETE("/processes/:pid", h.UnregisterProcess)
	r.POST("/processes/:pid/activity", h.ObserveActivity)
	r.PUT("/processes/:pid/stats", h.ObserveStats)
	r.POST("/processes/:pid/clear", h.ClearProcess)
	r.GET("/processes/:pid/messages", h.DrainMessages)
}

// Health returns service health
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"processes": h.processes.Count(),
		"pids":      h.processes.List(),
		"pending":   h.cache.Pending(),
	})
}

// GetCache returns a snapshot of the allocation state
func (h *Handlers) GetCache(c *gin.Context) {
	snap := h.cache.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"cache":             snap,
		"global_size_human": humanize.IBytes(snap.GlobalSizeLimit),
	})
}

// SetLimit changes the global cache budget
func (h *Handlers) SetLimit(c *gin.Context) {
	var req struct {
		Bytes *uint64 `json:"bytes" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}

	h.cache.SetGlobalSizeLimit(*req.Bytes)
	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"global_size_limit": *req.Bytes,
	})
}

// ClearAll tells every renderer to drop its cache
func (h *Handlers) ClearAll(c *gin.Context) {
	occasion, err := parseOccasion(c.DefaultQuery("occasion", "instant"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	result := h.cache.ClearCache(occasion)
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"occasion": occasion.String(),
		"sent":     result.Sent,
		"skipped":  result.Skipped,
	})
}

// Revise recomputes and pushes the allocation immediately
func (h *Handlers) Revise(c *gin.Context) {
	strategy := h.cache.Recompute()
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"tier":        strategy.Tier,
		"tactics":     strategy.Pair,
		"active":      strategy.ActiveStats,
		"inactive":    strategy.InactiveStats,
		"allocations": strategy.Allocations,
	})
}

// RegisterProcess creates a handle for a renderer and starts tracking it
func (h *Handlers) RegisterProcess(c *gin.Context) {
	pid, ok := processID(c)
	if !ok {
		return
	}

	h.processes.Register(pid)
	h.logger.Debug("Renderer registered over HTTP", zap.Int("pid", int(pid)))
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"pid":     pid,
	})
}

// UnregisterProcess forgets a renderer
func (h *Handlers) UnregisterProcess(c *gin.Context) {
	pid, ok := processID(c)
	if !ok {
		return
	}

	if !h.processes.Unregister(pid) {
		notFound(c, pid)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ObserveActivity records renderer activity
func (h *Handlers) ObserveActivity(c *gin.Context) {
	pid, ok := h.knownProcess(c)
	if !ok {
		return
	}

	h.cache.ObserveActivity(pid)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ObserveStats records a renderer usage report
func (h *Handlers) ObserveStats(c *gin.Context) {
	pid, ok := h.knownProcess(c)
	if !ok {
		return
	}

	var stats types.UsageStats
	if err := c.ShouldBindJSON(&stats); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}

	h.cache.ObserveStats(pid, stats)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ClearProcess tells one renderer to drop its cache
func (h *Handlers) ClearProcess(c *gin.Context) {
	pid, ok := h.knownProcess(c)
	if !ok {
		return
	}

	result := h.cache.ClearCacheForProcess(pid)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"sent":    result.Sent,
	})
}

// DrainMessages returns and removes the commands queued for a renderer
func (h *Handlers) DrainMessages(c *gin.Context) {
	pid, ok := processID(c)
	if !ok {
		return
	}

	proc, found := h.processes.Get(pid)
	if !found {
		notFound(c, pid)
		return
	}

	msgs := proc.Drain()
	if msgs == nil {
		msgs = []registry.Message{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"pid":      proc.PID(),
		"messages": msgs,
		"dropped":  proc.Dropped(),
	})
}

func (h *Handlers) knownProcess(c *gin.Context) (types.ProcessID, bool) {
	pid, ok := processID(c)
	if !ok {
		return 0, false
	}
	if _, found := h.processes.Get(pid); !found {
		notFound(c, pid)
		return 0, false
	}
	return pid, true
}
