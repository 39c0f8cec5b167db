package endpoint

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/lingolink/version"
)

const mb = 1 << 20

var startTime = time.Now()

// Gauge is a named point-in-time reading exposed on /metrics.
type Gauge struct {
	Name string
	Read func() int64
}

// LivenessResponse is the body of /alive.
type LivenessResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}

// InfoResponse is the body of /info.
type InfoResponse struct {
	Service string `json:"service"`
	version.Info
	Uptime string `json:"uptime"`
}

// MetricsResponse is the body of /metrics.
type MetricsResponse struct {
	Timestamp  string           `json:"timestamp"`
	Goroutines int              `json:"goroutines"`
	Memory     MemoryStats      `json:"memory"`
	Gauges     map[string]int64 `json:"gauges"`
}

// MemoryStats is a summary of runtime.MemStats in megabytes.
type MemoryStats struct {
	AllocMB      uint64 `json:"alloc_mb"`
	TotalAllocMB uint64 `json:"total_alloc_mb"`
	SysMB        uint64 `json:"sys_mb"`
	GCRuns       uint32 `json:"gc_runs"`
}

func now() string { return time.Now().UTC().Format(time.RFC3339) }

// Liveness answers as long as the process can serve HTTP.
func Liveness(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, LivenessResponse{Status: "alive", Service: serviceName, Timestamp: now()})
	}
}

// Info reports build information and uptime.
func Info(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, InfoResponse{
			Service: serviceName,
			Info:    version.Get(),
			Uptime:  time.Since(startTime).Round(time.Second).String(),
		})
	}
}

// Metrics reports runtime statistics plus the given gauges.
func Metrics(gauges ...Gauge) gin.HandlerFunc {
	return func(c *gin.Context) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		readings := make(map[string]int64, len(gauges))
		for _, g := range gauges {
			readings[g.Name] = g.Read()
		}
		c.JSON(http.StatusOK, MetricsResponse{
			Timestamp:  now(),
			Goroutines: runtime.NumGoroutine(),
			Memory: MemoryStats{
				AllocMB:      m.Alloc / mb,
				TotalAllocMB: m.TotalAlloc / mb,
				SysMB:        m.Sys / mb,
				GCRuns:       m.NumGC,
			},
			Gauges: readings,
		})
	}
}
