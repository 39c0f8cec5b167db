package server

import (
	"cmp"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/lingolink/bootstrap"
)

// probeRoutes sort after the API routes in the startup summary.
var probeRoutes = map[string]bool{
	"/health":  true,
	"/alive":   true,
	"/info":    true,
	"/metrics": true,
}

// TrackRoutes copies the engine's routes into summary. Call it once all
// routes are registered.
func (s *Server) TrackRoutes(summary *bootstrap.Summary) {
	routes := s.engine.Routes()
	slices.SortFunc(routes, func(a, b gin.RouteInfo) int {
		if pa, pb := probeRoutes[a.Path], probeRoutes[b.Path]; pa != pb {
			if pa {
				return 1
			}
			return -1
		}
		return cmp.Or(cmp.Compare(a.Path, b.Path), cmp.Compare(a.Method, b.Method))
	})
	for _, r := range routes {
		summary.TrackRoute(r.Method, r.Path, handlerLabel(r.Handler))
	}
}

// handlerLabel turns a Go symbol such as
// "github.com/kbukum/lingolink/api.(*Handler).ProcessAudio-fm" into
// "Handler.ProcessAudio". Closures are labelled by their enclosing function,
// lower-cased.
func handlerLabel(symbol string) string {
	symbol = strings.TrimSuffix(symbol, "-fm")
	symbol = symbol[strings.LastIndexByte(symbol, '/')+1:]
	symbol = strings.NewReplacer("(*", "", ")", "").Replace(symbol)

	parts := strings.Split(symbol, ".")
	closure := false
	kept := parts[:0]
	for _, p := range parts {
		if isClosure(p) {
			closure = true
			continue
		}
		kept = append(kept, p)
	}
	switch len(kept) {
	case 0:
		return symbol
	case 1:
	default:
		kept = kept[1:]
	}
	if closure {
		return strings.ToLower(kept[len(kept)-1])
	}
	return strings.Join(kept, ".")
}

// isClosure matches the "funcN" and nested "N" segments the compiler gives
// anonymous functions.
func isClosure(seg string) bool {
	n := strings.TrimPrefix(seg, "func")
	return n != "" && strings.Trim(n, "0123456789") == ""
}
