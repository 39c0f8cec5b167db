package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/kbukum/lingolink/component"
)

// Route is one HTTP route shown in the summary.
type Route struct {
	Method  string
	Path    string
	Handler string
}

// Summary is the overview printed once startup completes.
type Summary struct {
	service string
	version string
	took    time.Duration
	routes  []Route
	out     io.Writer
}

// NewSummary writes to stdout until SetOutput is called.
func NewSummary(service, version string) *Summary {
	return &Summary{service: service, version: version, out: os.Stdout}
}

func (s *Summary) SetOutput(w io.Writer) { s.out = w }

func (s *Summary) SetStartupDuration(d time.Duration) { s.took = d }

// TrackRoute appends a route, in display order.
func (s *Summary) TrackRoute(method, path, handler string) {
	s.routes = append(s.routes, Route{Method: method, Path: path, Handler: handler})
}

func (s *Summary) Routes() []Route { return s.routes }

// Display prints the banner followed by component, route and health tables.
// A nil registry prints only the banner and routes.
func (s *Summary) Display(ctx context.Context, reg *component.Registry) {
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "\n%s %s started in %.2fs\n", s.service, s.version, s.took.Seconds())

	if reg != nil {
		if cs := reg.All(); len(cs) > 0 {
			fmt.Fprintln(tw, "\ncomponents")
			for _, c := range cs {
				d := describe(c)
				fmt.Fprintf(tw, "  %s\t%s\t%s\n", d.Name, d.Type, d.Details)
			}
		}
	}
	if len(s.routes) > 0 {
		fmt.Fprintf(tw, "\nroutes (%d)\n", len(s.routes))
		for _, r := range s.routes {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", r.Method, r.Path, r.Handler)
		}
	}
	if reg != nil {
		if hs := reg.HealthAll(ctx); len(hs) > 0 {
			fmt.Fprintln(tw, "\nhealth")
			for _, h := range hs {
				fmt.Fprintf(tw, "  %s %s\t%s\t%s\n", statusMark(h.Status), h.Name, h.Status, h.Message)
			}
		}
	}
	fmt.Fprintln(tw)
	_ = tw.Flush()
}

func describe(c component.Component) component.Description {
	d := component.Description{Name: c.Name()}
	if dc, ok := c.(component.Describable); ok {
		got := dc.Describe()
		if got.Name != "" {
			d.Name = got.Name
		}
		d.Type, d.Details = got.Type, got.Details
	}
	return d
}

func statusMark(s component.HealthStatus) string {
	switch s {
	case component.StatusHealthy:
		return "+"
	case component.StatusDegraded:
		return "~"
	default:
		return "!"
	}
}
