package process

import (
	"context"
	"os/exec"
	"time"

	"github.com/kbukum/lingolink/provider"
)

var _ provider.RequestResponse[Command, *Result] = (*Runner)(nil)

// RunnerConfig holds the defaults a Runner applies to every Command.
type RunnerConfig struct {
	Name        string        `yaml:"name,omitempty" mapstructure:"name"`
	GracePeriod time.Duration `yaml:"grace_period,omitempty" mapstructure:"grace_period"`
	// Timeout bounds each run; zero leaves only the caller's deadline.
	Timeout time.Duration `yaml:"timeout,omitempty" mapstructure:"timeout"`
	// Binary is checked on PATH by IsAvailable.
	Binary string `yaml:"binary,omitempty" mapstructure:"binary"`
}

// Runner is a named provider that executes Commands.
type Runner struct {
	cfg RunnerConfig
}

func NewRunner(cfg RunnerConfig) *Runner { return &Runner{cfg: cfg} }

func (r *Runner) Name() string { return r.cfg.Name }

// IsAvailable is true when no binary is configured or it resolves on PATH.
func (r *Runner) IsAvailable(context.Context) bool {
	if r.cfg.Binary == "" {
		return true
	}
	_, err := exec.LookPath(r.cfg.Binary)
	return err == nil
}

// Execute runs c with the runner's defaults filled in.
func (r *Runner) Execute(ctx context.Context, c Command) (*Result, error) {
	if c.Binary == "" {
		c.Binary = r.cfg.Binary
	}
	if c.GracePeriod == 0 {
		c.GracePeriod = r.cfg.GracePeriod
	}
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}
	return Run(ctx, c)
}
