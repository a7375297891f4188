package explore

import (
	"context"

	"github.com/Sumatoshi-tech/encore/internal/trend"
)

// SetBuild replaces the build step so tests can control its timing.
func (s *Service) SetBuild(fn func(ctx context.Context, ix *trend.Index, cfg trend.Config) (*trend.Result, error)) {
	s.build = fn
}
