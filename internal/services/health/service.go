package health

import (
	"context"
	"sort"
	"time"

	"resume-maker/internal/shared/telemetry"
)

const checkTimeout = 2 * time.Second

// Check reports whether one dependency is reachable.
type Check func(ctx context.Context) error

// Service encapsulates health-related checks.
type Service struct {
	checks map[string]Check
}

// NewService constructs a new health service.
func NewService() *Service {
	return &Service{checks: make(map[string]Check)}
}

// Register adds a named dependency check. A nil check is ignored.
func (s *Service) Register(name string, check Check) {
	if check == nil {
		return
	}
	s.checks[name] = check
}

// Status runs every check and returns the health payload. Failing
// dependencies are logged, not exposed.
func (s *Service) Status(ctx context.Context) map[string]bool {
	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	ok := true
	for _, name := range names {
		checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := s.checks[name](checkCtx)
		cancel()
		if err != nil {
			ok = false
			telemetry.Warn("health.check_failed", map[string]any{"check": name, "error": err})
		}
	}
	return map[string]bool{"ok": ok}
}
