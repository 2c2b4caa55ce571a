package intel

import (
	"context"
	"sync/atomic"

	"github.com/lumenfield/clientintel/internal/intel/provider"
)

// stubCompleter replaces the OpenAI client in tests.
type stubCompleter struct {
	calls int32
	fn    func(req provider.Request) (string, error)
}

func (s *stubCompleter) Complete(_ context.Context, req provider.Request) (string, error) {
	atomic.AddInt32(&s.calls, 1)
	return s.fn(req)
}

func (s *stubCompleter) callCount() int {
	return int(atomic.LoadInt32(&s.calls))
}
