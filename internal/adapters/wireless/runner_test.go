package wireless

import (
	"context"
	"errors"
	"strings"
	"sync"
)

type fakeResult struct {
	out string
	err error
}

// fakeRunner replays canned results keyed by the joined command line. The
// last result for a key repeats.
type fakeRunner struct {
	mu      sync.Mutex
	results map[string][]fakeResult
	calls   map[string]int
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{results: make(map[string][]fakeResult), calls: make(map[string]int)}
}

func (f *fakeRunner) on(cmd string, results ...fakeResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[cmd] = results
}

func (f *fakeRunner) count(cmd string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[cmd]
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := strings.Join(append([]string{name}, args...), " ")
	n := f.calls[key]
	f.calls[key]++

	rs, ok := f.results[key]
	if !ok || len(rs) == 0 {
		return nil, errors.New("unexpected command: " + key)
	}
	if n >= len(rs) {
		n = len(rs) - 1
	}
	return []byte(rs[n].out), rs[n].err
}
