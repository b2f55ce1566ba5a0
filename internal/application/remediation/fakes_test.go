package remediation

import (
	"context"
	"errors"
	"sync"

	"github.com/doeshing/ec2-healthwatch/internal/domain"
)

// fakeCompute scripts provider responses. InstanceState pops from states[id]
// and keeps returning the last value once the script runs out.
type fakeCompute struct {
	mu          sync.Mutex
	instances   []domain.InstanceDescriptor
	describeErr error
	states      map[string][]domain.LifecycleState
	stateErr    error
	stopErr     map[string]error
	startErr    map[string]error
	calls       []string
}

func (f *fakeCompute) DescribeInstances(context.Context, domain.InstanceFilter) ([]domain.InstanceDescriptor, error) {
	if f.describeErr != nil {
		return nil, f.describeErr
	}
	return f.instances, nil
}

func (f *fakeCompute) StopInstance(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "stop:"+id)
	return f.stopErr[id]
}

func (f *fakeCompute) StartInstance(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "start:"+id)
	return f.startErr[id]
}

func (f *fakeCompute) InstanceState(_ context.Context, id string) (domain.LifecycleState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "state:"+id)
	if f.stateErr != nil {
		return "", f.stateErr
	}
	script := f.states[id]
	if len(script) == 0 {
		return "", errors.New("no scripted state")
	}
	next := script[0]
	if len(script) > 1 {
		f.states[id] = script[1:]
	}
	return next, nil
}

func (f *fakeCompute) count(prefix string) int {
	n := 0
	for _, c := range f.calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

type memEvents struct {
	records []domain.EventRecord
}

func (m *memEvents) Save(rec domain.EventRecord) error {
	m.records = append(m.records, rec)
	return nil
}

func (m *memEvents) Records(int, domain.EventKind) ([]domain.EventRecord, error) {
	return m.records, nil
}

func (m *memEvents) Path() string { return "memory" }
func (m *memEvents) Close() error { return nil }
