package mining

import (
	"context"
	"sync"

	"github.com/archethic-network/mining-core/logging"
	"github.com/sirupsen/logrus"
)

// Workflow is the per-transaction process Registry tracks: its own
// cancellable context and current State, mutated by a single owner
// goroutine (spec.md §5, Design Note "Registry-by-address process model").
type Workflow struct {
	Address string

	mu    sync.Mutex
	state State

	ctx    context.Context
	cancel context.CancelFunc
	log    *logrus.Logger
}

func newWorkflow(address string, log *logrus.Logger) *Workflow {
	ctx, cancel := context.WithCancel(context.Background())
	wf := &Workflow{Address: address, state: Init, ctx: ctx, cancel: cancel, log: log}
	wf.logState()
	return wf
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Workflow) setState(s State) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
	w.logState()
}

func (w *Workflow) logState() {
	if w.log == nil {
		return
	}
	w.log.WithFields(logging.WorkflowFields(w.Address, w.State().String())).Debug("mining workflow state changed")
}

// Done reports whether the workflow has reached a terminal state.
func (w *Workflow) Done() bool {
	switch w.State() {
	case Done, Aborted:
		return true
	default:
		return false
	}
}

// Registry is the concurrent hash map from address to workflow handle
// (spec.md §5): a worker exists only during its validation window, and
// Remove both cancels its context and drops the map entry, matching "a
// workflow process exists only during the validation window; terminal
// states destroy it" (spec.md §3).
type Registry struct {
	workflows sync.Map // address -> *Workflow

	// Logger receives a debug line on every workflow state transition, if set.
	Logger *logrus.Logger
}

// Start registers a new workflow for address, cancelling and replacing any
// existing one for the same address (spec.md §5 cancellation rule (c): a
// newer election supersedes a stale workflow).
func (r *Registry) Start(address string) *Workflow {
	wf := newWorkflow(address, r.Logger)
	if old, loaded := r.workflows.Swap(address, wf); loaded {
		old.(*Workflow).cancel()
	}
	return wf
}

// Get looks up the in-flight workflow for address, if any.
func (r *Registry) Get(address string) (*Workflow, bool) {
	v, ok := r.workflows.Load(address)
	if !ok {
		return nil, false
	}
	return v.(*Workflow), true
}

// Remove cancels and deletes the workflow for address.
func (r *Registry) Remove(address string) {
	if v, ok := r.workflows.LoadAndDelete(address); ok {
		v.(*Workflow).cancel()
	}
}
