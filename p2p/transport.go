package p2p

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/archethic-network/mining-core/crypto"
)

var ErrNoResponse = errors.New("p2p: no node answered the quorum read")

// NetworkIssueError reports that a specific peer could not be reached,
// distinguishing a transport-level failure from a protocol rejection
// (p2p.Error) or an unanswered quorum read (ErrNoResponse).
type NetworkIssueError struct {
	Node   string
	Detail string
}

func (e *NetworkIssueError) Error() string {
	return fmt.Sprintf("p2p: network issue contacting %s: %s", e.Node, e.Detail)
}

// ConflictResolver picks a winner among disagreeing quorum replies, mirroring
// the conflict-resolution contract storage reads rely on (spec.md §6 Design
// Note: the network path never assumes all replicas agree).
type ConflictResolver func(replies []Envelope) (Envelope, error)

// Transport is the collaborator contract standing in for the actual P2P
// networking layer (spec.md §1, §6), which is explicitly out of scope.
type Transport interface {
	SendMessage(ctx context.Context, to crypto.PublicKey, env Envelope) error
	BroadcastMessage(ctx context.Context, to []crypto.PublicKey, env Envelope) error
	QuorumRead(ctx context.Context, from []crypto.PublicKey, req Envelope, resolve ConflictResolver) (Envelope, error)
}

// Memory is an in-process Transport: SendMessage/BroadcastMessage append to
// per-recipient inboxes that tests can drain directly, and QuorumRead is
// driven by a caller-supplied responder rather than real round trips.
type Memory struct {
	mu      sync.Mutex
	inboxes map[string][]Envelope
	// Responders, keyed by recipient, answer QuorumRead requests. Tests
	// populate this map to simulate each node's reply (or its absence).
	Responders map[string]func(Envelope) (Envelope, bool)
	// Unreachable, keyed by recipient, makes SendMessage/BroadcastMessage
	// fail with *NetworkIssueError instead of delivering, simulating a
	// down or partitioned peer.
	Unreachable map[string]bool
}

func NewMemory() *Memory {
	return &Memory{
		inboxes:     make(map[string][]Envelope),
		Responders:  make(map[string]func(Envelope) (Envelope, bool)),
		Unreachable: make(map[string]bool),
	}
}

func (m *Memory) SendMessage(_ context.Context, to crypto.PublicKey, env Envelope) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := to.String()
	if m.Unreachable[key] {
		return &NetworkIssueError{Node: key, Detail: "peer marked unreachable"}
	}
	m.inboxes[key] = append(m.inboxes[key], env)
	return nil
}

func (m *Memory) BroadcastMessage(ctx context.Context, to []crypto.PublicKey, env Envelope) error {
	for _, pk := range to {
		if err := m.SendMessage(ctx, pk, env); err != nil {
			return err
		}
	}
	return nil
}

func (m *Memory) Inbox(of crypto.PublicKey) []Envelope {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Envelope, len(m.inboxes[of.String()]))
	copy(out, m.inboxes[of.String()])
	return out
}

// QuorumRead asks every node in from and folds the replies through resolve.
// Nodes with no configured Responder, or whose Responder declines, are
// treated as non-responsive rather than aborting the read.
func (m *Memory) QuorumRead(_ context.Context, from []crypto.PublicKey, req Envelope, resolve ConflictResolver) (Envelope, error) {
	var replies []Envelope
	for _, pk := range from {
		respond, ok := m.Responders[pk.String()]
		if !ok {
			continue
		}
		if reply, answered := respond(req); answered {
			replies = append(replies, reply)
		}
	}
	if len(replies) == 0 {
		return Envelope{}, ErrNoResponse
	}
	if resolve == nil {
		return replies[0], nil
	}
	return resolve(replies)
}

var _ Transport = (*Memory)(nil)
