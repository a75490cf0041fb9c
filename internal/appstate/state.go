// Package appstate holds the client-visible application file state: the
// cached file list, one status entry per dispatched operation, the
// aggregate loading/error view and the upload progress.
//
// State only changes through operation lifecycle events: Begin (pending)
// followed by exactly one of Fulfill or Reject.
package appstate

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/dmitrijs2005/filekeeper/internal/models"
)

type Kind string

const (
	KindUpload Kind = "upload"
	KindFetch  Kind = "fetch"
	KindDelete Kind = "delete"
	KindUpdate Kind = "update"
)

type Phase string

const (
	PhasePending   Phase = "pending"
	PhaseFulfilled Phase = "fulfilled"
	PhaseRejected  Phase = "rejected"
)

// OpStatus tracks one dispatched operation.
type OpStatus struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Phase     Phase     `json:"phase"`
	Error     string    `json:"error,omitempty"`
	StartedAt time.Time `json:"startedAt"`
	SettledAt time.Time `json:"settledAt,omitzero"`
}

// State is a point-in-time copy of the container.
type State struct {
	Files []models.FileRecord `json:"files"`
	// Loading is true while any operation is pending.
	Loading bool `json:"loading"`
	// Error is the message of the last settled operation when it was
	// rejected, empty otherwise.
	Error          string              `json:"error,omitempty"`
	UploadProgress int                 `json:"uploadProgress"`
	Operations     map[string]OpStatus `json:"operations"`
}

// Mutation transforms the file list when an operation is fulfilled.
type Mutation func(files []models.FileRecord) []models.FileRecord

// Appended adds rec to the end of the list.
func Appended(rec models.FileRecord) Mutation {
	return func(files []models.FileRecord) []models.FileRecord {
		return append(files, rec)
	}
}

// Replaced swaps the whole list for files.
func Replaced(files []models.FileRecord) Mutation {
	return func([]models.FileRecord) []models.FileRecord {
		return append([]models.FileRecord(nil), files...)
	}
}

// Removed drops every entry whose FullPath equals fullPath.
func Removed(fullPath string) Mutation {
	return func(files []models.FileRecord) []models.FileRecord {
		return lo.Reject(files, func(f models.FileRecord, _ int) bool {
			return f.FullPath == fullPath
		})
	}
}

// Described sets the description of the entry matching upd.FullPath.
func Described(upd models.DescriptionUpdate) Mutation {
	return func(files []models.FileRecord) []models.FileRecord {
		return lo.Map(files, func(f models.FileRecord, _ int) models.FileRecord {
			if f.FullPath == upd.FullPath {
				f.Description = upd.Description
			}
			return f
		})
	}
}

// Container is safe for concurrent use.
type Container struct {
	mu       sync.Mutex
	files    []models.FileRecord
	errMsg   string
	progress int
	ops      map[string]*OpStatus

	subs    map[int]chan State
	nextSub int

	now   func() time.Time
	newID func() string
}

func New() *Container {
	return &Container{
		ops:   make(map[string]*OpStatus),
		subs:  make(map[int]chan State),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Begin registers a pending operation and clears the aggregate error.
func (c *Container) Begin(kind Kind) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.newID()
	c.ops[id] = &OpStatus{ID: id, Kind: kind, Phase: PhasePending, StartedAt: c.now()}
	c.errMsg = ""
	c.publishLocked()
	return id
}

// Fulfill settles opID successfully and applies m to the file list. It
// reports false when opID is unknown or already settled.
func (c *Container) Fulfill(opID string, m Mutation) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	op, ok := c.pendingLocked(opID)
	if !ok {
		return false
	}
	op.Phase = PhaseFulfilled
	op.SettledAt = c.now()
	if m != nil {
		c.files = m(c.files)
	}
	c.settleLocked(op, "")
	return true
}

// Reject settles opID with err; the file list is untouched.
func (c *Container) Reject(opID string, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	op, ok := c.pendingLocked(opID)
	if !ok {
		return false
	}
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	op.Phase = PhaseRejected
	op.Error = msg
	op.SettledAt = c.now()
	c.settleLocked(op, msg)
	return true
}

func (c *Container) pendingLocked(opID string) (*OpStatus, bool) {
	op, ok := c.ops[opID]
	if !ok || op.Phase != PhasePending {
		return nil, false
	}
	return op, true
}

func (c *Container) settleLocked(op *OpStatus, errMsg string) {
	c.errMsg = errMsg
	if op.Kind == KindUpload {
		c.progress = 0
	}
	c.publishLocked()
}

// SetUploadProgress records the upload progress, clamped to 0..100.
func (c *Container) SetUploadProgress(p int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.progress = min(max(p, 0), 100)
	c.publishLocked()
}

func (c *Container) ClearError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errMsg = ""
	c.publishLocked()
}

// Prune drops operations settled more than olderThan ago and returns how
// many were removed. Pending operations are never pruned.
func (c *Container) Prune(olderThan time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := c.now().Add(-olderThan)
	n := 0
	for id, op := range c.ops {
		if op.Phase != PhasePending && op.SettledAt.Before(cutoff) {
			delete(c.ops, id)
			n++
		}
	}
	if n > 0 {
		c.publishLocked()
	}
	return n
}

func (c *Container) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Files returns a copy of the cached file list.
func (c *Container) Files() []models.FileRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.FileRecord{}, c.files...)
}

func (c *Container) snapshotLocked() State {
	s := State{
		Files:          append([]models.FileRecord{}, c.files...),
		Error:          c.errMsg,
		UploadProgress: c.progress,
		Operations:     make(map[string]OpStatus, len(c.ops)),
	}
	for id, op := range c.ops {
		s.Operations[id] = *op
		if op.Phase == PhasePending {
			s.Loading = true
		}
	}
	return s
}

// Subscribe returns a channel receiving a snapshot after every change.
// Slow readers only see the latest snapshot. cancel closes the channel.
func (c *Container) Subscribe() (<-chan State, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++
	ch := make(chan State, 1)
	c.subs[id] = ch
	ch <- c.snapshotLocked()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

func (c *Container) publishLocked() {
	if len(c.subs) == 0 {
		return
	}
	snap := c.snapshotLocked()
	for _, ch := range c.subs {
		select {
		case ch <- snap:
		default:
			// drop the stale snapshot
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}
