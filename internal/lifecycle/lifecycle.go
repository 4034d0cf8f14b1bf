// Package lifecycle drives a long-running service through its
// stopped/starting/running/stopping/error state machine, sequencing the
// datastore connection and the network listener.
package lifecycle

import (
	"context"
	"sync"
	"time"

	"steward/internal/config"
	"steward/internal/constants"
	"steward/internal/errors"
	"steward/internal/logger"
)

// Status represents the status of the managed service
type Status string

const (
	StatusStopped  Status = "stopped"
	StatusStarting Status = "starting"
	StatusRunning  Status = "running"
	StatusStopping Status = "stopping"
	StatusError    Status = "error"
)

// Datastore is the connect/close capability of the external datastore.
// Query capabilities are a separate concern and not part of this contract.
type Datastore interface {
	Connect(ctx context.Context) error
	Close(ctx context.Context) error
}

// Listener is the bind/close capability of the embedded network listener.
type Listener interface {
	Bind(ctx context.Context, port int) error
	Close(ctx context.Context) error
}

// Cache is accepted at construction for future use. No lifecycle
// transition invokes it.
type Cache interface {
	Clear()
}

// Journal records completed transitions. Implementations are best-effort:
// a failed write is logged and never changes the lifecycle outcome.
type Journal interface {
	Record(ctx context.Context, from, to Status, note string) error
}

// Report is the read-only status snapshot returned by StatusReport.
type Report struct {
	Service string `json:"service"`
	Status  Status `json:"status"`
	Uptime  int64  `json:"uptime"`
	Version string `json:"version"`
}

// Lifecycle owns the status field and sequences start/stop side effects.
// One Start or Stop is active at a time; StatusReport never blocks on
// in-flight transition I/O.
type Lifecycle struct {
	cfg       *config.ServiceConfig
	datastore Datastore
	cache     Cache
	listener  Listener
	journal   Journal

	mutex     sync.RWMutex
	status    Status
	startTime time.Time
	connected bool
	bound     bool
}

// New creates a lifecycle for the given service. Any collaborator may be
// nil; the corresponding side effect is skipped.
func New(cfg *config.ServiceConfig, datastore Datastore, cache Cache, listener Listener) *Lifecycle {
	return &Lifecycle{
		cfg:       cfg,
		datastore: datastore,
		cache:     cache,
		listener:  listener,
		status:    StatusStopped,
	}
}

// SetJournal wires the optional transition journal.
func (l *Lifecycle) SetJournal(j Journal) {
	l.journal = j
}

// Start transitions the service from stopped (or error, as a retry path)
// to running. The status flips to starting before any I/O begins, so
// concurrent StatusReport callers observe the in-progress state. On any
// collaborator failure the status becomes error and the failure is
// returned; nothing is retried internally.
func (l *Lifecycle) Start(ctx context.Context) error {
	l.mutex.Lock()
	if l.status != StatusStopped && l.status != StatusError {
		current := l.status
		l.mutex.Unlock()
		return errors.NewWithDetails(errors.ErrLifecycleInvalidState,
			"service can only be started when stopped", string(current))
	}
	from := l.status
	l.status = StatusStarting
	l.mutex.Unlock()

	logger.WithFields(logger.Fields{
		"service": l.cfg.Name,
		"from":    from,
	}).Info("Starting service")

	if l.datastore != nil && !l.isConnected() {
		if err := l.datastore.Connect(ctx); err != nil {
			l.fail(ctx, "datastore connect failed", err)
			return errors.Wrap(errors.ErrDatastoreConnect, "failed to connect datastore", err)
		}
		l.setConnected(true)
	}

	if l.listener != nil {
		if err := l.listener.Bind(ctx, l.cfg.Port); err != nil {
			// The datastore connection stays open here; a Stop from the
			// error state closes it.
			l.fail(ctx, "listener bind failed", err)
			return errors.Wrap(errors.ErrListenerBind, "failed to bind listener", err)
		}
		l.mutex.Lock()
		l.bound = true
		l.mutex.Unlock()
	}

	l.mutex.Lock()
	l.startTime = time.Now()
	l.status = StatusRunning
	l.mutex.Unlock()

	l.record(ctx, StatusStarting, StatusRunning, "service started")
	logger.WithFields(logger.Fields{
		"service": l.cfg.Name,
		"port":    l.cfg.Port,
	}).Info("Service running")

	return nil
}

// Stop transitions the service from running to stopped, closing the
// listener first and the datastore second. It also accepts the error
// state as a best-effort cleanup path, closing whatever Start left open.
func (l *Lifecycle) Stop(ctx context.Context) error {
	l.mutex.Lock()
	if l.status != StatusRunning && l.status != StatusError {
		current := l.status
		l.mutex.Unlock()
		return errors.NewWithDetails(errors.ErrLifecycleInvalidState,
			"service can only be stopped when running", string(current))
	}
	from := l.status
	l.status = StatusStopping
	l.mutex.Unlock()

	logger.WithFields(logger.Fields{
		"service": l.cfg.Name,
		"from":    from,
	}).Info("Stopping service")

	if l.listener != nil && l.isBound() {
		if err := l.listener.Close(ctx); err != nil {
			l.fail(ctx, "listener close failed", err)
			return errors.Wrap(errors.ErrListenerClose, "failed to close listener", err)
		}
		l.mutex.Lock()
		l.bound = false
		l.mutex.Unlock()
	}

	// The journal write has to land before the datastore pool closes.
	l.record(ctx, StatusStopping, StatusStopped, "service stopped")

	if l.datastore != nil && l.isConnected() {
		if err := l.datastore.Close(ctx); err != nil {
			l.fail(ctx, "datastore close failed", err)
			return errors.Wrap(errors.ErrDatastoreClose, "failed to close datastore", err)
		}
		l.setConnected(false)
	}

	l.mutex.Lock()
	l.status = StatusStopped
	l.startTime = time.Time{}
	l.mutex.Unlock()

	logger.WithField("service", l.cfg.Name).Info("Service stopped")
	return nil
}

// Status returns the current status value.
func (l *Lifecycle) Status() Status {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return l.status
}

// StatusReport returns the service name, current status, uptime in whole
// seconds and the version string. It is a pure read: it never blocks on a
// transition in progress and never mutates state.
func (l *Lifecycle) StatusReport() Report {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	var uptime int64
	if !l.startTime.IsZero() {
		uptime = int64(time.Since(l.startTime).Seconds())
		if uptime < 0 {
			uptime = 0
		}
	}

	return Report{
		Service: l.cfg.Name,
		Status:  l.status,
		Uptime:  uptime,
		Version: constants.Version,
	}
}

// fail flips the status to error and logs the failure. The caller still
// owns propagating the wrapped error. The start time is cleared so uptime
// only counts while the service is running.
func (l *Lifecycle) fail(ctx context.Context, msg string, err error) {
	l.mutex.Lock()
	from := l.status
	l.status = StatusError
	l.startTime = time.Time{}
	l.mutex.Unlock()

	logger.WithFields(logger.Fields{
		"service": l.cfg.Name,
		"from":    from,
	}).WithError(err).Errorf("Lifecycle transition failed: %s", msg)

	l.record(ctx, from, StatusError, msg)
}

// record writes a transition to the journal when one is wired and the
// datastore is reachable. Failures are logged at warn level only.
func (l *Lifecycle) record(ctx context.Context, from, to Status, note string) {
	if l.journal == nil || !l.isConnected() {
		return
	}
	if err := l.journal.Record(ctx, from, to, note); err != nil {
		logger.WithError(err).Warnf("Failed to record transition %s -> %s", from, to)
	}
}

func (l *Lifecycle) isConnected() bool {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return l.connected
}

func (l *Lifecycle) setConnected(v bool) {
	l.mutex.Lock()
	l.connected = v
	l.mutex.Unlock()
}

func (l *Lifecycle) isBound() bool {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return l.bound
}
