package data

import (
	"fmt"

	"voidreach_combat/internal/locker"
	"voidreach_combat/pkg/db"
	"voidreach_combat/pkg/logger"
)

// commonProxy :
// Base embedded by every proxy in this package. It wraps the
// shared DB connection and a sector-keyed lock registry so that
// each proxy gets `performWithLock` for free instead of rolling
// its own locking.
//
// The `dbase` wraps the public query/insert helpers from `pkg/db`;
// proxies in this package never talk to `pgx` directly.
//
// The `log` allows proxies to notify errors and debug information.
//
// The `lock` guards resources identified by an arbitrary string id
// — in this package that is almost always a sector id, since the
// encounter lifecycle (C5) requires all of resolve+persist+emit to
// run under one sector-scoped critical section.
type commonProxy struct {
	dbase db.Proxy
	log   logger.Logger
	lock  *locker.ConcurrentLocker
}

// newCommonProxy :
// Performs the creation of a new common proxy from the input
// database and logger.
//
// The `dbase` defines the main DB that should be wrapped by this
// object.
//
// The `log` defines the logger allowing to notify errors or info
// to the user.
//
// Returns the created object.
func newCommonProxy(dbase *db.DB, log logger.Logger) commonProxy {
	return commonProxy{
		dbase: db.NewProxy(dbase),
		log:   log,
		lock:  locker.NewConcurrentLocker(log),
	}
}

// performWithLock :
// Runs `op` while holding the lock on `resource`, releasing it
// unconditionally afterwards. This is the building block for every
// operation that must observe the sector-scoped advisory lock
// described by the concurrency model: resolve, persist and emit
// all happen inside one call to this method.
//
// The `resource` identifies the resource to lock — a sector id for
// every caller in this package today.
//
// The `op` is the critical section to run while the lock is held.
// It receives no arguments and returns the error to propagate.
//
// Returns any error produced by `op`, or a locking error if the
// lock itself could not be acquired or released.
func (cp commonProxy) performWithLock(resource string, op func() error) error {
	if resource == "" {
		return fmt.Errorf("cannot perform operation for invalid empty resource id")
	}

	resLock := cp.lock.Acquire(resource)
	defer cp.lock.Release(resLock)

	var opErr error
	var releaseErr error

	func() {
		resLock.Lock()
		defer func() {
			if r := recover(); r != nil {
				opErr = fmt.Errorf("panic while executing operation on resource %q (err: %v)", resource, r)
			}
			releaseErr = resLock.Release()
		}()

		opErr = op()
	}()

	if opErr != nil {
		return fmt.Errorf("could not perform operation on resource %q (err: %v)", resource, opErr)
	}
	if releaseErr != nil {
		return fmt.Errorf("could not release lock protecting resource %q (err: %v)", resource, releaseErr)
	}

	return nil
}
