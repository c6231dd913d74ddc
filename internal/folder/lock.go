package folder

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// LockTimeout bounds how long a save waits for another rf process to finish
// writing the history file.
const LockTimeout = 2 * time.Second

const lockRetryInterval = 10 * time.Millisecond

const lockFilePerms = 0o600

// WithLock executes handler while holding an exclusive flock on path+".lock".
// A sibling lock file is used so the store file itself can be atomically
// replaced while locked.
func WithLock(path string, handler func() error) error {
	lock, err := acquireLock(path + ".lock")
	if err != nil {
		return fmt.Errorf("acquiring lock: %w", err)
	}

	defer lock.release()

	return handler()
}

type fileLock struct {
	file *os.File
}

func acquireLock(lockPath string) (*fileLock, error) {
	file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, lockFilePerms)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrLockFileOpen, lockPath)
	}

	deadline := time.Now().Add(LockTimeout)

	for {
		err = unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return &fileLock{file: file}, nil
		}

		if time.Now().After(deadline) {
			_ = file.Close()

			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, lockPath)
		}

		time.Sleep(lockRetryInterval)
	}
}

// release unlocks and closes. The lock file is left in place: removing it
// would race with another process that already opened it.
func (l *fileLock) release() {
	_ = unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	_ = l.file.Close()
}
