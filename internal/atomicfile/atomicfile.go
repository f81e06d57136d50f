// Package atomicfile writes output artifacts so that a concurrent reader sees
// either the previous file or the complete new one, never a partial write.
//
// Content goes to a temp file in the destination directory, which is synced
// and renamed over the destination only after the producer succeeds. Writers
// targeting the same path are serialized by an advisory lock on
// "<path>.lock". The lock file stays next to the destination after Write
// returns; deleting it while another writer holds it lets a second writer in.
package atomicfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// DefaultLockTimeout bounds how long Write waits for another writer.
const DefaultLockTimeout = 10 * time.Second

// lockRetryDelay is the polling interval while the lock is held elsewhere.
const lockRetryDelay = 50 * time.Millisecond

// Options configures Write.
type Options struct {
	Perm        os.FileMode   // Final file mode (default 0o644)
	LockTimeout time.Duration // Wait for the writer lock (default DefaultLockTimeout)
}

// Write creates or replaces path with the bytes produced by fn.
//
// fn receives a buffered writer; Write flushes it. If fn or any later step
// fails, the temp file is removed and the destination is left untouched.
func Write(path string, fn func(w io.Writer) error, opts ...Options) (err error) {
	opt := Options{Perm: 0o644, LockTimeout: DefaultLockTimeout}
	if len(opts) > 0 {
		if opts[0].Perm != 0 {
			opt.Perm = opts[0].Perm
		}
		if opts[0].LockTimeout > 0 {
			opt.LockTimeout = opts[0].LockTimeout
		}
	}

	unlock, err := acquire(path+".lock", opt.LockTimeout)
	if err != nil {
		return err
	}
	defer unlock()

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = fn(bw); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err = tmp.Chmod(opt.Perm); err != nil {
		return fmt.Errorf("failed to set mode on %s: %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}

// WriteBytes is Write for content already in memory.
func WriteBytes(path string, data []byte, opts ...Options) error {
	return Write(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	}, opts...)
}

// acquire takes the advisory lock at lockPath, polling until timeout.
func acquire(lockPath string, timeout time.Duration) (func(), error) {
	l := flock.New(lockPath)
	deadline := time.Now().Add(timeout)
	for {
		locked, err := l.TryLock()
		if err != nil {
			return func() {}, fmt.Errorf("cannot acquire write lock: %w", err)
		}
		if locked {
			return func() { _ = l.Unlock() }, nil
		}
		if time.Now().After(deadline) {
			return func() {}, fmt.Errorf("another writer holds %s", lockPath)
		}
		time.Sleep(lockRetryDelay)
	}
}
