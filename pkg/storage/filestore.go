package storage

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"hytta/pkg/logger"

	"github.com/fsnotify/fsnotify"
)

const fileExt = ".json"

// FileStore keeps one <key>.json file per key under a state directory.
// Writes go through a temp file plus rename, so a reader never observes a
// partial value. An fsnotify watcher on the directory turns sibling
// processes' writes into subscriber callbacks; self-originated events are
// suppressed by comparing the observed payload against the last payload this
// handle wrote.
type FileStore struct {
	dir     string
	log     *logger.Logger
	watcher *fsnotify.Watcher

	// lastSeen holds, per key, the hash of the newest payload this handle
	// has either written itself or already dispatched. Watcher events whose
	// payload matches are self-echoes or duplicate rename/write pairs.
	mu        sync.Mutex
	lastSeen  map[string][32]byte
	subs      map[string]map[int]func([]byte)
	nextSubID int

	doneCh chan struct{}
	closed bool
}

// NewFileStore opens (creating if needed) the state directory and starts the
// change watcher.
func NewFileStore(dir string, log *logger.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state dir %s: %w", dir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch state dir %s: %w", dir, err)
	}

	fs := &FileStore{
		dir:      dir,
		log:      log.WithComponent("filestore"),
		watcher:  watcher,
		lastSeen: make(map[string][32]byte),
		subs:     make(map[string]map[int]func([]byte)),
		doneCh:   make(chan struct{}),
	}

	go fs.run()

	fs.log.Info("File store opened", "dir", dir)
	return fs, nil
}

func (fs *FileStore) path(key string) string {
	return filepath.Join(fs.dir, key+fileExt)
}

func (fs *FileStore) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(fs.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return data, true, nil
}

func (fs *FileStore) Set(key string, value []byte) error {
	// Record the hash before the rename lands, so the watcher goroutine
	// cannot classify our own write as external.
	fs.mu.Lock()
	fs.lastSeen[key] = sha256.Sum256(value)
	fs.mu.Unlock()

	tmp, err := os.CreateTemp(fs.dir, key+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to stage key %s: %w", key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to flush key %s: %w", key, err)
	}
	if err := os.Rename(tmpName, fs.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to commit key %s: %w", key, err)
	}
	return nil
}

func (fs *FileStore) Delete(key string) error {
	err := os.Remove(fs.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

func (fs *FileStore) Subscribe(key string, fn func(payload []byte)) func() {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.subs[key] == nil {
		fs.subs[key] = make(map[int]func([]byte))
	}
	id := fs.nextSubID
	fs.nextSubID++
	fs.subs[key][id] = fn

	return func() {
		fs.mu.Lock()
		defer fs.mu.Unlock()
		delete(fs.subs[key], id)
	}
}

func (fs *FileStore) Close() error {
	fs.mu.Lock()
	if fs.closed {
		fs.mu.Unlock()
		return nil
	}
	fs.closed = true
	fs.mu.Unlock()

	err := fs.watcher.Close()
	<-fs.doneCh
	return err
}

func (fs *FileStore) run() {
	defer close(fs.doneCh)

	for {
		select {
		case event, ok := <-fs.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			key, ok := keyFromPath(event.Name)
			if !ok {
				continue
			}
			fs.dispatch(key)

		case err, ok := <-fs.watcher.Errors:
			if !ok {
				return
			}
			fs.log.Error("Watcher error", "error", err)
		}
	}
}

// dispatch re-reads the key and notifies subscribers unless the observed
// payload is the one this handle last wrote, or a duplicate of the last
// dispatched event (rename plus write for the same commit).
func (fs *FileStore) dispatch(key string) {
	data, found, err := fs.Get(key)
	if err != nil {
		fs.log.Error("Failed to read changed key", "key", key, "error", err)
		return
	}
	if !found {
		return
	}

	hash := sha256.Sum256(data)

	fs.mu.Lock()
	if fs.lastSeen[key] == hash {
		fs.mu.Unlock()
		return
	}
	fs.lastSeen[key] = hash
	fns := make([]func([]byte), 0, len(fs.subs[key]))
	for _, fn := range fs.subs[key] {
		fns = append(fns, fn)
	}
	fs.mu.Unlock()

	fs.log.Debug("External change observed", "key", key, "subscribers", len(fns))
	for _, fn := range fns {
		fn(data)
	}
}

func keyFromPath(path string) (string, bool) {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, fileExt) {
		return "", false
	}
	key := strings.TrimSuffix(base, fileExt)
	if key == "" || strings.Contains(key, ".tmp-") {
		return "", false
	}
	return key, true
}
