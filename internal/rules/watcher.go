package rules

import (
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// RulesFile is the YAML document the watcher loads: a flat list of delta
// rules registered under their declared names.
type RulesFile struct {
	Rules []DeltaRule `yaml:"rules"`
}

// Watcher hot-reloads delta rules from a YAML file. Every write to the file
// re-registers the declared rules; rules registered by other means are left
// alone.
type Watcher struct {
	mu       sync.Mutex
	registry *Registry
	path     string
	watcher  *fsnotify.Watcher
	log      *zap.Logger
	debounce time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// NewWatcher creates a watcher for the given rules file. The file does not
// need to exist yet; it is loaded on Start if present.
func NewWatcher(registry *Registry, path string, log *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		registry: registry,
		path:     path,
		watcher:  fw,
		log:      log,
		debounce: 250 * time.Millisecond,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start loads the file once and begins watching it. Non-blocking.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.Load(); err != nil && !os.IsNotExist(err) {
		w.log.Warn("initial rules load failed", zap.String("path", w.path), zap.Error(err))
	}

	if err := w.watcher.Add(w.path); err != nil {
		// The file may not exist yet; the caller can still Load manually.
		w.log.Warn("rules file watch failed", zap.String("path", w.path), zap.Error(err))
	}

	go w.run()
	return nil
}

// Stop halts the watcher and waits for the event loop to drain.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	_ = w.watcher.Close()
	<-w.doneCh
}

// Load parses the rules file and registers every declared delta rule.
func (w *Watcher) Load() error {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return err
	}

	var file RulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return err
	}

	for _, d := range file.Rules {
		if _, err := w.registry.RegisterDelta(d); err != nil {
			w.log.Warn("skipping invalid rule declaration", zap.Error(err))
		}
	}
	w.log.Info("rules file loaded", zap.String("path", w.path), zap.Int("rules", len(file.Rules)))
	return nil
}

func (w *Watcher) run() {
	defer close(w.doneCh)

	// Trailing-edge debounce: a burst of writes collapses into one reload
	// after the window, so the final file content is never missed.
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.debounce)
			pending = true
		case <-timer.C:
			pending = false
			if err := w.Load(); err != nil {
				w.log.Warn("rules reload failed", zap.String("path", w.path), zap.Error(err))
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("rules watcher error", zap.Error(err))
		}
	}
}
