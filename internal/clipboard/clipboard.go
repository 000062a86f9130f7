// Package clipboard copies text to the system clipboard.
package clipboard

import (
	"fmt"
	"sync"

	"golang.design/x/clipboard"

	"github.com/zhubert/recall/internal/logger"
)

// backend is the clipboard implementation, swappable in tests.
type backend interface {
	Init() error
	Write(text string)
	Read() string
}

type systemBackend struct{}

func (systemBackend) Init() error { return clipboard.Init() }

func (systemBackend) Write(text string) {
	clipboard.Write(clipboard.FmtText, []byte(text))
}

func (systemBackend) Read() string {
	return string(clipboard.Read(clipboard.FmtText))
}

var (
	mu          sync.Mutex
	impl        backend = systemBackend{}
	initialized bool
)

// ensureInit initializes the clipboard once. Callers hold mu.
func ensureInit() error {
	if initialized {
		return nil
	}
	if err := impl.Init(); err != nil {
		logger.WithComponent("clipboard").Warn("failed to initialize", "error", err)
		return fmt.Errorf("failed to initialize clipboard: %w", err)
	}
	initialized = true
	return nil
}

// WriteText places text on the clipboard.
func WriteText(text string) error {
	mu.Lock()
	defer mu.Unlock()

	if err := ensureInit(); err != nil {
		return err
	}
	impl.Write(text)
	logger.WithComponent("clipboard").Debug("wrote text", "bytes", len(text))
	return nil
}

// ReadText reads text from the clipboard.
func ReadText() (string, error) {
	mu.Lock()
	defer mu.Unlock()

	if err := ensureInit(); err != nil {
		return "", err
	}
	return impl.Read(), nil
}
