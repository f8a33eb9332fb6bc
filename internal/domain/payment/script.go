// internal/domain/payment/script.go
package payment

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/sirupsen/logrus"
)

// ScriptElementID identifies the injected checkout script in the page
const ScriptElementID = "razorpay-script"

// Script tells the browser which script element to inject
type Script struct {
	ID  string `json:"id"`
	Src string `json:"src"`
}

// ScriptLoader makes sure the checkout script is reachable before a widget
// is opened. A successful load is remembered for the life of the process;
// failures are not, so a later submission retries.
type ScriptLoader struct {
	src        string
	httpClient *http.Client
	logger     *logrus.Logger

	mu     sync.Mutex
	loaded map[string]bool
}

// NewScriptLoader creates a loader for the script at src
func NewScriptLoader(src string, httpClient *http.Client, logger *logrus.Logger) *ScriptLoader {
	return &ScriptLoader{
		src:        src,
		httpClient: httpClient,
		logger:     logger,
		loaded:     make(map[string]bool),
	}
}

// Load returns the script descriptor, fetching the script once to confirm it
// is available
func (l *ScriptLoader) Load(ctx context.Context) (Script, error) {
	script := Script{ID: ScriptElementID, Src: l.src}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.loaded[script.ID] {
		return script, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.src, nil)
	if err != nil {
		return Script{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return Script{}, fmt.Errorf("failed to load payment script: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Script{}, fmt.Errorf("failed to load payment script: status %d", resp.StatusCode)
	}

	l.loaded[script.ID] = true
	l.logger.WithField("src", l.src).Debug("Payment script loaded")
	return script, nil
}
