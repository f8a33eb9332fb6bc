// internal/domain/checkout/registry.go
package checkout

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/artiflora-storefront/internal/config"
	"github.com/your-org/artiflora-storefront/internal/domain/payment"
)

type registryEntry struct {
	orchestrator *Orchestrator
	lastUsed     time.Time
}

// Registry holds the orchestrator of every browser session
type Registry struct {
	loader  WidgetLoader
	gateway payment.Gateway
	orders  OrderWriter
	config  *config.Config
	logger  *logrus.Logger

	mu            sync.Mutex
	orchestrators map[string]*registryEntry
}

// NewRegistry creates an empty registry sharing one widget loader
func NewRegistry(loader WidgetLoader, gateway payment.Gateway, orders OrderWriter, cfg *config.Config, logger *logrus.Logger) *Registry {
	return &Registry{
		loader:        loader,
		gateway:       gateway,
		orders:        orders,
		config:        cfg,
		logger:        logger,
		orchestrators: make(map[string]*registryEntry),
	}
}

// Get returns the orchestrator of sessionID, creating it on first use
func (r *Registry) Get(sessionID string) *Orchestrator {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.orchestrators[sessionID]
	if !ok {
		entry = &registryEntry{
			orchestrator: NewOrchestrator(r.loader, r.gateway, r.orders, r.config, r.logger),
		}
		r.orchestrators[sessionID] = entry
	}
	entry.lastUsed = time.Now()
	return entry.orchestrator
}

// Sweep forgets orchestrators unused for longer than idle, except those in
// the middle of a network step
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := time.Now().Add(-idle)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, entry := range r.orchestrators {
		if entry.lastUsed.Before(cutoff) && !entry.orchestrator.busy() {
			delete(r.orchestrators, id)
			removed++
		}
	}
	return removed
}
