// Package dispatch implements the Signer Registry & Dispatcher: lookup
// from coin id (with blockchain-family fallback) to a cached Chain
// signer instance, and method resolution on that signer (§4.3).
package dispatch

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/coldsigner/core/internal/signer"
)

// Dispatcher caches one Chain instance per family for the worker's
// lifetime. It holds no user-specific state — only a reference to the
// underlying signing routines — matching §4.3's "holds a reference to
// the underlying crypto library handle and nothing user-specific".
type Dispatcher struct {
	mu         sync.Mutex
	factories  map[string]signer.Factory // keyed by blockchain family
	instances  map[string]signer.Chain   // keyed by blockchain family, built lazily
}

// New builds a Dispatcher from a family -> factory table. Registering
// by family (not by coin id) mirrors §4.3's lookup precedence: many
// coin ids share one family's signer.
func New(factories map[string]signer.Factory) *Dispatcher {
	return &Dispatcher{
		factories: factories,
		instances: make(map[string]signer.Chain),
	}
}

// Resolve finds the Chain signer for coinID, falling back to the
// blockchain family tag, per §4.3's two-step precedence.
func (d *Dispatcher) Resolve(coinID, blockchain string) (signer.Chain, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if c, ok := d.instances[strings.ToLower(coinID)]; ok {
		return c, nil
	}
	if f, ok := d.factories[strings.ToLower(coinID)]; ok {
		chain := f()
		d.instances[strings.ToLower(coinID)] = chain
		return chain, nil
	}

	if c, ok := d.instances[strings.ToLower(blockchain)]; ok {
		return c, nil
	}
	if f, ok := d.factories[strings.ToLower(blockchain)]; ok {
		chain := f()
		d.instances[strings.ToLower(blockchain)] = chain
		return chain, nil
	}

	return nil, signer.New(signer.KindUnsupportedChain, "no signer registered for coin \""+coinID+"\" or family \""+blockchain+"\"")
}

// Dispatch resolves method on chain and invokes it. UnsupportedMethod
// is raised if the chain does not expose that method name.
func (d *Dispatcher) Dispatch(chain signer.Chain, method string, txData json.RawMessage, coinType uint32) (*signer.Result, error) {
	fn, ok := chain.Methods()[method]
	if !ok {
		return nil, signer.New(signer.KindUnsupportedMethod, "signer for family \""+chain.Family()+"\" does not expose method \""+method+"\"")
	}
	return fn(txData, coinType)
}

// Sign resolves coinID/blockchain to a signer and invokes method in one
// call, the shape the request front-end uses.
func (d *Dispatcher) Sign(coinID, blockchain, method string, txData json.RawMessage, coinType uint32) (*signer.Result, error) {
	chain, err := d.Resolve(coinID, blockchain)
	if err != nil {
		return nil, err
	}
	return d.Dispatch(chain, method, txData, coinType)
}
