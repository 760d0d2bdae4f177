// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package remop

import (
	"math/big"

	"code.hybscloud.com/kont"
)

// continuation is one suspended unit of work: the caller state threaded
// through repeated firings plus the handler resumed on each matching reply.
type continuation struct {
	state kont.Resumed
	fire  HandlerFunc
}

// registry maps outstanding ids to continuations. Keys are the decimal
// text of the id, since big.Int is not a comparable map key. The registry
// is mutated only between reply-processing steps of a single driver loop,
// so no locking discipline is needed.
type registry struct {
	entries map[string]*continuation
}

func newRegistry() registry {
	return registry{entries: make(map[string]*continuation)}
}

func (r *registry) register(id *big.Int, state kont.Resumed, fire HandlerFunc) {
	r.entries[id.Text(10)] = &continuation{state: state, fire: fire}
}

func (r *registry) find(id *big.Int) *continuation {
	return r.entries[id.Text(10)]
}

func (r *registry) update(id *big.Int, state kont.Resumed) {
	if c := r.entries[id.Text(10)]; c != nil {
		c.state = state
	}
}

func (r *registry) remove(id *big.Int) {
	delete(r.entries, id.Text(10))
}

func (r *registry) size() int {
	return len(r.entries)
}
