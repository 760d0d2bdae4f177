// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package remop

import (
	"math/big"

	"code.hybscloud.com/kont"
)

// Request is one emitted operation awaiting a worker reply carrying the
// same id.
type Request struct {
	ID *big.Int
	Op Command
}

// Machine is the interpreter state threaded across reductions: the live
// continuation registry and the id-allocation cursor. Ids are allocated in
// increasing order and never reused while outstanding.
//
// A Machine is not safe for concurrent use; a single driver loop owns it.
type Machine struct {
	reg    registry
	cursor big.Int
}

// NewMachine returns a Machine with an empty registry and cursor 0.
func NewMachine() *Machine {
	return &Machine{reg: newRegistry()}
}

// Pending reports the number of registered continuations.
func (m *Machine) Pending() int {
	return m.reg.size()
}

// Reduce reduces c as far as possible without external input. Every
// Suspend node reached allocates a fresh id, registers its continuation
// and contributes one request, in left-to-right traversal order through
// Fork. done reports whether every reachable branch bottomed out at
// Return with no suspension anywhere in the tree.
func (m *Machine) Reduce(c Comp) (requests []Request, done bool) {
	done = m.reduce(c, &requests)
	return requests, done
}

// reduce recurses on the tree. Depth is bounded by the finite tree shape
// between successive Suspend nodes, so plain recursion suffices.
func (m *Machine) reduce(c Comp, requests *[]Request) bool {
	switch n := c.(type) {
	case returnNode:
		return true
	case suspendNode:
		id := m.nextID()
		m.reg.register(id, n.state, n.fire)
		*requests = append(*requests, Request{ID: id, Op: n.op})
		return false
	case forkNode:
		left := m.reduce(n.left, requests)
		right := m.reduce(n.right, requests)
		return left && right
	default:
		panic("remop: unknown computation node")
	}
}

// Fire resumes the continuation registered under id with the decoded
// reply payload. The registry entry is updated or retired per the
// handler's keep report before the returned computation is reduced, so
// fresh ids allocated by that reduction can never collide with a retired
// one. found is false when id matches no registered continuation; the
// registry is untouched in that case.
func (m *Machine) Fire(id *big.Int, reply kont.Resumed) (next Comp, found bool) {
	c := m.reg.find(id)
	if c == nil {
		return nil, false
	}
	state, keep, next := c.fire(c.state, reply)
	if keep {
		m.reg.update(id, state)
	} else {
		m.reg.remove(id)
	}
	return next, true
}

// nextID returns the current cursor value and advances the cursor.
func (m *Machine) nextID() *big.Int {
	id := new(big.Int).Set(&m.cursor)
	m.cursor.Add(&m.cursor, oneInt)
	return id
}

var oneInt = big.NewInt(1)
