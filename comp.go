// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package remop

import (
	"code.hybscloud.com/kont"
)

// Comp is a computation tree: terminate with a result, issue one operation
// and continue when its reply arrives, or run two subtrees concurrently.
// The three constructors are [Return], [Suspend] and [Fork]; the tree is
// otherwise opaque and is consumed only by [Machine.Reduce].
type Comp interface {
	node()
}

// HandlerFunc resumes a suspended continuation. It receives the stored
// state threaded through earlier firings of the same id and the decoded
// reply payload, and returns the updated state, whether the id stays
// registered awaiting another reply under the same handler, and the next
// computation to reduce.
type HandlerFunc func(state, reply kont.Resumed) (newState kont.Resumed, keep bool, next Comp)

// returnNode terminates a branch. The carried value is discarded by Fork
// joins and by the driver; it exists for handlers that want to thread a
// final value through [Return] anyway.
type returnNode struct {
	value kont.Resumed
}

func (returnNode) node() {}

// suspendNode issues one operation and registers h under a fresh id with
// the given initial state.
type suspendNode struct {
	op    Command
	state kont.Resumed
	fire  HandlerFunc
}

func (suspendNode) node() {}

// forkNode reduces both branches independently. Requests are emitted left
// branch first; reply arrival order alone decides which continuation fires
// first.
type forkNode struct {
	left, right Comp
}

func (forkNode) node() {}

// Return terminates a branch with v. Pass nil when there is no result;
// presence of Return in every reachable branch is what marks a reduction
// as complete.
func Return(v kont.Resumed) Comp {
	return returnNode{value: v}
}

// Done terminates a branch with no result.
func Done() Comp {
	return returnNode{}
}

// Suspend issues op and registers h with the initial stored state.
// Exactly one request is emitted; h fires once per matching reply until it
// reports keep=false.
func Suspend(op Command, state kont.Resumed, h HandlerFunc) Comp {
	return suspendNode{op: op, state: state, fire: h}
}

// Await issues op and resumes f with the single reply, retiring the id.
// This is the one-shot form of [Suspend] for operations that are not an
// ongoing conversation.
func Await(op Command, f func(reply kont.Resumed) Comp) Comp {
	return suspendNode{
		fire: func(_, reply kont.Resumed) (kont.Resumed, bool, Comp) {
			return nil, false, f(reply)
		},
		op: op,
	}
}

// Fork reduces a and b concurrently: both branches' requests are emitted
// before either continuation can fire, and the branches complete
// independently in whatever order replies arrive. Branch results are
// discarded.
func Fork(a, b Comp) Comp {
	return forkNode{left: a, right: b}
}
