// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package remop_test

import (
	"math/big"
	"testing"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/remop"
)

// discard is an Await handler that ends the branch.
func discard(kont.Resumed) remop.Comp {
	return remop.Done()
}

func TestReduceReturn(t *testing.T) {
	m := remop.NewMachine()
	requests, done := m.Reduce(remop.Done())
	if len(requests) != 0 {
		t.Fatalf("got %d requests, want 0", len(requests))
	}
	if !done {
		t.Fatal("Return did not reduce to done")
	}
	if m.Pending() != 0 {
		t.Fatalf("got %d pending, want 0", m.Pending())
	}
}

func TestReduceEmitsLeftToRight(t *testing.T) {
	tree := remop.Fork(
		remop.Await(remop.Log{Message: "a"}, discard),
		remop.Fork(
			remop.Await(remop.Time{}, discard),
			remop.Await(remop.FileRead{Name: "f"}, discard),
		),
	)
	m := remop.NewMachine()
	requests, done := m.Reduce(tree)
	if done {
		t.Fatal("suspended tree reduced to done")
	}
	wantKinds := []remop.Kind{remop.KindLog, remop.KindTime, remop.KindFileRead}
	if len(requests) != len(wantKinds) {
		t.Fatalf("got %d requests, want %d", len(requests), len(wantKinds))
	}
	for i, req := range requests {
		if req.Op.Kind() != wantKinds[i] {
			t.Fatalf("request %d kind got %s, want %s", i, req.Op.Kind(), wantKinds[i])
		}
		if req.ID.Cmp(big.NewInt(int64(i))) != 0 {
			t.Fatalf("request %d id got %v, want %d", i, req.ID, i)
		}
	}
	if m.Pending() != 3 {
		t.Fatalf("got %d pending, want 3", m.Pending())
	}
}

func TestReduceDeterminism(t *testing.T) {
	build := func() remop.Comp {
		return remop.Fork(
			remop.Await(remop.FileRead{Name: "x"}, discard),
			remop.Await(remop.ServerSocketBind{Port: big.NewInt(80)}, discard),
		)
	}
	m1 := remop.NewMachine()
	r1, d1 := m1.Reduce(build())
	m2 := remop.NewMachine()
	r2, d2 := m2.Reduce(build())
	if d1 != d2 || len(r1) != len(r2) {
		t.Fatalf("reductions diverge: %v/%d vs %v/%d", d1, len(r1), d2, len(r2))
	}
	for i := range r1 {
		if remop.EncodeRequest(r1[i]) != remop.EncodeRequest(r2[i]) {
			t.Fatalf("request %d diverges: %q vs %q",
				i, remop.EncodeRequest(r1[i]), remop.EncodeRequest(r2[i]))
		}
	}
}

func TestForkRequestsAreConcatenated(t *testing.T) {
	left := func() remop.Comp {
		return remop.Await(remop.Log{Message: "l"}, discard)
	}
	right := func() remop.Comp {
		return remop.Fork(
			remop.Await(remop.Time{}, discard),
			remop.Await(remop.ClientSocketClose{Client: big.NewInt(1)}, discard),
		)
	}

	lr, _ := remop.NewMachine().Reduce(left())
	rr, _ := remop.NewMachine().Reduce(right())
	fr, _ := remop.NewMachine().Reduce(remop.Fork(left(), right()))

	if len(fr) != len(lr)+len(rr) {
		t.Fatalf("got %d requests, want %d", len(fr), len(lr)+len(rr))
	}
	for i, req := range fr {
		var want remop.Request
		if i < len(lr) {
			want = lr[i]
		} else {
			want = rr[i-len(lr)]
		}
		if req.Op.Kind() != want.Op.Kind() {
			t.Fatalf("request %d kind got %s, want %s", i, req.Op.Kind(), want.Op.Kind())
		}
		if req.ID.Cmp(big.NewInt(int64(i))) != 0 {
			t.Fatalf("request %d id got %v, want %d", i, req.ID, i)
		}
	}
}

func TestForkDoneRequiresBothBranches(t *testing.T) {
	m := remop.NewMachine()
	_, done := m.Reduce(remop.Fork(remop.Done(), remop.Await(remop.Time{}, discard)))
	if done {
		t.Fatal("Fork with a suspended branch reduced to done")
	}
	m = remop.NewMachine()
	_, done = m.Reduce(remop.Fork(remop.Done(), remop.Return("ok")))
	if !done {
		t.Fatal("Fork of two Returns did not reduce to done")
	}
}

func TestIDsUniqueAcrossReductions(t *testing.T) {
	m := remop.NewMachine()
	seen := make(map[string]bool)
	record := func(requests []remop.Request) {
		for _, req := range requests {
			key := req.ID.Text(10)
			if seen[key] {
				t.Fatalf("id %s issued twice", key)
			}
			seen[key] = true
		}
	}

	chain := func(kont.Resumed) remop.Comp {
		return remop.Await(remop.Log{Message: "m"}, discard)
	}
	r1, _ := m.Reduce(remop.Fork(
		remop.Await(remop.Time{}, chain),
		remop.Await(remop.Time{}, discard),
	))
	record(r1)

	// Fire one continuation; its next computation registers fresh ids.
	next, found := m.Fire(r1[0].ID, big.NewInt(1))
	if !found {
		t.Fatalf("id %v not registered", r1[0].ID)
	}
	r2, _ := m.Reduce(next)
	record(r2)

	r3, _ := m.Reduce(remop.Await(remop.Time{}, discard))
	record(r3)
}

func TestRegistryLifecycleRetire(t *testing.T) {
	m := remop.NewMachine()
	requests, _ := m.Reduce(remop.Await(remop.Time{}, func(kont.Resumed) remop.Comp {
		return remop.Await(remop.Log{Message: "next"}, discard)
	}))
	id := requests[0].ID

	next, found := m.Fire(id, big.NewInt(9))
	if !found {
		t.Fatalf("id %v not registered", id)
	}
	fresh, _ := m.Reduce(next)
	if len(fresh) != 1 || fresh[0].ID.Cmp(id) == 0 {
		t.Fatalf("follow-up did not register a fresh id: %v", fresh)
	}

	// The original id is retired even though the follow-up registered work.
	if _, found := m.Fire(id, big.NewInt(9)); found {
		t.Fatalf("retired id %v still registered", id)
	}
	if m.Pending() != 1 {
		t.Fatalf("got %d pending, want 1", m.Pending())
	}
}

func TestRegistryLifecycleKeep(t *testing.T) {
	m := remop.NewMachine()
	var states []int
	requests, _ := m.Reduce(remop.Suspend(remop.ServerSocketBind{Port: big.NewInt(80)}, 0,
		func(state, reply kont.Resumed) (kont.Resumed, bool, remop.Comp) {
			n := state.(int)
			states = append(states, n)
			if _, ok := reply.(remop.Opt[*big.Int]).GetRight(); !ok {
				return nil, false, remop.Done()
			}
			return n + 1, true, remop.Done()
		}))
	id := requests[0].ID

	for range 3 {
		if _, found := m.Fire(id, remop.Some(big.NewInt(5))); !found {
			t.Fatalf("kept id %v not registered", id)
		}
		if m.Pending() != 1 {
			t.Fatalf("got %d pending, want 1", m.Pending())
		}
	}
	if _, found := m.Fire(id, remop.None[*big.Int]()); !found {
		t.Fatalf("id %v not registered for final firing", id)
	}
	if m.Pending() != 0 {
		t.Fatalf("got %d pending after retirement, want 0", m.Pending())
	}

	want := []int{0, 1, 2, 3}
	if len(states) != len(want) {
		t.Fatalf("fired %d times, want %d", len(states), len(want))
	}
	for i, n := range want {
		if states[i] != n {
			t.Fatalf("firing %d saw state %d, want %d", i, states[i], n)
		}
	}
}

func TestFireUnknownID(t *testing.T) {
	m := remop.NewMachine()
	m.Reduce(remop.Await(remop.Time{}, discard))
	if _, found := m.Fire(big.NewInt(999), big.NewInt(0)); found {
		t.Fatal("unknown id reported as found")
	}
	if m.Pending() != 1 {
		t.Fatalf("registry mutated by unknown id: %d pending", m.Pending())
	}
}
