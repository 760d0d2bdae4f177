// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package remop_test

import (
	"bufio"
	"io"
	"testing"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/remop"
)

// testWorker is the far side of a Pipe bridge: it reads request lines the
// driver sends and writes reply lines back, playing the external worker.
// Scripts run on their own goroutine, so they report failures with Errorf.
type testWorker struct {
	t        *testing.T
	requests *bufio.Scanner
	replies  io.WriteCloser
}

// newTestWorker wires a bridge and its worker over in-memory pipes.
func newTestWorker(t *testing.T) (*remop.Bridge, *testWorker) {
	t.Helper()
	reqR, reqW := io.Pipe()
	repR, repW := io.Pipe()
	b := remop.Pipe(repR, reqW)
	w := &testWorker{
		t:        t,
		requests: bufio.NewScanner(reqR),
		replies:  repW,
	}
	return b, w
}

// next reads and decodes the next request line.
func (w *testWorker) next() remop.Request {
	if !w.requests.Scan() {
		w.t.Errorf("worker: request stream ended early")
		return remop.Request{}
	}
	req, err := remop.DecodeRequest(w.requests.Text())
	if err != nil {
		w.t.Errorf("worker: decode request %q: %v", w.requests.Text(), err)
		return remop.Request{}
	}
	return req
}

// reply encodes and sends one reply line.
func (w *testWorker) reply(r remop.Reply) {
	w.send(remop.EncodeReply(r))
}

// send writes one raw line, malformed lines included.
func (w *testWorker) send(line string) {
	if _, err := io.WriteString(w.replies, line+"\n"); err != nil {
		w.t.Errorf("worker: send %q: %v", line, err)
	}
}

// close ends the reply stream, signaling worker exit to the driver.
func (w *testWorker) close() {
	if err := w.replies.Close(); err != nil {
		w.t.Errorf("worker: close replies: %v", err)
	}
}

// drive reduces c on m and fires every emitted request with the payload
// replyFor chooses, breadth-first in emission order, until no continuation
// remains. It returns the requests in firing order. Used by interpreter
// and Cont-world tests that need no bridge.
func drive(t *testing.T, m *remop.Machine, c remop.Comp, replyFor func(remop.Request) kont.Resumed) []remop.Request {
	t.Helper()
	queue, _ := m.Reduce(c)
	var fired []remop.Request
	for len(queue) > 0 {
		req := queue[0]
		queue = queue[1:]
		fired = append(fired, req)
		next, found := m.Fire(req.ID, replyFor(req))
		if !found {
			t.Fatalf("drive: id %v not registered", req.ID)
		}
		more, _ := m.Reduce(next)
		queue = append(queue, more...)
	}
	if m.Pending() != 0 {
		t.Fatalf("drive: %d continuations still pending", m.Pending())
	}
	return fired
}
