// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package remop describes effectful interaction (logging, file reads, TCP
// accept/read/write/close, clock reads) as pure computation trees that a
// driver reduces and delegates, one operation at a time, to an external
// worker process over a newline-delimited text pipe.
//
// The driver never touches the operating system itself. Reducing a tree
// emits one request line per pending operation; the worker performs the
// real I/O and writes one reply line per request, matched back to its
// suspended continuation by a numeric identifier.
//
// # Architecture
//
//   - Catalog: Seven operation kinds ([Log], [FileRead], [ServerSocketBind],
//     [ClientSocketRead], [ClientSocketWrite], [ClientSocketClose], [Time]),
//     defined as F-bounded effect operations on [code.hybscloud.com/kont].
//   - Algebra: [Comp] trees with three constructors — [Return], [Suspend],
//     [Fork]. Fork emits both branches' requests before either continuation
//     can fire; reply arrival order alone decides firing order.
//   - Interpreter: [Machine.Reduce] walks a tree left to right, allocates
//     arbitrary-precision ids, registers continuations, and collects the
//     emitted [Request] sequence.
//   - Transport: [Bridge] owns the worker pipe. A reader goroutine feeds a
//     bounded SPSC queue from [code.hybscloud.com/lfq]; consumers wait past
//     [code.hybscloud.com/iox.ErrWouldBlock] with iox.Backoff.
//   - Driver: [Driver.Run] alternates reduce/send with receive/decode/fire
//     until no continuation remains or the worker closes its pipe.
//
// # Wire Format
//
// One message per line, single-space separated tokens:
//
//	<command> <id> <args...>
//
// Numbers are decimal arbitrary-precision integers, booleans are literal
// true/false, opaque payloads are base64 tokens, and an absent optional
// argument is the empty token. [EncodeRequest], [DecodeRequest],
// [EncodeReply] and [DecodeReply] cover both directions, so a Go-side
// worker can speak the protocol with the same codec.
//
// # Continuations
//
// A [Suspend] node registers a continuation (stored state + [HandlerFunc])
// under a fresh id. Each matching reply fires the handler once; the handler
// either keeps the id registered with updated state (an ongoing conversation,
// e.g. repeatedly accepting clients on one server socket) or retires it. The
// next computation it returns is reduced immediately and may register
// further ids.
//
// # Cont World
//
// Programs may also be written monadically with kont and lowered to trees:
//
//   - [Do]: kont.Eff[A] → [Comp] via the kont stepping boundary
//   - Fused constructors: [LogThen], [ReadFileBind], [AcceptBind],
//     [SockReadBind], [SockWriteThen], [SockCloseThen], [TimeBind]
//   - [Loop]: trampoline recursion for iterative programs
//
// Cont-world performs are one-shot: each operation awaits exactly one
// reply. Repeated-reply continuations are expressed with [Suspend] directly.
//
// # Error Handling
//
// Malformed reply lines never crash the driver: they are logged and
// dropped ([ErrUnknownCommand], [ErrInvalidID], [ErrWrongArity],
// [ErrInvalidBool], [ErrInvalidInt], [ErrInvalidPayload]). Replies whose id
// matches no registered continuation are ignored silently. A worker that
// closes its output ends the run without error.
//
// # Example
//
//	program := remop.Do(remop.ReadFileBind("a.txt", func(content remop.Opt[[]byte]) kont.Eff[struct{}] {
//		text, ok := content.GetRight()
//		if !ok {
//			return remop.LogThen("a.txt missing", kont.Pure(struct{}{}))
//		}
//		return remop.LogThen(string(text), kont.Pure(struct{}{}))
//	}))
//
//	bridge, err := remop.Start("./worker")
//	if err != nil {
//		// ...
//	}
//	defer bridge.Close()
//	err = remop.NewDriver(bridge, nil).Run(program)
package remop
