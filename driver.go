// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package remop

import (
	"log/slog"
)

// Driver ties the machine to a bridge: it reduces computations, sends the
// emitted requests, and fires continuations as reply lines arrive.
type Driver struct {
	bridge *Bridge
	m      *Machine
	log    *slog.Logger
}

// NewDriver returns a driver over b with a fresh machine. A nil logger
// falls back to slog.Default; the logger only carries diagnostics for
// dropped reply lines.
func NewDriver(b *Bridge, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{
		bridge: b,
		m:      NewMachine(),
		log:    logger,
	}
}

// Machine exposes the driver's interpreter state, chiefly for inspecting
// Pending in tests and shutdown hooks.
func (d *Driver) Machine() *Machine {
	return d.m
}

// Run reduces program, sends its requests, then loops: receive one reply
// line, decode it, fire the matching continuation, reduce the resulting
// computation and send its requests. The loop ends when no continuation
// remains and the last reduction completed, or when the worker closes its
// reply stream (forced shutdown, not an error).
//
// Malformed reply lines are logged and dropped; well-formed replies with
// no registered continuation are ignored silently. Run returns an error
// only when sending a request line fails.
func (d *Driver) Run(program Comp) error {
	requests, done := d.m.Reduce(program)
	if err := d.send(requests); err != nil {
		return err
	}
	for !(done && d.m.Pending() == 0) {
		line, ok := d.bridge.NextLine()
		if !ok {
			return nil
		}
		reply, err := DecodeReply(line)
		if err != nil {
			d.log.Warn("remop: dropping reply line",
				"bridge", d.bridge.Serial(), "err", err)
			continue
		}
		next, found := d.m.Fire(reply.ID, reply.Payload)
		if !found {
			continue
		}
		requests, done = d.m.Reduce(next)
		if err := d.send(requests); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) send(requests []Request) error {
	for _, r := range requests {
		if err := d.bridge.SendLine(EncodeRequest(r)); err != nil {
			return err
		}
	}
	return nil
}
