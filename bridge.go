// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package remop

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/lfq"
)

// lineQueueCapacity bounds the reply queue between the pipe-reader
// goroutine and the driver loop. 64 absorbs reply bursts from a worker
// with many outstanding operations before the reader has to back off.
const lineQueueCapacity = 64

// maxLineBytes caps a single reply line. Base64 payloads of file and
// socket content dominate line length; 16 MiB covers ~12 MiB of raw
// content per message.
const maxLineBytes = 16 << 20

// Bridge owns the byte pipe to one external worker process that performs
// the real OS work. Lines are delivered to the worker in send order,
// newline-terminated and flushed per line. A reader goroutine is the
// single producer of the reply queue; the driver loop is its single
// consumer.
type Bridge struct {
	w      *bufio.Writer
	wc     io.Closer
	cmd    *exec.Cmd
	lines  lfq.SPSC[string]
	eof    atomix.Uint32
	serial Serial
}

// Start spawns the worker executable and connects its stdin/stdout to the
// bridge. The worker's stderr passes through to this process.
func Start(path string, args ...string) (*Bridge, error) {
	cmd := exec.Command(path, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("remop: worker stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("remop: worker stdout: %w", err)
	}
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("remop: start worker: %w", err)
	}
	b := newBridge(stdout, stdin)
	b.cmd = cmd
	return b, nil
}

// Pipe connects a bridge over an arbitrary reader/writer pair: r carries
// the worker's reply lines, w receives request lines. This is the
// in-process form used by tests and embedded workers; each Pipe call is an
// independent instance, there is no process-wide worker.
func Pipe(r io.Reader, w io.Writer) *Bridge {
	return newBridge(r, w)
}

func newBridge(r io.Reader, w io.Writer) *Bridge {
	b := &Bridge{
		w:      bufio.NewWriter(w),
		serial: nextSerial(),
	}
	if wc, ok := w.(io.Closer); ok {
		b.wc = wc
	}
	b.lines.Init(lineQueueCapacity)
	go b.readLines(r)
	return b
}

// Serial returns the serial number assigned to this bridge.
func (b *Bridge) Serial() Serial {
	return b.serial
}

// SendLine writes one request line to the worker, newline-terminated and
// flushed immediately so the worker never starves on a buffered request.
func (b *Bridge) SendLine(text string) error {
	if _, err := b.w.WriteString(text); err != nil {
		return err
	}
	if err := b.w.WriteByte('\n'); err != nil {
		return err
	}
	return b.w.Flush()
}

// TryLine dequeues the next reply line without blocking.
// Returns iox.ErrWouldBlock when no line is available yet, and io.EOF
// once the worker has closed its output and the queue is drained.
func (b *Bridge) TryLine() (string, error) {
	line, err := b.lines.Dequeue()
	if err == nil {
		return line, nil
	}
	if b.eof.Load() != 0 {
		// The reader goroutine sets eof only after its final enqueue;
		// re-check the queue to drain lines that raced the flag.
		if line, err := b.lines.Dequeue(); err == nil {
			return line, nil
		}
		return "", io.EOF
	}
	return "", err
}

// NextLine blocks until the next reply line arrives, waiting past the
// iox.ErrWouldBlock boundary with adaptive backoff. ok is false once the
// reply stream has ended.
func (b *Bridge) NextLine() (line string, ok bool) {
	var bo iox.Backoff
	for {
		line, err := b.TryLine()
		if err == nil {
			return line, true
		}
		if err == io.EOF {
			return "", false
		}
		bo.Wait()
	}
}

// Close closes the worker's request pipe and, for process-backed bridges,
// waits for the worker to exit.
func (b *Bridge) Close() error {
	var err error
	if b.wc != nil {
		err = b.wc.Close()
	}
	if b.cmd != nil {
		if werr := b.cmd.Wait(); err == nil {
			err = werr
		}
	}
	return err
}

// readLines is the reply-queue producer: it scans the worker's output and
// enqueues each line, backing off while the driver lags, then raises the
// eof flag when the worker closes its output or exits.
func (b *Bridge) readLines(r io.Reader) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxLineBytes)
	var bo iox.Backoff
	for sc.Scan() {
		line := sc.Text()
		for b.lines.Enqueue(&line) != nil {
			bo.Wait()
		}
		bo.Reset()
	}
	b.eof.Store(1)
}
