// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package remop

import (
	"math/big"

	"code.hybscloud.com/kont"
)

// Kind identifies a command on the wire. The value is the literal first
// token of every request and reply line for that command.
type Kind string

// The closed command catalog.
const (
	KindLog               Kind = "Log"
	KindFileRead          Kind = "FileRead"
	KindServerSocketBind  Kind = "ServerSocketBind"
	KindClientSocketRead  Kind = "ClientSocketRead"
	KindClientSocketWrite Kind = "ClientSocketWrite"
	KindClientSocketClose Kind = "ClientSocketClose"
	KindTime              Kind = "Time"
)

// Opt is an optional value: Left is absent, Right carries the value.
// Reply payloads that a worker may omit (file content, accepted client
// handles, socket reads) decode to Opt.
type Opt[T any] = kont.Either[struct{}, T]

// Some wraps a present optional value.
func Some[T any](v T) Opt[T] {
	return kont.Right[struct{}](v)
}

// None is the absent optional value.
func None[T any]() Opt[T] {
	return kont.Left[struct{}, T](struct{}{})
}

// Command is the interface satisfied by the seven catalog operations.
// Each command fixes the argument tokens of its request line and the
// payload type of its reply. The catalog is closed: the codec dispatches
// on Kind and rejects anything else.
type Command interface {
	// Kind returns the wire token that names this command.
	Kind() Kind

	// appendArgs appends the request argument tokens after the id token.
	appendArgs(dst []string) []string
}

// Log requests that the worker emit Message on its own output channel.
// Reply payload: bool (write succeeded).
type Log struct {
	kont.Phantom[bool]
	Message string
}

// Kind implements Command.
func (Log) Kind() Kind { return KindLog }

func (o Log) appendArgs(dst []string) []string {
	return append(dst, encodeBytes([]byte(o.Message)))
}

// FileRead requests the content of the named file.
// Reply payload: Opt[[]byte] — absent when the read failed.
type FileRead struct {
	kont.Phantom[Opt[[]byte]]
	Name string
}

// Kind implements Command.
func (FileRead) Kind() Kind { return KindFileRead }

func (o FileRead) appendArgs(dst []string) []string {
	return append(dst, encodeBytes([]byte(o.Name)))
}

// ServerSocketBind requests a listening TCP socket on Port and one
// accepted client from it. The worker may reply repeatedly under the same
// id, once per accepted client, which is why server programs keep this
// continuation registered across firings.
// Reply payload: Opt[*big.Int] — the client handle, absent when the bind
// failed or no further client will arrive.
type ServerSocketBind struct {
	kont.Phantom[Opt[*big.Int]]
	Port *big.Int
}

// Kind implements Command.
func (ServerSocketBind) Kind() Kind { return KindServerSocketBind }

func (o ServerSocketBind) appendArgs(dst []string) []string {
	return append(dst, o.Port.Text(10))
}

// ClientSocketRead requests the next chunk from the client socket Client.
// Reply payload: Opt[[]byte] — absent when the peer closed or the read
// failed.
type ClientSocketRead struct {
	kont.Phantom[Opt[[]byte]]
	Client *big.Int
}

// Kind implements Command.
func (ClientSocketRead) Kind() Kind { return KindClientSocketRead }

func (o ClientSocketRead) appendArgs(dst []string) []string {
	return append(dst, o.Client.Text(10))
}

// ClientSocketWrite requests that Content be written to the client socket
// Client. Reply payload: bool (write succeeded).
type ClientSocketWrite struct {
	kont.Phantom[bool]
	Client  *big.Int
	Content []byte
}

// Kind implements Command.
func (ClientSocketWrite) Kind() Kind { return KindClientSocketWrite }

func (o ClientSocketWrite) appendArgs(dst []string) []string {
	return append(dst, o.Client.Text(10), encodeBytes(o.Content))
}

// ClientSocketClose requests that the client socket Client be closed.
// Reply payload: bool (close succeeded).
type ClientSocketClose struct {
	kont.Phantom[bool]
	Client *big.Int
}

// Kind implements Command.
func (ClientSocketClose) Kind() Kind { return KindClientSocketClose }

func (o ClientSocketClose) appendArgs(dst []string) []string {
	return append(dst, o.Client.Text(10))
}

// Time requests the worker's clock reading.
// Reply payload: *big.Int (timestamp).
type Time struct {
	kont.Phantom[*big.Int]
}

// Kind implements Command.
func (Time) Kind() Kind { return KindTime }

func (Time) appendArgs(dst []string) []string { return dst }
