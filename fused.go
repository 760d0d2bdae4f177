// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package remop

import (
	"math/big"

	"code.hybscloud.com/kont"
)

// LogThen logs message and continues with next, discarding the success
// boolean. Fuses Perform(Log{...}) + Then.
func LogThen[B any](message string, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Log{Message: message}), next)
}

// ReadFileBind reads the named file and passes the optional content to f.
// Fuses Perform(FileRead{...}) + Bind.
func ReadFileBind[B any](name string, f func(Opt[[]byte]) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(FileRead{Name: name}), f)
}

// AcceptBind binds a server socket on port and passes the optional client
// handle of one accepted client to f.
// Fuses Perform(ServerSocketBind{...}) + Bind.
func AcceptBind[B any](port *big.Int, f func(Opt[*big.Int]) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(ServerSocketBind{Port: port}), f)
}

// SockReadBind reads from the client socket and passes the optional
// content to f. Fuses Perform(ClientSocketRead{...}) + Bind.
func SockReadBind[B any](client *big.Int, f func(Opt[[]byte]) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(ClientSocketRead{Client: client}), f)
}

// SockWriteThen writes content to the client socket and continues with
// next, discarding the success boolean.
// Fuses Perform(ClientSocketWrite{...}) + Then.
func SockWriteThen[B any](client *big.Int, content []byte, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(ClientSocketWrite{Client: client, Content: content}), next)
}

// SockCloseThen closes the client socket and continues with next,
// discarding the success boolean.
// Fuses Perform(ClientSocketClose{...}) + Then.
func SockCloseThen[B any](client *big.Int, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(ClientSocketClose{Client: client}), next)
}

// TimeBind reads the worker's clock and passes the timestamp to f.
// Fuses Perform(Time{}) + Bind.
func TimeBind[B any](f func(*big.Int) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Time{}), f)
}
