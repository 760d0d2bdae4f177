// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package remop

import (
	"code.hybscloud.com/kont"
)

// Do lowers a Cont-world effect program to a computation tree. Each
// operation the program performs becomes one [Await] node whose reply
// resumes the underlying kont suspension, so the program advances exactly
// one operation per worker reply.
//
// Every performed operation must be a catalog [Command]; anything else is
// an unhandled effect. Performs are one-shot: a program that needs
// repeated replies under one id (server accept loops) uses [Suspend]
// directly and forks per-client work.
//
// The final result of the program is carried into [Return] and discarded
// by the driver.
func Do[A any](m kont.Eff[A]) Comp {
	return lower(kont.Step(m))
}

// lower converts one stepping state into a tree node. The suspension is
// resumed lazily inside the Await handler, when the reply arrives.
func lower[A any](v A, susp *kont.Suspension[A]) Comp {
	if susp == nil {
		return Return(v)
	}
	op, ok := susp.Op().(Command)
	if !ok {
		panic("remop: unhandled effect in Do")
	}
	return Await(op, func(reply kont.Resumed) Comp {
		return lower(susp.Resume(reply))
	})
}

// Loop runs a recursive effect program.
// step returns Left(nextState) to continue or Right(result) to finish.
func Loop[S, A any](initial S, step func(S) kont.Eff[kont.Either[S, A]]) kont.Eff[A] {
	return kont.Bind(step(initial), func(e kont.Either[S, A]) kont.Eff[A] {
		if left, ok := e.GetLeft(); ok {
			return Loop(left, step)
		}
		right, _ := e.GetRight()
		return kont.Pure(right)
	})
}
