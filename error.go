// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package remop

import "errors"

// Decode failures. All are non-fatal: the driver logs the failure, drops
// the line and leaves the registry untouched. Match with errors.Is.
var (
	// ErrUnknownCommand reports a first token outside the command catalog.
	ErrUnknownCommand = errors.New("remop: unknown command")

	// ErrInvalidID reports a second token that does not parse as a
	// non-negative decimal integer.
	ErrInvalidID = errors.New("remop: invalid id")

	// ErrWrongArity reports a token count that does not match the command.
	ErrWrongArity = errors.New("remop: wrong argument count")

	// ErrInvalidBool reports a boolean token other than true or false.
	ErrInvalidBool = errors.New("remop: invalid boolean")

	// ErrInvalidInt reports a numeric token that does not parse as a
	// decimal integer.
	ErrInvalidInt = errors.New("remop: invalid integer")

	// ErrInvalidPayload reports a payload token that is not valid base64.
	ErrInvalidPayload = errors.New("remop: invalid payload encoding")
)
