// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package remop

import (
	"encoding/base64"
	"fmt"
	"math/big"
	"strings"

	"code.hybscloud.com/kont"
)

// Wire codec. One message per line, single-space separated tokens:
//
//	<command> <id> <args...>
//
// Numbers are decimal arbitrary-precision integers, booleans are literal
// true/false, opaque payloads are base64 tokens, and an absent optional
// argument is the empty token. Requests carry an operation's inputs,
// replies its outputs; both directions are covered so that tests and
// Go-side workers share one codec.
//
// The empty token doubles as base64 of the empty payload, so the wire
// cannot distinguish an absent optional payload from a present empty one.
// Optional fields decode as absent; every consumer in the catalog treats
// the two identically.

// Reply is one decoded reply line: the echoed id and the kind-specific
// payload (bool, Opt[[]byte], Opt[*big.Int] or *big.Int per the catalog).
type Reply struct {
	ID      *big.Int
	Kind    Kind
	Payload kont.Resumed
}

// EncodeRequest renders r as one wire line without the trailing newline.
func EncodeRequest(r Request) string {
	tokens := make([]string, 0, 4)
	tokens = append(tokens, string(r.Op.Kind()), r.ID.Text(10))
	tokens = r.Op.appendArgs(tokens)
	return strings.Join(tokens, " ")
}

// DecodeRequest parses one request line. The worker side of the protocol:
// it reconstructs the operation the driver emitted.
func DecodeRequest(line string) (Request, error) {
	kind, id, args, err := splitLine(line)
	if err != nil {
		return Request{}, err
	}
	op, err := decodeRequestArgs(kind, args)
	if err != nil {
		return Request{}, err
	}
	return Request{ID: id, Op: op}, nil
}

// EncodeReply renders r as one wire line without the trailing newline.
// Panics if the payload type does not match the kind; pairing payloads to
// kinds is the caller's contract, like an unhandled effect.
func EncodeReply(r Reply) string {
	tokens := []string{string(r.Kind), r.ID.Text(10), encodeReplyPayload(r.Kind, r.Payload)}
	return strings.Join(tokens, " ")
}

// DecodeReply parses one reply line into the id and the kind-specific
// payload. Every malformed input maps to one of the sentinel decode
// errors; the registry of the caller is never involved.
func DecodeReply(line string) (Reply, error) {
	kind, id, args, err := splitLine(line)
	if err != nil {
		return Reply{}, err
	}
	payload, err := decodeReplyPayload(kind, args)
	if err != nil {
		return Reply{}, err
	}
	return Reply{ID: id, Kind: kind, Payload: payload}, nil
}

// splitLine tokenizes a line and validates the command and id fields
// shared by both directions.
func splitLine(line string) (Kind, *big.Int, []string, error) {
	tokens := strings.Split(line, " ")
	kind := Kind(tokens[0])
	switch kind {
	case KindLog, KindFileRead, KindServerSocketBind, KindClientSocketRead,
		KindClientSocketWrite, KindClientSocketClose, KindTime:
	default:
		return "", nil, nil, fmt.Errorf("%w: %q", ErrUnknownCommand, tokens[0])
	}
	if len(tokens) < 2 {
		return "", nil, nil, fmt.Errorf("%w: %s: missing id", ErrWrongArity, kind)
	}
	id, err := parseInt(tokens[1])
	if err != nil || id.Sign() < 0 {
		return "", nil, nil, fmt.Errorf("%w: %q", ErrInvalidID, tokens[1])
	}
	return kind, id, tokens[2:], nil
}

func decodeRequestArgs(kind Kind, args []string) (Command, error) {
	switch kind {
	case KindLog:
		if len(args) != 1 {
			return nil, arityErr(kind, 1, len(args))
		}
		msg, err := decodeBytes(args[0])
		if err != nil {
			return nil, err
		}
		return Log{Message: string(msg)}, nil
	case KindFileRead:
		if len(args) != 1 {
			return nil, arityErr(kind, 1, len(args))
		}
		name, err := decodeBytes(args[0])
		if err != nil {
			return nil, err
		}
		return FileRead{Name: string(name)}, nil
	case KindServerSocketBind:
		if len(args) != 1 {
			return nil, arityErr(kind, 1, len(args))
		}
		port, err := parseInt(args[0])
		if err != nil {
			return nil, err
		}
		return ServerSocketBind{Port: port}, nil
	case KindClientSocketRead:
		if len(args) != 1 {
			return nil, arityErr(kind, 1, len(args))
		}
		client, err := parseInt(args[0])
		if err != nil {
			return nil, err
		}
		return ClientSocketRead{Client: client}, nil
	case KindClientSocketWrite:
		if len(args) != 2 {
			return nil, arityErr(kind, 2, len(args))
		}
		client, err := parseInt(args[0])
		if err != nil {
			return nil, err
		}
		content, err := decodeBytes(args[1])
		if err != nil {
			return nil, err
		}
		return ClientSocketWrite{Client: client, Content: content}, nil
	case KindClientSocketClose:
		if len(args) != 1 {
			return nil, arityErr(kind, 1, len(args))
		}
		client, err := parseInt(args[0])
		if err != nil {
			return nil, err
		}
		return ClientSocketClose{Client: client}, nil
	default: // KindTime
		if len(args) != 0 {
			return nil, arityErr(kind, 0, len(args))
		}
		return Time{}, nil
	}
}

func decodeReplyPayload(kind Kind, args []string) (kont.Resumed, error) {
	switch kind {
	case KindLog, KindClientSocketWrite, KindClientSocketClose:
		if len(args) != 1 {
			return nil, arityErr(kind, 1, len(args))
		}
		return parseBool(args[0])
	case KindFileRead, KindClientSocketRead:
		if len(args) != 1 {
			return nil, arityErr(kind, 1, len(args))
		}
		if args[0] == "" {
			return None[[]byte](), nil
		}
		content, err := decodeBytes(args[0])
		if err != nil {
			return nil, err
		}
		return Some(content), nil
	case KindServerSocketBind:
		if len(args) != 1 {
			return nil, arityErr(kind, 1, len(args))
		}
		if args[0] == "" {
			return None[*big.Int](), nil
		}
		client, err := parseInt(args[0])
		if err != nil {
			return nil, err
		}
		return Some(client), nil
	default: // KindTime
		if len(args) != 1 {
			return nil, arityErr(kind, 1, len(args))
		}
		return parseInt(args[0])
	}
}

func encodeReplyPayload(kind Kind, payload kont.Resumed) string {
	switch kind {
	case KindLog, KindClientSocketWrite, KindClientSocketClose:
		if payload.(bool) {
			return "true"
		}
		return "false"
	case KindFileRead, KindClientSocketRead:
		content, ok := payload.(Opt[[]byte]).GetRight()
		if !ok {
			return ""
		}
		return encodeBytes(content)
	case KindServerSocketBind:
		client, ok := payload.(Opt[*big.Int]).GetRight()
		if !ok {
			return ""
		}
		return client.Text(10)
	default: // KindTime
		return payload.(*big.Int).Text(10)
	}
}

func arityErr(kind Kind, want, got int) error {
	return fmt.Errorf("%w: %s: want %d, got %d", ErrWrongArity, kind, want, got)
}

func parseBool(token string) (bool, error) {
	switch token {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("%w: %q", ErrInvalidBool, token)
}

func parseInt(token string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(token, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidInt, token)
	}
	return n, nil
}

func encodeBytes(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

func decodeBytes(token string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPayload, token)
	}
	return b, nil
}
