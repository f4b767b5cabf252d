package undo

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	opts := cbor.CoreDetEncOptions()
	// Task snapshots must come back with the exact creation timestamp.
	opts.Time = cbor.TimeRFC3339Nano
	var err error
	encMode, err = opts.EncMode()
	if err != nil {
		panic("undo: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("undo: CBOR decoder initialization failed: " + err.Error())
	}
}

type envelope struct {
	Type    Type            `cbor:"type"`
	Payload cbor.RawMessage `cbor:"payload"`
}

// Encode serializes a as a {type, payload} CBOR envelope.
func Encode(a Action) ([]byte, error) {
	if a == nil || !a.Type().Valid() {
		return nil, ErrUnknownAction
	}
	payload, err := encMode.Marshal(a)
	if err != nil {
		return nil, err
	}
	return encMode.Marshal(envelope{Type: a.Type(), Payload: payload})
}

// Decode is the inverse of Encode.
func Decode(b []byte) (Action, error) {
	var env envelope
	if err := decMode.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("decode undo envelope: %w", err)
	}
	switch env.Type {
	case TypeAddTodo:
		return decodeAs[AddTodo](env.Payload)
	case TypeDeleteTodo:
		return decodeAs[DeleteTodo](env.Payload)
	case TypeToggleTodo:
		return decodeAs[ToggleTodo](env.Payload)
	case TypeEditTodo:
		return decodeAs[EditTodo](env.Payload)
	case TypeAddList:
		return decodeAs[AddList](env.Payload)
	case TypeDeleteList:
		return decodeAs[DeleteList](env.Payload)
	case TypeEditList:
		return decodeAs[EditList](env.Payload)
	case TypeMoveTodos:
		return decodeAs[MoveTodos](env.Payload)
	case TypeReorderTodos:
		return decodeAs[ReorderTodos](env.Payload)
	case TypeUpdateTodoOrder:
		return decodeAs[UpdateTodoOrder](env.Payload)
	case TypeBatchDeleteTodos:
		return decodeAs[BatchDeleteTodos](env.Payload)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, string(env.Type))
	}
}

func decodeAs[T Action](raw cbor.RawMessage) (Action, error) {
	var v T
	if err := decMode.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode undo payload: %w", err)
	}
	return v, nil
}
