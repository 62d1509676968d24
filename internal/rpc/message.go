package rpc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync/atomic"
)

// Message is the request/response envelope exchanged with the broker.
type Message struct {
	ID     int64  `json:"id,omitempty"`
	Method string `json:"method,omitempty"`
	Path   string `json:"path,omitempty"`
	Params *Value `json:"params,omitempty"`
	Result *Value `json:"result,omitempty"`
	Error  *Error `json:"error,omitempty"`
}

// Error is the failure payload of a response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

var requestID atomic.Int64

// NewRequest builds a request addressed to path (empty for the broker itself)
// with a process-unique id. params may be nil for parameterless methods.
func NewRequest(path, method string, params *Value) *Message {
	return &Message{
		ID:     requestID.Add(1),
		Method: method,
		Path:   path,
		Params: params,
	}
}

// IsSuccess reports whether the message is a non-error response.
func (m *Message) IsSuccess() bool {
	return m != nil && m.Error == nil
}

// ResultValue returns the response result, or a nil Value when absent.
func (m *Message) ResultValue() Value {
	if m == nil || m.Result == nil {
		return Value{}
	}
	return *m.Result
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("rpc error %d", e.Code)
	}
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Compact renders the error payload in its compact textual form for
// diagnostics, preserving the server's message verbatim.
func (e *Error) Compact() string {
	data, err := marshalNoEscape(e)
	if err != nil {
		return e.Error()
	}
	return string(data)
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSpace(buf.Bytes()), nil
}
