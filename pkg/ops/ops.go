// Package ops applies JSON-described edits to a strbuf.Buffer. It is the
// common language of the eval command and the HTTP API.
package ops

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"

	"clz-go/pkg/json"
	"clz-go/pkg/strbuf"
)

var (
	ErrUnknownOp = errors.New("ops: unknown operation")
	ErrBadByte   = errors.New("ops: byte argument must be exactly one byte")
	ErrBadInt    = errors.New("ops: invalid decimal integer")
)

// Op names one buffer operation. Which fields are read depends on Name.
type Op struct {
	Name     string `json:"op"`
	S        string `json:"s,omitempty"`
	T        string `json:"t,omitempty"`
	C        string `json:"c,omitempty"`
	V        string `json:"v,omitempty"`
	Int      string `json:"int,omitempty"`
	Index    int    `json:"index,omitempty"`
	End      *int   `json:"end,omitempty"` // nil means Len()
	N        int    `json:"n,omitempty"`
	Preserve bool   `json:"preserve,omitempty"`
}

func (op Op) end(b *strbuf.Buffer) int {
	if op.End == nil {
		return b.Len()
	}
	return *op.End
}

// Result reports the outcome of one Op and the buffer state after it.
type Result struct {
	Op       string `json:"op"`
	OK       bool   `json:"ok"`
	Index    *int   `json:"index,omitempty"`
	Count    *int   `json:"count,omitempty"`
	Changed  *bool  `json:"changed,omitempty"`
	Content  string `json:"content"`
	Length   int    `json:"length"`
	Capacity int    `json:"capacity"`
	Error    string `json:"error,omitempty"`
}

// Parse decodes a single op object or an array of them.
func Parse(data []byte) ([]Op, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var list []Op
		if err := json.Decode(data, &list); err != nil {
			return nil, err
		}
		return list, nil
	}
	var op Op
	if err := json.Decode(data, &op); err != nil {
		return nil, err
	}
	return []Op{op}, nil
}

// ApplyAll runs ops in order and stops at the first failure. The buffer is
// left valid either way; the results cover every op that ran.
func ApplyAll(b *strbuf.Buffer, list []Op) ([]Result, error) {
	results := make([]Result, 0, len(list))
	for i, op := range list {
		res, err := Apply(b, op)
		results = append(results, res)
		if err != nil {
			return results, fmt.Errorf("op %d (%s): %w", i, op.Name, err)
		}
	}
	return results, nil
}

// Apply runs a single op against b.
func Apply(b *strbuf.Buffer, op Op) (Result, error) {
	res := Result{Op: op.Name}
	err := dispatch(b, op, &res)
	if err != nil {
		res.Error = err.Error()
	}
	res.OK = err == nil
	res.Content = b.String()
	res.Length = b.Len()
	res.Capacity = b.Cap()
	return res, err
}

func dispatch(b *strbuf.Buffer, op Op, res *Result) error {
	switch op.Name {
	case "append":
		return b.AppendString(op.S)
	case "append_n":
		return b.AppendStringN(op.S, op.N)
	case "append_char":
		return withByte(op.C, b.AppendByte)
	case "append_int":
		x, err := parseInt(op.Int)
		if err != nil {
			return err
		}
		return b.AppendBigInt(x)
	case "insert":
		return b.InsertString(op.Index, op.S)
	case "insert_n":
		return b.InsertStringN(op.Index, op.S, op.N)
	case "insert_char":
		return withByte(op.C, func(c byte) error { return b.InsertByte(op.Index, c) })
	case "insert_int":
		x, err := parseInt(op.Int)
		if err != nil {
			return err
		}
		return b.InsertBigInt(op.Index, x)
	case "find":
		return index(res)(b.Index(op.S))
	case "find_last":
		return index(res)(b.LastIndex(op.S))
	case "find_char":
		c, err := byteArg(op.C)
		if err != nil {
			return err
		}
		return index(res)(b.IndexByte(c))
	case "find_last_char":
		c, err := byteArg(op.C)
		if err != nil {
			return err
		}
		return index(res)(b.LastIndexByte(c))
	case "replace":
		return index(res)(b.Replace(op.S, op.T))
	case "replace_all":
		n, err := b.ReplaceAll(op.S, op.T)
		res.Count = &n
		return err
	case "replace_char", "replace_all_char":
		c, err := byteArg(op.C)
		if err != nil {
			return err
		}
		v, err := byteArg(op.V)
		if err != nil {
			return err
		}
		if op.Name == "replace_char" {
			return index(res)(b.ReplaceByte(c, v))
		}
		n := b.ReplaceAllByte(c, v)
		res.Count = &n
		return nil
	case "trim":
		return b.TrimRange(op.Index, op.end(b))
	case "trim_length":
		return b.TrimLength(op.N)
	case "trim_left", "trim_right":
		c := byte(' ')
		if op.C != "" {
			var err error
			if c, err = byteArg(op.C); err != nil {
				return err
			}
		}
		if op.Name == "trim_left" {
			b.TrimLeftByte(c)
		} else {
			b.TrimRightByte(c)
		}
		return nil
	case "pad_left":
		return withByte(op.C, func(c byte) error { return b.PadLeft(c, op.N) })
	case "pad_right":
		return withByte(op.C, func(c byte) error { return b.PadRight(c, op.N) })
	case "remove_at":
		return b.RemoveAt(op.Index)
	case "remove_range":
		return b.RemoveRange(op.Index, op.end(b))
	case "lower":
		b.ToLower()
	case "upper":
		b.ToUpper()
	case "reverse":
		b.Reverse()
	case "resize":
		changed, err := b.Resize(op.N)
		res.Changed = &changed
		return err
	case "compress":
		return b.Compress()
	case "reset":
		b.Reset()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, op.Name)
	}
	return nil
}

func index(res *Result) func(int, error) error {
	return func(i int, err error) error {
		res.Index = &i
		return err
	}
}

func withByte(s string, fn func(byte) error) error {
	c, err := byteArg(s)
	if err != nil {
		return err
	}
	return fn(c)
}

func byteArg(s string) (byte, error) {
	if len(s) != 1 {
		return 0, fmt.Errorf("%w: %q", ErrBadByte, s)
	}
	return s[0], nil
}

func parseInt(s string) (*big.Int, error) {
	x, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBadInt, s)
	}
	return x, nil
}
