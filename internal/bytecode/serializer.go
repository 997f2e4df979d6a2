package bytecode

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/yasniy-lang/yasniy/internal/errors"
)

// ybcMagic is the 8-byte magic prefix of a `.ybc` container.
const ybcMagic = "YASNYBC1"

// wireInstruction is one instruction as encoded in the JSON payload:
// `{op: string, args: [literal]}`.
type wireInstruction struct {
	Op   string `json:"op"`
	Args []any  `json:"args,omitempty"`
}

type wireFunction struct {
	Name         string            `json:"name"`
	Params       []string          `json:"params"`
	LocalCount   int               `json:"local_count"`
	Instructions []wireInstruction `json:"instructions"`
}

type wirePayload struct {
	Functions   map[string]wireFunction `json:"functions"`
	Entry       wireFunction            `json:"entry"`
	GlobalCount int                     `json:"global_count"`
}

func toWireFunction(fn *FunctionBC) wireFunction {
	wf := wireFunction{Name: fn.Name, Params: fn.Params, LocalCount: fn.LocalCount}
	wf.Instructions = make([]wireInstruction, len(fn.Instructions))
	for i, ins := range fn.Instructions {
		wf.Instructions[i] = wireInstruction{Op: ins.Op.String(), Args: ins.Args}
	}
	if wf.Params == nil {
		wf.Params = []string{}
	}
	return wf
}

func fromWireFunction(wf wireFunction) (*FunctionBC, error) {
	fn := &FunctionBC{Name: wf.Name, Params: wf.Params, LocalCount: wf.LocalCount}
	fn.Instructions = make([]Instruction, len(wf.Instructions))
	for i, wi := range wf.Instructions {
		op, ok := OpByName(wi.Op)
		if !ok {
			return nil, fmt.Errorf("unknown opcode %q in function %q", wi.Op, wf.Name)
		}
		fn.Instructions[i] = Instruction{Op: op, Args: normalizeArgs(op, wi.Args)}
	}
	return fn, nil
}

// normalizeArgs converts JSON-decoded float64 operands back to int64
// for opcodes whose operands are always integral (slot indices, jump
// targets, argument counts), so a decoded ProgramBC's Args have the
// same Go types the compiler produced.
func normalizeArgs(op Op, args []any) []any {
	intPositions := map[Op][]int{
		OpLoad: {0}, OpStore: {0}, OpGLoad: {0}, OpGStore: {0},
		OpJmp: {0}, OpJmpFalse: {0},
		OpMakeList: {0}, OpMakeDict: {0},
	}
	if op == OpCall {
		intPositions[OpCall] = []int{1}
	}
	positions := intPositions[op]
	out := make([]any, len(args))
	copy(out, args)
	for _, p := range positions {
		if p < len(out) {
			if f, ok := out[p].(float64); ok {
				out[p] = int64(f)
			}
		}
	}
	return out
}

// Encode serializes p into the `.ybc` wire format.
func Encode(p *ProgramBC) ([]byte, error) {
	payload := wirePayload{
		Functions:   map[string]wireFunction{},
		Entry:       toWireFunction(p.Entry),
		GlobalCount: p.GlobalCount,
	}
	for name, fn := range p.Functions {
		payload.Functions[name] = toWireFunction(fn)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.FormatError("", "failed to encode bytecode payload", err)
	}
	var buf bytes.Buffer
	buf.WriteString(ybcMagic)
	var length [4]byte
	binary.LittleEndian.PutUint32(length[:], uint32(len(body)))
	buf.Write(length[:])
	buf.Write(body)
	return buf.Bytes(), nil
}

// Decode parses a `.ybc` blob, verifying the magic and length exactly.
func Decode(data []byte) (*ProgramBC, error) {
	if len(data) < len(ybcMagic)+4 {
		return nil, errors.FormatError("", "truncated .ybc header", nil)
	}
	if string(data[:len(ybcMagic)]) != ybcMagic {
		return nil, errors.FormatError("", fmt.Sprintf("bad .ybc magic %q", data[:len(ybcMagic)]), nil)
	}
	offset := len(ybcMagic)
	length := binary.LittleEndian.Uint32(data[offset : offset+4])
	offset += 4
	if uint32(len(data)-offset) != length {
		return nil, errors.FormatError("", fmt.Sprintf(".ybc length mismatch: header says %d, have %d", length, len(data)-offset), nil)
	}
	body := data[offset : offset+int(length)]

	var payload wirePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errors.FormatError("", "malformed .ybc JSON payload", err)
	}
	entry, err := fromWireFunction(payload.Entry)
	if err != nil {
		return nil, errors.FormatError("", err.Error(), err)
	}
	out := &ProgramBC{Functions: map[string]*FunctionBC{}, Entry: entry, GlobalCount: payload.GlobalCount}
	for name, wf := range payload.Functions {
		fn, err := fromWireFunction(wf)
		if err != nil {
			return nil, errors.FormatError("", err.Error(), err)
		}
		out.Functions[name] = fn
	}
	if err := out.Validate(); err != nil {
		return nil, errors.FormatError("", "decoded .ybc failed bytecode validation: "+err.Error(), err)
	}
	return out, nil
}
