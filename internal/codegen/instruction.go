// Package codegen lowers a type-checked AST into the target VM's textual
// assembly: one instruction per line, lowercase mnemonic, operands
// space-separated.
package codegen

import "fmt"

// Op identifies an instruction's mnemonic; operands are carried separately
// on Instruction since their shape varies (an int immediate, a PC-relative
// offset, a memory location, a function label...).
type Op int

const (
	OpPushInt Op = iota
	OpPushFloat
	OpPushOffsetFromPC
	OpPushLabel
	OpPushFromStack
	OpPushIndexed
	OpPushArray
	OpStore
	OpStoreArray
	OpNoOp
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpRandInt
	OpAnd
	OpOr
	OpNot
	OpLessThan
	OpGreaterThan
	OpLessThanOrEqual
	OpGreaterThanOrEqual
	OpEqual
	OpJump
	OpJumpIfNotZero
	OpCall
	OpReturn
	OpHalt
	OpNewFrame
	OpPopFrame
	OpAlloc
	OpDelay
	OpWrite
	OpWriteBox
	OpClear
	OpWidth
	OpHeight
	OpRead
	OpPrint
	OpPrintArray
	OpFunctionLabel
)

// Instruction is one line of the emitted assembly. Exactly which of the
// operand fields is meaningful depends on Op; the zero value of the unused
// ones is simply ignored by String.
type Instruction struct {
	Op    Op
	Int   int     // PushInt, PushOffsetFromPC
	Float float64 // PushFloat
	Str   string  // PushLabel / FunctionLabel: the function name
	Frame int     // PushFromStack/PushIndexed/PushArray: frame index
	Level int     // PushFromStack/PushIndexed/PushArray: stack level
}

func PushInt(v int) Instruction          { return Instruction{Op: OpPushInt, Int: v} }
func PushFloat(v float64) Instruction    { return Instruction{Op: OpPushFloat, Float: v} }
func PushOffsetFromPC(k int) Instruction { return Instruction{Op: OpPushOffsetFromPC, Int: k} }
func PushLabel(name string) Instruction  { return Instruction{Op: OpPushLabel, Str: name} }

// PushFromStack loads a scalar variable's value.
func PushFromStack(frame, level int) Instruction {
	return Instruction{Op: OpPushFromStack, Frame: frame, Level: level}
}

// PushIndexed pops an element offset and pushes the value at
// [frame+offset : level]; it is the read-side counterpart to the indexed
// Store sequence.
func PushIndexed(frame, level int) Instruction {
	return Instruction{Op: OpPushIndexed, Frame: frame, Level: level}
}

// PushArray pushes every element of the array at [frame : level]; callers
// pair it with the element count.
func PushArray(frame, level int) Instruction {
	return Instruction{Op: OpPushArray, Frame: frame, Level: level}
}

func Simple(op Op) Instruction              { return Instruction{Op: op} }
func FunctionLabel(name string) Instruction { return Instruction{Op: OpFunctionLabel, Str: name} }

// String renders the instruction in the target assembly's concrete
// mnemonic form.
func (i Instruction) String() string {
	switch i.Op {
	case OpPushInt:
		return fmt.Sprintf("push %d", i.Int)
	case OpPushFloat:
		return fmt.Sprintf("push %g", i.Float)
	case OpPushOffsetFromPC:
		switch {
		case i.Int > 0:
			return fmt.Sprintf("push #PC+%d", i.Int)
		case i.Int < 0:
			return fmt.Sprintf("push #PC%d", i.Int)
		default:
			return "push #PC"
		}
	case OpPushLabel:
		return fmt.Sprintf("push .%s", i.Str)
	case OpPushFromStack:
		return fmt.Sprintf("push [%d:%d]", i.Frame, i.Level)
	case OpPushIndexed:
		return fmt.Sprintf("push +[%d:%d]", i.Frame, i.Level)
	case OpPushArray:
		return fmt.Sprintf("pusha [%d:%d]", i.Frame, i.Level)
	case OpStore:
		return "st"
	case OpStoreArray:
		return "sta"
	case OpNoOp:
		return "nop"
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpMul:
		return "mul"
	case OpDiv:
		return "div"
	case OpMod:
		return "mod"
	case OpRandInt:
		return "irnd"
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	case OpNot:
		return "not"
	case OpLessThan:
		return "lt"
	case OpGreaterThan:
		return "gt"
	case OpLessThanOrEqual:
		return "le"
	case OpGreaterThanOrEqual:
		return "ge"
	case OpEqual:
		return "eq"
	case OpJump:
		return "jmp"
	case OpJumpIfNotZero:
		return "cjmp"
	case OpCall:
		return "call"
	case OpReturn:
		return "ret"
	case OpHalt:
		return "halt"
	case OpNewFrame:
		return "oframe"
	case OpPopFrame:
		return "cframe"
	case OpAlloc:
		return "alloc"
	case OpDelay:
		return "delay"
	case OpWrite:
		return "write"
	case OpWriteBox:
		return "writebox"
	case OpClear:
		return "clear"
	case OpWidth:
		return "width"
	case OpHeight:
		return "height"
	case OpRead:
		return "read"
	case OpPrint:
		return "print"
	case OpPrintArray:
		return "printa"
	case OpFunctionLabel:
		return "." + i.Str
	default:
		return "nop"
	}
}
