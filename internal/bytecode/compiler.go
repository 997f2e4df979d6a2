package bytecode

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/yasniy-lang/yasniy/internal/ast"
	"github.com/yasniy-lang/yasniy/internal/diag"
	"github.com/yasniy-lang/yasniy/internal/token"
)

// entryName is the synthesized function compiled from every non-function
// top-level statement.
const entryName = "__entry__"

// funcInfo is what the compiler needs to know about every declared
// function before compiling any one function's body: whether it's
// async, which drives call-site lowering. Arity is not recorded here;
// the checker enforces argument counts earlier.
type funcInfo struct {
	async bool
}

// Compile lowers a type-checked program into a ProgramBC.
func Compile(prog *ast.Program) (*ProgramBC, error) {
	globals := map[string]int{}
	for _, s := range prog.Statements {
		if v, ok := s.(*ast.VarDecl); ok {
			globals[v.Name] = len(globals)
		}
	}

	funcs := map[string]*funcInfo{}
	var mainExists, mainAsync bool
	for _, s := range prog.Statements {
		if fd, ok := s.(*ast.FuncDecl); ok {
			funcs[fd.Name] = &funcInfo{async: fd.Async}
			if fd.Name == "main" {
				mainExists, mainAsync = true, fd.Async
			}
		}
	}

	out := &ProgramBC{Functions: map[string]*FunctionBC{}, GlobalCount: len(globals)}

	for _, s := range prog.Statements {
		fd, ok := s.(*ast.FuncDecl)
		if !ok {
			continue
		}
		fn, err := compileFunction(fd, globals, funcs)
		if err != nil {
			return nil, err
		}
		out.Functions[fd.Name] = fn
	}

	var entryBody []ast.Statement
	for _, s := range prog.Statements {
		if _, ok := s.(*ast.FuncDecl); !ok {
			entryBody = append(entryBody, s)
		}
	}
	entry, err := compileEntry(entryBody, globals, funcs, mainExists, mainAsync)
	if err != nil {
		return nil, err
	}
	out.Entry = entry

	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("internal compiler error: %w", err)
	}
	diag.L().Stage("compile").Info("program compiled",
		zap.Int("functions", len(out.Functions)),
		zap.Int("globals", out.GlobalCount),
	)
	return out, nil
}

// loopFrame tracks the patch points needed to compile `break`/`continue`
// inside one enclosing while/for loop.
type loopFrame struct {
	continueTarget int  // instruction index continue jumps to; -1 if not yet known (patched later)
	continueJumps  []int
	breakJumps     []int
}

// funcCompiler holds the compilation state of a single function body:
// its accumulated instructions, local-slot table (block-scoped, slots
// are never reused once the function is done compiling), and the
// shared global-slot table and function-signature table used to decide
// LOAD vs GLOAD and to lower async calls.
type funcCompiler struct {
	instr     []Instruction
	scopes    []map[string]int // stack of block scopes; innermost last
	nextSlot  int
	globals   map[string]int
	funcs     map[string]*funcInfo
	loops     []*loopFrame
	localOnly bool // true for real functions; false for the entry, whose outermost-scope lets use global slots
}

func newFuncCompiler(globals map[string]int, funcs map[string]*funcInfo, localOnly bool) *funcCompiler {
	return &funcCompiler{
		globals:   globals,
		funcs:     funcs,
		scopes:    []map[string]int{{}},
		localOnly: localOnly,
	}
}

func (fc *funcCompiler) emit(op Op, line int, args ...any) int {
	fc.instr = append(fc.instr, Instruction{Op: op, Args: args, Line: line})
	return len(fc.instr) - 1
}

func (fc *funcCompiler) here() int { return len(fc.instr) }

func (fc *funcCompiler) patchJumpTo(idx int, target int) {
	fc.instr[idx].Args = []any{int64(target)}
}

func (fc *funcCompiler) pushScope() { fc.scopes = append(fc.scopes, map[string]int{}) }
func (fc *funcCompiler) popScope()  { fc.scopes = fc.scopes[:len(fc.scopes)-1] }

func (fc *funcCompiler) declareLocal(name string) int {
	slot := fc.nextSlot
	fc.nextSlot++
	fc.scopes[len(fc.scopes)-1][name] = slot
	return slot
}

// declareHiddenLocal allocates a slot with no user-visible name, used
// for the iterable/index/length triple of a `for` loop lowering.
func (fc *funcCompiler) declareHiddenLocal() int {
	slot := fc.nextSlot
	fc.nextSlot++
	return slot
}

// lookup resolves name to either a local slot (searching inner to outer
// block scopes) or a global slot, matching the checker's scope-nesting
// rule: function bodies are children of the global scope.
func (fc *funcCompiler) lookup(name string) (slot int, isGlobal bool, ok bool) {
	for i := len(fc.scopes) - 1; i >= 0; i-- {
		if s, found := fc.scopes[i][name]; found {
			return s, false, true
		}
	}
	if s, found := fc.globals[name]; found {
		return s, true, true
	}
	return 0, false, false
}

func compileFunction(fd *ast.FuncDecl, globals map[string]int, funcs map[string]*funcInfo) (*FunctionBC, error) {
	fc := newFuncCompiler(globals, funcs, true)
	params := make([]string, len(fd.Params))
	for i, p := range fd.Params {
		params[i] = p.Name
		fc.declareLocal(p.Name)
	}
	for _, s := range fd.Body {
		if err := fc.compileStmt(s); err != nil {
			return nil, err
		}
	}
	if !endsInTerminator(fc.instr) {
		fc.emit(OpConstNull, 0)
		fc.emit(OpRet, 0)
	}
	return &FunctionBC{Name: fd.Name, Params: params, LocalCount: fc.nextSlot, Instructions: fc.instr, Async: fd.Async}, nil
}

func compileEntry(body []ast.Statement, globals map[string]int, funcs map[string]*funcInfo, mainExists, mainAsync bool) (*FunctionBC, error) {
	fc := newFuncCompiler(globals, funcs, false)
	for _, s := range body {
		if err := fc.compileStmt(s); err != nil {
			return nil, err
		}
	}
	if mainExists {
		fc.emit(OpCall, 0, "main", int64(0))
		if mainAsync {
			fc.emit(OpCall, 0, "wait", int64(1))
		}
		fc.emit(OpPop, 0)
	}
	if !endsInTerminator(fc.instr) {
		fc.emit(OpHalt, 0)
	}
	return &FunctionBC{Name: entryName, Instructions: fc.instr, LocalCount: fc.nextSlot}, nil
}

func endsInTerminator(instr []Instruction) bool {
	if len(instr) == 0 {
		return false
	}
	switch instr[len(instr)-1].Op {
	case OpRet, OpHalt:
		return true
	default:
		return false
	}
}

func (fc *funcCompiler) compileStmt(s ast.Statement) error {
	line := s.Pos().Line
	switch n := s.(type) {
	case *ast.VarDecl:
		if err := fc.compileExpr(n.Init); err != nil {
			return err
		}
		if !fc.localOnly && len(fc.scopes) == 1 {
			// Top-level depth inside the entry function: this `let`
			// already has a pre-assigned global slot.
			slot := fc.globals[n.Name]
			fc.emit(OpGStore, line, int64(slot))
			return nil
		}
		slot := fc.declareLocal(n.Name)
		fc.emit(OpStore, line, int64(slot))
		return nil

	case *ast.FuncDecl:
		return fmt.Errorf("nested function declarations are not supported")

	case *ast.AssignStmt:
		if err := fc.compileExpr(n.Value); err != nil {
			return err
		}
		slot, isGlobal, ok := fc.lookup(n.Name)
		if !ok {
			return fmt.Errorf("compiler: assignment to undeclared name %q", n.Name)
		}
		if isGlobal {
			fc.emit(OpGStore, line, int64(slot))
		} else {
			fc.emit(OpStore, line, int64(slot))
		}
		return nil

	case *ast.IndexAssignStmt:
		if err := fc.compileExpr(n.Target); err != nil {
			return err
		}
		if err := fc.compileExpr(n.Index); err != nil {
			return err
		}
		if err := fc.compileExpr(n.Value); err != nil {
			return err
		}
		fc.emit(OpIndexSet, line)
		return nil

	case *ast.IfStmt:
		return fc.compileIf(n)

	case *ast.WhileStmt:
		return fc.compileWhile(n)

	case *ast.ForStmt:
		return fc.compileFor(n)

	case *ast.ReturnStmt:
		if n.Value == nil {
			fc.emit(OpConstNull, line)
		} else if err := fc.compileExpr(n.Value); err != nil {
			return err
		}
		fc.emit(OpRet, line)
		return nil

	case *ast.BreakStmt:
		if len(fc.loops) == 0 {
			return fmt.Errorf("compiler: break outside a loop")
		}
		lp := fc.loops[len(fc.loops)-1]
		idx := fc.emit(OpJmp, line, int64(-1))
		lp.breakJumps = append(lp.breakJumps, idx)
		return nil

	case *ast.ContinueStmt:
		if len(fc.loops) == 0 {
			return fmt.Errorf("compiler: continue outside a loop")
		}
		lp := fc.loops[len(fc.loops)-1]
		idx := fc.emit(OpJmp, line, int64(-1))
		lp.continueJumps = append(lp.continueJumps, idx)
		return nil

	case *ast.ExprStmt:
		if err := fc.compileExpr(n.X); err != nil {
			return err
		}
		fc.emit(OpPop, line)
		return nil

	case *ast.ImportAllStmt, *ast.ImportFromStmt:
		return fmt.Errorf("unexpected import statement reached the bytecode compiler")
	}
	return fmt.Errorf("compiler: unhandled statement %T", s)
}

func (fc *funcCompiler) compileIf(n *ast.IfStmt) error {
	line := n.Pos().Line
	if err := fc.compileExpr(n.Cond); err != nil {
		return err
	}
	jmpToElse := fc.emit(OpJmpFalse, line, int64(-1))

	fc.pushScope()
	for _, st := range n.Then {
		if err := fc.compileStmt(st); err != nil {
			return err
		}
	}
	fc.popScope()

	jmpToEnd := fc.emit(OpJmp, line, int64(-1))
	fc.patchJumpTo(jmpToElse, fc.here())

	fc.pushScope()
	for _, st := range n.Else {
		if err := fc.compileStmt(st); err != nil {
			return err
		}
	}
	fc.popScope()

	fc.patchJumpTo(jmpToEnd, fc.here())
	return nil
}

func (fc *funcCompiler) compileWhile(n *ast.WhileStmt) error {
	line := n.Pos().Line
	loopStart := fc.here()
	if err := fc.compileExpr(n.Cond); err != nil {
		return err
	}
	jmpToEnd := fc.emit(OpJmpFalse, line, int64(-1))

	lp := &loopFrame{continueTarget: loopStart}
	fc.loops = append(fc.loops, lp)
	fc.pushScope()
	for _, st := range n.Body {
		if err := fc.compileStmt(st); err != nil {
			return err
		}
	}
	fc.popScope()
	fc.loops = fc.loops[:len(fc.loops)-1]

	fc.emit(OpJmp, line, int64(loopStart))
	end := fc.here()
	fc.patchJumpTo(jmpToEnd, end)
	for _, idx := range lp.continueJumps {
		fc.patchJumpTo(idx, loopStart)
	}
	for _, idx := range lp.breakJumps {
		fc.patchJumpTo(idx, end)
	}
	return nil
}

func (fc *funcCompiler) compileFor(n *ast.ForStmt) error {
	line := n.Pos().Line
	iterSlot := fc.declareHiddenLocal()
	idxSlot := fc.declareHiddenLocal()
	lenSlot := fc.declareHiddenLocal()

	if err := fc.compileExpr(n.Iterable); err != nil {
		return err
	}
	fc.emit(OpStore, line, int64(iterSlot))
	fc.emit(OpLoad, line, int64(iterSlot))
	fc.emit(OpLen, line)
	fc.emit(OpStore, line, int64(lenSlot))
	fc.emit(OpConst, line, int64(0))
	fc.emit(OpStore, line, int64(idxSlot))

	head := fc.here()
	fc.emit(OpLoad, line, int64(idxSlot))
	fc.emit(OpLoad, line, int64(lenSlot))
	fc.emit(OpLt, line)
	jmpToEnd := fc.emit(OpJmpFalse, line, int64(-1))

	fc.pushScope()
	xSlot := fc.declareLocal(n.Var)
	fc.emit(OpLoad, line, int64(iterSlot))
	fc.emit(OpLoad, line, int64(idxSlot))
	fc.emit(OpIndexGet, line)
	fc.emit(OpStore, line, int64(xSlot))

	lp := &loopFrame{continueTarget: -1}
	fc.loops = append(fc.loops, lp)
	for _, st := range n.Body {
		if err := fc.compileStmt(st); err != nil {
			return err
		}
	}
	fc.loops = fc.loops[:len(fc.loops)-1]
	fc.popScope()

	tail := fc.here()
	fc.emit(OpLoad, line, int64(idxSlot))
	fc.emit(OpConst, line, int64(1))
	fc.emit(OpAdd, line)
	fc.emit(OpStore, line, int64(idxSlot))
	fc.emit(OpJmp, line, int64(head))

	end := fc.here()
	fc.patchJumpTo(jmpToEnd, end)
	for _, idx := range lp.continueJumps {
		fc.patchJumpTo(idx, tail)
	}
	for _, idx := range lp.breakJumps {
		fc.patchJumpTo(idx, end)
	}
	return nil
}

func (fc *funcCompiler) compileExpr(e ast.Expression) error {
	line := e.Pos().Line
	switch n := e.(type) {
	case *ast.Literal:
		if n.Kind == token.NULL {
			fc.emit(OpConstNull, line)
			return nil
		}
		fc.emit(OpConst, line, n.Value)
		return nil

	case *ast.Identifier:
		if slot, isGlobal, ok := fc.lookup(n.Name); ok {
			if isGlobal {
				fc.emit(OpGLoad, line, int64(slot))
			} else {
				fc.emit(OpLoad, line, int64(slot))
			}
			return nil
		}
		if _, isFn := fc.funcs[n.Name]; isFn {
			// A bare reference to a function name: functions are called
			// by name at runtime, so the value of the reference is
			// simply that name.
			fc.emit(OpConst, line, n.Name)
			return nil
		}
		return fmt.Errorf("compiler: reference to undeclared name %q", n.Name)

	case *ast.ListLiteral:
		for _, el := range n.Elements {
			if err := fc.compileExpr(el); err != nil {
				return err
			}
		}
		fc.emit(OpMakeList, line, int64(len(n.Elements)))
		return nil

	case *ast.DictLiteral:
		for _, en := range n.Entries {
			if err := fc.compileExpr(en.Key); err != nil {
				return err
			}
			if err := fc.compileExpr(en.Value); err != nil {
				return err
			}
		}
		fc.emit(OpMakeDict, line, int64(len(n.Entries)))
		return nil

	case *ast.IndexExpr:
		if err := fc.compileExpr(n.Target); err != nil {
			return err
		}
		if err := fc.compileExpr(n.Index); err != nil {
			return err
		}
		fc.emit(OpIndexGet, line)
		return nil

	case *ast.MemberExpr:
		if err := fc.compileExpr(n.Target); err != nil {
			return err
		}
		fc.emit(OpConst, line, n.Name)
		fc.emit(OpIndexGet, line)
		return nil

	case *ast.UnaryExpr:
		if err := fc.compileExpr(n.Operand); err != nil {
			return err
		}
		switch n.Op {
		case token.MINUS:
			fc.emit(OpNeg, line)
		case token.NOT:
			fc.emit(OpNot, line)
		default:
			return fmt.Errorf("compiler: unhandled unary operator %s", n.Op)
		}
		return nil

	case *ast.BinaryExpr:
		return fc.compileBinary(n)

	case *ast.CallExpr:
		return fc.compileCall(n)

	case *ast.AwaitExpr:
		if err := fc.compileExpr(n.Operand); err != nil {
			return err
		}
		fc.emit(OpCall, line, "wait", int64(1))
		return nil
	}
	return fmt.Errorf("compiler: unhandled expression %T", e)
}

func (fc *funcCompiler) compileBinary(n *ast.BinaryExpr) error {
	line := n.Pos().Line
	if n.Op == token.AND {
		if err := fc.compileExpr(n.Left); err != nil {
			return err
		}
		jmpFalse := fc.emit(OpJmpFalse, line, int64(-1))
		if err := fc.compileExpr(n.Right); err != nil {
			return err
		}
		jmpEnd := fc.emit(OpJmp, line, int64(-1))
		fc.patchJumpTo(jmpFalse, fc.here())
		fc.emit(OpConst, line, false)
		fc.patchJumpTo(jmpEnd, fc.here())
		return nil
	}
	if n.Op == token.OR {
		if err := fc.compileExpr(n.Left); err != nil {
			return err
		}
		jmpFalse := fc.emit(OpJmpFalse, line, int64(-1))
		fc.emit(OpConst, line, true)
		jmpEnd := fc.emit(OpJmp, line, int64(-1))
		fc.patchJumpTo(jmpFalse, fc.here())
		if err := fc.compileExpr(n.Right); err != nil {
			return err
		}
		fc.patchJumpTo(jmpEnd, fc.here())
		return nil
	}

	if err := fc.compileExpr(n.Left); err != nil {
		return err
	}
	if err := fc.compileExpr(n.Right); err != nil {
		return err
	}
	switch n.Op {
	case token.PLUS:
		fc.emit(OpAdd, line)
	case token.MINUS:
		fc.emit(OpSub, line)
	case token.STAR:
		fc.emit(OpMul, line)
	case token.SLASH:
		fc.emit(OpDiv, line)
	case token.PERCENT:
		fc.emit(OpMod, line)
	case token.EQ:
		fc.emit(OpEq, line)
	case token.NEQ:
		fc.emit(OpNe, line)
	case token.LT:
		fc.emit(OpLt, line)
	case token.LE:
		fc.emit(OpLe, line)
	case token.GT:
		fc.emit(OpGt, line)
	case token.GE:
		fc.emit(OpGe, line)
	default:
		return fmt.Errorf("compiler: unhandled binary operator %s", n.Op)
	}
	return nil
}

func (fc *funcCompiler) compileCall(n *ast.CallExpr) error {
	line := n.Pos().Line
	name := n.Callee.Name
	if info, ok := fc.funcs[name]; ok && info.async {
		fc.emit(OpConst, line, name)
		for _, a := range n.Args {
			if err := fc.compileExpr(a); err != nil {
				return err
			}
		}
		fc.emit(OpCall, line, "spawn", int64(len(n.Args)+1))
		return nil
	}
	for _, a := range n.Args {
		if err := fc.compileExpr(a); err != nil {
			return err
		}
	}
	fc.emit(OpCall, line, name, int64(len(n.Args)))
	return nil
}
