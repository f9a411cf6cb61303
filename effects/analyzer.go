package effects

import (
	"github.com/ferrite-lang/ferrite/ast"
	"github.com/ferrite-lang/ferrite/callgraph"
	"github.com/grailbio/base/log"
)

// Analyzer computes per-function effect sets. Builtins come from a fixed
// table; user functions are analyzed bottom-up over the call graph, cyclic
// groups iterating to fixpoint. Unknown callees contribute no effects.
type Analyzer struct {
	funcEffects map[string]Set
	builtins    map[string]Set
}

// NewAnalyzer creates an analyzer with the builtin effect table registered.
func NewAnalyzer() *Analyzer {
	builtins := map[string]Set{}
	for _, name := range []string{
		"print", "print_int",
		"file_open", "file_read_all", "file_read_line",
		"file_write", "file_close", "file_exists",
	} {
		builtins[name] = NewSet(IO)
	}
	for _, name := range []string{
		"string_len", "string_concat", "string_eq", "string_char_at",
		"string_substring", "string_from_char",
		"char_is_digit", "char_is_alpha", "char_is_whitespace",
		"string_to_int", "int_to_string",
	} {
		builtins[name] = NewSet()
	}
	return &Analyzer{
		funcEffects: map[string]Set{},
		builtins:    builtins,
	}
}

// AnalyzeFunction computes and records the effect set of one function. The
// sets of previously analyzed functions are visible to call sites.
func (a *Analyzer) AnalyzeFunction(f *ast.Function) Set {
	return a.analyzeNamed(f.Name, f)
}

func (a *Analyzer) analyzeNamed(name string, f *ast.Function) Set {
	effects := NewSet()
	if f.IsAsync {
		effects = effects.Add(Async)
	}
	for _, s := range f.Body {
		effects = effects.Union(a.analyzeStmt(s))
	}
	a.funcEffects[name] = effects
	return effects
}

// AnalyzeProgram analyzes every function and impl method. Functions are
// visited callee-first; when the call graph has cycles the whole schedule is
// re-run until no effect set grows. Sets only grow and the alphabet is
// finite, so the iteration terminates.
func (a *Analyzer) AnalyzeProgram(prog *ast.Program) {
	byName := map[string]*ast.Function{}
	graph := callgraph.New()
	for _, fn := range prog.Functions() {
		byName[fn.Name] = fn.Func
		graph.AddFunction(fn.Name)
		for _, callee := range calleesOf(fn.Func) {
			if _, isBuiltin := a.builtins[callee]; isBuiltin {
				continue
			}
			graph.AddCall(fn.Name, callee)
		}
	}
	graph.Sort()

	for round := 1; ; round++ {
		changed := false
		for _, name := range graph.Order() {
			f, ok := byName[name]
			if !ok {
				continue // callee with no body in this program
			}
			before := a.funcEffects[name]
			after := a.analyzeNamed(name, f)
			if after != before {
				changed = true
			}
		}
		if !changed || !graph.HasCycle() {
			return
		}
		log.Debug.Printf("effects: recursion detected, re-running schedule (round %d)", round)
	}
}

func (a *Analyzer) analyzeStmt(s ast.Stmt) Set {
	switch s := s.(type) {
	case *ast.ExprStmt:
		return a.analyzeExpr(s.X)
	case *ast.Let:
		return a.analyzeExpr(s.Init)
	case *ast.Return:
		if s.X == nil {
			return NewSet()
		}
		return a.analyzeExpr(s.X)
	case *ast.Assign:
		effects := a.analyzeExpr(s.Value)
		switch t := s.Target.(type) {
		case *ast.IndexTarget:
			effects = effects.Union(a.analyzeExpr(t.Array)).Union(a.analyzeExpr(t.Index))
		case *ast.FieldTarget:
			effects = effects.Union(a.analyzeExpr(t.Object))
		case *ast.DerefTarget:
			effects = effects.Union(a.analyzeExpr(t.X))
		}
		return effects
	case *ast.If:
		effects := a.analyzeExpr(s.Cond)
		effects = effects.Union(a.analyzeStmts(s.Then))
		return effects.Union(a.analyzeStmts(s.Else))
	case *ast.While:
		return a.analyzeExpr(s.Cond).Union(a.analyzeStmts(s.Body))
	case *ast.For:
		return a.analyzeExpr(s.Iter).Union(a.analyzeStmts(s.Body))
	case *ast.Match:
		effects := a.analyzeExpr(s.Scrutinee)
		for _, arm := range s.Arms {
			// Pattern matching itself is pure.
			effects = effects.Union(a.analyzeStmts(arm.Body))
		}
		return effects
	case *ast.Break, *ast.Continue:
		return NewSet()
	case *ast.Unsafe:
		return NewSet(Unsafe).Union(a.analyzeStmts(s.Body))
	}
	log.Panicf("effects: unknown statement %T", s)
	return NewSet()
}

func (a *Analyzer) analyzeStmts(stmts []ast.Stmt) Set {
	effects := NewSet()
	for _, s := range stmts {
		effects = effects.Union(a.analyzeStmt(s))
	}
	return effects
}

func (a *Analyzer) analyzeExpr(e ast.Expr) Set {
	switch e := e.(type) {
	case *ast.IntLit, *ast.StringLit, *ast.BoolLit, *ast.Ident:
		return NewSet()
	case *ast.Call:
		effects := a.analyzeExpr(e.Fn)
		for _, arg := range e.Args {
			effects = effects.Union(a.analyzeExpr(arg))
		}
		if ident, ok := e.Fn.(*ast.Ident); ok {
			if b, ok := a.builtins[ident.Name]; ok {
				effects = effects.Union(b)
			} else if fe, ok := a.funcEffects[ident.Name]; ok {
				effects = effects.Union(fe)
			}
			// Unknown callees contribute nothing.
		}
		return effects
	case *ast.Binary:
		return a.analyzeExpr(e.L).Union(a.analyzeExpr(e.R))
	case *ast.Unary:
		return a.analyzeExpr(e.X)
	case *ast.Index:
		return a.analyzeExpr(e.Array).Union(a.analyzeExpr(e.Idx))
	case *ast.FieldAccess:
		return a.analyzeExpr(e.X)
	case *ast.StructLit:
		effects := NewSet()
		for _, f := range e.Fields {
			effects = effects.Union(a.analyzeExpr(f.Value))
		}
		return effects
	case *ast.EnumCtor:
		effects := NewSet()
		for _, arg := range e.Args {
			effects = effects.Union(a.analyzeExpr(arg))
		}
		for _, f := range e.Fields {
			effects = effects.Union(a.analyzeExpr(f.Value))
		}
		return effects
	case *ast.ArrayLit:
		effects := NewSet()
		for _, el := range e.Elems {
			effects = effects.Union(a.analyzeExpr(el))
		}
		return effects
	case *ast.ArrayRepeat:
		return a.analyzeExpr(e.Value).Union(a.analyzeExpr(e.Count))
	case *ast.Range:
		return a.analyzeExpr(e.Start).Union(a.analyzeExpr(e.End))
	case *ast.Reference:
		return a.analyzeExpr(e.X)
	case *ast.Deref:
		return a.analyzeExpr(e.X)
	case *ast.Question:
		return a.analyzeExpr(e.X).Add(Panic)
	case *ast.Await:
		return a.analyzeExpr(e.X).Add(Async)
	case *ast.MacroCall:
		// Macros are expanded before this pass; residues are reported by the
		// borrow checker, and contribute nothing here.
		return NewSet()
	}
	log.Panicf("effects: unknown expression %T", e)
	return NewSet()
}

// FunctionEffects returns the recorded set for a function.
func (a *Analyzer) FunctionEffects(name string) (Set, bool) {
	s, ok := a.funcEffects[name]
	return s, ok
}

// IsFunctionPure reports whether the function's recorded effects are pure.
// Unknown functions are assumed pure.
func (a *Analyzer) IsFunctionPure(name string) bool {
	s, ok := a.funcEffects[name]
	if !ok {
		return true
	}
	return s.IsPure()
}

func calleesOf(f *ast.Function) []string {
	seen := map[string]bool{}
	var out []string
	var visitStmts func([]ast.Stmt)
	var visitExpr func(ast.Expr)
	visitExpr = func(e ast.Expr) {
		switch e := e.(type) {
		case *ast.Call:
			if ident, ok := e.Fn.(*ast.Ident); ok && !seen[ident.Name] {
				seen[ident.Name] = true
				out = append(out, ident.Name)
			}
			visitExpr(e.Fn)
			for _, arg := range e.Args {
				visitExpr(arg)
			}
		case *ast.Binary:
			visitExpr(e.L)
			visitExpr(e.R)
		case *ast.Unary:
			visitExpr(e.X)
		case *ast.Index:
			visitExpr(e.Array)
			visitExpr(e.Idx)
		case *ast.FieldAccess:
			visitExpr(e.X)
		case *ast.StructLit:
			for _, f := range e.Fields {
				visitExpr(f.Value)
			}
		case *ast.EnumCtor:
			for _, a := range e.Args {
				visitExpr(a)
			}
			for _, f := range e.Fields {
				visitExpr(f.Value)
			}
		case *ast.ArrayLit:
			for _, el := range e.Elems {
				visitExpr(el)
			}
		case *ast.ArrayRepeat:
			visitExpr(e.Value)
			visitExpr(e.Count)
		case *ast.Range:
			visitExpr(e.Start)
			visitExpr(e.End)
		case *ast.Reference:
			visitExpr(e.X)
		case *ast.Deref:
			visitExpr(e.X)
		case *ast.Question:
			visitExpr(e.X)
		case *ast.Await:
			visitExpr(e.X)
		case *ast.MacroCall:
			for _, a := range e.Args {
				visitExpr(a)
			}
		}
	}
	visitStmts = func(stmts []ast.Stmt) {
		for _, s := range stmts {
			switch s := s.(type) {
			case *ast.ExprStmt:
				visitExpr(s.X)
			case *ast.Let:
				visitExpr(s.Init)
			case *ast.Return:
				if s.X != nil {
					visitExpr(s.X)
				}
			case *ast.Assign:
				visitExpr(s.Value)
				switch t := s.Target.(type) {
				case *ast.IndexTarget:
					visitExpr(t.Array)
					visitExpr(t.Index)
				case *ast.FieldTarget:
					visitExpr(t.Object)
				case *ast.DerefTarget:
					visitExpr(t.X)
				}
			case *ast.If:
				visitExpr(s.Cond)
				visitStmts(s.Then)
				visitStmts(s.Else)
			case *ast.While:
				visitExpr(s.Cond)
				visitStmts(s.Body)
			case *ast.For:
				visitExpr(s.Iter)
				visitStmts(s.Body)
			case *ast.Match:
				visitExpr(s.Scrutinee)
				for _, arm := range s.Arms {
					visitStmts(arm.Body)
				}
			case *ast.Unsafe:
				visitStmts(s.Body)
			}
		}
	}
	visitStmts(f.Body)
	return out
}
