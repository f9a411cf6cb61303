package ownership

import (
	"github.com/ferrite-lang/ferrite/ast"
	"github.com/ferrite-lang/ferrite/diag"
	"github.com/ferrite-lang/ferrite/symbol"
	"github.com/grailbio/base/log"
)

// ParamOwnership describes how a function parameter binds its argument.
type ParamOwnership int

const (
	// ParamMove takes ownership of the argument.
	ParamMove ParamOwnership = iota
	// ParamBorrow borrows the argument immutably for the function lifetime.
	ParamBorrow
	// ParamBorrowMut borrows the argument exclusively for the function lifetime.
	ParamBorrowMut
	// ParamCopy duplicates the argument; no ownership transfer.
	ParamCopy
)

// ReturnOwnership describes what a function hands back to its caller.
type ReturnOwnership int

const (
	// RetOwned returns an owned value.
	RetOwned ReturnOwnership = iota
	// RetBorrowed returns a reference tied to the function lifetime.
	RetBorrowed
	// RetUnit returns nothing.
	RetUnit
	// RetCopy returns a primitive.
	RetCopy
)

// FuncSig is the ownership descriptor of a function, derived from its
// declared types during signature collection.
type FuncSig struct {
	Params  []ParamOwnership
	Returns ReturnOwnership
}

// Checker walks every function body and rejects programs that violate the
// ownership invariants. Analysis is two-pass: signatures first, then bodies.
type Checker struct {
	ctx   *Context
	funcs map[string]FuncSig
	// localTypes records declared or inferred types of locals in the function
	// being analyzed, for Copy classification.
	localTypes  map[string]ast.Type
	current     string
	fnLifetime  Lifetime
	unsafeDepth int
}

// NewChecker creates a checker with the built-in function signatures
// registered, so calls to them are checkable without source.
func NewChecker() *Checker {
	c := &Checker{
		funcs:      map[string]FuncSig{},
		localTypes: map[string]ast.Type{},
	}
	c.funcs["print"] = FuncSig{Params: []ParamOwnership{ParamCopy}, Returns: RetUnit}
	c.funcs["print_int"] = FuncSig{Params: []ParamOwnership{ParamCopy}, Returns: RetUnit}
	c.funcs["string_concat"] = FuncSig{
		Params:  []ParamOwnership{ParamBorrow, ParamBorrow},
		Returns: RetOwned,
	}
	c.funcs["string_substring"] = FuncSig{
		Params:  []ParamOwnership{ParamBorrow, ParamCopy, ParamCopy},
		Returns: RetOwned,
	}
	c.funcs["int_to_string"] = FuncSig{Params: []ParamOwnership{ParamCopy}, Returns: RetOwned}
	c.funcs["string_to_int"] = FuncSig{Params: []ParamOwnership{ParamBorrow}, Returns: RetCopy}
	return c
}

// Sig returns the ownership descriptor registered for a function, if any.
func (c *Checker) Sig(name string) (FuncSig, bool) {
	sig, ok := c.funcs[name]
	return sig, ok
}

// UnsafeDepth reports the current unsafe-block nesting. The counter gates no
// rule today; the checks stay full inside unsafe blocks.
func (c *Checker) UnsafeDepth() int { return c.unsafeDepth }

// CheckProgram borrow-checks every function and impl method. It reports at
// most one diagnostic per function and keeps going, so a broken function
// does not hide problems in its siblings.
func (c *Checker) CheckProgram(prog *ast.Program) []*diag.Diagnostic {
	for _, fn := range prog.Functions() {
		c.collectSig(fn.Name, fn.Func)
	}
	var diags []*diag.Diagnostic
	for _, fn := range prog.Functions() {
		if d := c.CheckFunction(fn.Name, fn.Func); d != nil {
			diags = append(diags, d)
		}
	}
	return diags
}

func (c *Checker) collectSig(name string, f *ast.Function) {
	params := make([]ParamOwnership, len(f.Params))
	for i, p := range f.Params {
		switch ty := p.Type.(type) {
		case *ast.Ref:
			if ty.Mut {
				params[i] = ParamBorrowMut
			} else {
				params[i] = ParamBorrow
			}
		default:
			if p.Type.IsCopy() {
				params[i] = ParamCopy
			} else if p.Mutable {
				params[i] = ParamBorrowMut
			} else {
				params[i] = ParamMove
			}
		}
	}
	ret := RetUnit
	switch f.Return.(type) {
	case nil:
	case *ast.Ref:
		ret = RetBorrowed
	default:
		if f.Return.IsCopy() {
			ret = RetCopy
		} else {
			ret = RetOwned
		}
	}
	c.funcs[name] = FuncSig{Params: params, Returns: ret}
}

// CheckFunction analyzes one function body and returns its first ownership
// diagnostic, or nil.
func (c *Checker) CheckFunction(name string, f *ast.Function) *diag.Diagnostic {
	log.Debug.Printf("borrow: checking %s", name)
	c.ctx = NewContext()
	c.localTypes = map[string]ast.Type{}
	c.current = name
	c.unsafeDepth = 0

	c.ctx.EnterScope()
	c.fnLifetime = c.ctx.NewLifetime()
	for _, p := range f.Params {
		if d := c.ctx.InitOwned(LocalPlace(symbol.Intern(p.Name)), f.Span); d != nil {
			return d
		}
		c.localTypes[p.Name] = p.Type
	}
	for _, s := range f.Body {
		if d := c.checkStmt(s); d != nil {
			return d
		}
	}
	c.ctx.ExitScope()
	c.current = ""
	return nil
}

func (c *Checker) checkStmt(s ast.Stmt) *diag.Diagnostic {
	switch s := s.(type) {
	case *ast.Let:
		if d := c.checkExpr(s.Init); d != nil {
			return d
		}
		if s.Type != nil {
			c.localTypes[s.Name] = s.Type
		} else {
			c.localTypes[s.Name] = c.inferExprType(s.Init)
		}
		dst := LocalPlace(symbol.Intern(s.Name))
		if src, ok := ExprToPlace(s.Init); ok && !c.isExprCopy(s.Init) {
			return c.ctx.MoveValue(src, dst, s.Init.Pos())
		}
		return c.ctx.InitOwned(dst, s.Span)

	case *ast.Assign:
		if d := c.checkExpr(s.Value); d != nil {
			return d
		}
		target, d := c.assignTargetPlace(s.Target, s.Span)
		if d != nil {
			return d
		}
		if src, ok := ExprToPlace(s.Value); ok && !c.isExprCopy(s.Value) {
			return c.ctx.MoveValue(src, target, s.Span)
		}
		// Copy or synthesized value: the target is (re)initialized.
		return c.ctx.InitOwned(target, s.Span)

	case *ast.ExprStmt:
		return c.checkExpr(s.X)

	case *ast.Return:
		if s.X == nil {
			return nil
		}
		if d := c.checkExpr(s.X); d != nil {
			return d
		}
		return c.checkReturnOwnership(s)

	case *ast.If:
		if d := c.checkExpr(s.Cond); d != nil {
			return d
		}
		if d := c.checkBlock(s.Then); d != nil {
			return d
		}
		if s.Else != nil {
			return c.checkBlock(s.Else)
		}
		return nil

	case *ast.While:
		if d := c.checkExpr(s.Cond); d != nil {
			return d
		}
		return c.checkBlock(s.Body)

	case *ast.For:
		if d := c.checkExpr(s.Iter); d != nil {
			return d
		}
		c.ctx.EnterScope()
		if d := c.ctx.InitOwned(LocalPlace(symbol.Intern(s.Var)), s.Span); d != nil {
			return d
		}
		for _, st := range s.Body {
			if d := c.checkStmt(st); d != nil {
				return d
			}
		}
		c.ctx.ExitScope()
		return nil

	case *ast.Match:
		if d := c.checkExpr(s.Scrutinee); d != nil {
			return d
		}
		for _, arm := range s.Arms {
			c.ctx.EnterScope()
			if d := c.bindPattern(arm.Pattern); d != nil {
				return d
			}
			for _, st := range arm.Body {
				if d := c.checkStmt(st); d != nil {
					return d
				}
			}
			c.ctx.ExitScope()
		}
		return nil

	case *ast.Break, *ast.Continue:
		return nil

	case *ast.Unsafe:
		c.unsafeDepth++
		d := c.checkBlock(s.Body)
		c.unsafeDepth--
		return d
	}
	log.Panicf("borrow: unknown statement %T", s)
	return nil
}

func (c *Checker) checkBlock(stmts []ast.Stmt) *diag.Diagnostic {
	c.ctx.EnterScope()
	for _, s := range stmts {
		if d := c.checkStmt(s); d != nil {
			return d
		}
	}
	c.ctx.ExitScope()
	return nil
}

func (c *Checker) assignTargetPlace(t ast.AssignTarget, span ast.Span) (Place, *diag.Diagnostic) {
	switch t := t.(type) {
	case *ast.IdentTarget:
		return LocalPlace(symbol.Intern(t.Name)), nil
	case *ast.IndexTarget:
		if d := c.checkExpr(t.Array); d != nil {
			return Place{}, d
		}
		if d := c.checkExpr(t.Index); d != nil {
			return Place{}, d
		}
		base, ok := ExprToPlace(t.Array)
		if !ok {
			return Place{}, diag.New(diag.Ownership, diag.CodeCannotAssignTemporary, span,
				"cannot assign to temporary value")
		}
		return IndexPlace(base, "dynamic"), nil
	case *ast.FieldTarget:
		if d := c.checkExpr(t.Object); d != nil {
			return Place{}, d
		}
		base, ok := ExprToPlace(t.Object)
		if !ok {
			return Place{}, diag.New(diag.Ownership, diag.CodeCannotAssignTemporary, span,
				"cannot assign to temporary value")
		}
		return FieldPlace(base, symbol.Intern(t.Field)), nil
	case *ast.DerefTarget:
		if d := c.checkExpr(t.X); d != nil {
			return Place{}, d
		}
		place, ok := ExprToPlace(t.X)
		if !ok {
			return Place{}, diag.New(diag.Ownership, diag.CodeCannotAssignTemporary, span,
				"cannot dereference temporary value")
		}
		return place, nil
	}
	log.Panicf("borrow: unknown assign target %T", t)
	return Place{}, nil
}

// checkReturnOwnership aligns the returned value with the signature's return
// descriptor. Owned returns move the place out; borrowed returns require a
// reference.
func (c *Checker) checkReturnOwnership(s *ast.Return) *diag.Diagnostic {
	sig, ok := c.funcs[c.current]
	if !ok {
		return nil
	}
	switch sig.Returns {
	case RetOwned:
		if place, isPlace := ExprToPlace(s.X); isPlace && !c.isExprCopy(s.X) {
			return c.ctx.MoveValue(place, c.ctx.NewTemp(), s.Span)
		}
	case RetBorrowed:
		if _, isRef := s.X.(*ast.Reference); isRef {
			return nil
		}
		if ident, isIdent := s.X.(*ast.Ident); isIdent {
			if t, ok := c.localTypes[ident.Name]; ok {
				if _, isRefType := t.(*ast.Ref); isRefType {
					return nil
				}
			}
		}
		return diag.New(diag.Ownership, diag.CodeReturnOwnership, s.Span,
			"function `%s` returns a reference but `%s` is not one", c.current, s.X)
	}
	return nil
}

func (c *Checker) checkExpr(e ast.Expr) *diag.Diagnostic {
	switch e := e.(type) {
	case *ast.Ident:
		if _, isFunc := c.funcs[e.Name]; isFunc {
			return nil
		}
		place := LocalPlace(symbol.Intern(e.Name))
		state, ok := c.ctx.GetOwnership(place)
		if !ok {
			return diag.New(diag.Ownership, diag.CodeUseOfUninitialized, e.Span,
				"use of uninitialized value `%s`", e.Name)
		}
		if state == Moved {
			return diag.New(diag.Ownership, diag.CodeUseOfMoved, e.Span,
				"use of moved value `%s`", e.Name)
		}
		return nil

	case *ast.Call:
		if d := c.checkExpr(e.Fn); d != nil {
			return d
		}
		ident, isIdent := e.Fn.(*ast.Ident)
		if !isIdent {
			for _, arg := range e.Args {
				if d := c.checkExpr(arg); d != nil {
					return d
				}
			}
			return nil
		}
		sig, known := c.funcs[ident.Name]
		for i, arg := range e.Args {
			if d := c.checkExpr(arg); d != nil {
				return d
			}
			if !known || i >= len(sig.Params) {
				continue
			}
			place, isPlace := ExprToPlace(arg)
			if !isPlace {
				continue
			}
			switch sig.Params[i] {
			case ParamMove:
				if d := c.ctx.MoveValue(place, c.ctx.NewTemp(), e.Span); d != nil {
					return d
				}
			case ParamBorrow:
				if d := c.ctx.Borrow(place, Shared, c.fnLifetime, e.Span); d != nil {
					return d
				}
			case ParamBorrowMut:
				if d := c.ctx.Borrow(place, Mutable, c.fnLifetime, e.Span); d != nil {
					return d
				}
			case ParamCopy:
				// No ownership transfer.
			}
		}
		return nil

	case *ast.Binary:
		if d := c.checkExpr(e.L); d != nil {
			return d
		}
		return c.checkExpr(e.R)

	case *ast.Unary:
		return c.checkExpr(e.X)

	case *ast.Index:
		if d := c.checkExpr(e.Array); d != nil {
			return d
		}
		return c.checkExpr(e.Idx)

	case *ast.FieldAccess:
		return c.checkExpr(e.X)

	case *ast.StructLit:
		for _, f := range e.Fields {
			if d := c.checkExpr(f.Value); d != nil {
				return d
			}
		}
		return nil

	case *ast.EnumCtor:
		for _, a := range e.Args {
			if d := c.checkExpr(a); d != nil {
				return d
			}
		}
		for _, f := range e.Fields {
			if d := c.checkExpr(f.Value); d != nil {
				return d
			}
		}
		return nil

	case *ast.ArrayLit:
		for _, el := range e.Elems {
			if d := c.checkExpr(el); d != nil {
				return d
			}
		}
		return nil

	case *ast.ArrayRepeat:
		if d := c.checkExpr(e.Value); d != nil {
			return d
		}
		return c.checkExpr(e.Count)

	case *ast.Range:
		if d := c.checkExpr(e.Start); d != nil {
			return d
		}
		return c.checkExpr(e.End)

	case *ast.Reference:
		if d := c.checkExpr(e.X); d != nil {
			return d
		}
		place, ok := ExprToPlace(e.X)
		if !ok {
			return diag.New(diag.Ownership, diag.CodeCannotBorrowTemporary, e.Span,
				"cannot take reference to temporary value")
		}
		kind := Shared
		if e.Mut {
			kind = Mutable
		}
		return c.ctx.Borrow(place, kind, c.ctx.NewLifetime(), e.Span)

	case *ast.Deref:
		return c.checkExpr(e.X)

	case *ast.Question:
		return c.checkExpr(e.X)

	case *ast.Await:
		return c.checkExpr(e.X)

	case *ast.IntLit, *ast.StringLit, *ast.BoolLit:
		return nil

	case *ast.MacroCall:
		return diag.New(diag.Internal, diag.CodeMacroNotExpanded, e.Span,
			"macro `%s!` reached the borrow checker; macros must be expanded upstream", e.Name)
	}
	log.Panicf("borrow: unknown expression %T", e)
	return nil
}

func (c *Checker) bindPattern(p ast.Pattern) *diag.Diagnostic {
	switch p := p.(type) {
	case *ast.WildcardPat:
		return nil
	case *ast.BindPat:
		return c.ctx.InitOwned(LocalPlace(symbol.Intern(p.Name)), p.Span)
	case *ast.EnumPat:
		for _, a := range p.Args {
			if d := c.bindPattern(a); d != nil {
				return d
			}
		}
		for _, f := range p.Fields {
			if d := c.bindPattern(f.Pat); d != nil {
				return d
			}
		}
		return nil
	}
	log.Panicf("borrow: unknown pattern %T", p)
	return nil
}

// isExprCopy extends the type-level Copy predicate to expressions: integer
// and boolean literals copy, string literals do not, identifiers copy iff
// their recorded type does, and everything else is conservatively non-Copy.
func (c *Checker) isExprCopy(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.IntLit, *ast.BoolLit:
		return true
	case *ast.StringLit:
		return false
	case *ast.Ident:
		if t, ok := c.localTypes[e.Name]; ok && t != nil {
			return t.IsCopy()
		}
		return false
	}
	return false
}

// inferExprType gives a best-effort type for a let initializer without a
// declared type. A nil result means unknown, which Copy classification
// treats as non-Copy.
func (c *Checker) inferExprType(e ast.Expr) ast.Type {
	switch e := e.(type) {
	case *ast.IntLit:
		return ast.I64
	case *ast.StringLit:
		return ast.String
	case *ast.BoolLit:
		return ast.Bool
	case *ast.Ident:
		return c.localTypes[e.Name]
	case *ast.StructLit:
		return &ast.Named{Name: e.Name}
	case *ast.EnumCtor:
		return &ast.Named{Name: e.Enum}
	case *ast.Reference:
		inner := c.inferExprType(e.X)
		if inner == nil {
			return nil
		}
		return &ast.Ref{Mut: e.Mut, Elem: inner}
	}
	return nil
}
