package ast

import "github.com/grailbio/base/log"

// Deep cloning of AST subtrees. The optimizer rewrites trees by substituting
// whole nodes, and algebraic rewrites such as "x*1 -> x" may reuse an operand
// in a new position; cloning keeps the resulting tree free of shared
// subtrees. Types are immutable and are shared, not cloned.

// CloneExpr returns a deep copy of an expression.
func CloneExpr(e Expr) Expr {
	switch e := e.(type) {
	case *IntLit:
		c := *e
		return &c
	case *StringLit:
		c := *e
		return &c
	case *BoolLit:
		c := *e
		return &c
	case *Ident:
		c := *e
		return &c
	case *Call:
		return &Call{Fn: CloneExpr(e.Fn), Args: cloneExprs(e.Args), Span: e.Span}
	case *Binary:
		return &Binary{Op: e.Op, L: CloneExpr(e.L), R: CloneExpr(e.R), Span: e.Span}
	case *Unary:
		return &Unary{Op: e.Op, X: CloneExpr(e.X), Span: e.Span}
	case *Index:
		return &Index{Array: CloneExpr(e.Array), Idx: CloneExpr(e.Idx), Span: e.Span}
	case *FieldAccess:
		return &FieldAccess{X: CloneExpr(e.X), Field: e.Field, Span: e.Span}
	case *StructLit:
		return &StructLit{Name: e.Name, Fields: cloneFieldInits(e.Fields), Span: e.Span}
	case *EnumCtor:
		return &EnumCtor{
			Enum:    e.Enum,
			Variant: e.Variant,
			Args:    cloneExprs(e.Args),
			Fields:  cloneFieldInits(e.Fields),
			Span:    e.Span,
		}
	case *ArrayLit:
		return &ArrayLit{Elems: cloneExprs(e.Elems), Span: e.Span}
	case *ArrayRepeat:
		return &ArrayRepeat{Value: CloneExpr(e.Value), Count: CloneExpr(e.Count), Span: e.Span}
	case *Range:
		return &Range{Start: CloneExpr(e.Start), End: CloneExpr(e.End), Span: e.Span}
	case *Reference:
		return &Reference{Mut: e.Mut, X: CloneExpr(e.X), Span: e.Span}
	case *Deref:
		return &Deref{X: CloneExpr(e.X), Span: e.Span}
	case *Question:
		return &Question{X: CloneExpr(e.X), Span: e.Span}
	case *Await:
		return &Await{X: CloneExpr(e.X), Span: e.Span}
	case *MacroCall:
		return &MacroCall{Name: e.Name, Args: cloneExprs(e.Args), Span: e.Span}
	}
	log.Panicf("CloneExpr: unknown node %T", e)
	return nil
}

// CloneStmt returns a deep copy of a statement.
func CloneStmt(s Stmt) Stmt {
	switch s := s.(type) {
	case *Let:
		return &Let{Name: s.Name, Type: s.Type, Init: CloneExpr(s.Init), Mutable: s.Mutable, Span: s.Span}
	case *ExprStmt:
		return &ExprStmt{X: CloneExpr(s.X)}
	case *Return:
		c := &Return{Span: s.Span}
		if s.X != nil {
			c.X = CloneExpr(s.X)
		}
		return c
	case *If:
		c := &If{Cond: CloneExpr(s.Cond), Then: CloneStmts(s.Then), Span: s.Span}
		if s.Else != nil {
			c.Else = CloneStmts(s.Else)
		}
		return c
	case *While:
		return &While{Cond: CloneExpr(s.Cond), Body: CloneStmts(s.Body), Span: s.Span}
	case *For:
		return &For{Var: s.Var, Iter: CloneExpr(s.Iter), Body: CloneStmts(s.Body), Span: s.Span}
	case *Match:
		c := &Match{Scrutinee: CloneExpr(s.Scrutinee), Span: s.Span}
		for _, arm := range s.Arms {
			c.Arms = append(c.Arms, MatchArm{Pattern: ClonePattern(arm.Pattern), Body: CloneStmts(arm.Body)})
		}
		return c
	case *Assign:
		return &Assign{Target: cloneTarget(s.Target), Value: CloneExpr(s.Value), Span: s.Span}
	case *Break:
		c := *s
		return &c
	case *Continue:
		c := *s
		return &c
	case *Unsafe:
		return &Unsafe{Body: CloneStmts(s.Body), Span: s.Span}
	}
	log.Panicf("CloneStmt: unknown node %T", s)
	return nil
}

// CloneStmts deep-copies a statement vector.
func CloneStmts(stmts []Stmt) []Stmt {
	if stmts == nil {
		return nil
	}
	out := make([]Stmt, len(stmts))
	for i, s := range stmts {
		out[i] = CloneStmt(s)
	}
	return out
}

// ClonePattern returns a deep copy of a pattern.
func ClonePattern(p Pattern) Pattern {
	switch p := p.(type) {
	case *WildcardPat:
		c := *p
		return &c
	case *BindPat:
		c := *p
		return &c
	case *EnumPat:
		c := &EnumPat{Enum: p.Enum, Variant: p.Variant, Span: p.Span}
		for _, a := range p.Args {
			c.Args = append(c.Args, ClonePattern(a))
		}
		for _, f := range p.Fields {
			c.Fields = append(c.Fields, FieldPat{Name: f.Name, Pat: ClonePattern(f.Pat)})
		}
		return c
	}
	log.Panicf("ClonePattern: unknown node %T", p)
	return nil
}

// CloneProgram deep-copies a whole program.
func CloneProgram(p *Program) *Program {
	c := &Program{Items: make([]Item, len(p.Items))}
	for i, item := range p.Items {
		c.Items[i] = cloneItem(item)
	}
	return c
}

func cloneItem(item Item) Item {
	switch item := item.(type) {
	case *Function:
		return CloneFunction(item)
	case *StructDef:
		c := *item
		c.Fields = append([]FieldDef(nil), item.Fields...)
		return &c
	case *EnumDef:
		c := *item
		c.Variants = append([]Variant(nil), item.Variants...)
		return &c
	case *TraitDef:
		c := *item
		c.Methods = cloneFunctions(item.Methods)
		return &c
	case *ImplBlock:
		c := *item
		c.Methods = cloneFunctions(item.Methods)
		return &c
	case *TypeAlias:
		c := *item
		return &c
	case *ConstDef:
		c := *item
		if item.Value != nil {
			c.Value = CloneExpr(item.Value)
		}
		return &c
	case *Import:
		c := *item
		return &c
	}
	log.Panicf("cloneItem: unknown node %T", item)
	return nil
}

// CloneFunction deep-copies a function definition.
func CloneFunction(f *Function) *Function {
	c := *f
	c.LifetimeParams = append([]string(nil), f.LifetimeParams...)
	c.TypeParams = append([]string(nil), f.TypeParams...)
	c.ConstParams = append([]string(nil), f.ConstParams...)
	c.Params = append([]Param(nil), f.Params...)
	c.Body = CloneStmts(f.Body)
	return &c
}

func cloneFunctions(fns []*Function) []*Function {
	out := make([]*Function, len(fns))
	for i, f := range fns {
		out[i] = CloneFunction(f)
	}
	return out
}

func cloneExprs(exprs []Expr) []Expr {
	if exprs == nil {
		return nil
	}
	out := make([]Expr, len(exprs))
	for i, e := range exprs {
		out[i] = CloneExpr(e)
	}
	return out
}

func cloneFieldInits(fields []FieldInit) []FieldInit {
	if fields == nil {
		return nil
	}
	out := make([]FieldInit, len(fields))
	for i, f := range fields {
		out[i] = FieldInit{Name: f.Name, Value: CloneExpr(f.Value)}
	}
	return out
}

func cloneTarget(t AssignTarget) AssignTarget {
	switch t := t.(type) {
	case *IdentTarget:
		c := *t
		return &c
	case *IndexTarget:
		return &IndexTarget{Array: CloneExpr(t.Array), Index: CloneExpr(t.Index), Span: t.Span}
	case *FieldTarget:
		return &FieldTarget{Object: CloneExpr(t.Object), Field: t.Field, Span: t.Span}
	case *DerefTarget:
		return &DerefTarget{X: CloneExpr(t.X), Span: t.Span}
	}
	log.Panicf("cloneTarget: unknown node %T", t)
	return nil
}
