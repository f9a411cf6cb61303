package ast

import (
	"github.com/ferrite-lang/ferrite/hash"
	"github.com/grailbio/base/log"
)

// Structural hashing of AST subtrees. Two trees hash equal iff they are
// structurally equal; spans are excluded, so the hash is stable under
// rewrites that only move nodes. The optimizer's idempotence tests compare
// program hashes across runs.

var (
	hProgram = hash.String("ast.Program")
	hNilExpr = hash.String("ast.nil")
)

func kindHash(kind string) hash.Hash { return hash.String(kind) }

// HashExpr computes the structural hash of an expression.
func HashExpr(e Expr) hash.Hash {
	switch e := e.(type) {
	case *IntLit:
		return kindHash("int").Merge(hash.Int(e.Value))
	case *StringLit:
		return kindHash("string").Merge(hash.String(e.Value))
	case *BoolLit:
		return kindHash("bool").Merge(hash.Bool(e.Value))
	case *Ident:
		return kindHash("ident").Merge(hash.String(e.Name))
	case *Call:
		h := kindHash("call").Merge(HashExpr(e.Fn))
		return h.Merge(hashExprs(e.Args))
	case *Binary:
		h := kindHash("binary").Merge(hash.Int(int64(e.Op)))
		return h.Merge(HashExpr(e.L)).Merge(HashExpr(e.R))
	case *Unary:
		return kindHash("unary").Merge(hash.Int(int64(e.Op))).Merge(HashExpr(e.X))
	case *Index:
		return kindHash("index").Merge(HashExpr(e.Array)).Merge(HashExpr(e.Idx))
	case *FieldAccess:
		return kindHash("field").Merge(HashExpr(e.X)).Merge(hash.String(e.Field))
	case *StructLit:
		h := kindHash("structlit").Merge(hash.String(e.Name))
		return h.Merge(hashFieldInits(e.Fields))
	case *EnumCtor:
		h := kindHash("enumctor").Merge(hash.String(e.Enum)).Merge(hash.String(e.Variant))
		return h.Merge(hashExprs(e.Args)).Merge(hashFieldInits(e.Fields))
	case *ArrayLit:
		return kindHash("arraylit").Merge(hashExprs(e.Elems))
	case *ArrayRepeat:
		return kindHash("arrayrepeat").Merge(HashExpr(e.Value)).Merge(HashExpr(e.Count))
	case *Range:
		return kindHash("range").Merge(HashExpr(e.Start)).Merge(HashExpr(e.End))
	case *Reference:
		return kindHash("ref").Merge(hash.Bool(e.Mut)).Merge(HashExpr(e.X))
	case *Deref:
		return kindHash("deref").Merge(HashExpr(e.X))
	case *Question:
		return kindHash("question").Merge(HashExpr(e.X))
	case *Await:
		return kindHash("await").Merge(HashExpr(e.X))
	case *MacroCall:
		return kindHash("macro").Merge(hash.String(e.Name)).Merge(hashExprs(e.Args))
	}
	log.Panicf("HashExpr: unknown node %T", e)
	return hash.Hash{}
}

// HashStmt computes the structural hash of a statement.
func HashStmt(s Stmt) hash.Hash {
	switch s := s.(type) {
	case *Let:
		h := kindHash("let").Merge(hash.String(s.Name)).Merge(hash.Bool(s.Mutable))
		if s.Type != nil {
			h = h.Merge(hash.String(s.Type.String()))
		}
		return h.Merge(HashExpr(s.Init))
	case *ExprStmt:
		return kindHash("exprstmt").Merge(HashExpr(s.X))
	case *Return:
		if s.X == nil {
			return kindHash("return").Merge(hNilExpr)
		}
		return kindHash("return").Merge(HashExpr(s.X))
	case *If:
		h := kindHash("if").Merge(HashExpr(s.Cond)).Merge(HashStmts(s.Then))
		if s.Else != nil {
			h = h.Merge(HashStmts(s.Else))
		}
		return h
	case *While:
		return kindHash("while").Merge(HashExpr(s.Cond)).Merge(HashStmts(s.Body))
	case *For:
		return kindHash("for").Merge(hash.String(s.Var)).Merge(HashExpr(s.Iter)).Merge(HashStmts(s.Body))
	case *Match:
		h := kindHash("match").Merge(HashExpr(s.Scrutinee))
		for _, arm := range s.Arms {
			h = h.Merge(hash.String(arm.Pattern.String())).Merge(HashStmts(arm.Body))
		}
		return h
	case *Assign:
		return kindHash("assign").Merge(hash.String(s.Target.String())).Merge(HashExpr(s.Value))
	case *Break:
		return kindHash("break")
	case *Continue:
		return kindHash("continue")
	case *Unsafe:
		return kindHash("unsafe").Merge(HashStmts(s.Body))
	}
	log.Panicf("HashStmt: unknown node %T", s)
	return hash.Hash{}
}

// HashStmts hashes a statement vector in order.
func HashStmts(stmts []Stmt) hash.Hash {
	h := kindHash("stmts").Merge(hash.Int(int64(len(stmts))))
	for _, s := range stmts {
		h = h.Merge(HashStmt(s))
	}
	return h
}

// HashProgram hashes a whole program. Item signatures are folded in via
// their printed form; bodies structurally.
func HashProgram(p *Program) hash.Hash {
	h := hProgram
	for _, item := range p.Items {
		switch item := item.(type) {
		case *Function:
			h = h.Merge(hashFunction(item))
		case *ImplBlock:
			h = h.Merge(kindHash("impl")).Merge(hash.String(item.Trait)).Merge(hash.String(item.ForType))
			for _, m := range item.Methods {
				h = h.Merge(hashFunction(m))
			}
		default:
			h = h.Merge(hash.String(item.String()))
		}
	}
	return h
}

func hashFunction(f *Function) hash.Hash {
	h := kindHash("fn").Merge(hash.String(f.Name)).Merge(hash.Bool(f.IsAsync))
	for _, p := range f.Params {
		h = h.Merge(hash.String(p.String()))
	}
	if f.Return != nil {
		h = h.Merge(hash.String(f.Return.String()))
	}
	return h.Merge(HashStmts(f.Body))
}

func hashExprs(exprs []Expr) hash.Hash {
	h := hash.Int(int64(len(exprs)))
	for _, e := range exprs {
		h = h.Merge(HashExpr(e))
	}
	return h
}

func hashFieldInits(fields []FieldInit) hash.Hash {
	h := hash.Int(int64(len(fields)))
	for _, f := range fields {
		h = h.Merge(hash.String(f.Name)).Merge(HashExpr(f.Value))
	}
	return h
}
