// Package ast models the s-expression tree produced by ruby_parser as
// typed Go nodes, one struct per slot layout.
package ast

import "fmt"

// Node is any element of the tree.
type Node interface {
	Kind() Kind
	SourceLine() int
}

// Loc is embedded in every node and carries the line the node started on
// in the original source.
type Loc struct {
	Line int
}

func (l Loc) SourceLine() int {
	return l.Line
}

// Kind is the discriminant of a node, named after the s-expression type.
type Kind int

const (
	KindUnknown Kind = iota

	KindBlock
	KindScope
	KindClass
	KindSClass
	KindModule
	KindDefn
	KindDefs
	KindArgs

	KindCall
	KindArglist
	KindAttrAsgn
	KindIter
	KindBlockPass
	KindSplat

	KindIf
	KindCase
	KindWhen
	KindWhile
	KindUntil
	KindFor
	KindRescue
	KindResBody
	KindEnsure

	KindLasgn
	KindIasgn
	KindGasgn
	KindCvdecl
	KindCvasgn
	KindCdecl
	KindMasgn
	KindOpAsgnOr
	KindOpAsgnAnd
	KindOpAsgn1
	KindOpAsgn2

	KindAnd
	KindOr
	KindNot
	KindDefined

	KindReturn
	KindNext
	KindBreak
	KindRedo
	KindRetry
	KindYield
	KindSuper
	KindZSuper
	KindAlias

	KindStr
	KindXStr
	KindDStr
	KindDSym
	KindDRegx
	KindDXStr
	KindEvStr
	KindLit
	KindArray
	KindHash
	KindDot2
	KindDot3

	KindLvar
	KindIvar
	KindGvar
	KindCvar
	KindConst
	KindColon2
	KindColon3
	KindNthRef
	KindBackRef

	KindTrue
	KindFalse
	KindNil
	KindSelf

	kindCount
)

var kindNames = [kindCount]string{
	KindUnknown:   "unknown",
	KindBlock:     "block",
	KindScope:     "scope",
	KindClass:     "class",
	KindSClass:    "sclass",
	KindModule:    "module",
	KindDefn:      "defn",
	KindDefs:      "defs",
	KindArgs:      "args",
	KindCall:      "call",
	KindArglist:   "arglist",
	KindAttrAsgn:  "attrasgn",
	KindIter:      "iter",
	KindBlockPass: "block_pass",
	KindSplat:     "splat",
	KindIf:        "if",
	KindCase:      "case",
	KindWhen:      "when",
	KindWhile:     "while",
	KindUntil:     "until",
	KindFor:       "for",
	KindRescue:    "rescue",
	KindResBody:   "resbody",
	KindEnsure:    "ensure",
	KindLasgn:     "lasgn",
	KindIasgn:     "iasgn",
	KindGasgn:     "gasgn",
	KindCvdecl:    "cvdecl",
	KindCvasgn:    "cvasgn",
	KindCdecl:     "cdecl",
	KindMasgn:     "masgn",
	KindOpAsgnOr:  "op_asgn_or",
	KindOpAsgnAnd: "op_asgn_and",
	KindOpAsgn1:   "op_asgn1",
	KindOpAsgn2:   "op_asgn2",
	KindAnd:       "and",
	KindOr:        "or",
	KindNot:       "not",
	KindDefined:   "defined",
	KindReturn:    "return",
	KindNext:      "next",
	KindBreak:     "break",
	KindRedo:      "redo",
	KindRetry:     "retry",
	KindYield:     "yield",
	KindSuper:     "super",
	KindZSuper:    "zsuper",
	KindAlias:     "alias",
	KindStr:       "str",
	KindXStr:      "xstr",
	KindDStr:      "dstr",
	KindDSym:      "dsym",
	KindDRegx:     "dregx",
	KindDXStr:     "dxstr",
	KindEvStr:     "evstr",
	KindLit:       "lit",
	KindArray:     "array",
	KindHash:      "hash",
	KindDot2:      "dot2",
	KindDot3:      "dot3",
	KindLvar:      "lvar",
	KindIvar:      "ivar",
	KindGvar:      "gvar",
	KindCvar:      "cvar",
	KindConst:     "const",
	KindColon2:    "colon2",
	KindColon3:    "colon3",
	KindNthRef:    "nth_ref",
	KindBackRef:   "back_ref",
	KindTrue:      "true",
	KindFalse:     "false",
	KindNil:       "nil",
	KindSelf:      "self",
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, kindCount)
	for k, name := range kindNames {
		m[name] = Kind(k)
	}
	return m
}()

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// KindNamed looks up a kind by its s-expression type name.
func KindNamed(name string) (Kind, bool) {
	k, ok := kindsByName[name]
	if !ok || k == KindUnknown {
		return KindUnknown, false
	}
	return k, true
}
