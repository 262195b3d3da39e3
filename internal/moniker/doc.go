// Package moniker resolves version applicability ("monikers") for docset files.
//
// A Definition is the ordered universe of known monikers. Range strings such
// as ">= v1.0 < v2.0 || v3.0" are parsed into an Expression tree and evaluated
// against that universe; comparisons follow declaration order, not lexical or
// semantic-version order. A Provider maps file paths to moniker lists using
// ordered glob rules and narrows them with in-content zone ranges.
//
// Range grammar:
//
//	expr    := and ( "||" and )*
//	and     := unary ( ["&&"] unary )*
//	unary   := "!" unary | primary
//	primary := "(" expr ")" | [op] NAME
//	op      := "=" | "<" | "<=" | ">" | ">="
package moniker
