// Package lang implements the quill scripting language: a tokenizer, a
// recursive-descent parser producing an immutable syntax tree, and a
// tree-walking evaluator over a chain of scopes.
//
// # Grammar
//
// Informal EBNF, one production per precedence level:
//
//	Program     → Statements EOF
//	Statements  → (Statement ';' | 'return' [Expression] [';'])*
//	Expression  → 'let' Ident AssignOp Expression
//	            | 'assert' Expression
//	            | Comparison (('and' | 'or') Comparison)*
//	AssignOp    → '=' | '+=' | '-=' | '*=' | '/='
//	Comparison  → 'not' Comparison | Arith (RelOp Arith)*
//	RelOp       → '==' | '!=' | '<' | '<=' | '>' | '>='
//	Arith       → Term (('+' | '-') Term)*
//	Term        → Factor (('*' | '/') Factor)*
//	Factor      → Call ['^' Factor]
//	Call        → Atom ('(' [Expression (',' Expression)*] ')')*
//	Atom        → Int | Float | String | ('+' | '-') Atom
//	            | '(' Expression ')' | '[' [Expression (',' Expression)*] ']'
//	            | Ident | If | Func
//	If          → 'if' Expression Block ['else' (If | Block)]
//	Func        → 'func' Ident '(' [Ident (',' Ident)*] ')' Block
//	Block       → '{' Statements '}'
//
// Comments run from '#' to the end of the line.
//
// # Example
//
//	func fib(n) {
//	  if n < 2 { return n; };
//	  return fib(n - 1) + fib(n - 2);
//	};
//	print("fib(10) = {}", fib(10));
//
// # Evaluation
//
// Values are Integer (int32, wrapping), Float (float32), String, Function,
// List, and None. Arithmetic between an Integer and a Float yields a Float.
// Relational operators and the keywords and, or, and not yield Integer 0 or
// 1; there is no short-circuit evaluation.
//
// Functions are lexical closures. Each call runs in a fresh scope whose
// parent is the scope the function was defined in, and if branches share the
// scope of their enclosing block. A let binding always writes to the
// innermost scope.
//
// Built-ins are registered by the host with [Interpreter.Register]; [Stdlib]
// returns the standard set.
package lang
