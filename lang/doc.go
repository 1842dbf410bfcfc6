// Package lang implements frisp, a small dynamically typed Lisp-family
// scripting language: a lexer, a parser producing a syntax tree, a
// tree-walking evaluator, and a library of builtin operations.
//
// # Syntax
//
// Scripts are UTF-8 text made of parenthesized forms, string literals in
// double quotes, and bare tokens. A backslash inside a string escapes the
// following character verbatim. A '#' starting a token begins a comment
// that runs to the next control character. Bare tokens are Integers when
// they parse as signed decimal integers, Floats when they contain a '.'
// and parse as decimal numbers, and symbols otherwise. Symbols are runs
// of ASCII letters, digits, and punctuation other than parentheses and
// the double quote.
//
//	# factorial
//	(define fact (lambda (n)
//	  (if (< n 2) 1 (* n (fact (- n 1))))))
//	(print "10! = " (fact 10))
//
// # Evaluation
//
// A list whose head is a symbol is a special form (if, define, lambda,
// progn, and the optional eval and include) or a call. Call operands are
// evaluated left to right before the procedure is resolved and invoked.
// A bare symbol evaluates to the constant it is bound to; a symbol bound
// to a builtin evaluates to a SymbolRef, which is resolved again in the
// calling scope when invoked.
//
// A lambda call binds its parameters in a new scope. Under the default
// [ScopeDynamic] that scope is a child of the calling scope, so free
// names in the body resolve where the lambda is called. [ScopeLexical]
// parents it on the scope where the lambda was created instead.
//
// Arithmetic follows a single promotion rule: two integers yield an
// integer and any float operand widens the other to float.
//
// # Host interface
//
// [Run], [RunWithEnv], [EvalFile], and [EvalFileWithEnv] evaluate script
// text. [DefaultEnvironment] builds a root scope holding every builtin;
// [Option] values configure its output, input, capabilities, scoping,
// logger, and the host-injected args and env bindings.
package lang
