// Package lang implements the hostscript language: a character-scanning
// recursive-descent parser and a tree-walking evaluator whose programs read,
// write, call into, and construct instances of a host type system.
//
// # Grammar
//
// Informal EBNF:
//
//	program     → statement*
//	statement   → 'return' expression? ';' | expression ';'
//	expression  → primary ( '=' expression | '(' args ')' )?
//	primary     → number | string | char | typeRef | funcLit | access
//	access      → ident ('.' segment)*
//	segment     → ident | digits
//	typeRef     → '.' ident ('.' ident)*
//	funcLit     → '(' params ')' '{' statement* '}'
//	params      → [ '...'? ident (',' '...'? ident)* ]
//	args        → [ expression (',' expression)* ]
//
// Only the last parameter may carry the variadic marker. Strings and chars
// have no escape sequences, and a char holds exactly one character. A bare
// integer is an Int64 and a bare decimal is a Float32; the suffixes L, F, and
// D select Int64, Float32, and Float64. Line comments start with //.
//
// # Example
//
//	greet = (name) { s = .host.StringBuilder("hello, "); s.append(name); s.toString(); };
//	greet("world");                    // hello, world
//	p = .host.Point(3, 4);
//	p.distance(.host.Point.origin);    // 5
//	sum = (first, ...rest) { rest; };
//	sum(1, 2, 3);                      // [2, 3]
//
// # Scoping
//
// Scoping is flat. A closure call pushes one frame; inside it, names resolve
// in that frame and then in the globals. Frames of enclosing calls are not
// visible, and function literals do not capture the frame they are defined
// in.
//
// # Host types
//
// Type references, member access on host values, and calls of host methods
// and constructors go through an [Interop]. Overloads are resolved by taking
// the first declared candidate whose arity, static context, and parameter
// types match; no candidate is preferred for being more specific.
//
// # Errors
//
// Every failure is an [*Error] derived from one of the sentinel errors of
// this package, including failures raised by the host. After a failed
// statement the [Interpreter] remains usable; effects performed before the
// failure are kept.
package lang
