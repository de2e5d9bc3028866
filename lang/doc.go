// Package lang implements tinct, a tiny interpreted expression language for
// embedding scripted logic (arithmetic, conditionals, loops, dictionaries, and
// first-class functions) in a host program.
//
// Source text passes through three stages:
//
//	tokens, err := lang.Tokenize(src)   // []Token
//	stmts, err := lang.Parse(tokens)    // []Node, one per statement
//	value, err := lang.Evaluate(ctx, stmts, scope)
//
// [Compile] performs the first two stages, and [CompileReader] additionally
// caches programs by content.
//
// # Syntax
//
//	n = 10;                         # assignment
//	sum = n + 2 * 3;                # arithmetic: + - * / %
//	big = sum > 100;                # comparison: == != > <
//	add = {(a, b) a + b};           # function literal
//	add(1, 2);                      # call
//	pet = {"name": "dog", "age": 3}; # dictionary
//	pet["name"] = "cat";            # member write
//	if(big, {() log("big")}, {() log("small")});
//	while(n < 20, {() n = n + 1});
//
// Statements are separated by ';'. Comments are not part of the language;
// the lines above are annotated for illustration only.
//
// # Evaluation
//
// Chained operators nest to the right without precedence, so 2 * 3 + 4 is
// 2 * (3 + 4). By default '-' adds; see [WithSubtraction].
//
// Function bodies and arguments are evaluated in the caller's scope, so
// parameters and assignments made inside a call remain visible after it
// returns. [WithIsolatedScope] gives each call its own child scope instead.
//
// Only the value of the last statement is returned. A bare break ends the
// statement list it appears in. Functions and dictionaries are first-class
// values; [ToSingleToken] reduces them to the placeholder strings
// "[Function]" and "[Dictionary]" for display.
//
// # Built-ins
//
// The functions log, concat, defined, if, and while are always available and
// take precedence over user functions of the same name.
//
// # Errors
//
// Errors match one of the package sentinels, such as [ErrUndefinedSymbol] or
// [ErrArity], with [errors.Is], and carry slog attributes for structured
// logging.
package lang
