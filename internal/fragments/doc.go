// Package fragments implements a small string template language.
//
// Placeholders are written as [[:label]] and are replaced by the content
// inserted under that label. Anything printable with fmt can be inserted,
// including other templates. A template must not end up inside itself:
// Render reports such a cycle as ErrCycle.
//
// Conditional segments are written [[?label]]...[[/]] and are shown when the
// label has been Set. [[?!label]] negates the condition. [[?:label]] and
// [[?!:label]] test whether a placeholder has content instead. The end mark
// may carry text after the slash, so [[/label]] is a valid way to close a
// block. An end mark with no open block is a parse error rather than the end
// of the template. A block left open runs to the end of the input.
//
// Generators are written [[+label arg1 arg2]]. Label and arguments are
// separated by whitespace and may be double-quoted to keep whitespace and
// markers: [[+"my label" arg1 "[[arg2]]"]].
//
// A backslash escapes the following character, so \[[:x]] renders the
// literal text "[[:x]]".
package fragments
