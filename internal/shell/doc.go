// Package shell implements the two line-oriented console tools: a network
// editor (NetTool) and a processor driver (ProcTool).
//
// Both read one command per line. The first token selects the command and
// is case-insensitive; "#" starts a comment line, "?" prints the command
// list, and "Q" quits. Commands that take JSON read it from a file named on
// the same line, or, when no file is given, from the lines that follow
// until a complete JSON value has been read.
//
// A failing command prints its error and the shell keeps reading. Nothing
// an operator types makes the shell panic.
package shell
