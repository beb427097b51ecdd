// Package call provides the immutable command model used to describe a single
// tool invocation: a tool name plus an ordered list of string arguments.
//
// Every builder method returns a new [Call]; the receiver is never modified.
//
//	c := call.MustOf("javac", "--release", 17)
//	c, err := c.ExpandFiles("src", "**/*.java")
//	c = c.ApplyTweakAt(0, func(c call.Call) call.Call {
//	    return c.Append("-d", "out")
//	})
//
// # Tweaks
//
// A [Tweak] is a pure function from one Call to another. Tweaks let callers
// splice extra arguments into a command without knowing its base argument
// list. [Call.ApplyTweakAt] applies a tweak to the prefix of the argument list
// only, which injects arguments at a fixed position.
package call
