// Package tool defines the catalogue model: tools, tasks and finders.
//
// A [Tool] is a namespaced, named capability. It is one of two kinds:
//
//   - [KindProvider]: wraps a single [Provider], optionally an [Operator]
//     that also receives the [Runner] so it can invoke sibling tools
//   - [KindTask]: wraps an ordered list of calls that are run one after
//     another by the owning runner
//
// # Finders
//
// A [Finder] is a read-only collection of tools with name resolution:
//
//	finder := tool.Compose(
//	    tool.Of(javac, jar),
//	    scripts,          // any other Finder
//	)
//	t, ok := finder.Find("jdk/jar")
//
// Identifiers have the form [namespace "/"] name ["@" suffix]. A requested
// name matches a registered name when they are equal or when the registered
// name starts with the requested name followed by "@", so "jar" finds
// "jar@21" while "jar@21" does not find "jar". When the identifier contains
// a "/", everything before the last "/" must equal the tool's namespace
// exactly. Without a "/" the namespace is ignored. The first match in
// catalogue order wins.
//
// # Tasks
//
// [ParseTask] splits a flat token stream into calls on a delimiter token:
//
//	task, err := tool.ParseTask("", "main", tool.DefaultDelimiter,
//	    []string{"jar", "--version", "+", "javac", "--version"})
//
// An empty stream yields a task with no calls. A delimiter at either end of
// the stream, or two delimiters in a row, is rejected with
// [call.ErrInvalidArgument].
package tool
