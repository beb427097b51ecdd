package call

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Call is an immutable tool invocation: the name of the tool to run and the
// arguments to pass to it.
//
// The zero value has a blank tool name and is not a valid Call; construct
// values with [Of], [OfCommand] or [OfCommandLine].
type Call struct {
	tool string
	args []string
}

// Tweak is a unary operation on a Call producing a new Call, usually with
// other arguments.
type Tweak func(Call) Call

// Of creates a Call for the named tool. Each argument is converted to its
// default string form and trimmed of surrounding whitespace.
// Returns ErrInvalidArgument if tool is blank.
func Of(tool string, args ...any) (Call, error) {
	name := strings.TrimSpace(tool)
	if name == "" {
		return Call{}, fmt.Errorf("%w: tool name must not be blank", ErrInvalidArgument)
	}
	return Call{tool: name, args: stringify(nil, args)}, nil
}

// MustOf is like Of but panics on a blank tool name.
// It is meant for static call sites with literal tool names.
func MustOf(tool string, args ...any) Call {
	c, err := Of(tool, args...)
	if err != nil {
		panic(err)
	}
	return c
}

// OfCommand creates a Call from a command slice whose first element is the
// tool name and whose remaining elements are the arguments.
func OfCommand(command []string) (Call, error) {
	if len(command) == 0 {
		return Call{}, fmt.Errorf("%w: empty command", ErrInvalidArgument)
	}
	c, err := Of(command[0])
	if err != nil {
		return Call{}, err
	}
	c.args = appendTrimmed(nil, command[1:])
	return c, nil
}

// OfCommandLine creates a Call from a whitespace separated command line,
// for example "javac --version".
func OfCommandLine(line string) (Call, error) {
	return OfCommand(strings.Fields(line))
}

// Tool returns the name of the tool to run.
func (c Call) Tool() string {
	return c.tool
}

// Args returns a copy of the argument list.
func (c Call) Args() []string {
	return slices.Clone(c.args)
}

// Len returns the number of arguments.
func (c Call) Len() int {
	return len(c.args)
}

// Append returns a new Call with the given values appended to the argument
// list. Values are stringified and trimmed.
func (c Call) Append(values ...any) Call {
	return Call{tool: c.tool, args: stringify(slices.Clone(c.args), values)}
}

// AppendKeyValue appends key and value, followed by any further values.
// It is a convenience for option pairs such as ("--release", 17).
func (c Call) AppendKeyValue(key string, value any, more ...any) Call {
	next := c.Append(key, value)
	if len(more) == 0 {
		return next
	}
	return next.Append(more...)
}

// AppendStrings appends already formed string arguments, trimming each.
func (c Call) AppendStrings(values ...string) Call {
	return Call{tool: c.tool, args: appendTrimmed(slices.Clone(c.args), values)}
}

// ExpandFiles appends every path below startDir whose slash separated path
// relative to startDir matches the glob pattern. The traversal is recursive
// with unbounded depth and the appended paths are sorted lexicographically.
//
// Patterns follow doublestar syntax: "*" does not cross directory
// boundaries, "**" does. A failing traversal or malformed pattern yields a
// *FileSystemError.
func (c Call) ExpandFiles(startDir, pattern string) (Call, error) {
	if startDir == "" {
		startDir = "."
	}
	if !doublestar.ValidatePattern(pattern) {
		return Call{}, &FileSystemError{Dir: startDir, Pattern: pattern, Err: doublestar.ErrBadPattern}
	}

	var found []string
	err := filepath.WalkDir(startDir, func(path string, _ fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(startDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		ok, err := doublestar.Match(pattern, filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		if ok {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return Call{}, &FileSystemError{Dir: startDir, Pattern: pattern, Err: err}
	}
	slices.Sort(found)
	return c.AppendStrings(found...), nil
}

// ApplyTweak returns the result of applying tweak to this Call.
func (c Call) ApplyTweak(tweak Tweak) Call {
	if tweak == nil {
		return c
	}
	return tweak(c)
}

// ApplyTweaks applies each tweak in order.
func (c Call) ApplyTweaks(tweaks ...Tweak) Call {
	tweaked := c
	for _, tweak := range tweaks {
		tweaked = tweaked.ApplyTweak(tweak)
	}
	return tweaked
}

// ApplyTweakAt applies tweak to a Call holding only the first position
// arguments and re-appends the remaining arguments afterwards. Arguments
// before position are therefore visible to the tweak, while arguments at or
// after position stay untouched and follow whatever the tweak produced.
//
// Position is clamped to the valid range [0, Len()].
func (c Call) ApplyTweakAt(position int, tweak Tweak) Call {
	position = max(0, min(position, len(c.args)))
	head := Call{tool: c.tool, args: slices.Clone(c.args[:position])}
	return head.ApplyTweak(tweak).AppendStrings(c.args[position:]...)
}

// Argv returns the argument list for delivery to a provider.
// The returned slice is a fresh copy.
func (c Call) Argv() []string {
	return slices.Clone(c.args)
}

// CommandLine joins the tool name and arguments with single spaces.
func (c Call) CommandLine() string {
	return c.CommandLineWith(" ")
}

// CommandLineWith joins the tool name and arguments with delimiter.
func (c Call) CommandLineWith(delimiter string) string {
	if len(c.args) == 0 {
		return c.tool
	}
	return c.tool + delimiter + strings.Join(c.args, delimiter)
}

// String implements fmt.Stringer.
func (c Call) String() string {
	return c.CommandLine()
}

func stringify(dst []string, values []any) []string {
	for _, v := range values {
		dst = append(dst, strings.TrimSpace(fmt.Sprint(v)))
	}
	return dst
}

func appendTrimmed(dst []string, values []string) []string {
	for _, v := range values {
		dst = append(dst, strings.TrimSpace(v))
	}
	return dst
}
