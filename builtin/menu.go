package builtin

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/jonwraymond/toolcall/call"
	"github.com/jonwraymond/toolcall/tool"
)

// Namespace is the namespace of every built-in tool.
const Namespace = "toolcall"

// Menu is an operator that dispatches its first argument to one of its
// items and hands the remaining arguments over.
type Menu struct {
	name  string
	items tool.Finder
}

// NewMenu creates a menu named name over items.
func NewMenu(name string, items ...tool.Tool) *Menu {
	return &Menu{name: name, items: tool.Of(items...)}
}

// Name returns the menu name.
func (m *Menu) Name() string { return m.name }

// Items returns the tools reachable through the menu.
func (m *Menu) Items() tool.Finder { return m.items }

// Description lists the item names.
func (m *Menu) Description() string {
	return fmt.Sprintf("Menu of %v", m.itemNames())
}

// Run prints the usage listing. Selecting an item needs a runner.
func (m *Menu) Run(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	return m.RunWith(ctx, nil, argv, stdout, stderr)
}

// RunWith runs the selected item through runner. Without arguments it
// prints the usage and the sorted item names.
func (m *Menu) RunWith(ctx context.Context, runner tool.Runner, argv []string, stdout, stderr io.Writer) int {
	if len(argv) == 0 {
		fmt.Fprintf(stdout, "Usage: %s <item> ...\n", m.name)
		for _, name := range m.itemNames() {
			fmt.Fprintln(stdout, name)
		}
		return 0
	}
	item, ok := m.items.Find(argv[0])
	if !ok {
		fmt.Fprintf(stderr, "Item not found: %s\n", argv[0])
		return 1
	}
	if runner == nil {
		fmt.Fprintf(stderr, "%s requires a runner\n", m.name)
		return 1
	}
	c, err := call.OfCommand(append([]string{item.Name()}, argv[1:]...))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if err := runner.RunTool(ctx, item, c); err != nil {
		return 1
	}
	return 0
}

func (m *Menu) itemNames() []string {
	var names []string
	for _, t := range m.items.Tools() {
		names = append(names, t.Name())
	}
	slices.Sort(names)
	return names
}

// ListTools prints the sorted names of the tools the runner can resolve.
func ListTools(_ context.Context, runner tool.Runner, _ []string, stdout, _ io.Writer) int {
	var names []string
	for _, t := range runner.Finder().Tools() {
		names = append(names, t.Name())
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintln(stdout, name)
	}
	return 0
}

// Tools returns the built-in catalogue: a "menu" tool with the "file" and
// "list" sub-menus. browser serves the network items; nil uses a default
// browser.
func Tools(browser *Browser) []tool.Tool {
	if browser == nil {
		browser = NewBrowser(nil)
	}
	file := NewMenu("file",
		tool.MustProvider(Namespace, tool.ProviderOf("checksum", Checksum)),
		tool.MustProvider(Namespace, tool.ProviderOf("download", browser.DownloadTool)),
		tool.MustProvider(Namespace, tool.ProviderOf("extract", Extract)),
		tool.MustProvider(Namespace, tool.ProviderOf("head", browser.HeadTool)),
		tool.MustProvider(Namespace, tool.ProviderOf("read", browser.ReadTool)),
	)
	list := NewMenu("list",
		tool.MustProvider(Namespace, tool.OperatorOf("tools", ListTools)),
	)
	menu := NewMenu("menu",
		tool.MustProvider(Namespace, file),
		tool.MustProvider(Namespace, list),
	)
	return []tool.Tool{tool.MustProvider(Namespace, menu)}
}

// Finder returns Tools(browser) as a finder.
func Finder(browser *Browser) tool.Finder {
	return tool.Of(Tools(browser)...)
}
