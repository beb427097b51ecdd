// Package exec provides the front door of toolcall.
//
// An [Exec] assembles one catalogue from its backends and the built-in
// tools and runs flat command lines against it. Arguments are split into
// calls on the configured delimiter ("+" by default) and run in order; the
// first failing call stops the run.
//
// # Catalogue
//
// Backends are consulted in registration order, so earlier backends win
// when two provide the same identifier:
//
//  1. the standard backends derived from config.Settings: the project
//     manifest, the scripts directory and the configured executables
//  2. the backends passed in [Options.Backends]
//  3. the built-in "toolcall/menu" and "toolcall/search" tools
//
// # Basic Usage
//
//	local := local.New("app")
//	_ = local.RegisterHandler("hello", local.ToolDef{Run: hello})
//
//	x, err := exec.New(exec.Options{Backends: []backend.Backend{local}})
//	if err != nil {
//	    return err
//	}
//	os.Exit(x.Main(ctx, []string{"hello", "duke", "+", "menu", "list", "tools"}))
//
// # Exit Codes
//
// [Exec.Main] returns [ExitOK], [ExitToolFailed], [ExitBackendError] when
// the catalogue cannot be assembled, or [ExitRequiredMissing] when a
// catalogued tool requires a tool that no backend provides.
//
// # Dry Run and Verbose Mode
//
// With Settings.DryRun the arguments are parsed but nothing is run. With
// Settings.Verbose the tool listing is printed before and a
// "Finished N tool runs in D" line after the run.
package exec
