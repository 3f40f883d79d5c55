package cli

import (
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/roach88/framboise/internal/module"
	"github.com/roach88/framboise/internal/modules"
	"github.com/roach88/framboise/internal/tablemod"
)

// ModulesOptions holds flags for the modules command.
type ModulesOptions struct {
	*RootOptions
	ModuleDir string
}

// ModuleInfo describes one available module.
type ModuleInfo struct {
	Name         string   `json:"name"`
	Source       string   `json:"source"` // "builtin" or "dir"
	Path         string   `json:"path,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
	Categories   []string `json:"categories,omitempty"`
	// Shadowed is set for directory modules hidden by a builtin of the same name.
	Shadowed bool   `json:"shadowed,omitempty"`
	Error    string `json:"error,omitempty"`
}

// NewModulesCommand creates the modules command.
func NewModulesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ModulesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "modules",
		Short: "List available modules",
		Long: `List the built-in modules and, with --module-dir, the declarative
modules found in that directory.

Example:
  framboise modules --module-dir ./modules`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModules(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ModuleDir, "module-dir", "", "directory of declarative modules")

	return cmd
}

func runModules(opts *ModulesOptions, cmd *cobra.Command) error {
	infos := listModules(opts.ModuleDir)

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout()}
		return formatter.Success(infos)
	}

	t := newTable(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"Name", "Source", "Dependencies", "Status"})
	for _, info := range infos {
		status := "ok"
		switch {
		case info.Error != "":
			status = info.Error
		case info.Shadowed:
			status = "shadowed by builtin"
		}
		source := info.Source
		if info.Path != "" {
			source = info.Path
		}
		t.AppendRow(table.Row{info.Name, source, joinOrDash(info.Dependencies), status})
	}
	t.Render()
	return nil
}

// listModules instantiates every available module to describe it.
func listModules(moduleDir string) []ModuleInfo {
	builtin := modules.Builtin()
	var infos []ModuleInfo
	for _, name := range builtin.Names() {
		infos = append(infos, describe(name, "builtin", "", builtin))
	}

	if moduleDir != "" {
		dir := tablemod.Dir(moduleDir)
		for _, name := range dir.Names() {
			path, _ := dir.Path(name)
			info := describe(name, "dir", path, dir)
			_, info.Shadowed = builtin.Lookup(name)
			infos = append(infos, info)
		}
	}

	sort.SliceStable(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

func describe(name, source, path string, src module.Source) ModuleInfo {
	info := ModuleInfo{Name: name, Source: source, Path: path}
	factory, ok := src.Lookup(name)
	if !ok {
		info.Error = "not found"
		return info
	}
	m, err := factory()
	if err != nil {
		info.Error = err.Error()
		return info
	}
	if dep, ok := m.(module.Dependent); ok {
		info.Dependencies = dep.Dependencies()
	}
	if c, ok := m.(interface{ Categories() []string }); ok {
		info.Categories = c.Categories()
	}
	return info
}
