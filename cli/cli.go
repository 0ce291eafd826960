// Package cli assembles cobra command trees from commands registered in an
// injector. Commands are plain implementations of Command collected through
// a list multibinding, so an application wires subcommands the same way it
// wires any other dependency.
package cli

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/graftwire/graft"
	"github.com/graftwire/graft/console"
)

// Command is one subcommand of an App. Implementations are collected from
// the injector's Command list multibinding at Execute time.
type Command interface {
	// Name is the cobra Use line, typically a single word.
	Name() string
	// Synopsis is the one-line help text.
	Synopsis() string
	// Configure customizes the generated cobra command, usually flags.
	Configure(cmd *cobra.Command)
	// Run executes the command.
	Run(ctx context.Context, con console.Console, args []string) error
}

// App is a cobra root command fed by an injector.
type App struct {
	name     string
	synopsis string
	version  string
	dotenv   []string
	injector *graft.Injector
	console  console.Console
}

// Option adjusts an App.
type Option func(*App)

// WithSynopsis sets the root command's one-line description.
func WithSynopsis(s string) Option {
	return func(a *App) { a.synopsis = s }
}

// WithVersion enables cobra's --version flag.
func WithVersion(v string) Option {
	return func(a *App) { a.version = v }
}

// WithDotenv loads the given env files before dispatch. No arguments means
// ".env". Missing files are not an error.
func WithDotenv(files ...string) Option {
	return func(a *App) {
		if len(files) == 0 {
			files = []string{".env"}
		}
		a.dotenv = files
	}
}

// WithConsole replaces the console handed to commands.
func WithConsole(c console.Console) Option {
	return func(a *App) { a.console = c }
}

// New builds an App around the injector. A nil injector gets an empty one.
func New(in *graft.Injector, name string, opts ...Option) *App {
	if in == nil {
		in = graft.New(nil)
	}
	a := &App{
		name:     name,
		injector: in,
		console:  console.NewStandard(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Execute loads env files, assembles the command tree, and dispatches args.
func (a *App) Execute(ctx context.Context, args []string) error {
	if len(a.dotenv) > 0 {
		// the files may not exist outside development
		_ = godotenv.Load(a.dotenv...)
	}

	root, err := a.buildRoot()
	if err != nil {
		return err
	}
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (a *App) buildRoot() (*cobra.Command, error) {
	root := &cobra.Command{
		Use:           a.name,
		Short:         a.synopsis,
		Version:       a.version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmds, err := graft.InjectList[Command](a.injector)
	if err != nil && !graft.IsNotFound(err) {
		return nil, err
	}
	for _, c := range cmds {
		root.AddCommand(a.assemble(c))
	}

	root.AddCommand(&cobra.Command{
		Use:    "bindings",
		Short:  "Dump the injector's bindings",
		Hidden: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.console.Print(graft.SprintBindings(a.injector))
			return nil
		},
	})
	return root, nil
}

func (a *App) assemble(c Command) *cobra.Command {
	cc := &cobra.Command{
		Use:   c.Name(),
		Short: c.Synopsis(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run(cmd.Context(), a.console, args)
		},
	}
	c.Configure(cc)
	return cc
}
