package main

import (
	"io"

	"github.com/urfave/cli/v2"

	"github.com/pfind/pfind/internal/config"
)

const appName = "pfind"

const appDescription = `pfind walks one or more directories in parallel and prints every path
matching a boolean expression over file attributes.

Examples:

   pfind -e 'name=*.log and size>1Mb' /var/log
   pfind -e 'ext=go and contains=r"TODO|FIXME"' .
   pfind -e 'perm=777 or (user=0 and perm=644)' /srv
   pfind -e 'mtime > now - 1d and not name=*.tmp'
   pfind -e 'type=image and size>10Mb' ~/Pictures

Attributes: size, depth, type, atime, mtime, name, ext, contains, user,
group, perm. Combine with 'and', 'or', 'not' and parentheses; 'and' binds
tighter than 'or'. Patterns are globs by default ('*.log'), regexes with an
r prefix (r'^[a-z]+$'), case-insensitive with an i prefix (i'*.JPG').`

// newApp builds the CLI surface: every flag binds straight into opts, and
// action runs once flag parsing succeeds.
func newApp(opts *config.Options, stdout, stderr io.Writer, action func(cCtx *cli.Context) error) *cli.App {
	app := cli.NewApp()
	app.Name = appName
	app.Usage = "find files by boolean expressions over their attributes"
	app.UsageText = appName + " [options] -e <expression> [path ...]"
	app.Description = appDescription
	app.Writer = stdout
	app.ErrWriter = stderr
	app.HideHelpCommand = true

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:        "expression",
			Aliases:     []string{"e"},
			Usage:       "predicate `EXPR` an entry must satisfy to be printed",
			Required:    true,
			Destination: &opts.Expression,
		},
		&cli.BoolFlag{
			Name:        "print-expression-tree",
			Aliases:     []string{"q"},
			Usage:       "print the parsed expression tree and exit",
			Destination: &opts.PrintTree,
		},
		&cli.IntFlag{
			Name:        "threads",
			Aliases:     []string{"t"},
			Usage:       "number of worker threads",
			Value:       opts.Threads,
			Destination: &opts.Threads,
		},
		&cli.BoolFlag{
			Name:        "all",
			Aliases:     []string{"a"},
			Usage:       "enable all standard ignore filters on the walker",
			Destination: &opts.AllStandardFilters,
		},
		&cli.BoolFlag{
			Name:        "print0",
			Usage:       "separate output paths with NUL instead of newline",
			Destination: &opts.Print0,
		},
		&cli.BoolFlag{Name: "ignore-hidden", Usage: "skip hidden files and directories"},
		&cli.BoolFlag{Name: "read-parents", Usage: "honor ignore files from directories above each root"},
		&cli.BoolFlag{Name: "read-ignore", Usage: "honor .ignore files"},
		&cli.BoolFlag{Name: "read-git-ignore", Usage: "honor .gitignore files"},
		&cli.BoolFlag{Name: "read-git-global", Usage: "honor the global git ignore file"},
		&cli.BoolFlag{Name: "read-git-exclude", Usage: "honor .git/info/exclude files"},
		&cli.BoolFlag{Name: "same-filesystem", Usage: "do not cross filesystem boundaries"},
	}

	app.Action = func(cCtx *cli.Context) error {
		opts.Roots = cCtx.Args().Slice()

		bindWalkerOverrides(cCtx, opts)

		if err := opts.Validate(); err != nil {
			return err
		}

		return action(cCtx)
	}

	return app
}

// bindWalkerOverrides copies the tri-state walker flags into opts: a flag
// the user never mentioned stays nil, so the walker applies its default.
func bindWalkerOverrides(cCtx *cli.Context, opts *config.Options) {
	overrides := []struct {
		name   string
		target **bool
	}{
		{"ignore-hidden", &opts.IgnoreHidden},
		{"read-parents", &opts.ReadParents},
		{"read-ignore", &opts.ReadIgnore},
		{"read-git-ignore", &opts.ReadGitIgnore},
		{"read-git-global", &opts.ReadGitGlobal},
		{"read-git-exclude", &opts.ReadGitExclude},
		{"same-filesystem", &opts.SameFilesystem},
	}

	for _, o := range overrides {
		if cCtx.IsSet(o.name) {
			value := cCtx.Bool(o.name)
			*o.target = &value
		}
	}
}
