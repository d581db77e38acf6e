package cli

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/sie/compare"
	"github.com/robinvdvleuten/sie/output"
)

type CompareCmd struct {
	First         string `help:"First SIE file." arg:"" type:"existingfile"`
	Second        string `help:"Second SIE file." arg:"" type:"existingfile"`
	IgnoreProgram bool   `help:"Ignore #PROGRAM, which differs whenever another tool wrote the file."`
}

func (cmd *CompareCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.start(ctx, "compare")
	if err != nil {
		return err
	}
	defer s.finish()

	docs, err := s.loader.LoadAll(s.ctx, cmd.First, cmd.Second)
	if err != nil {
		return err
	}

	var opts []compare.Option
	if cmd.IgnoreProgram {
		opts = append(opts, compare.WithoutProgram())
	}

	diffs := compare.Documents(docs[0], docs[1], opts...)
	if len(diffs) == 0 {
		printSuccess(ctx.Stdout, "Documents are equal")
		return nil
	}

	styles := output.NewStyles(ctx.Stdout)
	_, _ = fmt.Fprintf(ctx.Stdout, "%s %s\n%s %s\n\n",
		styles.Dim("first: "), styles.FilePath(cmd.First),
		styles.Dim("second:"), styles.FilePath(cmd.Second))
	for _, diff := range diffs {
		_, _ = fmt.Fprintf(ctx.Stdout, "  %s %s\n", styles.Warning("~"), diff)
	}
	_, _ = fmt.Fprintln(ctx.Stdout)

	printError(ctx.Stderr, fmt.Sprintf("%d difference(s) found", len(diffs)))
	return NewCommandError(1)
}
