package cli

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/sie/output"
	"github.com/robinvdvleuten/sie/parser"
)

type ProbeCmd struct {
	Files []string `help:"SIE files to probe." arg:"" type:"existingfile"`
}

func (cmd *ProbeCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.start(ctx, "probe")
	if err != nil {
		return err
	}
	defer s.finish()

	styles := output.NewStyles(ctx.Stdout)
	for _, file := range cmd.Files {
		version, err := s.loader.Probe(s.ctx, file)
		if err != nil {
			return err
		}

		result := styles.Warning("no #SIETYP")
		if version != parser.VersionNotFound {
			result = styles.Keyword(fmt.Sprintf("SIE %d", version))
		}
		_, _ = fmt.Fprintf(ctx.Stdout, "%s: %s\n", styles.FilePath(file), result)
	}

	return nil
}
