package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"homecmd/internal/application"
	"homecmd/internal/domain"
)

func newResolveCmd(load func() (*env, error)) *cobra.Command {
	var (
		intentFile string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "resolve [utterance...]",
		Short: "Resolve one utterance or tagged tree and publish the commands",
		Example: `  homecmd resolve --dry-run lights on and volume 50
  echo '{"intent":"scene_change","entities":{"scene":[{"value":"movie"}]}}' | homecmd resolve --intent-file -`,
		Args: func(_ *cobra.Command, args []string) error {
			if (len(args) == 0) == (intentFile == "") {
				return errors.New("give either an utterance or --intent-file")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := load()
			if err != nil {
				return err
			}
			defer e.logger.Sync()

			in, err := readInput(cmd.InOrStdin(), intentFile, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var pub application.Publisher = printPublisher{w: out}
			if !dryRun {
				bus, closeBus, err := e.connect(cmd.Context())
				if err != nil {
					return err
				}
				defer closeBus()
				pub = bus
			}

			say := application.NotifierFunc(func(_ context.Context, phrase string) error {
				_, err := fmt.Fprintf(out, "> %s\n", phrase)
				return err
			})

			assistant := application.NewAssistant(nil, e.resolver(), pub, e.notifiers(say), e.options(), e.logger)

			var failed int
			results := assistant.Handle(cmd.Context(), in)
			for _, r := range results {
				if r.Err != nil {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d commands could not be published", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&intentFile, "intent-file", "i", "", "read a tagged entity tree from this JSON file ('-' for stdin)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print topics and payloads instead of publishing")
	return cmd
}

func readInput(stdin io.Reader, intentFile string, args []string) (domain.Input, error) {
	if intentFile == "" {
		return domain.FreeText(strings.Join(args, " ")), nil
	}

	r := stdin
	if intentFile != "-" {
		f, err := os.Open(intentFile)
		if err != nil {
			return nil, fmt.Errorf("opening intent file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var tree domain.EntityTree
	if err := json.NewDecoder(r).Decode(&tree); err != nil {
		return nil, fmt.Errorf("decoding entity tree: %w", err)
	}
	return domain.TaggedIntent{Tree: tree}, nil
}

// printPublisher stands in for the broker in --dry-run mode.
type printPublisher struct {
	w io.Writer
}

func (p printPublisher) Publish(_ context.Context, topic, payload string) error {
	_, err := fmt.Fprintf(p.w, "%s %s\n", topic, payload)
	return err
}
