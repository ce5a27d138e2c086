package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ehr/fhirstu3/internal/examples"
	"github.com/ehr/fhirstu3/internal/platform/fhir"
	"github.com/ehr/fhirstu3/pkg/fhirmodels"
	"github.com/ehr/fhirstu3/pkg/fhirparser"
)

// readInput reads a file argument, or standard input for "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// parserFromFlags builds a parser from the --strict and --pretty flags.
func parserFromFlags(cmd *cobra.Command) *fhirparser.Parser {
	strict, _ := cmd.Flags().GetBool("strict")
	pretty, _ := cmd.Flags().GetBool("pretty")
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := zerolog.Nop()
	if verbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).Level(zerolog.DebugLevel)
	}
	return fhirparser.New(
		fhirparser.WithStrict(strict),
		fhirparser.WithPrettyPrint(pretty),
		fhirparser.WithLogger(logger),
	)
}

func addParserFlags(cmd *cobra.Command, pretty bool) {
	cmd.Flags().Bool("strict", false, "Reject elements that do not survive a round trip")
	cmd.Flags().Bool("pretty", pretty, "Indent JSON output")
	cmd.Flags().BoolP("verbose", "v", false, "Log dropped elements and unmodeled resources")
}

// printIssues writes one line per OperationOutcome issue.
func printIssues(w io.Writer, issues []fhirmodels.OperationOutcomeIssue) {
	for _, iss := range issues {
		fmt.Fprintf(w, "%-8s %-14s %-30s %s\n", iss.Severity, iss.Code, strings.Join(iss.Expression, ","), iss.Diagnostics)
	}
}

func parseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <file|->",
		Short: "Parse a resource into its typed model and print it back as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			p := parserFromFlags(cmd)
			r, err := p.Parse(data)
			if err != nil {
				if oo := fhirparser.AsOperationOutcome(err); oo != nil {
					printIssues(cmd.ErrOrStderr(), oo.Issue)
				}
				return err
			}
			out, err := p.FromFhir(r)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	addParserFlags(cmd, true)
	return cmd
}

type roundTripInput struct {
	name string
	data []byte
}

func roundTripCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roundtrip [files...]",
		Short: "Check that resources survive parse and re-serialization unchanged",
		RunE: func(cmd *cobra.Command, args []string) error {
			useExamples, _ := cmd.Flags().GetBool("examples")
			var inputs []roundTripInput
			if useExamples {
				fixtures, err := examples.Manifest()
				if err != nil {
					return err
				}
				for _, f := range fixtures {
					data, err := examples.Load(f.File)
					if err != nil {
						return err
					}
					inputs = append(inputs, roundTripInput{name: f.File, data: data})
				}
			}
			for _, path := range args {
				data, err := readInput(cmd, path)
				if err != nil {
					return err
				}
				inputs = append(inputs, roundTripInput{name: path, data: data})
			}
			if len(inputs) == 0 {
				return fmt.Errorf("no input: pass files or --examples")
			}

			p := parserFromFlags(cmd)
			out := cmd.OutOrStdout()
			failed := 0
			for _, in := range inputs {
				_, diffs, err := p.RoundTrip(in.data)
				switch {
				case err != nil:
					failed++
					fmt.Fprintf(out, "FAIL %s: %v\n", in.name, err)
				case len(diffs) > 0:
					failed++
					fmt.Fprintf(out, "LOSSY %s\n", in.name)
					for _, d := range diffs {
						fmt.Fprintf(out, "    %s\n", d)
					}
				default:
					fmt.Fprintf(out, "ok   %s\n", in.name)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d resources did not round-trip", failed, len(inputs))
			}
			return nil
		},
	}
	cmd.Flags().Bool("examples", false, "Include the embedded example resources")
	addParserFlags(cmd, false)
	return cmd
}

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file|->",
		Short: "Validate a resource and print the resulting issues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			requireID, _ := cmd.Flags().GetBool("require-id")
			result := fhir.NewValidator(parserFromFlags(cmd)).ValidateResource(data, fhir.ValidateOptions{RequireID: requireID})
			if len(result.Issues) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "valid")
				return nil
			}
			printIssues(cmd.OutOrStdout(), result.Issues)
			if !result.Valid {
				return fmt.Errorf("validation failed with %d issue(s)", len(result.Issues))
			}
			return nil
		},
	}
	cmd.Flags().Bool("require-id", false, "Require the resource to carry an id")
	addParserFlags(cmd, false)
	return cmd
}

func convertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <file|->",
		Short: "Convert between a Bundle and NDJSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			to, _ := cmd.Flags().GetString("to")
			p := parserFromFlags(cmd)
			switch to {
			case "ndjson":
				return bundleToNDJSON(p, data, cmd.OutOrStdout())
			case "bundle":
				bundleType, _ := cmd.Flags().GetString("type")
				ctx := cmd.Context()
				if ctx == nil {
					ctx = context.Background()
				}
				return ndjsonToBundle(ctx, p, data, bundleType, cmd.OutOrStdout())
			}
			return fmt.Errorf("unsupported --to %q: want ndjson or bundle", to)
		},
	}
	cmd.Flags().String("to", "ndjson", "Output format: ndjson or bundle")
	cmd.Flags().String("type", fhirmodels.BundleTypeCollection, "Bundle type when converting to a bundle")
	addParserFlags(cmd, true)
	return cmd
}

func bundleToNDJSON(p *fhirparser.Parser, data []byte, w io.Writer) error {
	bundle, err := fhirparser.Decode[fhirmodels.Bundle](p, data)
	if err != nil {
		return err
	}
	nw := fhirparser.NewNDJSONWriter(w)
	for _, r := range fhirparser.BundleResources(bundle) {
		if err := nw.WriteResource(r); err != nil {
			return err
		}
	}
	return nw.Flush()
}

func ndjsonToBundle(ctx context.Context, p *fhirparser.Parser, data []byte, bundleType string, w io.Writer) error {
	var resources []fhirmodels.Resource
	var failures []string
	for res := range p.ReadNDJSON(ctx, bytes.NewReader(data)) {
		if res.Err != nil {
			failures = append(failures, fmt.Sprintf("line %d: %v", res.Line, res.Err))
			continue
		}
		resources = append(resources, res.Resource)
	}
	if len(failures) > 0 {
		return fmt.Errorf("invalid ndjson:\n%s", strings.Join(failures, "\n"))
	}
	out, err := p.FromFhir(fhirparser.NewBundle(bundleType, resources...))
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(out))
	return nil
}

func examplesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "examples [file]",
		Short: "List the embedded example resources, or print one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				data, err := examples.Load(args[0])
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}

			rt, _ := cmd.Flags().GetString("type")
			var fixtures []examples.Fixture
			var err error
			if rt != "" {
				fixtures, err = examples.ByResourceType(rt)
			} else {
				fixtures, err = examples.Manifest()
			}
			if err != nil {
				return err
			}
			for _, f := range fixtures {
				fmt.Fprintf(out, "%-34s %-18s %s\n", f.File, f.ResourceType, f.Description)
			}
			return nil
		},
	}
	cmd.Flags().String("type", "", "Only list examples of this resource type")
	return cmd
}
