package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kayak-ui/kayak/internal/errors"
)

func errorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "errors [code...]",
		Short: "List error codes or explain one",
		Long: `Without arguments, list every error code with its category and
message. With codes, print the full explanation of each.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, code := range errors.GetAllCodes() {
					tmpl, _ := errors.GetTemplate(code)
					fmt.Fprintf(out, "%-6s%-11s%s\n", code, tmpl.Category, tmpl.Message)
				}
				return nil
			}

			for _, code := range args {
				if _, ok := errors.GetTemplate(code); !ok {
					return errors.New("K031").WithDetail(code + " is not a known error code")
				}
			}
			for _, code := range args {
				fmt.Fprintln(out, errors.New(code).FormatCompact())
			}
			return nil
		},
	}
}
