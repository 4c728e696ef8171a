package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	currencyuc "example.com/catalog-admin/internal/usecase/currency"
)

// catalog convert 100 usd euro
var convertCmd = &cobra.Command{
	Use:   "convert <amount> <from> <to>",
	Short: "Convert an amount with the static rate table",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("amount must be a number: %q", args[0])
		}
		from := currencyuc.ParseCode(args[1])
		to := currencyuc.ParseCode(args[2])

		result := currencyuc.NewService().Convert(amount, from, to)
		fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(result, 'f', 2, 64))
		return nil
	},
}
