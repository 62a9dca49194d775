package cmd

import (
	"github.com/spf13/cobra"
)

var RootCmd = &cobra.Command{
	Use:   "payflow",
	Short: "unified checkout and transaction orchestration",
	Long:  `payflow orchestrates checkout attempts across transfer, bill, telecom, merchant and QR payment rails: fee quoting, validation and dispatch behind one API.`,
}

func init() {
	RootCmd.AddCommand(quoteCmd())
	RootCmd.AddCommand(serverCommand())
	RootCmd.AddCommand(migrateCommand())
}
