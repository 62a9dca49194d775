package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"payflow/checkout"
	"payflow/pricing/fixed"
	pt "payflow/pricing/pricing"
)

var inputPath string
var outputPath string

func quoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "quote",
		Short:   "batch-quote fees from a CSV file",
		Long:    `accept two CSV file paths, one for input and one for output. Each input row is one (kind, amount, currency, country) combination; the output CSV adds the quoted fee and the total payable, priced with the static fee schedule.`,
		Example: `payflow quote --input requests.csv --output quotes.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if inputPath == "" || outputPath == "" {
				return cmd.Help()
			}

			inputFile, err := os.Open(inputPath)
			if err != nil {
				return err
			}
			defer func(inputFile *os.File) {
				err := inputFile.Close()
				if err != nil {
					log.Fatalf("Failed to close input file: %v", err)
				}
			}(inputFile)

			csvContent, err := csv.NewReader(inputFile).ReadAll()
			if err != nil {
				return err
			}

			requests, err := ParseCSVToQuoteRequests(csvContent)
			if err != nil {
				return fmt.Errorf("failed to parse CSV: %w", err)
			}
			if len(requests) == 0 {
				return fmt.Errorf("no quote requests found in the CSV")
			}

			outputFile, err := os.Create(outputPath)
			if err != nil {
				return err
			}
			defer func(outputFile *os.File) {
				err := outputFile.Close()
				if err != nil {
					log.Fatalf("Failed to close output file: %v", err)
				}
			}(outputFile)

			client := fixed.NewClient()
			writer := csv.NewWriter(outputFile)
			if err := writer.Write([]string{"kind", "amount", "currency", "country", "fee", "total"}); err != nil {
				return err
			}
			for _, req := range requests {
				quote, err := client.Quote(context.Background(), req)
				if err != nil {
					return fmt.Errorf("failed to quote %s: %w", req.Kind, err)
				}
				row := []string{
					req.Kind,
					req.Amount.String(),
					req.Currency,
					req.Country,
					quote.Fee.String(),
					req.Amount.Add(quote.Fee).String(),
				}
				if err := writer.Write(row); err != nil {
					return err
				}
			}
			writer.Flush()

			return writer.Error()
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "csv input file path (required)")
	err := cmd.MarkFlagRequired("input")
	if err != nil {
		log.Fatal(err)
		return nil
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "csv output file path (required)")
	err = cmd.MarkFlagRequired("output")
	if err != nil {
		log.Fatal(err)
		return nil
	}

	return cmd
}

// ParseCSVToQuoteRequests parses CSV content into pricing quote requests.
// Expected columns: kind, amount, currency, country; the first row is a
// header and is skipped.
func ParseCSVToQuoteRequests(csvContent [][]string) ([]pt.QuoteRequest, error) {
	if len(csvContent) == 0 {
		return nil, fmt.Errorf("CSV is empty")
	}

	dataRows := csvContent[1:]

	var requests []pt.QuoteRequest
	for i, row := range dataRows {
		if len(row) != 4 {
			return nil, fmt.Errorf("row %d: expected 4 columns, but got %d", i+2, len(row)) // +2 to account for the header row
		}

		kind := checkout.Kind(strings.TrimSpace(row[0]))
		if !kind.Valid() {
			return nil, fmt.Errorf("row %d: unknown transaction kind %q", i+2, row[0])
		}

		amount, err := decimal.NewFromString(strings.TrimSpace(row[1]))
		if err != nil {
			return nil, fmt.Errorf("row %d: failed to convert amount '%s': %w", i+2, row[1], err)
		}
		if amount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("row %d: amount must be greater than zero", i+2)
		}

		requests = append(requests, pt.QuoteRequest{
			Kind:     string(kind),
			Amount:   amount,
			Currency: strings.TrimSpace(row[2]),
			Country:  strings.TrimSpace(row[3]),
		})
	}

	return requests, nil
}
