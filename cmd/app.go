// Package cmd implements the CLI application to manage a loan book.
package cmd

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/google/subcommands"

	"github.com/yoramz/loanbook"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&loanCmd{}, "records")
	c.Register(&extraCmd{}, "records")
	c.Register(&rateCmd{}, "records")
	c.Register(&graceCmd{}, "records")
	c.Register(&enableCmd{enable: true}, "records")
	c.Register(&enableCmd{}, "records")
	c.Register(&fmtCmd{}, "records")

	c.Register(&scheduleCmd{}, "reports")
	c.Register(&summaryCmd{}, "reports")
	c.Register(&compareCmd{}, "reports")

	c.Register(&cpiCmd{}, "cpi")

	c.Register(&topicCmd{}, "documentation")
	c.Register(&assistCmd{}, "documentation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var bookFile = flag.String("book-file", "loans.jsonl", "Path to the loan book file (JSONL format)")
var cpiFile = flag.String("cpi-file", "cpi.json", "Path to the CPI index sidecar file")
var defaultCurrency = flag.String("currency", "ILS", "Reporting currency tag for new books")

// DecodeBook reads the app default book file. A missing file is an empty
// book, not an error.
func DecodeBook() (*loanbook.Book, error) {
	f, err := os.Open(*bookFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return loanbook.NewBook(*defaultCurrency), nil
		}
		return nil, fmt.Errorf("could not open book file %q: %w", *bookFile, err)
	}
	defer f.Close()

	book, err := loanbook.DecodeBook(f, *defaultCurrency)
	if err != nil {
		return nil, fmt.Errorf("could not decode book file %q: %w", *bookFile, err)
	}
	return book, nil
}

// SaveBook rewrites the app default book file in canonical form.
func SaveBook(book *loanbook.Book) error {
	f, err := os.Create(*bookFile)
	if err != nil {
		return fmt.Errorf("could not create book file %q: %w", *bookFile, err)
	}
	defer f.Close()
	if err := loanbook.EncodeBook(f, book); err != nil {
		return fmt.Errorf("could not write book file %q: %w", *bookFile, err)
	}
	return nil
}

// AppendRecord appends a single record to the app default book file.
func AppendRecord(r loanbook.Record) subcommands.ExitStatus {
	f, err := os.OpenFile(*bookFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening book file %q: %v\n", *bookFile, err)
		return subcommands.ExitFailure
	}
	defer f.Close()

	if err := loanbook.EncodeRecord(f, r); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing to book file %q: %v\n", *bookFile, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Successfully appended %s %q to %s\n", r.Kind(), r.Ref(), *bookFile)
	return subcommands.ExitSuccess
}

// LoadCPI reads the CPI sidecar file. A missing file is an empty table.
func LoadCPI() (loanbook.CPITable, error) {
	data, err := os.ReadFile(*cpiFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return loanbook.CPITable{}, nil
		}
		return nil, fmt.Errorf("could not open CPI file %q: %w", *cpiFile, err)
	}
	var table loanbook.CPITable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("could not decode CPI file %q: %w", *cpiFile, err)
	}
	return table, nil
}

// SaveCPI writes the CPI sidecar file.
func SaveCPI(table loanbook.CPITable) error {
	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(*cpiFile, data, 0644); err != nil {
		return fmt.Errorf("could not write CPI file %q: %w", *cpiFile, err)
	}
	return nil
}

// BookSource adapts the app files for the advisor agent.
func BookSource() func() (*loanbook.Book, loanbook.CPITable, error) {
	return func() (*loanbook.Book, loanbook.CPITable, error) {
		book, err := DecodeBook()
		if err != nil {
			return nil, nil, err
		}
		cpi, err := LoadCPI()
		if err != nil {
			return nil, nil, err
		}
		return book, cpi, nil
	}
}
