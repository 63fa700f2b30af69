package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// enableCmd flips a record's enabled flag; the same type serves both the
// enable and the disable commands.
type enableCmd struct {
	enable bool
}

func (c *enableCmd) Name() string {
	if c.enable {
		return "enable"
	}
	return "disable"
}

func (c *enableCmd) Synopsis() string {
	if c.enable {
		return "include a record in reports again"
	}
	return "exclude a record from reports without deleting it"
}

func (c *enableCmd) Usage() string {
	return fmt.Sprintf(`lbk %s <id>...

  Flips the enabled flag of the records with the given IDs and rewrites the
  book. Disabling a loan also silences every modifier that references it;
  this is the cheap way to build what-if books.
`, c.Name())
}

func (c *enableCmd) SetFlags(f *flag.FlagSet) {}

func (c *enableCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one record ID is required.")
		return subcommands.ExitUsageError
	}

	book, err := DecodeBook()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	for _, id := range f.Args() {
		if !book.SetEnabled(id, c.enable) {
			fmt.Fprintf(os.Stderr, "Error: no record with ID %q in %s\n", id, *bookFile)
			return subcommands.ExitFailure
		}
	}

	if err := SaveBook(book); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Successfully %sd %d record(s) in %s\n", c.Name(), f.NArg(), *bookFile)
	return subcommands.ExitSuccess
}
