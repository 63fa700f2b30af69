package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/yoramz/loanbook/cmd"
)

func main() {
	completion()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion handles shell completion requests. When invoked by the shell
// it prints candidates and exits; otherwise it returns immediately.
func completion() {
	ids := predict.Something
	dates := predict.Something
	effects := predict.Set{"reduceTerm", "reducePayment"}

	lbk := &complete.Command{
		Flags: map[string]complete.Predictor{
			"book-file": predict.Files("*.jsonl"),
			"cpi-file":  predict.Files("*.json"),
			"currency":  predict.Set{"ILS", "USD", "EUR"},
		},
		Sub: map[string]*complete.Command{
			"loan": {Flags: map[string]complete.Predictor{
				"id": ids, "name": predict.Something, "principal": predict.Something,
				"rate": predict.Something, "taken": dates, "first": dates, "last": dates,
				"grace": predict.Something, "cpi": predict.Nothing,
				"balloon": predict.Something, "disabled": predict.Nothing,
			}},
			"extra": {Flags: map[string]complete.Predictor{
				"id": ids, "loan": ids, "date": dates,
				"amount": predict.Something, "effect": effects,
			}},
			"rate": {Flags: map[string]complete.Predictor{
				"id": ids, "loan": ids, "date": dates, "rate": predict.Something,
			}},
			"grace": {Flags: map[string]complete.Predictor{
				"id": ids, "loan": ids, "from": dates, "to": dates,
				"policy": predict.Set{"capitalized", "interestOnly"},
			}},
			"enable":  {Args: ids},
			"disable": {Args: ids},
			"fmt":     {},
			"schedule": {Flags: map[string]complete.Predictor{
				"loan": ids, "head": predict.Something, "tail": predict.Something,
			}},
			"summary": {},
			"compare": {Flags: map[string]complete.Predictor{
				"loan": ids, "date": dates, "amount": predict.Something, "effect": effects,
			}},
			"cpi": {Sub: map[string]*complete.Command{
				"fetch": {Flags: map[string]complete.Predictor{
					"series": predict.Something, "from": dates, "to": dates,
				}},
				"set": {Flags: map[string]complete.Predictor{
					"month": dates, "value": predict.Something,
				}},
			}},
			"topic":  {Args: predict.Set{"readme", "dates", "records", "schedule", "cpi"}},
			"assist": {Args: predict.Something},
		},
	}
	lbk.Complete("lbk")
}
