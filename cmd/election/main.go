// Command election runs a simulated Benaloh election end to end and
// prints the resulting tally alongside a summary of every proof the
// core verified along the way. Exit code 0 iff every proof accepted.
package main

import (
	"crypto/rand"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/go-benaloh/election/internal/config"
	"github.com/go-benaloh/election/internal/logging"
	"github.com/go-benaloh/election/pkg/election"
)

func main() {
	configPath := pflag.String("config", "", "path to a YAML election config; defaults built in if omitted")
	verbose := pflag.Bool("verbose", false, "enable debug-level logging")
	pflag.Parse()

	if *verbose {
		logging.Logger.SetLevel(logging.Logger.GetLevel() + 1)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "election: loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	result, err := election.Run(rand.Reader, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "election: run failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("voters:            %d\n", len(cfg.Voters))
	fmt.Printf("tally:             %d\n", result.Tally)
	fmt.Printf("ballots verified:  %d/%d\n", len(result.Ballots), len(cfg.Voters))
	fmt.Printf("consonance rounds: %d (all accepted)\n", len(result.ConsonanceBatch))
	fmt.Printf("tally proof:       accepted\n")
	fmt.Printf("audit log head:    %x\n", result.AuditHead)

	os.Exit(0)
}
