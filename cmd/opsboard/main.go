package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/pflag"

	"github.com/aussiebroadwan/opsboard/internal/opsboard/access"
	"github.com/aussiebroadwan/opsboard/internal/opsboard/app"
)

func main() {
	flags := pflag.NewFlagSet("opsboard", pflag.ContinueOnError)
	policy := flags.String("policy", "", "access policy YAML file (overrides OPSBOARD_POLICY_FILE)")
	checkPolicy := flags.Bool("check-policy", false, "validate the access policy and exit")
	showVersion := flags.Bool("version", false, "print the version and exit")

	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Fatalf("invalid arguments: %v", err)
	}

	if *showVersion {
		fmt.Println("opsboard", app.BuildVersion)
		return
	}

	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if *policy != "" {
		cfg.PolicyFile = *policy
	}

	if *checkPolicy {
		if cfg.PolicyFile == "" {
			log.Fatalf("no policy file given")
		}
		if _, err := access.LoadPolicyFile(cfg.PolicyFile); err != nil {
			log.Fatalf("invalid policy: %v", err)
		}
		fmt.Println("policy ok:", cfg.PolicyFile)
		return
	}

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
