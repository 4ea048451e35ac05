package main

import (
	"flag"
	"log"

	"github.com/danmuck/callwire/internal/config"
)

func main() {
	output := flag.String("output", "cmd/callwired/config.toml", "output path for config template")
	validate := flag.Bool("validate", false, "validate an existing config file")
	input := flag.String("input", "cmd/callwired/config.toml", "config path for validation")
	force := flag.Bool("force", false, "overwrite existing config file")
	flag.Parse()

	if *validate {
		cfg, err := config.LoadDaemonConfig(*input)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("Validated config at %s (providers=%v)", *input, cfg.Providers)
		return
	}

	if err := config.WriteTemplate(*output, *force); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote config template to %s", *output)
}
