package main

import (
	"context"
	"log"

	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/client/cli"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/client/config"
)

func main() {

	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(context.Background())

}
