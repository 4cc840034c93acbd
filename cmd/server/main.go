package main

import (
	"context"
	"log"

	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/server"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(ctx, cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
