package cli

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"erp-core/internal/app"
)

// Run executes a one-shot CLI command and exits.
// args is os.Args[1:] — the first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, args []string) {
	if len(args) == 0 {
		usage()
	}

	switch args[0] {
	case "next", "n":
		if len(args) < 5 {
			log.Fatal("Usage: app next <counter> <company> <site> <date> [complement]")
		}
		req := app.NumberRequest{
			CounterCode: args[1],
			Company:     args[2],
			Site:        args[3],
			Date:        args[4],
		}
		if len(args) > 5 {
			req.Complement = args[5]
		}
		result, err := svc.NextDocumentNumber(ctx, req)
		if err != nil {
			log.Fatalf("Numbering error: %v", err)
		}
		printJSON(result)

	case "rate", "r":
		if len(args) < 5 {
			log.Fatal("Usage: app rate <org> <dest> <rate-type> <date>")
		}
		result, err := svc.ResolveRate(ctx, app.RateRequest{
			OrgCurrency:  args[1],
			DestCurrency: args[2],
			RateType:     args[3],
			Date:         args[4],
		})
		if err != nil {
			log.Fatalf("Rate error: %v", err)
		}
		printJSON(result)

	case "health":
		if err := svc.Health(ctx); err != nil {
			log.Fatalf("Unhealthy: %v", err)
		}
		printJSON(map[string]string{"status": "ok"})

	default:
		usage()
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func usage() {
	log.Fatal("Usage: app <next|rate|health> ...")
}
