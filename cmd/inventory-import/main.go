package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Apurer/go-inventory-service/internal/app"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <manifest.yaml>\n", os.Args[0])
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunImport(ctx, os.Args[1]); err != nil {
		log.Printf("inventory import failed: %v", err)
		os.Exit(1)
	}
	log.Printf("inventory import completed")
}
