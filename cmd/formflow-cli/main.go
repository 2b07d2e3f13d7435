package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/goliatone/go-formflow/pkg/draft"
	"github.com/goliatone/go-formflow/pkg/forms"
	"github.com/goliatone/go-formflow/pkg/prompt"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/session"
	"github.com/goliatone/go-formflow/pkg/steps"
)

func main() {
	definition := flag.String("form", "", "form definition file (JSON or YAML); defaults to the built-in payment form")
	draftDir := flag.String("drafts", "", "directory for draft persistence (disabled if empty)")
	delay := flag.Duration("delay", 1200*time.Millisecond, "simulated processor delay")
	declineRate := flag.Float64("decline", 0.1, "simulated processor decline rate in [0,1]")
	flag.Parse()

	form, err := loadForm(*definition)
	if err != nil {
		log.Fatalf("load form: %v", err)
	}

	options := []session.Option{
		session.WithSubmitter(session.NewSimulatedProcessor(*delay, *declineRate)),
	}
	if *draftDir != "" {
		store, err := draft.NewFileStore(*draftDir)
		if err != nil {
			log.Fatalf("draft store: %v", err)
		}
		options = append(options, session.WithDraftStore(store))
	}

	sess, err := session.New(form, options...)
	if err != nil {
		log.Fatalf("bind form: %v", err)
	}
	defer sess.Close()

	controller, err := steps.New(sess)
	if err != nil {
		log.Fatalf("controller: %v", err)
	}

	runner, err := prompt.NewRunner(controller)
	if err != nil {
		log.Fatalf("runner: %v", err)
	}

	result, err := runner.Run(context.Background())
	if err != nil {
		if errors.Is(err, prompt.ErrAborted) {
			fmt.Println("Cancelled.")
			return
		}
		log.Fatalf("submission failed: %v", err)
	}

	if result.TransactionID != "" {
		fmt.Printf("Transaction: %s\n", result.TransactionID)
	}
}

func loadForm(path string) (schema.Form, error) {
	if path == "" {
		return forms.Payment(), nil
	}
	return schema.LoadFile(path)
}
