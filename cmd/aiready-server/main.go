package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/nagame-dev/aiready/internal/archive"
	"github.com/nagame-dev/aiready/internal/config"
	"github.com/nagame-dev/aiready/internal/quizbank"
	"github.com/nagame-dev/aiready/internal/server"
	"github.com/nagame-dev/aiready/internal/sheets"
	"github.com/nagame-dev/aiready/internal/submit"
	"github.com/nagame-dev/aiready/internal/telemetry"
)

func main() {
	var (
		addr        = flag.String("addr", ":8080", "Listen address")
		quizPath    = flag.String("quiz", "", "Path to the quiz TSV file (default: built-in bank)")
		archivePath = flag.String("archive", "./aiready.db", "SQLite response archive path (empty disables)")
	)
	flag.Parse()

	cfg := config.FromEnv()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	shutdownTracing, err := telemetry.Setup(ctx, "aiready-server", cfg.OTLPEndpoint)
	if err != nil {
		log.Printf("warning: tracing disabled: %v", err)
		shutdownTracing = func(context.Context) error { return nil }
	}

	loader := &quizbank.Loader{Path: *quizPath}
	questions, err := loader.Questions()
	if err != nil {
		log.Fatal(err)
	}

	var arch *archive.Store
	if *archivePath != "" {
		arch, err = archive.Open(*archivePath)
		if err != nil {
			log.Fatal(err)
		}
		defer arch.Close()
	}

	var primary, mirror submit.RowStore
	sinkName := ""
	switch {
	case cfg.SubmissionConfigured():
		primary = sheets.NewLazyStore(sheets.Config{
			Endpoint:    cfg.SheetsEndpoint,
			Spreadsheet: cfg.SheetName,
			Worksheet:   cfg.WorksheetName,
			CredsJSON:   cfg.CredsJSON,
		})
		sinkName = "sheets"
		if arch != nil {
			mirror = arch
		}
	case arch != nil:
		primary = arch
		sinkName = "archive"
		log.Printf("sheets not configured, submissions go to the local archive only")
	default:
		log.Printf("no submission sink configured, submissions disabled")
	}

	srv := server.New(server.Options{
		Questions: questions,
		Submitter: submit.New(primary, submit.Options{}),
		Mirror:    mirror,
		Location:  cfg.Location(),
		SinkName:  sinkName,
	})

	httpSrv := &http.Server{Addr: *addr, Handler: srv.Routes()}
	go func() {
		<-ctx.Done()
		httpSrv.Close()
	}()

	log.Printf("aiready listening on %s (sink=%s, questions=%d)", *addr, sinkName, len(questions))
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}

	flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer flushCancel()
	_ = shutdownTracing(flushCtx)
}
