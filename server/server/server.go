// Package server receives raw IR timing chunks from collectors, decodes
// them into remote control command records, persists them, and streams new
// records to websocket subscribers.
package server

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
)

type flagSet struct {
	addr   *string
	dbPath *string
}

func (fs *flagSet) parseFlags() {
	fs.addr = flag.String("addr", ":8080", "Address to listen on")
	fs.dbPath = flag.String("db", "gree-records.db", "Path of the sqlite record database")
	flag.Parse()
}

// Start sets up the URL mapping and launches the HTTP server.
func Start() {
	var fs flagSet
	fs.parseFlags()

	store, err := openStore(*fs.dbPath)
	if err != nil {
		log.Fatal("Error opening record store. ", err)
	}
	defer store.close()

	h := newHandlers(store)
	mux := http.NewServeMux()
	mux.HandleFunc("/ir/chunk", h.chunkHandler)
	mux.HandleFunc("/ir/collectors", h.collectorsHandler)
	mux.HandleFunc("/ir/records", h.recordsHandler)
	mux.HandleFunc("/ir/warnings", h.warningsHandler)
	mux.HandleFunc("/ir/stream", h.streamHandler)

	decoderServer := http.Server{Addr: *fs.addr, Handler: mux}
	decoderServer.RegisterOnShutdown(func() {
		log.Print("Shutting down server")
	})
	go func() {
		intr := make(chan os.Signal, 1)
		signal.Notify(intr, os.Interrupt)
		<-intr
		decoderServer.Shutdown(context.Background())
	}()
	log.Printf("Server started on %s, records stored in %s", *fs.addr, *fs.dbPath)
	if err := decoderServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
