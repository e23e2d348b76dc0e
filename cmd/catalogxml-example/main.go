// Command catalogxml-example is a minimal demonstration of catalogxml's
// fire-and-forget submission API: it reads an XML document and wires it
// into the observation engine.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/UNO-SOFT/fieldcatalog/catalogxml"
)

func main() {
	flagBaseURL := flag.String("catalog-url", "http://localhost:8080", "Field Catalog API base URL")
	flagContext := flag.String("context", "example", "catalog context id")
	flag.Parse()

	logger := slog.Default()
	catalogxml.Init(catalogxml.Options{
		Client:  http.DefaultClient,
		BaseURL: *flagBaseURL,
		OnError: func(err error) {
			logger.Error("catalogxml", "error", err)
		},
		Log: func(keyvals ...any) error {
			if len(keyvals) >= 2 && keyvals[0] == "msg" {
				logger.Info(fmt.Sprint(keyvals[1]), keyvals[2:]...)
			}
			return nil
		},
	})
	defer catalogxml.Shutdown(5 * time.Second)

	path := "-"
	if flag.NArg() > 0 {
		path = flag.Arg(0)
	}

	data, err := readInput(path)
	if err != nil {
		log.Fatal(err)
	}

	catalogxml.SubmitBytes(data, *flagContext, map[string]string{"source": "catalogxml-example"})
	log.Printf("submitted observations for context %q", *flagContext)
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
