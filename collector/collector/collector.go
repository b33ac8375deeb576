// Package collector captures ESPHome receiver logs from a serial port, a
// log file or stdin, prints the decoded remote control commands, and can
// publish the raw timing chunks to a gree-remote-decoder server.
package collector

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/tarm/serial"

	"github.com/derktes/gree-remote-decoder/esphome"
	"github.com/derktes/gree-remote-decoder/greeir"
)

type flagSet struct {
	serialPort *string
	baudRate   *int
	serverHost *string
	serverPort *int
	cid        *string
	quiet      *bool
}

func (fs *flagSet) parseFlags() error {
	fs.serialPort = flag.String("serial", "", "Read the log stream from this serial port (/dev/xxx); default is stdin or the file arguments")
	fs.baudRate = flag.Int("baud", 115200, "Baud rate of the serial port")
	fs.serverHost = flag.String("server", "", "Publish timing chunks to the server at this host; disabled when empty")
	fs.serverPort = flag.Int("port", 8080, "Port number of the server")
	fs.cid = flag.String("collectorId", "", "Id of this collector instance, required when publishing")
	fs.quiet = flag.Bool("quiet", false, "Suppress warning diagnostics")
	flag.Parse()
	if *fs.serverHost != "" && len(*fs.cid) < 1 {
		flag.Usage()
		return errors.New("collector ID not specified")
	}
	if *fs.serialPort != "" && flag.NArg() > 0 {
		flag.Usage()
		return errors.New("both serial port and file arguments given")
	}
	return nil
}

// openInput picks the log source: the serial port if one was given, the file
// arguments otherwise, stdin as the fallback.
func openInput(fs *flagSet) (io.ReadCloser, error) {
	if *fs.serialPort != "" {
		if _, err := os.Stat(*fs.serialPort); err != nil {
			return nil, fmt.Errorf("checking serial port: %w", err)
		}
		config := &serial.Config{Name: *fs.serialPort, Baud: *fs.baudRate}
		port, err := serial.OpenPort(config)
		if err != nil {
			return nil, fmt.Errorf("opening serial port: %w", err)
		}
		log.Printf("Opened serial port '%s' at baud rate %d", *fs.serialPort, *fs.baudRate)
		return port, nil
	}
	if flag.NArg() > 0 {
		return newMultiFileReader(flag.Args()), nil
	}
	return io.NopCloser(os.Stdin), nil
}

// Start launches the collector.
func Start() {
	var fs flagSet
	if err := fs.parseFlags(); err != nil {
		log.Fatal(err)
	}

	input, err := openInput(&fs)
	if err != nil {
		log.Fatal(err)
	}
	defer input.Close()

	handler := esphome.Handler{
		Record: func(rec greeir.Record) {
			fmt.Println(greeir.FormatRecord(rec))
		},
		Warning: func(w greeir.Warning) {
			if !*fs.quiet {
				log.Printf("Warning: %s", w)
			}
		},
		Reject: func(err error) {
			var cerr *greeir.ContractError
			if errors.As(err, &cerr) {
				// Wrong bit-layout assumptions, not line noise. Bail out
				// rather than keep decoding on a broken layout.
				log.Fatalf("Contract violation: %v", cerr)
			}
			log.Printf("Frame rejected: %v", err)
		},
	}

	if *fs.serverHost != "" {
		client, err := newPublishClient(*fs.serverHost, *fs.serverPort)
		if err != nil {
			log.Fatal("Error creating publish client. ", err)
		}
		log.Printf("Timing chunks will be published to '%s'", client.serverURL)

		// A single publisher goroutine keeps the chunks of a frame in order
		// on the wire while the reader stays free to drain the log stream.
		chunks := make(chan esphome.Chunk, 64)
		drained := make(chan struct{})
		go func() {
			defer close(drained)
			client.drain(*fs.cid, chunks)
		}()
		defer func() {
			close(chunks)
			<-drained
		}()
		handler.Chunk = func(c esphome.Chunk) {
			chunks <- c
		}
	}

	if *fs.serialPort != "" {
		go func() {
			signalChannel := make(chan os.Signal, 1)
			signal.Notify(signalChannel, os.Interrupt)

			log.Print("Press Ctrl-C to exit program")

			<-signalChannel

			log.Print("Closing serial port")
			input.Close()
			os.Exit(0)
		}()
	}

	var dec greeir.Decoder
	if err := esphome.Run(input, &dec, handler); err != nil {
		log.Fatal(err)
	}
}
