package hl7cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dimchansky/utfbom"
	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/Shakib-GH-Ahmed/hl7-siu-parser/constants"
	"github.com/Shakib-GH-Ahmed/hl7-siu-parser/hl7"
	"github.com/Shakib-GH-Ahmed/hl7-siu-parser/log"
	"github.com/Shakib-GH-Ahmed/hl7-siu-parser/siu"
	"github.com/Shakib-GH-Ahmed/hl7-siu-parser/utils"
	"github.com/Shakib-GH-Ahmed/hl7-siu-parser/web"
)

// App Name and usage.  Edit them here to prevent breaking tests
const Name = "hl7siu"
const Usage = "HL7 SIU^S12 appointment extraction CLI"

// messageError is the per-message error object written to stderr, one
// line of JSON per failed message.
type messageError struct {
	MessageIndex int    `json:"message_index"`
	Error        string `json:"error"`
	Detail       string `json:"detail"`
}

type extractResult struct {
	record siu.AppointmentRecord
	err    error
}

func GetApp() *cli.App {
	return setUpApp()
}

func setUpApp() *cli.App {
	app := cli.NewApp()
	app.Name = Name
	app.Usage = Usage
	app.Version = constants.Version
	var filePath string
	app.Commands = []cli.Command{
		{
			Name:  "extract",
			Usage: "Extract SIU^S12 appointment records from an HL7 file",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:        "file",
					Usage:       "Path of the HL7 file to process",
					Destination: &filePath,
				},
			},
			Action: func(c *cli.Context) error {
				if filePath == "" {
					// Allow the bare-argument form: hl7siu extract input.hl7
					filePath = c.Args().First()
				}
				if filePath == "" {
					return cli.NewExitError("a file to process must be provided", 2)
				}

				success, failure, err := extractFile(filePath, app.Writer, app.ErrWriter)
				if err != nil {
					return cli.NewExitError(err.Error(), 1)
				}

				log.CLI.Infof("Completed extraction: %d succeeded, %d failed", success, failure)
				if failure > 0 {
					return cli.NewExitError("one or more HL7 messages failed to process", 1)
				}
				return nil
			},
		},
		{
			Name:  "start-api",
			Usage: "Start the extraction API",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(app.Writer, "%s\n", "Starting hl7siu API...")

				srv := &http.Server{
					Handler:      web.NewAPIRouter(),
					Addr:         ":3000",
					ReadTimeout:  time.Duration(utils.GetEnvInt("API_READ_TIMEOUT", 10)) * time.Second,
					WriteTimeout: time.Duration(utils.GetEnvInt("API_WRITE_TIMEOUT", 20)) * time.Second,
					IdleTimeout:  time.Duration(utils.GetEnvInt("API_IDLE_TIMEOUT", 120)) * time.Second,
				}
				return srv.ListenAndServe()
			},
		},
	}
	return app
}

// extractFile runs the full pipeline over one file: split the blob into
// messages, extract each one, emit records to out and error objects to
// errOut. Failures are per message; the batch always runs to completion.
func extractFile(path string, out, errOut io.Writer) (success, failure int, err error) {
	raw, err := readFile(path)
	if err != nil {
		log.CLI.Error(err)
		return 0, 0, err
	}

	messages := hl7.SplitMessages(raw)
	if len(messages) == 0 {
		err = errors.New("no HL7 messages found (no MSH segments)")
		log.CLI.Error(err)
		return 0, 0, err
	}

	results := extractMessages(messages)

	enc := json.NewEncoder(out)
	errEnc := json.NewEncoder(errOut)
	for i, res := range results {
		if res.err != nil {
			failure++
			log.CLI.Errorf("Failed to process message %d: %s", i+1, res.err)
			// Matches the record stream: one JSON object per line.
			_ = errEnc.Encode(messageError{
				MessageIndex: i + 1,
				Error:        hl7.ErrorKind(res.err),
				Detail:       res.err.Error(),
			})
			continue
		}
		success++
		if encErr := enc.Encode(res.record); encErr != nil {
			log.CLI.Error(encErr)
		}
	}
	return success, failure, nil
}

// extractMessages processes the batch, optionally fanning out across
// HL7_PARSE_WORKERS goroutines. Messages are independent of each other,
// so the only coordination needed is putting results back in input order.
func extractMessages(messages []string) []extractResult {
	workers := utils.GetEnvInt("HL7_PARSE_WORKERS", 1)
	results := make([]extractResult, len(messages))

	if workers <= 1 {
		for i, raw := range messages {
			results[i] = extractOne(raw)
		}
		return results
	}

	var wg sync.WaitGroup
	jobs := make(chan int)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = extractOne(messages[i])
			}
		}()
	}
	for i := range messages {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

func extractOne(raw string) extractResult {
	msg, err := hl7.Parse(raw)
	if err != nil {
		return extractResult{err: err}
	}
	record, err := siu.ExtractAppointment(msg)
	return extractResult{record: record, err: err}
}

func readFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, "could not open HL7 file %s", path)
	}
	defer f.Close()

	// Trim the Byte Order Marker if it's present
	// See: https://github.com/golang/go/issues/33887
	b, err := io.ReadAll(utfbom.SkipOnly(f))
	if err != nil {
		return "", errors.Wrapf(err, "could not read HL7 file %s", path)
	}
	return string(b), nil
}
