package web

import (
	"io"
	"net/http"

	"github.com/dimchansky/utfbom"
	"github.com/go-chi/render"

	"github.com/Shakib-GH-Ahmed/hl7-siu-parser/constants"
	"github.com/Shakib-GH-Ahmed/hl7-siu-parser/hl7"
	"github.com/Shakib-GH-Ahmed/hl7-siu-parser/log"
	"github.com/Shakib-GH-Ahmed/hl7-siu-parser/siu"
)

type messageError struct {
	MessageIndex int    `json:"message_index"`
	Error        string `json:"error"`
	Detail       string `json:"detail"`
}

type extractResponse struct {
	Records []siu.AppointmentRecord `json:"records"`
	Errors  []messageError          `json:"errors"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// extractMessages accepts a raw HL7 blob and returns every SIU^S12
// appointment record it contains, plus a per-message error list. The
// request succeeds as long as at least one message produced a record.
func extractMessages(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(utfbom.SkipOnly(r.Body))
	if err != nil {
		log.API.Error(err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: "could not read request body"})
		return
	}

	messages := hl7.SplitMessages(string(body))
	if len(messages) == 0 {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: "no HL7 messages found (no MSH segments)"})
		return
	}

	resp := extractResponse{
		Records: []siu.AppointmentRecord{},
		Errors:  []messageError{},
	}
	for i, raw := range messages {
		record, err := extractOne(raw)
		if err != nil {
			log.API.Errorf("Failed to process message %d: %s", i+1, err)
			resp.Errors = append(resp.Errors, messageError{
				MessageIndex: i + 1,
				Error:        hl7.ErrorKind(err),
				Detail:       err.Error(),
			})
			continue
		}
		resp.Records = append(resp.Records, record)
	}

	if len(resp.Records) == 0 {
		render.Status(r, http.StatusUnprocessableEntity)
	}
	render.JSON(w, r, resp)
}

func extractOne(raw string) (siu.AppointmentRecord, error) {
	msg, err := hl7.Parse(raw)
	if err != nil {
		return siu.AppointmentRecord{}, err
	}
	return siu.ExtractAppointment(msg)
}

func getVersion(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"version": constants.Version})
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]bool{"ok": true})
}
