// Package siu extracts normalized appointment records from HL7 SIU^S12
// (schedule information unsolicited) messages. Every lookup runs through
// an ordered fallback chain so records survive the field-placement
// variance real scheduling systems produce.
package siu

import (
	"strings"

	"github.com/Shakib-GH-Ahmed/hl7-siu-parser/hl7"
)

const (
	schedulingSegment = "SCH"
	patientSegment    = "PID"
	visitSegment      = "PV1"
)

// Patient is the patient sub-record of an appointment. All fields default
// to empty strings when the PID segment is absent.
type Patient struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	DOB       string `json:"dob"`
	Gender    string `json:"gender"`
}

// Provider is the scheduled provider sub-record, derived from whichever
// PV1 provider field is populated.
type Provider struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AppointmentRecord is the normalized extraction output. It is always
// fully shaped: absent source data yields empty strings, never nulls or
// missing keys.
type AppointmentRecord struct {
	AppointmentID       string   `json:"appointment_id"`
	AppointmentDateTime string   `json:"appointment_datetime"`
	Patient             Patient  `json:"patient"`
	Provider            Provider `json:"provider"`
	Location            string   `json:"location"`
	Reason              string   `json:"reason"`
}

// Validate checks MSH-9 for the SIU^S12 type/trigger composite. Any other
// message type is rejected before field extraction is attempted.
func Validate(msg *hl7.Message) error {
	typeCode := msg.Component("MSH", 9, 1, 0, 0, "")
	triggerEvent := msg.Component("MSH", 9, 2, 0, 0, "")
	if typeCode != "SIU" || triggerEvent != "S12" {
		return &hl7.UnsupportedMessageTypeError{MessageType: msg.Field("MSH", 9, 0, "")}
	}
	return nil
}

// ExtractAppointment validates the message type, requires an SCH segment,
// and maps the message to an AppointmentRecord. PID and PV1 are optional;
// when missing, their sub-records come back empty rather than failing.
func ExtractAppointment(msg *hl7.Message) (AppointmentRecord, error) {
	if err := Validate(msg); err != nil {
		return AppointmentRecord{}, err
	}
	if !msg.HasSegment(schedulingSegment) {
		return AppointmentRecord{}, &hl7.MissingSegmentError{Segment: schedulingSegment}
	}

	record := AppointmentRecord{
		AppointmentID:       appointmentID(msg),
		AppointmentDateTime: appointmentDateTime(msg),
		Patient:             patient(msg),
		Provider:            provider(msg),
		Location:            location(msg),
		Reason:              reason(msg),
	}
	return record, nil
}

// firstNonEmpty returns the first non-empty candidate, keeping each
// fallback chain a single auditable expression.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func appointmentID(msg *hl7.Message) string {
	// SCH-1 is the placer appointment ID, SCH-2 the filler; either may
	// carry the identifier depending on the sending system.
	return firstNonEmpty(
		msg.Component(schedulingSegment, 1, 1, 0, 0, ""),
		msg.Component(schedulingSegment, 2, 1, 0, 0, ""),
		msg.Field(schedulingSegment, 1, 0, ""),
		msg.Field(schedulingSegment, 2, 0, ""),
	)
}

func appointmentDateTime(msg *hl7.Message) string {
	raw := firstNonEmpty(
		msg.Component(schedulingSegment, 11, 4, 0, 0, ""),
		msg.Component(schedulingSegment, 11, 1, 0, 0, ""),
		msg.Field(schedulingSegment, 11, 0, ""),
	)
	if t, ok := hl7.ParseTimestamp(raw); ok {
		return hl7.ToISO8601Z(t)
	}
	return ""
}

func patient(msg *hl7.Message) Patient {
	if !msg.HasSegment(patientSegment) {
		return Patient{}
	}

	var dob string
	if d, ok := hl7.ParseDate(msg.Field(patientSegment, 7, 0, "")); ok {
		dob = d.Format("2006-01-02")
	}

	return Patient{
		ID: firstNonEmpty(
			msg.Component(patientSegment, 3, 1, 0, 0, ""),
			msg.Component(patientSegment, 2, 1, 0, 0, ""),
			msg.Field(patientSegment, 3, 0, ""),
		),
		FirstName: msg.Component(patientSegment, 5, 2, 0, 0, ""),
		LastName:  msg.Component(patientSegment, 5, 1, 0, 0, ""),
		DOB:       dob,
		Gender:    msg.Field(patientSegment, 8, 0, ""),
	}
}

func provider(msg *hl7.Message) Provider {
	if !msg.HasSegment(visitSegment) {
		return Provider{}
	}

	// Scheduling feeds are inconsistent about where the provider lands:
	// attending (7), referring (6), consulting (8) or admitting (9).
	// Probe in that order and take the first populated field.
	providerField := 0
	for _, f := range []int{7, 6, 8, 9} {
		if msg.Field(visitSegment, f, 0, "") != "" {
			providerField = f
			break
		}
	}
	if providerField == 0 {
		return Provider{}
	}

	prefix := msg.Component(visitSegment, providerField, 6, 0, 0, "")
	given := msg.Component(visitSegment, providerField, 3, 0, 0, "")
	family := msg.Component(visitSegment, providerField, 2, 0, 0, "")

	return Provider{
		ID:   msg.Component(visitSegment, providerField, 1, 0, 0, ""),
		Name: joinNonEmpty(prefix, given, family),
	}
}

func location(msg *hl7.Message) string {
	if !msg.HasSegment(visitSegment) {
		return ""
	}
	pointOfCare := msg.Component(visitSegment, 3, 1, 0, 0, "")
	room := msg.Component(visitSegment, 3, 2, 0, 0, "")
	bed := msg.Component(visitSegment, 3, 3, 0, 0, "")
	facility := msg.Component(visitSegment, 3, 4, 0, 0, "")
	return joinNonEmpty(facility, pointOfCare, room, bed)
}

func reason(msg *hl7.Message) string {
	// SCH-7 (appointment reason), then SCH-8 (appointment type), then
	// SCH-6 (event reason). Coded-element text lives in component 2, so
	// it wins over the code in component 1.
	var candidates []string
	for _, f := range []int{7, 8, 6} {
		candidates = append(candidates,
			msg.Component(schedulingSegment, f, 2, 0, 0, ""),
			msg.Component(schedulingSegment, f, 1, 0, 0, ""),
			msg.Field(schedulingSegment, f, 0, ""),
		)
	}
	return firstNonEmpty(candidates...)
}

func joinNonEmpty(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
