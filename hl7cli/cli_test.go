package hl7cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/Shakib-GH-Ahmed/hl7-siu-parser/conf"
	"github.com/Shakib-GH-Ahmed/hl7-siu-parser/siu"
)

const (
	validFixture = "../shared_files/valid_siu.hl7"
	mixedFixture = "../shared_files/mixed_messages.hl7"
)

type CLITestSuite struct {
	suite.Suite
}

func (s *CLITestSuite) TestExtractFileValid() {
	var out, errOut bytes.Buffer
	success, failure, err := extractFile(validFixture, &out, &errOut)
	s.Require().NoError(err)
	s.Equal(1, success)
	s.Equal(0, failure)
	s.Empty(errOut.String())

	var record siu.AppointmentRecord
	s.Require().NoError(json.Unmarshal(out.Bytes(), &record))
	s.Equal("123456", record.AppointmentID)
	s.Equal("John", record.Patient.FirstName)
	s.Equal("2025-05-02T07:00:00Z", record.AppointmentDateTime)
}

func (s *CLITestSuite) TestExtractFileMixed() {
	var out, errOut bytes.Buffer
	success, failure, err := extractFile(mixedFixture, &out, &errOut)
	s.Require().NoError(err)
	s.Equal(1, success)
	s.Equal(1, failure)

	s.Equal(1, strings.Count(out.String(), "\n"))

	var msgErr messageError
	s.Require().NoError(json.Unmarshal(errOut.Bytes(), &msgErr))
	s.Equal(2, msgErr.MessageIndex)
	s.Equal("UnsupportedMessageType", msgErr.Error)
	s.Contains(msgErr.Detail, "ADT^A01")
}

func (s *CLITestSuite) TestExtractFileNoMessages() {
	var out, errOut bytes.Buffer
	_, _, err := extractFile("cli.go", &out, &errOut)
	s.Require().Error(err)
	s.Contains(err.Error(), "no HL7 messages found")
}

func (s *CLITestSuite) TestExtractFileMissing() {
	var out, errOut bytes.Buffer
	_, _, err := extractFile("does_not_exist.hl7", &out, &errOut)
	s.Require().Error(err)
	s.Contains(err.Error(), "could not open HL7 file")
}

func (s *CLITestSuite) TestExtractFileParallelKeepsOrder() {
	conf.SetEnv(s.T(), "HL7_PARSE_WORKERS", "4")
	defer conf.UnsetEnv(s.T(), "HL7_PARSE_WORKERS")

	var out, errOut bytes.Buffer
	success, failure, err := extractFile(mixedFixture, &out, &errOut)
	s.Require().NoError(err)
	s.Equal(1, success)
	s.Equal(1, failure)

	// The failure belongs to the second message regardless of which
	// worker processed it.
	var msgErr messageError
	s.Require().NoError(json.Unmarshal(errOut.Bytes(), &msgErr))
	s.Equal(2, msgErr.MessageIndex)
}

func TestCLITestSuite(t *testing.T) {
	suite.Run(t, new(CLITestSuite))
}

func TestSetUpApp(t *testing.T) {
	app := setUpApp()
	assert.Equal(t, Name, app.Name)
	assert.Equal(t, Usage, app.Usage)

	var names []string
	for _, cmd := range app.Commands {
		names = append(names, cmd.Name)
	}
	assert.Contains(t, names, "extract")
	assert.Contains(t, names, "start-api")
}

func TestAppExtractCommand(t *testing.T) {
	var out, errOut bytes.Buffer
	app := setUpApp()
	app.Writer = &out
	app.ErrWriter = &errOut

	err := app.Run([]string{Name, "extract", "--file", validFixture})
	assert.NoError(t, err)
}
