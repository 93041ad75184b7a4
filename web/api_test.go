package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSIU = "MSH|^~\\&|SEND|FAC|RECV|FAC|20250101120000+0600||SIU^S12|MSG0001|P|2.3\r" +
	"SCH|123456|FILL123||||||^General Consultation|||^^^20250502130000+0600\r" +
	"PID|1||P12345^^^HOSP^MR||Doe^John||19850210|M\r" +
	"PV1|1|O|ClinicA^203^^MainFacility|||D67890^Smith^Jane^^^Dr\r"

const wrongType = "MSH|^~\\&|SEND|FAC|RECV|FAC|20250101120000+0600||ADT^A01|MSG0002|P|2.3\r"

func postBlob(t *testing.T, body string) (*httptest.ResponseRecorder, extractResponse) {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/messages/$extract", strings.NewReader(body))
	NewAPIRouter().ServeHTTP(rr, req)

	var resp extractResponse
	if rr.Code == http.StatusOK || rr.Code == http.StatusUnprocessableEntity {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	}
	return rr, resp
}

func TestExtractEndpointValid(t *testing.T) {
	rr, resp := postBlob(t, validSIU)
	assert.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, resp.Records, 1)
	assert.Empty(t, resp.Errors)
	assert.Equal(t, "123456", resp.Records[0].AppointmentID)
	assert.Contains(t, resp.Records[0].Location, "MainFacility")
}

func TestExtractEndpointMixedBatch(t *testing.T) {
	rr, resp := postBlob(t, validSIU+wrongType)
	assert.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, resp.Records, 1)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, 2, resp.Errors[0].MessageIndex)
	assert.Equal(t, "UnsupportedMessageType", resp.Errors[0].Error)
}

func TestExtractEndpointAllFailures(t *testing.T) {
	rr, resp := postBlob(t, wrongType)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Empty(t, resp.Records)
	require.Len(t, resp.Errors, 1)
}

func TestExtractEndpointNoMessages(t *testing.T) {
	rr, _ := postBlob(t, "this is not HL7")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "no HL7 messages found")
}

func TestHealthCheck(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/_health", nil)
	NewAPIRouter().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"ok": true}`, rr.Body.String())
}

func TestVersion(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/_version", nil)
	NewAPIRouter().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "version")
}
