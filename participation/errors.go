package participation

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/programme-lv/participation/srvcerror"
)

const ErrCodeInvalidInput = "invalid_input"

func newErrMissingParameters(missing []string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidInput,
		fmt.Sprintf("Invalid input: Missing parameters: %s", strings.Join(missing, ", ")),
	).SetHttpStatusCode(http.StatusBadRequest)
}

// NewErrInvalidInput is used by the transport when the body cannot be parsed.
func NewErrInvalidInput(reason string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidInput,
		fmt.Sprintf("Invalid input: %s", reason),
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeDdbWriteFailed = "ddb_write_failed"

func newErrDdbWriteFailed(err error) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeDdbWriteFailed,
		"Error writing to DynamoDB",
	).SetHttpStatusCode(http.StatusInternalServerError).
		SetDetails(err.Error()).
		SetDebug(err)
}

const ErrCodeDdbReadFailed = "ddb_read_failed"

func newErrDdbReadFailed(err error) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeDdbReadFailed,
		"Error reading from DynamoDB",
	).SetHttpStatusCode(http.StatusInternalServerError).
		SetDetails(err.Error()).
		SetDebug(err)
}

const ErrCodeRecordNotFound = "record_not_found"

func newErrRecordNotFound() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeRecordNotFound,
		"Participation record not found",
	).SetHttpStatusCode(http.StatusNotFound)
}
