package evidence

import (
	"fmt"
	"net/http"

	"github.com/programme-lv/participation/srvcerror"
)

const ErrCodeInvalidFileName = "invalid_file_name"

func newErrInvalidFileName(idx int) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidFileName,
		fmt.Sprintf("Invalid input: files[%d] has no fileName", idx),
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeInvalidFileContent = "invalid_file_content"

func newErrInvalidFileContent(fileName string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidFileContent,
		fmt.Sprintf("Invalid input: %s is not valid base64", fileName),
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeUploadFailed = "upload_failed"

func newErrUploadFailed(details string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeUploadFailed,
		"Error uploading to S3",
	).SetHttpStatusCode(http.StatusInternalServerError).SetDetails(details)
}
