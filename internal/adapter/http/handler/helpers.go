package handler

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// UploadField is the multipart form field holding an uploaded dataset
const UploadField = "file"

var errEmptyUpload = errors.New("uploaded file is empty")

// UploadedFile is a dataset file read from a request
type UploadedFile struct {
	Filename string
	Content  []byte
}

// DatasetName returns the trimmed "name" query parameter, or fallback when it is blank
func DatasetName(c *gin.Context, fallback string) string {
	if name := strings.TrimSpace(c.Query("name")); name != "" {
		return name
	}
	return fallback
}

// ReadUpload reads the uploaded dataset from a multipart "file" field, or from the raw
// body when the request is not multipart. Raw bodies take their name from the
// "filename" query parameter so the format can still be told from the extension.
func ReadUpload(c *gin.Context, maxBytes int64) (*UploadedFile, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)

	if isMultipart(c.GetHeader("Content-Type")) {
		fh, err := c.FormFile(UploadField)
		if err != nil {
			return nil, fmt.Errorf("failed to read %q form field: %w", UploadField, err)
		}
		if fh.Size > maxBytes {
			return nil, fmt.Errorf("file exceeds %d bytes", maxBytes)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open upload: %w", err)
		}
		defer f.Close()

		content, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read upload: %w", err)
		}
		return newUploadedFile(fh.Filename, content)
	}

	content, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	return newUploadedFile(c.Query("filename"), content)
}

func newUploadedFile(filename string, content []byte) (*UploadedFile, error) {
	if len(content) == 0 {
		return nil, errEmptyUpload
	}
	return &UploadedFile{Filename: filename, Content: content}, nil
}

func isMultipart(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "multipart/form-data"
}
