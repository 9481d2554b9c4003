package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/hrms/internal/apperror"
	"github.com/suteetoe/hrms/internal/importer"
	"github.com/suteetoe/hrms/internal/model"
	"github.com/suteetoe/hrms/pkg/logger"
	"go.uber.org/zap"
)

const defaultImportMaxBytes = 5 << 20

// multipartOverhead leaves room for part headers and boundaries around the file
const multipartOverhead = 64 << 10

type upload struct {
	name   string
	data   []byte
	format importer.Format
}

// readUpload accepts either a multipart form with a "file" part or a raw
// body. The format comes from ?format=, then the file name, then the
// content type.
func (h *Handler) readUpload(c echo.Context) (*upload, error) {
	limit := h.importMaxBytes
	if limit <= 0 {
		limit = defaultImportMaxBytes
	}
	req := c.Request()

	var (
		name        string
		contentType = req.Header.Get(echo.HeaderContentType)
		body        io.Reader
	)
	if strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		req.Body = http.MaxBytesReader(c.Response(), req.Body, limit+multipartOverhead)
		fh, err := c.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return nil, tooLargeError(limit)
			}
			return nil, apperror.Wrap(apperror.KindMalformedInput, "multipart upload must carry a file field", err)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		name = fh.Filename
		contentType = fh.Header.Get(echo.HeaderContentType)
		body = f
	} else {
		body = http.MaxBytesReader(c.Response(), req.Body, limit+1)
	}

	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, tooLargeError(limit)
		}
		return nil, apperror.Wrap(apperror.KindMalformedInput, "cannot read upload", err)
	}
	if int64(len(data)) > limit {
		return nil, tooLargeError(limit)
	}
	if len(data) == 0 {
		return nil, apperror.MalformedInput("upload is empty")
	}

	format, err := importer.DetectFormat(c.QueryParam("format"), name, contentType)
	if err != nil {
		return nil, err
	}
	return &upload{name: name, data: data, format: format}, nil
}

func tooLargeError(limit int64) error {
	return apperror.MalformedInput(fmt.Sprintf("upload exceeds %d bytes", limit))
}

func logImport(c echo.Context, entity string, u *upload, result model.BulkResult) {
	logger.FromEcho(c).Info("Import finished",
		zap.String("entity", entity),
		zap.String("file", u.name),
		zap.String("format", string(u.format)),
		zap.Int("bytes", len(u.data)),
		zap.Int("created", result.Created),
		zap.Int("failed", result.Failed))
}
