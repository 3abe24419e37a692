package minio

import (
	"fmt"
	"io"
	"net/http"

	"github.com/minio/minio-go/v7"

	"github.com/input-output-hk/catalyst-forge-libs/davfs/transport"
)

// translateError converts a MinIO client error into a *transport.Error.
func translateError(op, path string, err error) error {
	if err == nil {
		return nil
	}

	resp := minio.ToErrorResponse(err)
	if resp.Code == "" && resp.StatusCode == 0 {
		return transport.Wrap(op, path, fmt.Errorf("minio: %s %q: %w", op, path, err))
	}

	code := transport.CodeIO
	switch resp.Code {
	case "NoSuchKey", "NotFound", "NoSuchBucket":
		code = transport.CodeNotFound
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		code = transport.CodePermission
	case "InvalidRange":
		code = transport.CodeInvalid
	case "NotImplemented":
		code = transport.CodeNotSupported
	case "RequestTimeout":
		code = transport.CodeTimeout
	default:
		switch resp.StatusCode {
		case http.StatusNotFound:
			code = transport.CodeNotFound
		case http.StatusForbidden, http.StatusUnauthorized:
			code = transport.CodePermission
		}
	}

	msg := resp.Message
	if msg == "" {
		msg = err.Error()
	}
	return &transport.Error{
		Op:         op,
		Path:       path,
		Code:       code,
		HTTPStatus: resp.StatusCode,
		Message:    msg,
		Err:        err,
	}
}

// objectReader translates errors surfacing while an object body is read.
// GetObject is lazy, so a missing object is only reported by the first Read.
type objectReader struct {
	rc   io.ReadCloser
	path string
}

func (r *objectReader) Read(p []byte) (int, error) {
	n, err := r.rc.Read(p)
	if err != nil && err != io.EOF {
		return n, translateError("read", r.path, err)
	}
	return n, err
}

func (r *objectReader) Close() error {
	return r.rc.Close()
}
