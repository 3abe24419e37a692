package webdav

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/studio-b12/gowebdav"

	"github.com/input-output-hk/catalyst-forge-libs/davfs/transport"
)

// codeForStatus maps an HTTP status to a transport code.
func codeForStatus(status int) transport.Code {
	switch status {
	case http.StatusNotFound, http.StatusGone:
		return transport.CodeNotFound
	case http.StatusConflict:
		// MKCOL and PUT answer 409 when an intermediate collection is missing.
		return transport.CodeNotFound
	case http.StatusMethodNotAllowed:
		return transport.CodeExists
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusLocked:
		return transport.CodePermission
	case http.StatusPreconditionFailed:
		return transport.CodeExists
	case http.StatusRequestedRangeNotSatisfiable, http.StatusBadRequest:
		return transport.CodeInvalid
	case http.StatusNotImplemented:
		return transport.CodeNotSupported
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return transport.CodeTimeout
	default:
		return transport.CodeIO
	}
}

// translateError converts a gowebdav error into a *transport.Error.
func translateError(op, path string, err error) error {
	if err == nil {
		return nil
	}

	var se gowebdav.StatusError
	if errors.As(err, &se) {
		return &transport.Error{
			Op:         op,
			Path:       path,
			Code:       codeForStatus(se.Status),
			HTTPStatus: se.Status,
			Message:    fmt.Sprintf("HTTP %d %s", se.Status, http.StatusText(se.Status)),
			Err:        err,
		}
	}
	return transport.Wrap(op, path, fmt.Errorf("webdav: %s %q: %w", op, path, err))
}
