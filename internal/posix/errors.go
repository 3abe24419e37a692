package posix

import (
	"context"
	"errors"
	"time"

	derrors "github.com/input-output-hk/catalyst-forge-libs/davfs/errors"
	"github.com/input-output-hk/catalyst-forge-libs/davfs/transport"
)

// mapError converts a backend failure into a single Status. The backend
// error itself is dropped; only its code, message and coarse kind survive.
func mapError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	if s, ok := derrors.AsStatus(err); ok {
		return s
	}

	var te *transport.Error
	if !errors.As(err, &te) {
		errors.As(transport.Wrap(op, path, err), &te)
	}
	return derrors.NewInternal(op, path, int(te.Code), te.Message, te.Code.Kind())
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
