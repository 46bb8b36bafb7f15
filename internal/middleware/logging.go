package middleware

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// LoggingInterceptor logs every RPC with its procedure, caller and duration.
// Rejections the caller can fix (bad input, missing membership, expired
// codes) are logged at warn; anything the server failed at is logged at error.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			attrs := []any{
				"procedure", req.Spec().Procedure,
				"user_id", GetUserID(ctx),
				"peer", req.Peer().Addr,
				"duration_ms", time.Since(start).Milliseconds(),
			}

			if err == nil {
				slog.Info("RPC ok", attrs...)
				return resp, nil
			}

			code := connect.CodeOf(err)
			attrs = append(attrs, "code", code.String(), "error", err)
			if serverFault(code) {
				slog.Error("RPC failed", attrs...)
			} else {
				slog.Warn("RPC rejected", attrs...)
			}
			return resp, err
		}
	}
}

func serverFault(code connect.Code) bool {
	switch code {
	case connect.CodeInternal, connect.CodeUnknown, connect.CodeDataLoss, connect.CodeUnavailable:
		return true
	}
	return false
}
