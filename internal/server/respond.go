package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/crowdhive/crowdhive/internal/hive"
	mm "github.com/crowdhive/crowdhive/internal/middleware"
	"github.com/crowdhive/crowdhive/internal/service"
	"github.com/crowdhive/crowdhive/internal/storage"
	"github.com/crowdhive/crowdhive/internal/wallet"
)

var errInvalidRequest = errors.New("invalid request")

func writeOK(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to marshal response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	data, _ := json.Marshal(Error{Error: message})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeInternalErrorf(ctx context.Context, w http.ResponseWriter, format string, args ...interface{}) {
	mm.GetLogger(ctx).Errorf(format, args...)

	writeError(w, http.StatusInternalServerError, "internal error")
}

// writeServiceError maps service errors to http statuses.
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	var rejected *wallet.RejectedError

	switch {
	case errors.Is(err, service.ErrInvalidRequest), errors.Is(err, errInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrAccountNotFound),
		errors.Is(err, service.ErrDraftNotFound),
		errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, wallet.ErrNotConnected):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, wallet.ErrExtensionMissing):
		writeError(w, http.StatusPreconditionFailed, wallet.ErrExtensionMissing.Error())
	case errors.Is(err, wallet.ErrSignerUnavailable):
		mm.GetLogger(ctx).WithError(err).Warn("signer request failed")
		writeError(w, http.StatusBadGateway, wallet.ErrSignerUnavailable.Error())
	case errors.As(err, &rejected):
		writeError(w, http.StatusConflict, rejected.Message)
	case errors.Is(err, hive.ErrNetwork):
		mm.GetLogger(ctx).WithError(err).Warn("hive request failed")
		writeError(w, http.StatusBadGateway, hive.ErrNetwork.Error())
	default:
		writeInternalErrorf(ctx, w, "%s", err.Error())
	}
}

func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid body: %s", errInvalidRequest, err)
	}

	return nil
}

func unix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}

	return t.Unix()
}
