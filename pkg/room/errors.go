package room

import (
	"net/http"

	"github.com/roomforge/roomforge-go/internal/common/apperrors"
)

// Base error for the session model.
var (
	ErrSession apperrors.Error = apperrors.New("session operation failed").SetStatusCode(http.StatusInternalServerError)
)

// Operation errors. Each wraps the transport failure that triggered it; the
// local model is never retried or partially mutated on these.
var (
	ErrSessionCreation apperrors.Error = ErrSession.New("failed to create session").SetExpandError(true).SetStatusCode(http.StatusBadGateway)
	ErrSessionFetch    apperrors.Error = ErrSession.New("failed to fetch session").SetExpandError(true).SetStatusCode(http.StatusBadGateway)
	ErrDisconnect      apperrors.Error = ErrSession.New("failed to disconnect connection").SetExpandError(true).SetStatusCode(http.StatusBadGateway)
	ErrUnpublish       apperrors.Error = ErrSession.New("failed to unpublish stream").SetExpandError(true).SetStatusCode(http.StatusBadGateway)
	ErrToken           apperrors.Error = ErrSession.New("failed to issue token").SetExpandError(true).SetStatusCode(http.StatusBadGateway)
)

// Malformed server data. Reconciliation validates the whole snapshot before
// mutating any state, so these never leave a half-updated model behind.
var (
	ErrInvalidSnapshot  apperrors.Error = ErrSession.New("invalid session snapshot").SetExpandError(true).SetStatusCode(http.StatusBadGateway)
	ErrInvalidEnumValue apperrors.Error = ErrInvalidSnapshot.New("invalid enum value").SetExpandError(true).SetStatusCode(http.StatusBadGateway)
)
