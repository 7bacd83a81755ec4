package support

import (
	"errors"
	"fmt"

	"github.com/Vovarama1992/support-hub/internal/ai"
)

var (
	ErrDomainRejected      = errors.New("only customer support queries are handled (orders, delivery, refunds, technical issues)")
	ErrNotConfigured       = fmt.Errorf("backend not configured: %w", ai.ErrMissingCredential)
	ErrSessionNotFound     = errors.New("session not found")
	ErrExchangeInProgress  = errors.New("a message is already being processed for this session")
	ErrInvalidMode         = errors.New("invalid mode")
	ErrNothingToExport     = errors.New("no completed exchange to export")
	ErrCredentialsDisabled = errors.New("backend does not take credentials")
	ErrExchangeInterrupted = errors.New("the previous reply was interrupted before it was saved")
)
