package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"goodlife/internal/adapters/aidraft"
	"goodlife/internal/adapters/email"
	"goodlife/internal/adapters/http/middleware"
	"goodlife/internal/adapters/http/perf"
	"goodlife/internal/adapters/photostore"
	"goodlife/internal/adapters/storage"
	"goodlife/internal/application/orchestrators"
	"goodlife/internal/application/projections"
	"goodlife/internal/application/state"
	"goodlife/internal/domain/announcement"
	"goodlife/internal/domain/attendance"
	"goodlife/internal/domain/calendar"
	"goodlife/internal/domain/checkin"
	"goodlife/internal/domain/gallery"
	"goodlife/internal/domain/member"
	"goodlife/internal/domain/payment"
	"goodlife/internal/domain/plan"
	"goodlife/internal/domain/privilege"
	"goodlife/internal/domain/staff"
)

// maxBodyBytes caps JSON bodies; member photos travel inline as data URLs.
const maxBodyBytes = 8 << 20

// restricted is the fixed body for authorization denials.
const restricted = "you do not have permission to view or change this"

var errInvalidRequest = errors.New("invalid request body")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("response_encode_failed", "error", err)
	}
}

// internalError logs the real error and returns a generic message.
func internalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal_error", "request_id", middleware.RequestID(r.Context()), "path", r.URL.Path, "error", err)
	middleware.WriteError(w, http.StatusInternalServerError, "internal server error")
}

// strictDecode decodes a JSON body, rejecting unknown fields.
func strictDecode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		slog.Debug("request_decode_failed", "path", r.URL.Path, "error", err)
		return errInvalidRequest
	}
	return nil
}

// badRequest are validation failures whose message is safe to show.
var badRequest = []error{
	errInvalidRequest,
	member.ErrEmptyName, member.ErrNameTooLong, member.ErrInvalidEmail, member.ErrEmptyPhone,
	member.ErrPhotoRequired, member.ErrInvalidStatus, member.ErrExpiryBeforeStart,
	staff.ErrEmptyName, staff.ErrEmptyEmail, staff.ErrInvalidEmail, staff.ErrEmptyPhone,
	staff.ErrEmptyPosition, staff.ErrInvalidRole, staff.ErrEmptyPassword, staff.ErrPasswordTooShort,
	payment.ErrNonPositiveAmount, payment.ErrInvalidMethod, payment.ErrInvalidStatus, payment.ErrEmptyMemberName,
	payment.ErrPendingHasMember, payment.ErrPendingMemberFields,
	announcement.ErrEmptyTitle, announcement.ErrTitleTooLong, announcement.ErrEmptyContent,
	announcement.ErrContentTooLong, announcement.ErrInvalidPriority,
	gallery.ErrEmptyURL, gallery.ErrInvalidURL, gallery.ErrCaptionTooLong,
	checkin.ErrEmptyName, checkin.ErrEmptyPhone, checkin.ErrInvalidEmail, checkin.ErrCheckOutBeforeIn,
	attendance.ErrEmptyEmail,
	plan.ErrUnknownPlan, privilege.ErrUnknownPrivilege, privilege.ErrInvalidRole, calendar.ErrInvalidDate,
	photostore.ErrNotDataURL, photostore.ErrUnsupported, photostore.ErrPhotoTooBig, photostore.ErrPhotoEncoded,
	aidraft.ErrUnknownKind,
	orchestrators.ErrMissingContact, orchestrators.ErrMemberRequired, orchestrators.ErrUnknownPrivileges,
	orchestrators.ErrEmptyMessage, orchestrators.ErrNoRecipients, orchestrators.ErrNoEmail,
	orchestrators.ErrImportFormat,
	projections.ErrUnknownPeriod, projections.ErrInvalidRange,
}

var notFound = []error{
	member.ErrNotFound, payment.ErrNotFound, announcement.ErrNotFound, gallery.ErrNotFound,
	checkin.ErrNotFound, orchestrators.ErrStaffNotFound, state.ErrNotFound,
}

var conflict = []error{
	member.ErrDuplicateEmail, staff.ErrDuplicateEmail,
	payment.ErrNotPending, payment.ErrNotPendingMember, orchestrators.ErrPaymentUnconfirmed,
	attendance.ErrAlreadyOnShift, attendance.ErrNotOnShift,
	checkin.ErrAlreadyCheckedOut, orchestrators.ErrAlreadyCheckedIn,
	orchestrators.ErrStillOnShift, orchestrators.ErrDeleteSelf, orchestrators.ErrLastSuperAdmin,
	orchestrators.ErrSuperAdminPrivilege,
}

func matchAny(err error, targets []error) error {
	for _, t := range targets {
		if errors.Is(err, t) {
			return t
		}
	}
	return nil
}

// writeFailure maps an orchestrator or projection error to a status.
// Unrecognised errors are logged and answered with a generic 500.
func writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, orchestrators.ErrForbidden):
		middleware.WriteError(w, http.StatusForbidden, restricted)
	case errors.Is(err, orchestrators.ErrInvalidCredentials):
		middleware.WriteError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, orchestrators.ErrAccountLocked):
		middleware.WriteError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, storage.ErrMigrationRequired):
		middleware.WriteError(w, http.StatusServiceUnavailable, storage.ErrMigrationRequired.Error())
	case errors.Is(err, context.DeadlineExceeded):
		middleware.WriteError(w, http.StatusGatewayTimeout, "the backend took too long to answer")
	default:
		if e := matchAny(err, badRequest); e != nil {
			middleware.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		if e := matchAny(err, notFound); e != nil {
			middleware.WriteError(w, http.StatusNotFound, e.Error())
			return
		}
		if e := matchAny(err, conflict); e != nil {
			middleware.WriteError(w, http.StatusConflict, e.Error())
			return
		}
		internalError(w, r, err)
	}
}

// timedSender records provider calls into the perf collector.
type timedSender struct {
	next      email.Sender
	collector *perf.Collector
}

func (t timedSender) Send(ctx context.Context, req email.SendRequest) (email.SendResult, error) {
	var res email.SendResult
	err := t.collector.Time(perf.KindOutbound, "email.Send", func() error {
		var err error
		res, err = t.next.Send(ctx, req)
		return err
	})
	return res, err
}

// TimedGenerator records drafting-model calls into the perf collector.
func TimedGenerator(gen aidraft.Generator, collector *perf.Collector) aidraft.Generator {
	if gen == nil || collector == nil {
		return gen
	}
	return timedGenerator{gen, collector}
}

type timedGenerator struct {
	next      aidraft.Generator
	collector *perf.Collector
}

func (t timedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	var text string
	err := t.collector.Time(perf.KindOutbound, "aidraft.Generate", func() error {
		var err error
		text, err = t.next.Generate(ctx, prompt)
		return err
	})
	return text, err
}
