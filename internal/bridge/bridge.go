// Package bridge implements the session provider contract on top of the
// local course database. It is the "real" integration the dashboard talks to
// when sessions are managed in-house rather than by a remote component.
package bridge

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"liveclass-service/internal/events"
	"liveclass-service/internal/model"
	"liveclass-service/internal/provider"
	"liveclass-service/internal/repository"
	"liveclass-service/internal/storage"
)

var (
	ErrUserNotFound     = errors.New("target user does not exist")
	ErrPermissionDenied = errors.New("caller may not enrol this user")
	ErrSessionNotFound  = errors.New("session not found")
	ErrEnrolmentFailed  = errors.New("no enrolment method could enrol the user")
)

const alreadyEnrolledMessage = "Already enrolled in this session."
const enrolledMessage = "Enrolment confirmed."

// Bridge serves catalogue and enrolment data from Postgres and applies the
// course enrolment business rules on writes.
type Bridge struct {
	users      repository.UserRepository
	sessions   repository.SessionRepository
	enrolments repository.EnrolmentRepository
	methods    repository.EnrolMethodRepository
	certs      repository.CertificateRepository
	publisher  events.EventPublisher
	presigner  storage.Presigner
	now        func() time.Time
}

func New(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	enrolments repository.EnrolmentRepository,
	methods repository.EnrolMethodRepository,
	certs repository.CertificateRepository,
	publisher events.EventPublisher,
	presigner storage.Presigner,
	now func() time.Time,
) *Bridge {
	if now == nil {
		now = time.Now
	}
	return &Bridge{
		users:      users,
		sessions:   sessions,
		enrolments: enrolments,
		methods:    methods,
		certs:      certs,
		publisher:  publisher,
		presigner:  presigner,
		now:        now,
	}
}

func (b *Bridge) GetCatalog(ctx context.Context, userID uuid.UUID) ([]map[string]any, error) {
	rows, err := b.sessions.ListCatalog(ctx, userID)
	if err != nil {
		return nil, err
	}
	return rawRecords(rows), nil
}

func (b *Bridge) GetEnrolments(ctx context.Context, userID uuid.UUID) ([]map[string]any, error) {
	rows, err := b.sessions.ListEnrolled(ctx, userID)
	if err != nil {
		return nil, err
	}
	return rawRecords(rows), nil
}

func (b *Bridge) GetCertificates(ctx context.Context, userID uuid.UUID) ([]model.Certificate, error) {
	rows, err := b.certs.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	certificates := make([]model.Certificate, 0, len(rows))
	for _, row := range rows {
		cert := model.Certificate{
			ID:              row.ID,
			SessionID:       row.SessionID,
			SessionName:     row.SessionName,
			CourseName:      row.CourseName,
			IssueDate:       row.IssueDate,
			IssueDateString: time.Unix(row.IssueDate, 0).UTC().Format("02 Jan 2006"),
			Filename:        row.Filename,
		}
		if b.presigner != nil {
			if url, err := b.presigner.PresignDownload(ctx, row.FileKey); err == nil {
				cert.FileURL = url
			} else {
				slog.Warn("Failed to presign certificate file", slog.String("certificate_id", row.ID), slog.String("error", err.Error()))
			}
			if row.PreviewKey != "" {
				if url, err := b.presigner.PresignDownload(ctx, row.PreviewKey); err == nil {
					cert.PreviewURL = url
				}
			}
		}
		certificates = append(certificates, cert)
	}

	return certificates, nil
}

// EnrolSession enrols the user into the session on their own behalf.
func (b *Bridge) EnrolSession(ctx context.Context, userID uuid.UUID, sessionID string) (provider.EnrolResult, error) {
	return b.EnrolUser(ctx, userID, userID, sessionID)
}

// EnrolUser enrols target into the session on behalf of caller. The caller
// must be the target user or a manager. Already-enrolled users succeed as a
// no-op; otherwise the course's enrolment methods are tried in order and the
// first applicable one wins.
func (b *Bridge) EnrolUser(ctx context.Context, callerID, targetID uuid.UUID, sessionID string) (provider.EnrolResult, error) {
	target, err := b.users.FindByID(ctx, targetID)
	if err != nil {
		return provider.EnrolResult{}, err
	}
	if target == nil || target.Deleted {
		return provider.EnrolResult{}, ErrUserNotFound
	}

	if callerID != targetID {
		caller, err := b.users.FindByID(ctx, callerID)
		if err != nil {
			return provider.EnrolResult{}, err
		}
		if caller == nil || !caller.IsManager() {
			return provider.EnrolResult{}, ErrPermissionDenied
		}
	}

	session, err := b.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return provider.EnrolResult{}, err
	}
	if session == nil {
		return provider.EnrolResult{}, ErrSessionNotFound
	}

	enrolled, err := b.enrolments.Exists(ctx, sessionID, targetID)
	if err != nil {
		return provider.EnrolResult{}, err
	}
	if enrolled {
		return provider.EnrolResult{Status: true, Message: alreadyEnrolledMessage}, nil
	}

	methods, err := b.methods.ListByCourse(ctx, session.CourseID)
	if err != nil {
		return provider.EnrolResult{}, err
	}

	now := b.now().Unix()
	fresh := false
	for _, method := range methods {
		if !method.Enabled {
			continue
		}
		if method.EnrolStart > 0 && now < method.EnrolStart {
			continue
		}
		if method.EnrolEnd > 0 && now > method.EnrolEnd {
			continue
		}

		inserted, err := b.enrolments.Add(ctx, sessionID, targetID, method.Method)
		if err != nil {
			// One misconfigured method must not abort the whole attempt.
			slog.Warn("Enrolment method failed",
				slog.String("method", method.Method),
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()))
			continue
		}
		fresh = inserted
		break
	}

	// Verify the post-condition even when the chosen method silently did
	// nothing: the user must actually be enrolled now.
	enrolled, err = b.enrolments.Exists(ctx, sessionID, targetID)
	if err != nil {
		return provider.EnrolResult{}, err
	}
	if !enrolled {
		return provider.EnrolResult{}, ErrEnrolmentFailed
	}

	if fresh && b.publisher != nil {
		if err := b.publisher.PublishSessionEnrolled(sessionID, targetID); err != nil {
			slog.Warn("Failed to publish session.enrolled event", slog.String("error", err.Error()))
		}
	}

	return provider.EnrolResult{Status: true, Message: enrolledMessage}, nil
}

// rawRecords converts stored rows into the raw record shape the aggregator
// normalizes, so bridge data and remote provider data share one code path.
func rawRecords(rows []repository.CatalogRow) []map[string]any {
	records := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		records = append(records, map[string]any{
			"id":               row.ID,
			"name":             row.Name,
			"summary":          row.Summary,
			"starttime":        row.StartTime,
			"endtime":          row.EndTime,
			"duration":         row.Duration,
			"location":         row.Location,
			"instructor":       map[string]any{"name": row.InstructorName, "avatar": row.InstructorAvatar},
			"track":            row.Track,
			"imageurl":         row.ImageURL,
			"launchurl":        row.LaunchURL,
			"recordingurl":     row.RecordingURL,
			"status":           row.Status,
			"registrationtime": row.RegistrationTime,
		})
	}
	return records
}
