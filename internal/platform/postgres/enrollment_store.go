package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/platform/logger"
	"github.com/phrazzld/lms-api/internal/store"
)

// PostgresEnrollmentStore implements store.EnrollmentStore.
type PostgresEnrollmentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresEnrollmentStore creates an enrollment store.
func NewPostgresEnrollmentStore(db store.DBTX, logger *slog.Logger) *PostgresEnrollmentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresEnrollmentStore{
		db:     db,
		logger: logger.With(slog.String("component", "enrollment_store")),
	}
}

var _ store.EnrollmentStore = (*PostgresEnrollmentStore)(nil)

// Enroll implements store.EnrollmentStore.Enroll.
func (s *PostgresEnrollmentStore) Enroll(ctx context.Context, e *domain.Enrollment) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO enrollments (learner_id, course_id, enrolled_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (learner_id, course_id) DO NOTHING`,
		e.LearnerID, e.CourseID, e.EnrolledAt,
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to enroll",
			slog.String("error", err.Error()),
			slog.String("learner_id", e.LearnerID.String()),
			slog.String("course_id", e.CourseID.String()))
		return false, MapError(err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, MapError(err)
	}
	return n > 0, nil
}

// ListByLearner implements store.EnrollmentStore.ListByLearner.
func (s *PostgresEnrollmentStore) ListByLearner(ctx context.Context, learnerID uuid.UUID) ([]*domain.Enrollment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT learner_id, course_id, enrolled_at
		FROM enrollments
		WHERE learner_id = $1
		ORDER BY enrolled_at DESC, course_id`, learnerID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	enrollments := []*domain.Enrollment{}
	for rows.Next() {
		var e domain.Enrollment
		if err := rows.Scan(&e.LearnerID, &e.CourseID, &e.EnrolledAt); err != nil {
			return nil, MapError(err)
		}
		enrollments = append(enrollments, &e)
	}
	return enrollments, MapError(rows.Err())
}

// WithTx implements store.EnrollmentStore.WithTx.
func (s *PostgresEnrollmentStore) WithTx(tx *sql.Tx) store.EnrollmentStore {
	return &PostgresEnrollmentStore{db: tx, logger: s.logger}
}
