package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/kolehiyo/admissions-api/internal/catalog"
	"github.com/kolehiyo/admissions-api/internal/dto"
	"github.com/kolehiyo/admissions-api/internal/models"
	"github.com/kolehiyo/admissions-api/internal/resolver"
	"github.com/kolehiyo/admissions-api/pkg/database"
	appErrors "github.com/kolehiyo/admissions-api/pkg/errors"
)

// Per-record and per-program report error codes.
const (
	errCodeMissingStudentNumber = "MISSING_STUDENT_NUMBER"
	errCodeNoCurriculum         = "NO_CURRICULUM"
	errCodeCurriculumFailed     = "CURRICULUM_ENSURE_FAILED"
	errCodeReconcileFailed      = "RECONCILE_FAILED"
)

type programCatalogStore interface {
	List(ctx context.Context) ([]models.Program, error)
}

type academicYearStore interface {
	FindByID(ctx context.Context, id int64) (*models.AcademicYear, error)
	FindActive(ctx context.Context) (*models.AcademicYear, error)
	FindLatest(ctx context.Context) (*models.AcademicYear, error)
}

type eligibleEnrollmentStore interface {
	ListEligible(ctx context.Context, q sqlx.ExtContext, filter models.EligibilityFilter) ([]models.EligibleEnrollment, error)
}

type assignmentStore interface {
	ExistingPairs(ctx context.Context, q sqlx.ExtContext, enrollmentIDs []int64) ([]models.AssignedPair, error)
	BulkInsert(ctx context.Context, q sqlx.ExtContext, rows []models.CourseAssignment, chunkSize int) error
}

type curriculumEnsurer interface {
	Ensure(ctx context.Context, q sqlx.ExtContext, program models.Program, yearLevel, semester int, academicYearID int64) ([]models.Course, bool, error)
}

type programReconciler interface {
	Reconcile(ctx context.Context, q sqlx.ExtContext, e *models.EligibleEnrollment, program models.Program, confidence models.Confidence) (bool, error)
}

// AssignmentService orchestrates the batch course assignment pipeline: it
// resolves the run scope, ensures curricula, resolves every eligible
// enrollment to a program, reconciles linkage, and bulk-inserts the missing
// course assignments inside one transaction. A run either fully commits its
// new assignments or none of them persist.
type AssignmentService struct {
	db          *sqlx.DB
	programs    programCatalogStore
	years       academicYearStore
	enrollments eligibleEnrollmentStore
	assignments assignmentStore
	curricula   curriculumEnsurer
	reconciler  programReconciler
	metrics     *MetricsService
	reports     *ReportCacheService
	validator   *validator.Validate
	logger      *zap.Logger
	chunkSize   int

	running int32
}

// NewAssignmentService constructs AssignmentService.
func NewAssignmentService(
	db *sqlx.DB,
	programs programCatalogStore,
	years academicYearStore,
	enrollments eligibleEnrollmentStore,
	assignments assignmentStore,
	curricula curriculumEnsurer,
	reconciler programReconciler,
	metrics *MetricsService,
	reports *ReportCacheService,
	validate *validator.Validate,
	logger *zap.Logger,
	chunkSize int,
) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if chunkSize <= 0 {
		chunkSize = 500
	}
	return &AssignmentService{
		db:          db,
		programs:    programs,
		years:       years,
		enrollments: enrollments,
		assignments: assignments,
		curricula:   curricula,
		reconciler:  reconciler,
		metrics:     metrics,
		reports:     reports,
		validator:   validate,
		logger:      logger,
		chunkSize:   chunkSize,
	}
}

// Run executes one assignment run. Per-record issues accumulate in the
// report and never abort the batch; anything threatening transactional
// integrity rolls the whole run back and the report comes back FAILED.
// Overlapping runs are refused: re-invoking after completion is the retry
// mechanism, and idempotent insertion makes that safe.
func (s *AssignmentService) Run(ctx context.Context, req dto.RunAssignmentsRequest) (*models.RunReport, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid run request")
	}
	if !atomic.CompareAndSwapInt32(&s.running, 0, 1) {
		return nil, appErrors.Clone(appErrors.ErrRunInProgress, "")
	}
	defer atomic.StoreInt32(&s.running, 0)

	report := &models.RunReport{
		RunID:     uuid.NewString(),
		Status:    models.RunStatusRunning,
		StartedAt: time.Now().UTC(),
		Errors:    []models.RunError{},
	}

	year, err := s.resolveYear(ctx, req)
	if err != nil {
		return nil, err
	}
	report.AcademicYearID = year.ID

	programs, err := s.programs.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load program catalogue")
	}
	cat := catalog.New(programs)

	scope := programs
	var scopeID int64
	if req.ProgramID != nil {
		p, ok := cat.ByID(*req.ProgramID)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("program %d not found", *req.ProgramID))
		}
		scope = []models.Program{p}
		scopeID = p.ID
	}

	txErr := database.WithinTx(ctx, s.db, func(tx *sqlx.Tx) error {
		return s.runInTx(ctx, tx, req, year, cat, scope, scopeID, report)
	})

	finished := time.Now().UTC()
	report.FinishedAt = &finished
	report.DurationMS = finished.Sub(report.StartedAt).Milliseconds()

	if txErr != nil {
		report.Status = models.RunStatusFailed
		report.Errors = append(report.Errors, models.RunError{
			Code:    appErrors.ErrRunFailed.Code,
			Message: txErr.Error(),
		})
		s.logger.Error("assignment run failed", zap.String("run_id", report.RunID), zap.Error(txErr))
	} else {
		report.Status = models.RunStatusCompleted
		s.logger.Info("assignment run completed",
			zap.String("run_id", report.RunID),
			zap.Int("programs_processed", report.ProgramsProcessed),
			zap.Int("students_processed", report.StudentsProcessed),
			zap.Int("courses_assigned", report.CoursesAssigned),
			zap.Int("students_unresolved", report.StudentsUnresolved),
			zap.Int("errors", len(report.Errors)),
		)
	}

	if s.metrics != nil {
		s.metrics.RecordRun(report)
	}
	if s.reports != nil {
		s.reports.StoreLatest(ctx, report)
	}
	return report, nil
}

func (s *AssignmentService) runInTx(
	ctx context.Context,
	tx *sqlx.Tx,
	req dto.RunAssignmentsRequest,
	year *models.AcademicYear,
	cat *catalog.Catalog,
	scope []models.Program,
	scopeID int64,
	report *models.RunReport,
) error {
	eligibleCourses := make(map[int64]map[int][]models.Course, len(scope))

	yearLevels := []int{1, 2, 3, 4}
	if req.YearLevel != nil {
		yearLevels = []int{*req.YearLevel}
	}
	semesters := []int{1, 2}
	if req.Semester != nil {
		semesters = []int{*req.Semester}
	}

	for _, program := range scope {
		byLevel := make(map[int][]models.Course, len(yearLevels))
		var ensureErr error
		for _, yl := range yearLevels {
			for _, sem := range semesters {
				spName := fmt.Sprintf("sp_ensure_%d_%d_%d", program.ID, yl, sem)
				err := database.WithSavepoint(ctx, tx, spName, func() error {
					courses, materialized, err := s.curricula.Ensure(ctx, tx, program, yl, sem, year.ID)
					if err != nil {
						return err
					}
					if materialized {
						report.CurriculaMaterialized++
					}
					byLevel[yl] = append(byLevel[yl], courses...)
					return nil
				})
				if errors.Is(err, database.ErrTxBroken) {
					return err
				}
				if err != nil {
					ensureErr = err
				}
			}
			if ensureErr != nil {
				break
			}
		}
		if ensureErr != nil {
			report.ProgramsSkipped++
			report.Errors = append(report.Errors, models.RunError{
				ProgramID: program.ID,
				Code:      errCodeCurriculumFailed,
				Message:   ensureErr.Error(),
			})
			continue
		}

		total := 0
		for _, courses := range byLevel {
			total += len(courses)
		}
		if total == 0 {
			report.ProgramsSkipped++
			continue
		}
		eligibleCourses[program.ID] = byLevel
		report.ProgramsProcessed++
	}

	filter := models.EligibilityFilter{
		AcademicYearID: year.ID,
		StudentType:    models.StudentType(req.StudentType),
		ProgramID:      scopeID,
	}
	if filter.StudentType == "" {
		filter.StudentType = models.StudentTypeAll
	}
	if req.YearLevel != nil {
		filter.YearLevel = *req.YearLevel
	}
	if req.Semester != nil {
		filter.Semester = *req.Semester
	}

	rows, err := s.enrollments.ListEligible(ctx, tx, filter)
	if err != nil {
		return err
	}

	ids := make([]int64, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	pairs, err := s.assignments.ExistingPairs(ctx, tx, ids)
	if err != nil {
		return err
	}
	assigned := make(map[models.AssignedPair]struct{}, len(pairs))
	for _, p := range pairs {
		assigned[p] = struct{}{}
	}

	var staged []models.CourseAssignment
	for i := range rows {
		row := &rows[i]

		res := resolver.Resolve(resolver.FromEligible(*row), cat, false)
		if !res.Resolved || (scopeID != 0 && res.ProgramID != scopeID) {
			report.StudentsUnresolved++
			continue
		}
		program, _ := cat.ByID(res.ProgramID)

		spName := fmt.Sprintf("sp_reconcile_%d", row.ID)
		recErr := database.WithSavepoint(ctx, tx, spName, func() error {
			_, err := s.reconciler.Reconcile(ctx, tx, row, program, res.Confidence)
			return err
		})
		if errors.Is(recErr, database.ErrTxBroken) {
			return recErr
		}
		if recErr != nil {
			report.Errors = append(report.Errors, models.RunError{
				EnrollmentID: row.ID,
				ProgramID:    program.ID,
				Code:         errCodeReconcileFailed,
				Message:      recErr.Error(),
			})
			continue
		}

		yearLevel := effectiveYearLevel(req.YearLevel, row.YearLevel, eligibleCourses[program.ID])
		courses := eligibleCourses[program.ID][yearLevel]
		if len(courses) == 0 {
			report.Errors = append(report.Errors, models.RunError{
				EnrollmentID: row.ID,
				ProgramID:    program.ID,
				Code:         errCodeNoCurriculum,
				Message:      fmt.Sprintf("no curriculum courses for program %s year level %d", program.Code, yearLevel),
			})
			continue
		}

		number := studentNumberFor(*row)
		if number == "" {
			report.Errors = append(report.Errors, models.RunError{
				EnrollmentID: row.ID,
				ProgramID:    program.ID,
				Code:         errCodeMissingStudentNumber,
				Message:      "no student number on student, applicant, or linked student record",
			})
			continue
		}

		newCount := 0
		for _, course := range courses {
			pair := models.AssignedPair{EnrollmentID: row.ID, CourseID: course.ID}
			if _, done := assigned[pair]; done {
				continue
			}
			assigned[pair] = struct{}{}
			staged = append(staged, models.CourseAssignment{
				EnrollmentID:  row.ID,
				CourseID:      course.ID,
				StudentNumber: number,
				Status:        models.AssignmentStatusEnrolled,
			})
			newCount++
		}
		report.StudentsProcessed++
		if newCount > 0 {
			report.StudentsWithNewCourses++
			report.CoursesAssigned += newCount
		}
	}

	return s.assignments.BulkInsert(ctx, tx, staged, s.chunkSize)
}

// resolveYear picks the requested year, else the active one, else the most
// recent. No year at all aborts the run before any writes.
func (s *AssignmentService) resolveYear(ctx context.Context, req dto.RunAssignmentsRequest) (*models.AcademicYear, error) {
	if req.AcademicYearID != nil {
		year, err := s.years.FindByID(ctx, *req.AcademicYearID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("academic year %d not found", *req.AcademicYearID))
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load academic year")
		}
		return year, nil
	}
	year, err := s.years.FindActive(ctx)
	if err == nil {
		return year, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load active academic year")
	}
	year, err = s.years.FindLatest(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNoAcademicYear, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load latest academic year")
	}
	return year, nil
}

// studentNumberFor resolves the identifier written onto assignment rows.
// Priority: linked student, then the applicant's own number, then the
// student reached through the applicant.
func studentNumberFor(row models.EligibleEnrollment) string {
	if row.StudentNumber != nil && *row.StudentNumber != "" {
		return *row.StudentNumber
	}
	if row.ApplicantStudentNumber != nil && *row.ApplicantStudentNumber != "" {
		return *row.ApplicantStudentNumber
	}
	if row.LinkedStudentNumber != nil && *row.LinkedStudentNumber != "" {
		return *row.LinkedStudentNumber
	}
	return ""
}

// effectiveYearLevel prefers the explicit request override, then the
// enrollment's own level, then the first level with any courses.
func effectiveYearLevel(override *int, own int, byLevel map[int][]models.Course) int {
	if override != nil {
		return *override
	}
	if own > 0 {
		return own
	}
	levels := make([]int, 0, len(byLevel))
	for yl, courses := range byLevel {
		if len(courses) > 0 {
			levels = append(levels, yl)
		}
	}
	if len(levels) == 0 {
		return 0
	}
	sort.Ints(levels)
	return levels[0]
}
