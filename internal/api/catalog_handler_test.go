package api

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/phrazzld/lms-api/internal/api/shared"
	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/mocks"
	"github.com/phrazzld/lms-api/internal/service"
	"github.com/phrazzld/lms-api/internal/store"
)

func newCatalogHandler() (*CatalogHandler, *mocks.CatalogService) {
	svc := &mocks.CatalogService{}
	return NewCatalogHandler(svc, nil), svc
}

func TestCatalogHandler_CreateCourse(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("created", func(t *testing.T) {
		t.Parallel()
		h, svc := newCatalogHandler()
		course := &domain.Course{ID: uuid.New(), AuthorID: userID, Title: "Go"}
		svc.On("CreateCourse", mock.Anything, userID, "Go", "basics").Return(course, nil)

		rec := serve(h.CreateCourse, testRequest(http.MethodPost, "/api/courses",
			`{"title": "Go", "description": "basics"}`, userID, nil))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, course.ID, decodeBody[domain.Course](t, rec).ID)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		t.Parallel()
		h, svc := newCatalogHandler()

		rec := serve(h.CreateCourse, testRequest(http.MethodPost, "/api/courses", `{"title": "Go"}`, uuid.Nil, nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		svc.AssertNotCalled(t, "CreateCourse", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing title", func(t *testing.T) {
		t.Parallel()
		h, _ := newCatalogHandler()

		rec := serve(h.CreateCourse, testRequest(http.MethodPost, "/api/courses", `{"description": "x"}`, userID, nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid title: required field", decodeBody[shared.ErrorResponse](t, rec).Error)
	})
}

func TestCatalogHandler_ListCourses(t *testing.T) {
	t.Parallel()

	t.Run("passes paging through", func(t *testing.T) {
		t.Parallel()
		h, svc := newCatalogHandler()
		svc.On("ListPublishedCourses", mock.Anything, 5, 10).Return([]*domain.Course{{ID: uuid.New()}}, nil)

		rec := serve(h.ListCourses, testRequest(http.MethodGet, "/api/courses?limit=5&offset=10", "", uuid.Nil, nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decodeBody[ListResponse[domain.Course]](t, rec).Items, 1)
	})

	t.Run("bad limit", func(t *testing.T) {
		t.Parallel()
		h, _ := newCatalogHandler()

		rec := serve(h.ListCourses, testRequest(http.MethodGet, "/api/courses?limit=abc", "", uuid.Nil, nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty list is an empty array", func(t *testing.T) {
		t.Parallel()
		h, svc := newCatalogHandler()
		svc.On("ListPublishedCourses", mock.Anything, 0, 0).Return(([]*domain.Course)(nil), nil)

		rec := serve(h.ListCourses, testRequest(http.MethodGet, "/api/courses", "", uuid.Nil, nil))

		assert.JSONEq(t, `{"items": []}`, rec.Body.String())
	})
}

func TestCatalogHandler_GetCourse(t *testing.T) {
	t.Parallel()

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		h, svc := newCatalogHandler()
		id := uuid.New()
		svc.On("GetCourse", mock.Anything, id).Return(nil, store.ErrCourseNotFound)

		rec := serve(h.GetCourse, testRequest(http.MethodGet, "/api/courses/"+id.String(), "", uuid.Nil, idParam(id)))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Course not found", decodeBody[shared.ErrorResponse](t, rec).Error)
	})

	t.Run("malformed id", func(t *testing.T) {
		t.Parallel()
		h, _ := newCatalogHandler()

		rec := serve(h.GetCourse, testRequest(http.MethodGet, "/api/courses/nope", "", uuid.Nil,
			map[string]string{"id": "nope"}))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid id: has invalid format", decodeBody[shared.ErrorResponse](t, rec).Error)
	})
}

func TestCatalogHandler_PublishCourse_NotOwner(t *testing.T) {
	t.Parallel()

	h, svc := newCatalogHandler()
	userID, courseID := uuid.New(), uuid.New()
	svc.On("PublishCourse", mock.Anything, userID, courseID).Return(nil, service.ErrNotOwned)

	rec := serve(h.PublishCourse, testRequest(http.MethodPost, "/api/courses/x/publish", "", userID, idParam(courseID)))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCatalogHandler_CreateLesson(t *testing.T) {
	t.Parallel()

	h, svc := newCatalogHandler()
	userID, courseID := uuid.New(), uuid.New()
	lesson := &domain.Lesson{ID: uuid.New(), CourseID: courseID, Title: "Loops", Position: 3}
	svc.On("CreateLesson", mock.Anything, userID, courseID, "Loops", "body", 3).Return(lesson, nil)

	rec := serve(h.CreateLesson, testRequest(http.MethodPost, "/api/courses/x/lessons",
		`{"title": "Loops", "content": "body", "position": 3}`, userID, idParam(courseID)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, lesson.ID, decodeBody[domain.Lesson](t, rec).ID)
}

func TestCatalogHandler_Enroll(t *testing.T) {
	t.Parallel()

	userID, courseID := uuid.New(), uuid.New()
	enrollment := &domain.Enrollment{LearnerID: userID, CourseID: courseID}

	tests := []struct {
		name       string
		created    bool
		err        error
		wantStatus int
	}{
		{name: "first time", created: true, wantStatus: http.StatusCreated},
		{name: "already enrolled", created: false, wantStatus: http.StatusOK},
		{name: "draft course", err: service.ErrCourseNotPublished, wantStatus: http.StatusBadRequest},
		{name: "unknown course", err: store.ErrCourseNotFound, wantStatus: http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			h, svc := newCatalogHandler()
			if tc.err != nil {
				svc.On("Enroll", mock.Anything, userID, courseID).Return(nil, false, tc.err)
			} else {
				svc.On("Enroll", mock.Anything, userID, courseID).Return(enrollment, tc.created, nil)
			}

			rec := serve(h.Enroll, testRequest(http.MethodPost, "/api/courses/x/enroll", "", userID, idParam(courseID)))

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.err == nil {
				resp := decodeBody[map[string]any](t, rec)
				assert.Equal(t, tc.created, resp["created"])
				assert.Equal(t, courseID.String(), resp["course_id"])
			}
		})
	}
}

func TestCatalogHandler_CreatePath(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	a, b := uuid.New(), uuid.New()

	t.Run("created", func(t *testing.T) {
		t.Parallel()
		h, svc := newCatalogHandler()
		path := &domain.LearningPath{ID: uuid.New(), CourseIDs: []uuid.UUID{a, b}}
		svc.On("CreatePath", mock.Anything, userID, "Backend", "", []uuid.UUID{a, b}).Return(path, nil)

		rec := serve(h.CreatePath, testRequest(http.MethodPost, "/api/paths",
			`{"title": "Backend", "course_ids": ["`+a.String()+`", "`+b.String()+`"]}`, userID, nil))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, []uuid.UUID{a, b}, decodeBody[domain.LearningPath](t, rec).CourseIDs)
	})

	t.Run("no courses", func(t *testing.T) {
		t.Parallel()
		h, _ := newCatalogHandler()

		rec := serve(h.CreatePath, testRequest(http.MethodPost, "/api/paths",
			`{"title": "Backend", "course_ids": []}`, userID, nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown course", func(t *testing.T) {
		t.Parallel()
		h, svc := newCatalogHandler()
		svc.On("CreatePath", mock.Anything, userID, "Backend", "", []uuid.UUID{a}).Return(nil, store.ErrCourseNotFound)

		rec := serve(h.CreatePath, testRequest(http.MethodPost, "/api/paths",
			`{"title": "Backend", "course_ids": ["`+a.String()+`"]}`, userID, nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCatalogHandler_ListExercises(t *testing.T) {
	t.Parallel()

	h, svc := newCatalogHandler()
	lessonID := uuid.New()
	svc.On("ListExercises", mock.Anything, lessonID).Return([]*domain.Exercise{
		{ID: uuid.New(), LessonID: lessonID, Prompt: "one", Position: 1},
		{ID: uuid.New(), LessonID: lessonID, Prompt: "two", Position: 2},
	}, nil)

	rec := serve(h.ListExercises, testRequest(http.MethodGet, "/api/lessons/x/exercises", "", uuid.Nil, idParam(lessonID)))

	assert.Equal(t, http.StatusOK, rec.Code)
	items := decodeBody[ListResponse[domain.Exercise]](t, rec).Items
	assert.Len(t, items, 2)
	assert.Equal(t, "one", items[0].Prompt)
}
