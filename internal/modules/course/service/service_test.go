package service

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"arka.dev/learnhub/internal/entity"
	"arka.dev/learnhub/internal/modules/course/dto"
	"arka.dev/learnhub/internal/ownership"
	"arka.dev/learnhub/internal/store"
	"arka.dev/learnhub/pkg/apperror"
)

type fakeCourseRepo struct {
	courses     map[uuid.UUID]*entity.Course
	lessons     map[uuid.UUID]*entity.Lesson
	topics      map[uuid.UUID]*entity.Topic
	enrollments map[[2]uuid.UUID]bool

	// set by EnrolledBy; a non-empty Scopes slice in a query means
	// "restrict to this student's enrollments"
	scopeStudent uuid.UUID
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{
		courses:     map[uuid.UUID]*entity.Course{},
		lessons:     map[uuid.UUID]*entity.Lesson{},
		topics:      map[uuid.UUID]*entity.Topic{},
		enrollments: map[[2]uuid.UUID]bool{},
	}
}

func (f *fakeCourseRepo) Create(_ context.Context, course *entity.Course) error {
	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	cp := *course
	f.courses[course.ID] = &cp
	return nil
}

func (f *fakeCourseRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Course, error) {
	course, ok := f.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *course
	return &cp, nil
}

func (f *fakeCourseRepo) FindDetailed(ctx context.Context, id uuid.UUID) (*entity.Course, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeCourseRepo) UpdateByID(_ context.Context, id uuid.UUID, fields map[string]any) (*entity.Course, error) {
	course, ok := f.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if v, ok := fields["title"]; ok {
		course.Title = v.(string)
	}
	if v, ok := fields["description"]; ok {
		course.Description = v.(string)
	}
	if v, ok := fields["level"]; ok {
		course.Level = entity.CourseLevel(v.(string))
	}
	cp := *course
	return &cp, nil
}

func (f *fakeCourseRepo) matches(q store.Query, c *entity.Course) bool {
	if v, ok := q.Filter["teacher_id"]; ok && c.TeacherID != v.(uuid.UUID) {
		return false
	}
	if v, ok := q.Filter["level"]; ok && string(c.Level) != v.(string) {
		return false
	}
	if len(q.Scopes) > 0 && !f.enrollments[[2]uuid.UUID{c.ID, f.scopeStudent}] {
		return false
	}
	if q.SearchTerm != "" {
		term := strings.ToLower(q.SearchTerm)
		hit := false
		for _, field := range []string{c.Title, c.Description, string(c.Level)} {
			if strings.Contains(strings.ToLower(field), term) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

func (f *fakeCourseRepo) Find(_ context.Context, q store.Query) ([]entity.Course, error) {
	var out []entity.Course
	for _, c := range f.courses {
		if f.matches(q, c) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	if q.Skip > 0 {
		if q.Skip >= len(out) {
			return nil, nil
		}
		out = out[q.Skip:]
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (f *fakeCourseRepo) Count(_ context.Context, q store.Query) (int64, error) {
	var total int64
	for _, c := range f.courses {
		if f.matches(q, c) {
			total++
		}
	}
	return total, nil
}

func (f *fakeCourseRepo) IsEnrolled(_ context.Context, courseID, studentID uuid.UUID) (bool, error) {
	return f.enrollments[[2]uuid.UUID{courseID, studentID}], nil
}

func (f *fakeCourseRepo) Enroll(_ context.Context, courseID, studentID uuid.UUID) error {
	f.enrollments[[2]uuid.UUID{courseID, studentID}] = true
	return nil
}

func (f *fakeCourseRepo) EnrolledBy(studentID uuid.UUID) func(*gorm.DB) *gorm.DB {
	f.scopeStudent = studentID
	return func(db *gorm.DB) *gorm.DB { return db }
}

func (f *fakeCourseRepo) EnrolledStudents(_ context.Context, courseID uuid.UUID) ([]*entity.User, error) {
	var students []*entity.User
	for key := range f.enrollments {
		if key[0] == courseID {
			students = append(students, &entity.User{ID: key[1]})
		}
	}
	return students, nil
}

func (f *fakeCourseRepo) IncrementLikes(ctx context.Context, id uuid.UUID) (*entity.Course, error) {
	course, ok := f.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	course.Likes++
	return f.FindByID(ctx, id)
}

func (f *fakeCourseRepo) IncrementViewCount(_ context.Context, id uuid.UUID, delta int) error {
	course, ok := f.courses[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	course.ViewCount += delta
	return nil
}

func (f *fakeCourseRepo) DeleteSubtree(_ context.Context, id uuid.UUID) error {
	if _, ok := f.courses[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	for lessonID, lesson := range f.lessons {
		if lesson.CourseID != id {
			continue
		}
		for topicID, topic := range f.topics {
			if topic.LessonID == lessonID {
				delete(f.topics, topicID)
			}
		}
		delete(f.lessons, lessonID)
	}
	for key := range f.enrollments {
		if key[0] == id {
			delete(f.enrollments, key)
		}
	}
	delete(f.courses, id)
	return nil
}

type fakeUsers struct {
	users map[uuid.UUID]*entity.User
}

func (f *fakeUsers) Create(_ context.Context, user *entity.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUsers) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUsers) UpdateByID(_ context.Context, id uuid.UUID, _ map[string]any) (*entity.User, error) {
	return f.FindByID(context.Background(), id)
}

func (f *fakeUsers) IsFollowing(context.Context, uuid.UUID, uuid.UUID) (bool, error) { return false, nil }
func (f *fakeUsers) Follow(context.Context, uuid.UUID, uuid.UUID) error              { return nil }
func (f *fakeUsers) Unfollow(context.Context, uuid.UUID, uuid.UUID) error            { return nil }
func (f *fakeUsers) FollowedTeachers(context.Context, uuid.UUID) ([]*entity.User, error) {
	return nil, nil
}

type fakeViews struct {
	recorded [][2]uuid.UUID
}

func (f *fakeViews) RecordView(_ context.Context, courseID, userID uuid.UUID) error {
	f.recorded = append(f.recorded, [2]uuid.UUID{courseID, userID})
	return nil
}

type courseFixture struct {
	repo    *fakeCourseRepo
	users   *fakeUsers
	views   *fakeViews
	svc     CourseService
	catalog CatalogService

	teacher  *entity.User
	intruder *entity.User
	student  *entity.User
}

func newCourseFixture(t *testing.T) *courseFixture {
	t.Helper()

	repo := newFakeCourseRepo()
	users := &fakeUsers{users: map[uuid.UUID]*entity.User{}}
	views := &fakeViews{}

	teacher := &entity.User{ID: uuid.New(), Name: "Ada", Email: "ada@example.com", Role: entity.RoleTeacher}
	intruder := &entity.User{ID: uuid.New(), Name: "Eve", Email: "eve@example.com", Role: entity.RoleTeacher}
	student := &entity.User{ID: uuid.New(), Name: "Sam", Email: "sam@example.com", Role: entity.RoleStudent}
	for _, u := range []*entity.User{teacher, intruder, student} {
		users.users[u.ID] = u
	}

	resolver := ownership.NewResolver(repo, nil, nil)
	return &courseFixture{
		repo:     repo,
		users:    users,
		views:    views,
		svc:      NewCourseService(repo, users, resolver),
		catalog:  NewCatalogService(repo, users, views, zap.NewNop()),
		teacher:  teacher,
		intruder: intruder,
		student:  student,
	}
}

func (fx *courseFixture) addCourse(t *testing.T, teacherID uuid.UUID, title string, level entity.CourseLevel) *entity.Course {
	t.Helper()
	course := &entity.Course{Title: title, Description: title + " description", Level: level, TeacherID: teacherID}
	require.NoError(t, fx.repo.Create(context.Background(), course))
	return course
}

func TestCreateCourse(t *testing.T) {
	fx := newCourseFixture(t)
	ctx := context.Background()

	t.Run("defaults level to beginner", func(t *testing.T) {
		course, err := fx.svc.Create(ctx, fx.teacher.ID, dto.CreateCourseRequest{
			Title:       "Go Basics",
			Description: "An introduction",
		})
		require.NoError(t, err)
		assert.Equal(t, entity.LevelBeginner, course.Level)
		assert.Equal(t, fx.teacher.ID, course.TeacherID)
	})

	t.Run("students cannot create courses", func(t *testing.T) {
		_, err := fx.svc.Create(ctx, fx.student.ID, dto.CreateCourseRequest{
			Title:       "Nope",
			Description: "not allowed",
		})
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("unknown teacher", func(t *testing.T) {
		_, err := fx.svc.Create(ctx, uuid.New(), dto.CreateCourseRequest{
			Title:       "Ghost",
			Description: "no owner",
		})
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestUpdateCourseOwnership(t *testing.T) {
	fx := newCourseFixture(t)
	ctx := context.Background()
	course := fx.addCourse(t, fx.teacher.ID, "Go Basics", entity.LevelBeginner)

	title := "Go Basics, Revised"
	_, err := fx.svc.Update(ctx, course.ID, fx.intruder.ID, dto.UpdateCourseRequest{Title: &title})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	updated, err := fx.svc.Update(ctx, course.ID, fx.teacher.ID, dto.UpdateCourseRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, course.Description, updated.Description)
}

func TestDeleteCourseCascades(t *testing.T) {
	fx := newCourseFixture(t)
	ctx := context.Background()
	course := fx.addCourse(t, fx.teacher.ID, "Go Basics", entity.LevelBeginner)
	other := fx.addCourse(t, fx.teacher.ID, "Advanced Go", entity.LevelAdvanced)

	for i := 0; i < 2; i++ {
		lesson := &entity.Lesson{ID: uuid.New(), CourseID: course.ID, Order: i + 1}
		fx.repo.lessons[lesson.ID] = lesson
		for j := 0; j < 3; j++ {
			topic := &entity.Topic{ID: uuid.New(), LessonID: lesson.ID, Order: j + 1}
			fx.repo.topics[topic.ID] = topic
		}
	}
	survivor := &entity.Lesson{ID: uuid.New(), CourseID: other.ID, Order: 1}
	fx.repo.lessons[survivor.ID] = survivor
	fx.repo.enrollments[[2]uuid.UUID{course.ID, fx.student.ID}] = true

	err := fx.svc.Delete(ctx, course.ID, fx.intruder.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	require.NoError(t, fx.svc.Delete(ctx, course.ID, fx.teacher.ID))

	assert.NotContains(t, fx.repo.courses, course.ID)
	assert.Empty(t, fx.repo.topics)
	assert.Len(t, fx.repo.lessons, 1, "sibling course content must survive")
	assert.Contains(t, fx.repo.lessons, survivor.ID)
	assert.Empty(t, fx.repo.enrollments)

	err = fx.svc.Delete(ctx, course.ID, fx.teacher.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestTeacherCoursesScopedToOwner(t *testing.T) {
	fx := newCourseFixture(t)
	ctx := context.Background()
	fx.addCourse(t, fx.teacher.ID, "Go Basics", entity.LevelBeginner)
	fx.addCourse(t, fx.teacher.ID, "Advanced Go", entity.LevelAdvanced)
	fx.addCourse(t, fx.intruder.ID, "Rust Basics", entity.LevelBeginner)

	page, err := fx.svc.TeacherCourses(ctx, fx.teacher.ID, dto.ListCoursesRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Meta.Total)
	for _, c := range page.Data {
		assert.Equal(t, fx.teacher.ID, c.TeacherID)
	}

	page, err = fx.svc.TeacherCourses(ctx, fx.teacher.ID, dto.ListCoursesRequest{Level: "advanced"})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Advanced Go", page.Data[0].Title)
}

func TestCourseDetailsAndAnalytics(t *testing.T) {
	fx := newCourseFixture(t)
	ctx := context.Background()
	course := fx.addCourse(t, fx.teacher.ID, "Go Basics", entity.LevelBeginner)
	fx.repo.enrollments[[2]uuid.UUID{course.ID, fx.student.ID}] = true

	_, err := fx.svc.Details(ctx, course.ID, fx.intruder.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	details, err := fx.svc.Details(ctx, course.ID, fx.teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, course.ID, details.ID)

	analytics, err := fx.svc.Analytics(ctx, course.ID, fx.teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, analytics.StudentCount)
	require.Len(t, analytics.Students, 1)
	assert.Equal(t, fx.student.ID, analytics.Students[0].ID)
}

func TestEnroll(t *testing.T) {
	fx := newCourseFixture(t)
	ctx := context.Background()
	course := fx.addCourse(t, fx.teacher.ID, "Go Basics", entity.LevelBeginner)

	t.Run("teachers cannot enroll", func(t *testing.T) {
		_, err := fx.catalog.Enroll(ctx, course.ID, fx.intruder.ID)
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("first enrollment succeeds, second conflicts", func(t *testing.T) {
		_, err := fx.catalog.Enroll(ctx, course.ID, fx.student.ID)
		require.NoError(t, err)
		assert.True(t, fx.repo.enrollments[[2]uuid.UUID{course.ID, fx.student.ID}])

		_, err = fx.catalog.Enroll(ctx, course.ID, fx.student.ID)
		assert.ErrorIs(t, err, apperror.ErrConflict)
		assert.Len(t, fx.repo.enrollments, 1, "membership must stay single")
	})

	t.Run("unknown course", func(t *testing.T) {
		_, err := fx.catalog.Enroll(ctx, uuid.New(), fx.student.ID)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestEnrolledCourses(t *testing.T) {
	fx := newCourseFixture(t)
	ctx := context.Background()
	enrolled := fx.addCourse(t, fx.teacher.ID, "Go Basics", entity.LevelBeginner)
	fx.addCourse(t, fx.teacher.ID, "Advanced Go", entity.LevelAdvanced)
	fx.repo.enrollments[[2]uuid.UUID{enrolled.ID, fx.student.ID}] = true

	page, err := fx.catalog.EnrolledCourses(ctx, fx.student.ID, dto.ListCoursesRequest{})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, enrolled.ID, page.Data[0].ID)
	assert.Equal(t, int64(1), page.Meta.Total)
}

func TestLikeRequiresEnrollment(t *testing.T) {
	fx := newCourseFixture(t)
	ctx := context.Background()
	course := fx.addCourse(t, fx.teacher.ID, "Go Basics", entity.LevelBeginner)

	_, err := fx.catalog.Like(ctx, course.ID, fx.student.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	fx.repo.enrollments[[2]uuid.UUID{course.ID, fx.student.ID}] = true

	liked, err := fx.catalog.Like(ctx, course.ID, fx.student.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, liked.Likes)

	liked, err = fx.catalog.Like(ctx, course.ID, fx.student.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, liked.Likes, "likes only ever go up")
}

func TestPublicDetailsCountsNonEnrolledViews(t *testing.T) {
	fx := newCourseFixture(t)
	ctx := context.Background()
	course := fx.addCourse(t, fx.teacher.ID, "Go Basics", entity.LevelBeginner)

	_, err := fx.catalog.PublicDetails(ctx, course.ID, fx.student.ID)
	require.NoError(t, err)
	require.Len(t, fx.views.recorded, 1)
	assert.Equal(t, course.ID, fx.views.recorded[0][0])

	fx.repo.enrollments[[2]uuid.UUID{course.ID, fx.student.ID}] = true
	_, err = fx.catalog.PublicDetails(ctx, course.ID, fx.student.ID)
	require.NoError(t, err)
	assert.Len(t, fx.views.recorded, 1, "enrolled views do not count")
}

// TestCourseLifecycle walks one course from creation through enrollment and
// likes to cascade deletion.
func TestCourseLifecycle(t *testing.T) {
	fx := newCourseFixture(t)
	ctx := context.Background()

	course, err := fx.svc.Create(ctx, fx.teacher.ID, dto.CreateCourseRequest{
		Title:       "Go Basics",
		Description: "An introduction",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.LevelBeginner, course.Level)

	for i := 0; i < 2; i++ {
		lesson := &entity.Lesson{ID: uuid.New(), CourseID: course.ID, Order: i + 1}
		fx.repo.lessons[lesson.ID] = lesson
		topic := &entity.Topic{ID: uuid.New(), LessonID: lesson.ID, Order: 1}
		fx.repo.topics[topic.ID] = topic
	}

	_, err = fx.catalog.Enroll(ctx, course.ID, fx.student.ID)
	require.NoError(t, err)

	liked, err := fx.catalog.Like(ctx, course.ID, fx.student.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, liked.Likes)

	_, err = fx.catalog.Enroll(ctx, course.ID, fx.student.ID)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	require.NoError(t, fx.svc.Delete(ctx, course.ID, fx.teacher.ID))
	assert.Empty(t, fx.repo.lessons)
	assert.Empty(t, fx.repo.topics)
	assert.Empty(t, fx.repo.enrollments)
}

func TestListCoursesSearchAndFilter(t *testing.T) {
	fx := newCourseFixture(t)
	ctx := context.Background()
	fx.addCourse(t, fx.teacher.ID, "Go Basics", entity.LevelBeginner)
	fx.addCourse(t, fx.teacher.ID, "Go Concurrency", entity.LevelAdvanced)
	fx.addCourse(t, fx.intruder.ID, "Rust Basics", entity.LevelBeginner)

	page, err := fx.catalog.ListCourses(ctx, dto.ListCoursesRequest{SearchTerm: "go"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Meta.Total)

	page, err = fx.catalog.ListCourses(ctx, dto.ListCoursesRequest{Level: "beginner"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Meta.Total)

	page, err = fx.catalog.ListCourses(ctx, dto.ListCoursesRequest{SearchTerm: "go", Level: "beginner"})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Go Basics", page.Data[0].Title)
}
