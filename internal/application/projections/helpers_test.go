package projections

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"gohuddleup/internal/adapters/storage"
	achievementstore "gohuddleup/internal/adapters/storage/achievement"
	attendancestore "gohuddleup/internal/adapters/storage/attendance"
	eventstore "gohuddleup/internal/adapters/storage/event"
	identitystore "gohuddleup/internal/adapters/storage/identity"
	ministrystore "gohuddleup/internal/adapters/storage/ministry"
	parentstore "gohuddleup/internal/adapters/storage/parent"
	schoolstore "gohuddleup/internal/adapters/storage/school"
	studentstore "gohuddleup/internal/adapters/storage/student"
	userstore "gohuddleup/internal/adapters/storage/user"
	"gohuddleup/internal/domain/identity"
	"gohuddleup/internal/domain/ministry"
	"gohuddleup/internal/domain/parent"
	"gohuddleup/internal/domain/student"
	"gohuddleup/internal/domain/user"
	"gohuddleup/internal/testkit"
)

// stores bundles the SQL stores over one test database.
type stores struct {
	db        *storage.DB
	users     *userstore.SQLStore
	students  *studentstore.SQLStore
	directory *schoolstore.SQLStore
	ministry  *ministrystore.SQLStore
	parents   *parentstore.SQLStore

	attendance   *attendancestore.SQLStore
	achievements *achievementstore.SQLStore
	events       *eventstore.SQLStore
}

func openStores(t *testing.T) stores {
	t.Helper()
	db := testkit.OpenDB(t)
	return stores{
		db:        db,
		users:     userstore.NewSQLStore(db),
		students:  studentstore.NewSQLStore(db),
		directory: schoolstore.NewSQLStore(db),
		ministry:  ministrystore.NewSQLStore(db),
		parents:   parentstore.NewSQLStore(db),

		attendance:   attendancestore.NewSQLStore(db),
		achievements: achievementstore.NewSQLStore(db),
		events:       eventstore.NewSQLStore(db),
	}
}

// addStudent inserts an identity, a STUDENT users row and a profile placed at schoolID.
func (s stores) addStudent(t *testing.T, schoolID, huddleID, status string, created time.Time) student.Profile {
	t.Helper()
	ctx := context.Background()
	id := uuid.NewString()
	email := id[:8] + "@example.com"
	if err := identitystore.NewSQLStore(s.db).Insert(ctx, identity.Identity{ID: id, Email: email, PasswordHash: "h", CreatedAt: created}); err != nil {
		t.Fatalf("insert identity: %v", err)
	}
	if err := s.users.Insert(ctx, user.User{ID: id, Email: email, Role: user.RoleStudent, Status: status, CreatedAt: created, UpdatedAt: created}); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	p := student.Profile{
		ID: uuid.NewString(), UserID: id, FirstName: "Jordan", LastName: "Lee", Email: email,
		Mobile: "5025550142", Grade: "10th", SchoolID: schoolID, HuddleID: huddleID,
		CreatedAt: created, UpdatedAt: created,
	}
	if err := s.students.Insert(ctx, p); err != nil {
		t.Fatalf("insert profile: %v", err)
	}
	return p
}

func (s stores) addMinistry(t *testing.T, studentID string) ministry.Data {
	t.Helper()
	d := ministry.Data{ID: uuid.NewString(), StudentID: studentID, ChurchName: "Grace Community", RelationshipToChrist: "YES", CreatedAt: testkit.Now, UpdatedAt: testkit.Now}
	if err := s.ministry.Insert(context.Background(), d); err != nil {
		t.Fatalf("insert ministry: %v", err)
	}
	return d
}

func (s stores) addParent(t *testing.T, studentID, first string) parent.Parent {
	t.Helper()
	p := parent.Parent{ID: uuid.NewString(), StudentID: studentID, FirstName: first, LastName: "Lee", Email: "pat@example.com", Phone: "5025550100", Relationship: "Mother", CreatedAt: testkit.Now, UpdatedAt: testkit.Now}
	if err := s.parents.Insert(context.Background(), p); err != nil {
		t.Fatalf("insert parent: %v", err)
	}
	return p
}

func (s stores) dashboardDeps() GetStudentDashboardDeps {
	return GetStudentDashboardDeps{
		Students: s.students, Directory: s.directory, Ministry: s.ministry, Parents: s.parents,
		Events: s.events, Achievements: s.achievements, Attendance: s.attendance,
	}
}
