package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/garyjia/pt-logbook/internal/domain/entity"
	"github.com/garyjia/pt-logbook/internal/logbook"
	"go.uber.org/zap"
)

// memStore backs every repository fake with maps guarded by one mutex.
type memStore struct {
	mu         sync.Mutex
	nextID     int64
	users      map[int64]*entity.User
	sessions   map[string]*entity.Session
	students   map[int64]*entity.Student
	logbooks   map[int64]*entity.Logbook
	entries    map[int64]*entity.Entry
	operations map[int64]*entity.Operation
	documents  map[int64]*entity.GeneratedDocument
	failOn     map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[int64]*entity.User{},
		sessions:   map[string]*entity.Session{},
		students:   map[int64]*entity.Student{},
		logbooks:   map[int64]*entity.Logbook{},
		entries:    map[int64]*entity.Entry{},
		operations: map[int64]*entity.Operation{},
		documents:  map[int64]*entity.GeneratedDocument{},
		failOn:     map[string]error{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) fail(op string) error {
	return m.failOn[op]
}

// users

type memUsers struct{ *memStore }

func (r memUsers) Create(ctx context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.ID = r.id()
	c := *u
	r.users[u.ID] = &c
	return nil
}

func (r memUsers) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (r memUsers) GetByIdentifier(ctx context.Context, identifier string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == identifier || strings.EqualFold(u.Email, identifier) {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r memUsers) ExistsByUsername(ctx context.Context, username string, excludeID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r memUsers) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r memUsers) Update(ctx context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("user.update"); err != nil {
		return err
	}
	c := *u
	r.users[u.ID] = &c
	return nil
}

func (r memUsers) UpdatePassword(ctx context.Context, id int64, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[id].PasswordHash = hash
	return nil
}

// sessions

type memSessions struct{ *memStore }

func (r memSessions) Create(ctx context.Context, s *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *s
	r.sessions[s.ID] = &c
	return nil
}

func (r memSessions) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		c := *s
		return &c, nil
	}
	return nil, nil
}

func (r memSessions) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func (r memSessions) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, s := range r.sessions {
		if s.Expired(now) {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}

// students

type memStudents struct{ *memStore }

func (r memStudents) Create(ctx context.Context, s *entity.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = r.id()
	c := *s
	r.students[s.ID] = &c
	return nil
}

func (r memStudents) GetByUserID(ctx context.Context, userID int64) (*entity.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.students {
		if s.UserID == userID {
			c := *s
			return &c, nil
		}
	}
	return nil, nil
}

func (r memStudents) Update(ctx context.Context, s *entity.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *s
	r.students[s.ID] = &c
	return nil
}

func (r memStudents) IncrementPrintCount(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("student.print"); err != nil {
		return err
	}
	r.students[id].LogbookPrintCount++
	return nil
}

// logbooks

type memLogbooks struct{ *memStore }

func (r memLogbooks) Create(ctx context.Context, lb *entity.Logbook) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	lb.ID = r.id()
	c := *lb
	r.logbooks[lb.ID] = &c
	return nil
}

func (r memLogbooks) GetByID(ctx context.Context, id int64) (*entity.Logbook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if lb, ok := r.logbooks[id]; ok {
		c := *lb
		return &c, nil
	}
	return nil, nil
}

func (r memLogbooks) GetByWeek(ctx context.Context, studentID int64, week int) (*entity.Logbook, error) {
	list, _ := r.ListByStudent(ctx, studentID)
	for _, lb := range list {
		if lb.WeekNumber == week {
			return lb, nil
		}
	}
	return nil, nil
}

func (r memLogbooks) ListByStudent(ctx context.Context, studentID int64) ([]*entity.Logbook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Logbook
	for _, lb := range r.logbooks {
		if lb.StudentID == studentID {
			c := *lb
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WeekNumber != out[j].WeekNumber {
			return out[i].WeekNumber < out[j].WeekNumber
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r memLogbooks) Update(ctx context.Context, lb *entity.Logbook) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *lb
	r.logbooks[lb.ID] = &c
	return nil
}

func (r memLogbooks) MarkSubmitted(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logbooks[id].IsSubmitted = true
	return nil
}

func (r memLogbooks) SetDiagram(ctx context.Context, id int64, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logbooks[id].ActivityDiagram = path
	return nil
}

func (r memLogbooks) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.logbooks, id)
	for eid, e := range r.entries {
		if e.LogbookID == id {
			delete(r.entries, eid)
		}
	}
	for oid, op := range r.operations {
		if op.LogbookID == id {
			delete(r.operations, oid)
		}
	}
	return nil
}

// entries

type memEntries struct{ *memStore }

func (r memEntries) Create(ctx context.Context, e *entity.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("entry.create"); err != nil {
		return err
	}
	e.ID = r.id()
	c := *e
	r.entries[e.ID] = &c
	return nil
}

func (r memEntries) GetByID(ctx context.Context, id int64) (*entity.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[id]; ok {
		c := *e
		return &c, nil
	}
	return nil, nil
}

func (r memEntries) GetByDate(ctx context.Context, logbookID int64, date time.Time) (*entity.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.LogbookID == logbookID && entity.TruncateDay(e.Date).Equal(entity.TruncateDay(date)) {
			c := *e
			return &c, nil
		}
	}
	return nil, nil
}

func (r memEntries) ListByLogbook(ctx context.Context, logbookID int64) ([]*entity.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Entry
	for _, e := range r.entries {
		if e.LogbookID == logbookID {
			c := *e
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r memEntries) CountByLogbook(ctx context.Context, logbookID int64) (int, error) {
	list, _ := r.ListByLogbook(ctx, logbookID)
	return len(list), nil
}

func (r memEntries) Update(ctx context.Context, e *entity.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *e
	r.entries[e.ID] = &c
	return nil
}

// operations

type memOperations struct{ *memStore }

func (r memOperations) Create(ctx context.Context, op *entity.Operation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	op.ID = r.id()
	c := *op
	r.operations[op.ID] = &c
	return nil
}

func (r memOperations) GetByID(ctx context.Context, id int64) (*entity.Operation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if op, ok := r.operations[id]; ok {
		c := *op
		return &c, nil
	}
	return nil, nil
}

func (r memOperations) ListByLogbook(ctx context.Context, logbookID int64) ([]*entity.Operation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Operation
	for _, op := range r.operations {
		if op.LogbookID == logbookID {
			c := *op
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memOperations) Update(ctx context.Context, op *entity.Operation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *op
	r.operations[op.ID] = &c
	return nil
}

func (r memOperations) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.operations, id)
	return nil
}

// documents

type memDocuments struct{ *memStore }

func (r memDocuments) Upsert(ctx context.Context, d *entity.GeneratedDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.documents {
		if existing.LogbookID == d.LogbookID {
			d.ID = existing.ID
		}
	}
	if d.ID == 0 {
		d.ID = r.id()
	}
	c := *d
	r.documents[d.ID] = &c
	return nil
}

func (r memDocuments) GetByLogbookID(ctx context.Context, logbookID int64) (*entity.GeneratedDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.documents {
		if d.LogbookID == logbookID {
			c := *d
			return &c, nil
		}
	}
	return nil, nil
}

func (r memDocuments) ListOlderThan(ctx context.Context, cutoff time.Time) ([]*entity.GeneratedDocument, error) {
	return nil, nil
}

func (r memDocuments) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.documents, id)
	return nil
}

// mockTxManager runs fn directly
type mockTxManager struct{}

func (mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// memFiles implements port.FileStorage in memory
type memFiles struct {
	mu    sync.Mutex
	root  string
	files map[string][]byte
}

func newMemFiles() *memFiles {
	return &memFiles{root: "/media", files: map[string][]byte{}}
}

func (f *memFiles) Save(ctx context.Context, path string, content []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[path] = content
	return nil
}

func (f *memFiles) Read(ctx context.Context, path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.files[path]
	if !ok {
		return nil, errors.New("file not found")
	}
	return b, nil
}

func (f *memFiles) Exists(ctx context.Context, path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.files[path]
	return ok
}

func (f *memFiles) Delete(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.files, path)
	return nil
}

func (f *memFiles) GetFullPath(relativePath string) string {
	return f.root + "/" + relativePath
}

// mockLogger records log messages
type mockLogger struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (l *mockLogger) Info(msg string, keysAndValues ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg)
}

func (l *mockLogger) Error(msg string, keysAndValues ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

// mockBuilder captures Build arguments
type mockBuilder struct {
	err     error
	header  logbook.HeaderInfo
	days    map[string]logbook.DayEntry
	ops     []logbook.Operation
	diagram string
	calls   int
}

func (b *mockBuilder) Build(header logbook.HeaderInfo, days map[string]logbook.DayEntry, operations []logbook.Operation, diagramPath string) (string, error) {
	b.calls++
	b.header, b.days, b.ops, b.diagram = header, days, operations, diagramPath
	if b.err != nil {
		return "", b.err
	}
	return fmt.Sprintf("/out/%s-week-%d.docx", header.RegNo, header.WeekNo), nil
}

func (b *mockBuilder) Renderer() logbook.Renderer {
	return logbook.NewDocxRenderer(zap.NewNop())
}

// mockMetrics records observations
type mockMetrics struct {
	mu          sync.Mutex
	generations []error
	formats     []string
	uploads     []string
}

func (m *mockMetrics) RecordGeneration(format string, d time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.formats = append(m.formats, format)
	m.generations = append(m.generations, err)
}

func (m *mockMetrics) RecordDiagramUpload(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads = append(m.uploads, kind)
}

// fixture wires a signed-up user with a student profile
type fixture struct {
	store   *memStore
	files   *memFiles
	logger  *mockLogger
	metrics *mockMetrics
	user    *entity.User
	student *entity.Student
}

var monday = time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	f := &fixture{
		store:   newMemStore(),
		files:   newMemFiles(),
		logger:  &mockLogger{},
		metrics: &mockMetrics{},
	}
	ctx := context.Background()
	f.user = &entity.User{Username: "jdoe", Email: "jane@example.com", FirstName: "Jane", LastName: "Doe"}
	_ = memUsers{f.store}.Create(ctx, f.user)
	f.student = &entity.Student{
		UserID:             f.user.ID,
		RegistrationNumber: "2021-04-099",
		DepartmentName:     "Computer Science",
		PTLocation:         "Acme Ltd",
	}
	_ = memStudents{f.store}.Create(ctx, f.student)
	return f
}

func (f *fixture) addLogbook(week int) *entity.Logbook {
	lb := &entity.Logbook{
		StudentID:    f.student.ID,
		WeekNumber:   week,
		FromDate:     monday,
		ToDate:       monday.AddDate(0, 0, entity.WeekSpanDays),
		WeekActivity: entity.DefaultWeekActivity,
	}
	_ = memLogbooks{f.store}.Create(context.Background(), lb)
	return lb
}

func (f *fixture) addEntry(lb *entity.Logbook, offset int, activity string, updated bool) *entity.Entry {
	date := lb.FromDate.AddDate(0, 0, offset)
	e := &entity.Entry{LogbookID: lb.ID, Day: date.Weekday().String(), Date: date, Activity: activity, IsUpdated: updated}
	_ = memEntries{f.store}.Create(context.Background(), e)
	return e
}

func (f *fixture) otherUser() *entity.User {
	u := &entity.User{Username: "intruder", Email: "x@example.com"}
	_ = memUsers{f.store}.Create(context.Background(), u)
	_ = memStudents{f.store}.Create(context.Background(), &entity.Student{UserID: u.ID, RegistrationNumber: "X"})
	return u
}
