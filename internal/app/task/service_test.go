package task

import (
	"context"
	"sync"
	"testing"
	"time"

	"kanbaniq/internal/app/board"
	"kanbaniq/internal/app/notification"
	"kanbaniq/internal/app/user"
	"kanbaniq/internal/testutil"
	"kanbaniq/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []notification.TaskEvent
}

func (n *recordingNotifier) TaskChanged(ctx context.Context, ev notification.TaskEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *recordingNotifier) InvitationSent(context.Context, notification.InvitationEvent)     {}
func (n *recordingNotifier) InvitationAccepted(context.Context, notification.AcceptedEvent) {}
func (n *recordingNotifier) Wait()                                                           {}

func (n *recordingNotifier) last() notification.TaskEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.events[len(n.events)-1]
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

type fixture struct {
	db       *gorm.DB
	svc      Service
	boardSvc board.Service
	users    user.Repository
	notifier *recordingNotifier
	bus      *utils.EventBus

	admin *user.User
	board *board.BoardDetail
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t, &user.User{}, &board.Board{}, &board.Member{}, &board.Column{}, &Task{})
	redisP, _ := testutil.NewRedis(t)
	users := user.NewRepository(db)
	userSvc := user.NewService(users, redisP, zap.NewNop())
	bus := utils.NewEventBus(1000)
	boardSvc := board.NewService(board.NewRepository(db), userSvc, redisP, bus, zap.NewNop())
	notifier := &recordingNotifier{}

	f := &fixture{
		db:       db,
		svc:      NewService(NewRepository(db), boardSvc, notifier, redisP, bus, zap.NewNop()),
		boardSvc: boardSvc,
		users:    users,
		notifier: notifier,
		bus:      bus,
	}
	f.admin = f.user(t, "ada")
	b, err := boardSvc.CreateBoard(context.Background(), f.admin.ID, board.CreateBoardRequest{Name: "Roadmap"})
	require.NoError(t, err)
	f.board = b
	return f
}

func (f *fixture) user(t *testing.T, name string) *user.User {
	t.Helper()
	u := &user.User{FirebaseUID: "uid-" + name, Email: name + "@example.com", DisplayName: name}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) member(t *testing.T, name string) *user.User {
	t.Helper()
	u := f.user(t, name)
	_, err := f.boardSvc.AddMember(context.Background(), f.board.ID, u.ID)
	require.NoError(t, err)
	return u
}

func (f *fixture) column(i int) uint64 {
	return f.board.Columns[i].ID
}

func (f *fixture) create(t *testing.T, title string, column uint64) *Task {
	t.Helper()
	task, err := f.svc.CreateTask(context.Background(), f.board.ID, f.admin, CreateTaskRequest{Title: title, ColumnID: &column})
	require.NoError(t, err)
	return task
}

func (f *fixture) order(t *testing.T, column uint64) []uint64 {
	t.Helper()
	var tasks []Task
	require.NoError(t, f.db.Where("column_id = ?", column).Order("position ASC").Find(&tasks).Error)
	ids := make([]uint64, 0, len(tasks))
	for i, task := range tasks {
		assert.Equal(t, i, task.Position, "positions must be dense")
		ids = append(ids, task.ID)
	}
	return ids
}

func ptr[T any](v T) *T { return &v }

func TestCreateTaskDefaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.CreateTask(ctx, f.board.ID, f.admin, CreateTaskRequest{Title: "  Write docs "})
	require.NoError(t, err)
	assert.Equal(t, "Write docs", first.Title)
	assert.Equal(t, PriorityMedium, first.Priority)
	assert.Equal(t, f.column(0), first.ColumnID)
	assert.Equal(t, 0, first.Position)
	assert.Equal(t, f.admin.ID, first.CreatedByID)
	assert.Nil(t, first.AssignedToID)

	second, err := f.svc.CreateTask(ctx, f.board.ID, f.admin, CreateTaskRequest{Title: "Review"})
	require.NoError(t, err)
	assert.Equal(t, 1, second.Position)

	ev := f.notifier.last()
	assert.Equal(t, notification.KindTaskCreated, ev.Kind)
	assert.Equal(t, "Review", ev.Task.Title)
	assert.Equal(t, "To Do", ev.Task.ColumnName)
}

func TestCreateTaskValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	stranger := f.user(t, "eve")

	cases := map[string]CreateTaskRequest{
		"empty title":         {Title: "   "},
		"bad priority":        {Title: "x", Priority: "urgent"},
		"foreign column":      {Title: "x", ColumnID: ptr(uint64(99999))},
		"non-member assignee": {Title: "x", AssignedToID: &stranger.ID},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.CreateTask(ctx, f.board.ID, f.admin, req)
			assert.ErrorIs(t, err, utils.ErrValidation)
		})
	}
	assert.Zero(t, f.notifier.count())
}

func TestCreateTaskWithAssignee(t *testing.T) {
	f := newFixture(t)
	alice := f.member(t, "alice")

	task, err := f.svc.CreateTask(context.Background(), f.board.ID, f.admin, CreateTaskRequest{
		Title:        "Fix login",
		Priority:     PriorityHigh,
		AssignedToID: &alice.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, task.AssignedToID)
	assert.Equal(t, alice.ID, *task.AssignedToID)
	require.NotNil(t, task.AssignedByID)
	assert.Equal(t, f.admin.ID, *task.AssignedByID)
}

func TestListTasksOrderingFiltersAndCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	done := f.create(t, "done-1", f.column(2))
	todo1 := f.create(t, "todo-1", f.column(0))
	todo2 := f.create(t, "todo-2", f.column(0))
	doing := f.create(t, "doing-1", f.column(1))

	tasks, err := f.svc.ListTasks(ctx, f.board.ID, ListFilter{})
	require.NoError(t, err)
	ids := make([]uint64, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	assert.Equal(t, []uint64{todo1.ID, todo2.ID, doing.ID, done.ID}, ids)

	column := f.column(0)
	filtered, err := f.svc.ListTasks(ctx, f.board.ID, ListFilter{ColumnID: &column})
	require.NoError(t, err)
	assert.Len(t, filtered, 2)

	_, err = f.svc.ListTasks(ctx, f.board.ID, ListFilter{Priority: "urgent"})
	assert.ErrorIs(t, err, utils.ErrValidation)

	// A write must drop the cached list.
	f.create(t, "todo-3", f.column(0))
	filtered, err = f.svc.ListTasks(ctx, f.board.ID, ListFilter{ColumnID: &column})
	require.NoError(t, err)
	assert.Len(t, filtered, 3)
}

func TestMoveTaskWithinColumn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	col := f.column(0)
	a := f.create(t, "a", col)
	b := f.create(t, "b", col)
	c := f.create(t, "c", col)
	before := f.notifier.count()

	result, err := f.svc.MoveTask(ctx, f.board.ID, c.ID, MoveTaskRequest{ColumnID: col, Position: ptr(0)})
	require.NoError(t, err)

	assert.True(t, result.Moved)
	require.Len(t, result.Columns, 1)
	assert.Equal(t, []uint64{c.ID, a.ID, b.ID}, result.Columns[0].TaskIDs)
	assert.Equal(t, []uint64{c.ID, a.ID, b.ID}, f.order(t, col))
	assert.Equal(t, 0, result.Task.Position)
	assert.Equal(t, before, f.notifier.count(), "moves never send email")
}

func TestMoveTaskAcrossColumnsClampsPosition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	todo, doing := f.column(0), f.column(1)
	a := f.create(t, "a", todo)
	b := f.create(t, "b", todo)
	c := f.create(t, "c", todo)
	x := f.create(t, "x", doing)

	result, err := f.svc.MoveTask(ctx, f.board.ID, a.ID, MoveTaskRequest{ColumnID: doing, Position: ptr(42)})
	require.NoError(t, err)

	require.Len(t, result.Columns, 2)
	assert.Equal(t, ColumnOrder{ColumnID: todo, TaskIDs: []uint64{b.ID, c.ID}}, result.Columns[0])
	assert.Equal(t, ColumnOrder{ColumnID: doing, TaskIDs: []uint64{x.ID, a.ID}}, result.Columns[1])
	assert.Equal(t, []uint64{b.ID, c.ID}, f.order(t, todo))
	assert.Equal(t, []uint64{x.ID, a.ID}, f.order(t, doing))
	assert.Equal(t, doing, result.Task.ColumnID)

	// Negative positions clamp to the top; a missing position appends.
	_, err = f.svc.MoveTask(ctx, f.board.ID, c.ID, MoveTaskRequest{ColumnID: doing, Position: ptr(-3)})
	require.NoError(t, err)
	_, err = f.svc.MoveTask(ctx, f.board.ID, b.ID, MoveTaskRequest{ColumnID: doing})
	require.NoError(t, err)
	assert.Equal(t, []uint64{c.ID, x.ID, a.ID, b.ID}, f.order(t, doing))
	assert.Empty(t, f.order(t, todo))
}

func TestMoveTaskToSamePlaceIsNoop(t *testing.T) {
	f := newFixture(t)
	col := f.column(0)
	a := f.create(t, "a", col)
	b := f.create(t, "b", col)

	result, err := f.svc.MoveTask(context.Background(), f.board.ID, b.ID, MoveTaskRequest{ColumnID: col, Position: ptr(1)})
	require.NoError(t, err)
	assert.False(t, result.Moved)
	assert.Equal(t, []uint64{a.ID, b.ID}, result.Columns[0].TaskIDs)
}

func TestMoveTaskRejectsForeignColumnAndMissingTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.create(t, "a", f.column(0))

	other, err := f.boardSvc.CreateBoard(ctx, f.admin.ID, board.CreateBoardRequest{Name: "Other"})
	require.NoError(t, err)

	_, err = f.svc.MoveTask(ctx, f.board.ID, a.ID, MoveTaskRequest{ColumnID: other.Columns[0].ID})
	assert.ErrorIs(t, err, utils.ErrValidation)

	_, err = f.svc.MoveTask(ctx, f.board.ID, 99999, MoveTaskRequest{ColumnID: f.column(1)})
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestUpdateTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.member(t, "alice")
	bob := f.member(t, "bob")
	task := f.create(t, "Draft", f.column(0))

	_, err := f.svc.UpdateTask(ctx, f.board.ID, task.ID, f.admin, UpdateTaskRequest{ColumnID: ptr(f.column(1))})
	assert.ErrorIs(t, err, utils.ErrValidation)

	due := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	updated, err := f.svc.UpdateTask(ctx, f.board.ID, task.ID, bob, UpdateTaskRequest{
		Title:        ptr("Final"),
		Priority:     ptr(PriorityHigh),
		DueDate:      &due,
		AssignedToID: &alice.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, PriorityHigh, updated.Priority)
	require.NotNil(t, updated.DueDate)
	assert.True(t, due.Equal(*updated.DueDate))
	assert.Equal(t, alice.ID, *updated.AssignedToID)
	assert.Equal(t, bob.ID, *updated.AssignedByID)

	ev := f.notifier.last()
	assert.Equal(t, notification.KindTaskUpdated, ev.Kind)
	assert.True(t, ev.AssigneeChanged)
	assert.Nil(t, ev.PreviousAssigneeID)
	assert.ElementsMatch(t, []string{"title", "priority", "due date", "assignee"}, ev.Changes)

	cleared, err := f.svc.UpdateTask(ctx, f.board.ID, task.ID, f.admin, UpdateTaskRequest{Unassign: true, ClearDueDate: true})
	require.NoError(t, err)
	assert.Nil(t, cleared.AssignedToID)
	assert.Nil(t, cleared.AssignedByID)
	assert.Nil(t, cleared.DueDate)
	ev = f.notifier.last()
	require.NotNil(t, ev.PreviousAssigneeID)
	assert.Equal(t, alice.ID, *ev.PreviousAssigneeID)

	before := f.notifier.count()
	same, err := f.svc.UpdateTask(ctx, f.board.ID, task.ID, f.admin, UpdateTaskRequest{Title: ptr("Final")})
	require.NoError(t, err)
	assert.Equal(t, "Final", same.Title)
	assert.Equal(t, before, f.notifier.count(), "no-op updates send nothing")
}

func TestDeleteTaskRenumbersColumn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	col := f.column(0)
	a := f.create(t, "a", col)
	b := f.create(t, "b", col)
	c := f.create(t, "c", col)

	require.NoError(t, f.svc.DeleteTask(ctx, f.board.ID, b.ID, f.admin))
	assert.Equal(t, []uint64{a.ID, c.ID}, f.order(t, col))
	assert.Equal(t, notification.KindTaskDeleted, f.notifier.last().Kind)

	err := f.svc.DeleteTask(ctx, f.board.ID, b.ID, f.admin)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestListAssignedToUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.member(t, "alice")

	empty, err := f.svc.ListAssignedToUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)

	late := time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC)
	soon := time.Date(2026, 10, 30, 0, 0, 0, 0, time.UTC)
	undated, err := f.svc.CreateTask(ctx, f.board.ID, f.admin, CreateTaskRequest{Title: "undated", AssignedToID: &alice.ID})
	require.NoError(t, err)
	lateTask, err := f.svc.CreateTask(ctx, f.board.ID, f.admin, CreateTaskRequest{Title: "late", DueDate: &late, AssignedToID: &alice.ID})
	require.NoError(t, err)
	soonTask, err := f.svc.CreateTask(ctx, f.board.ID, f.admin, CreateTaskRequest{Title: "soon", DueDate: &soon, AssignedToID: &alice.ID})
	require.NoError(t, err)
	f.create(t, "someone else's", f.column(0))

	tasks, err := f.svc.ListAssignedToUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, []uint64{soonTask.ID, lateTask.ID, undated.ID}, []uint64{tasks[0].ID, tasks[1].ID, tasks[2].ID})
	assert.Equal(t, "Roadmap", tasks[0].BoardName)
	assert.Equal(t, "To Do", tasks[0].ColumnName)
}
