package scheduler_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/mocks"
	"github.com/taskhive/taskhive-api/internal/notify"
	"github.com/taskhive/taskhive-api/internal/scheduler"
)

// Fixed test days: 2024-03-13 is a Wednesday (ISO day 3).
var (
	wednesday = time.Date(2024, time.March, 13, 6, 0, 0, 0, time.UTC)
	thursday  = time.Date(2024, time.March, 14, 6, 0, 0, 0, time.UTC)
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func datePtr(t time.Time) *time.Time { return &t }

func intPtr(n int) *int { return &n }

type generatorFixture struct {
	templates *mocks.MockTemplateStore
	tasks     *mocks.MockTaskStore
	users     *mocks.MockUserStore
	sender    *mocks.MockSender
	generator *scheduler.Generator
	user      *domain.User
}

func newGeneratorFixture(t *testing.T) *generatorFixture {
	t.Helper()

	user := &domain.User{
		ID:    uuid.New(),
		Name:  "Meera Nair",
		Email: "meera@example.com",
	}

	f := &generatorFixture{
		templates: mocks.NewMockTemplateStore(),
		tasks:     mocks.NewMockTaskStore(),
		users:     mocks.NewMockUserStore(),
		sender:    &mocks.MockSender{},
		user:      user,
	}
	f.users.Users[user.Email] = user
	f.generator = scheduler.NewGenerator(f.templates, f.tasks, f.users, f.sender, discardLogger())
	return f
}

func (f *generatorFixture) template(recurrence domain.RecurrenceType) *domain.TaskTemplate {
	tmpl := &domain.TaskTemplate{
		ID:             uuid.New(),
		UserID:         f.user.ID,
		Title:          "Daily standup report",
		Description:    "Summarize yesterday's work",
		Priority:       domain.PriorityMedium,
		Recurrence:     recurrence,
		DaysToComplete: 1,
		Category:       "reporting",
		IsActive:       true,
		CreatedAt:      time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	f.templates.Add(tmpl)
	return tmpl
}

func TestRunDaily_GeneratesTask(t *testing.T) {
	t.Parallel()

	f := newGeneratorFixture(t)
	tmpl := f.template(domain.RecurrenceDaily)
	tmpl.DaysToComplete = 3

	report, err := f.generator.RunDaily(context.Background(), wednesday)
	require.NoError(t, err)
	assert.Equal(t, scheduler.RunReport{Generated: 1}, report)

	require.Len(t, f.tasks.Tasks, 1)
	for _, task := range f.tasks.Tasks {
		assert.Equal(t, "Daily standup report", task.Title)
		assert.Equal(t, domain.TaskStatusTodo, task.Status)
		assert.True(t, task.IsRecurring)
		require.NotNil(t, task.TemplateID)
		assert.Equal(t, tmpl.ID, *task.TemplateID)
		require.NotNil(t, task.DueDate)
		assert.Equal(t, time.Date(2024, time.March, 16, 0, 0, 0, 0, time.UTC), *task.DueDate)
	}

	// The dedup marker is stamped with today.
	require.NotNil(t, tmpl.LastGenerated)
	assert.True(t, domain.SameDay(*tmpl.LastGenerated, wednesday))

	created := f.sender.DispatchedOf(notify.KindTaskCreated)
	require.Len(t, created, 1)
	assert.Equal(t, "meera@example.com", created[0].Recipient)
}

func TestRunDaily_SecondRunSameDayIsDeduplicated(t *testing.T) {
	t.Parallel()

	f := newGeneratorFixture(t)
	f.template(domain.RecurrenceDaily)

	first, err := f.generator.RunDaily(context.Background(), wednesday)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Generated)

	// Evening re-run of the same calendar day.
	evening := wednesday.Add(12 * time.Hour)
	second, err := f.generator.RunDaily(context.Background(), evening)
	require.NoError(t, err)
	assert.Equal(t, scheduler.RunReport{Skipped: 1}, second)
	assert.Len(t, f.tasks.Tasks, 1)
}

func TestRunDaily_NextDayGeneratesAgain(t *testing.T) {
	t.Parallel()

	f := newGeneratorFixture(t)
	f.template(domain.RecurrenceDaily)

	_, err := f.generator.RunDaily(context.Background(), wednesday)
	require.NoError(t, err)

	report, err := f.generator.RunDaily(context.Background(), thursday)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Generated)
	assert.Len(t, f.tasks.Tasks, 2)
}

func TestRunWeekly_OnlyFiresOnMatchingWeekday(t *testing.T) {
	t.Parallel()

	f := newGeneratorFixture(t)
	tmpl := f.template(domain.RecurrenceWeekly)
	tmpl.DayOfWeek = intPtr(3) // Wednesday

	report, err := f.generator.RunWeekly(context.Background(), thursday)
	require.NoError(t, err)
	assert.Equal(t, scheduler.RunReport{}, report)
	assert.Empty(t, f.tasks.Tasks)

	report, err = f.generator.RunWeekly(context.Background(), wednesday)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Generated)
	assert.Len(t, f.tasks.Tasks, 1)
}

func TestRunWeekly_SundayUsesISONumbering(t *testing.T) {
	t.Parallel()

	f := newGeneratorFixture(t)
	tmpl := f.template(domain.RecurrenceWeekly)
	tmpl.DayOfWeek = intPtr(7) // Sunday

	sunday := time.Date(2024, time.March, 17, 6, 0, 0, 0, time.UTC)
	report, err := f.generator.RunWeekly(context.Background(), sunday)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Generated)
}

func TestRunMonthly_SkipsMissingDayInShortMonths(t *testing.T) {
	t.Parallel()

	f := newGeneratorFixture(t)
	tmpl := f.template(domain.RecurrenceMonthly)
	tmpl.DayOfMonth = intPtr(31)

	// April has 30 days; the template silently does not fire.
	endOfApril := time.Date(2024, time.April, 30, 6, 0, 0, 0, time.UTC)
	report, err := f.generator.RunMonthly(context.Background(), endOfApril)
	require.NoError(t, err)
	assert.Equal(t, scheduler.RunReport{}, report)
	assert.Empty(t, f.tasks.Tasks)

	// It fires again in the next month that has a day 31.
	endOfMay := time.Date(2024, time.May, 31, 6, 0, 0, 0, time.UTC)
	report, err = f.generator.RunMonthly(context.Background(), endOfMay)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Generated)
}

func TestRunMonthly_FiresOnMatchingDay(t *testing.T) {
	t.Parallel()

	f := newGeneratorFixture(t)
	tmpl := f.template(domain.RecurrenceMonthly)
	tmpl.DayOfMonth = intPtr(13)

	report, err := f.generator.RunMonthly(context.Background(), wednesday)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Generated)
}

func TestRun_InactiveTemplatesAreIgnored(t *testing.T) {
	t.Parallel()

	f := newGeneratorFixture(t)
	tmpl := f.template(domain.RecurrenceDaily)
	tmpl.IsActive = false

	report, err := f.generator.RunDaily(context.Background(), wednesday)
	require.NoError(t, err)
	assert.Equal(t, scheduler.RunReport{}, report)
	assert.Empty(t, f.tasks.Tasks)
}

func TestRun_OneFailingTemplateDoesNotStopTheRun(t *testing.T) {
	t.Parallel()

	f := newGeneratorFixture(t)
	bad := f.template(domain.RecurrenceDaily)
	bad.Title = "doomed"
	good := f.template(domain.RecurrenceDaily)
	good.Title = "fine"
	good.CreatedAt = bad.CreatedAt.Add(time.Second)

	f.tasks.CreateFn = func(ctx context.Context, task *domain.Task) error {
		if task.Title == "doomed" {
			return errors.New("insert failed")
		}
		f.tasks.Tasks[task.ID] = task
		return nil
	}

	report, err := f.generator.RunDaily(context.Background(), wednesday)
	assert.Error(t, err)
	assert.Equal(t, 1, report.Generated)
	assert.Equal(t, 1, report.Failed)
	assert.Len(t, f.tasks.Tasks, 1)

	// The failed template keeps a nil marker so the next run retries it.
	assert.Nil(t, bad.LastGenerated)
	assert.NotNil(t, good.LastGenerated)
}

func TestRun_UserLookupFailureSkipsNotificationOnly(t *testing.T) {
	t.Parallel()

	f := newGeneratorFixture(t)
	f.template(domain.RecurrenceDaily)
	delete(f.users.Users, f.user.Email)

	report, err := f.generator.RunDaily(context.Background(), wednesday)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Generated)
	assert.Len(t, f.tasks.Tasks, 1)
	assert.Empty(t, f.sender.Dispatched())
}
