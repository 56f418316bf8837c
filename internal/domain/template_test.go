package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func intPtr(v int) *int {
	return &v
}

func TestNewTaskTemplate(t *testing.T) {
	t.Parallel()
	userID := uuid.New()

	tmpl, err := NewTaskTemplate(userID, "Daily standup report", "", PriorityHigh,
		RecurrenceDaily, nil, nil, 0, "Reporting")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !tmpl.IsActive {
		t.Error("Expected new template to be active")
	}
	if tmpl.DaysToComplete != 1 {
		t.Errorf("Expected DaysToComplete to default to 1, got %d", tmpl.DaysToComplete)
	}
	if tmpl.LastGenerated != nil {
		t.Error("Expected LastGenerated to be unset on a new template")
	}

	// Templates cannot be one-off.
	if _, err := NewTaskTemplate(userID, "t", "", PriorityLow, RecurrenceNone, nil, nil, 1, ""); err != ErrTemplateRecurrence {
		t.Errorf("Expected error %v, got %v", ErrTemplateRecurrence, err)
	}

	if _, err := NewTaskTemplate(userID, "t", "", PriorityLow, RecurrenceWeekly, intPtr(8), nil, 1, ""); err != ErrInvalidDayOfWeek {
		t.Errorf("Expected error %v, got %v", ErrInvalidDayOfWeek, err)
	}

	if _, err := NewTaskTemplate(userID, "t", "", PriorityLow, RecurrenceMonthly, nil, intPtr(0), 1, ""); err != ErrInvalidDayOfMonth {
		t.Errorf("Expected error %v, got %v", ErrInvalidDayOfMonth, err)
	}
}

func TestTemplateFiresOn(t *testing.T) {
	t.Parallel()

	// 2024-03-13 is a Wednesday (ISO weekday 3).
	wednesday := date(2024, time.March, 13)
	sunday := date(2024, time.March, 17)

	tests := []struct {
		name       string
		recurrence RecurrenceType
		dayOfWeek  *int
		dayOfMonth *int
		today      time.Time
		want       bool
	}{
		{"daily fires every day", RecurrenceDaily, nil, nil, wednesday, true},
		{"weekly fires on matching weekday", RecurrenceWeekly, intPtr(3), nil, wednesday, true},
		{"weekly skips other weekdays", RecurrenceWeekly, intPtr(3), nil, sunday, false},
		{"weekly ISO sunday is 7", RecurrenceWeekly, intPtr(7), nil, sunday, true},
		{"weekly without day never fires", RecurrenceWeekly, nil, nil, wednesday, false},
		{"monthly fires on matching day", RecurrenceMonthly, nil, intPtr(13), wednesday, true},
		{"monthly skips other days", RecurrenceMonthly, nil, intPtr(14), wednesday, false},
		{"monthly without day never fires", RecurrenceMonthly, nil, nil, wednesday, false},
		// April has 30 days: a day-31 template is silently skipped all month.
		{"monthly day 31 skipped in April", RecurrenceMonthly, nil, intPtr(31), date(2024, time.April, 30), false},
		{"monthly day 29 fires in leap February", RecurrenceMonthly, nil, intPtr(29), date(2024, time.February, 29), true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tmpl := TaskTemplate{
				Recurrence: tt.recurrence,
				DayOfWeek:  tt.dayOfWeek,
				DayOfMonth: tt.dayOfMonth,
			}
			if got := tmpl.FiresOn(tt.today); got != tt.want {
				t.Errorf("FiresOn(%s) = %v, want %v", tt.today.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}

func TestTemplateGeneratedOn(t *testing.T) {
	t.Parallel()
	today := date(2024, time.March, 15)

	tmpl := TaskTemplate{}
	if tmpl.GeneratedOn(today) {
		t.Error("Expected template with no LastGenerated to report not generated")
	}

	// Generated earlier today, any time of day.
	lastGen := time.Date(2024, time.March, 15, 6, 0, 0, 0, time.UTC)
	tmpl.LastGenerated = &lastGen
	if !tmpl.GeneratedOn(today) {
		t.Error("Expected template generated this morning to report generated today")
	}

	// Generated yesterday.
	lastGen = time.Date(2024, time.March, 14, 23, 59, 0, 0, time.UTC)
	tmpl.LastGenerated = &lastGen
	if tmpl.GeneratedOn(today) {
		t.Error("Expected template generated yesterday to not report generated today")
	}
}

func TestTemplateInstantiate(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, time.March, 15, 6, 0, 0, 0, time.UTC)

	tmpl := TaskTemplate{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		Title:          "Material data update",
		Description:    "refresh the master sheet",
		Priority:       PriorityHigh,
		Recurrence:     RecurrenceDaily,
		DaysToComplete: 3,
		Category:       "Data",
		IsActive:       true,
	}

	task := tmpl.Instantiate(now)

	if task.ID == uuid.Nil {
		t.Error("Expected instantiated task to get its own ID")
	}
	if task.UserID != tmpl.UserID {
		t.Errorf("Expected user ID %s, got %s", tmpl.UserID, task.UserID)
	}
	if task.Title != tmpl.Title || task.Description != tmpl.Description {
		t.Error("Expected task to inherit title and description")
	}
	if task.Priority != PriorityHigh || task.Category != "Data" {
		t.Error("Expected task to inherit priority and category")
	}
	if task.Status != TaskStatusTodo {
		t.Errorf("Expected status %s, got %s", TaskStatusTodo, task.Status)
	}
	if !task.IsRecurring || task.RecurrenceType != RecurrenceDaily {
		t.Error("Expected task to be marked recurring with the template's kind")
	}
	if task.TemplateID == nil || *task.TemplateID != tmpl.ID {
		t.Error("Expected task to carry the template back-reference")
	}

	wantDue := date(2024, time.March, 18)
	if task.DueDate == nil || !task.DueDate.Equal(wantDue) {
		t.Errorf("Expected due date %s, got %v", wantDue.Format("2006-01-02"), task.DueDate)
	}
	if !task.CreatedAt.Equal(now) {
		t.Errorf("Expected CreatedAt %v, got %v", now, task.CreatedAt)
	}
	if err := task.Validate(); err != nil {
		t.Errorf("Expected instantiated task to be valid, got %v", err)
	}
}

func TestTemplateValidate(t *testing.T) {
	t.Parallel()
	valid := TaskTemplate{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		Title:          "weekly sync",
		Priority:       PriorityMedium,
		Recurrence:     RecurrenceWeekly,
		DayOfWeek:      intPtr(3),
		DaysToComplete: 1,
	}

	if err := valid.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	invalid := valid
	invalid.ID = uuid.Nil
	if err := invalid.Validate(); err != ErrEmptyTemplateID {
		t.Errorf("Expected error %v, got %v", ErrEmptyTemplateID, err)
	}

	invalid = valid
	invalid.DaysToComplete = 0
	if err := invalid.Validate(); err != ErrInvalidDaysToComplete {
		t.Errorf("Expected error %v, got %v", ErrInvalidDaysToComplete, err)
	}

	invalid = valid
	invalid.DayOfMonth = intPtr(32)
	if err := invalid.Validate(); err != ErrInvalidDayOfMonth {
		t.Errorf("Expected error %v, got %v", ErrInvalidDayOfMonth, err)
	}

	// A weekly template without a day of week is valid; it just never fires.
	tolerated := valid
	tolerated.DayOfWeek = nil
	if err := tolerated.Validate(); err != nil {
		t.Errorf("Expected weekly template without a day to validate, got %v", err)
	}
	if tolerated.FiresOn(date(2024, time.March, 13)) {
		t.Error("Expected weekly template without a day to never fire")
	}
}
