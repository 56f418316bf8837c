package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/taskhive/taskhive-api/internal/domain"
)

const signature = "Best regards,\nTaskHive"

const sectionRule = "========================================\n"

// Render produces the email subject and plain-text body for a notification.
func Render(n Notification) (subject, body string, err error) {
	switch n.Kind {
	case KindTaskCreated:
		subject, body = renderTaskCreated(n)
	case KindStatusChanged:
		subject, body = renderStatusChanged(n)
	case KindReminder:
		subject, body = renderReminder(n)
	case KindDigest:
		subject, body = renderDigest(n)
	default:
		return "", "", fmt.Errorf("unknown notification kind %q", n.Kind)
	}
	return subject, body, nil
}

func renderTaskCreated(n Notification) (string, string) {
	subject := "New Task Assigned: " + n.Task.Title

	description := n.Task.Description
	if description == "" {
		description = "N/A"
	}

	body := fmt.Sprintf(`Dear %s,

A new task has been assigned to you:

Title: %s
Priority: %s
Due Date: %s
Description: %s

Please log in to the system to view details.

%s
`,
		n.UserName,
		n.Task.Title,
		displayPriority(n.Task.Priority),
		displayDueDate(n.Task.DueDate),
		description,
		signature,
	)
	return subject, body
}

func renderStatusChanged(n Notification) (string, string) {
	subject := "Task Status Updated: " + n.Task.Title

	var b strings.Builder
	fmt.Fprintf(&b, `Dear %s,

Task status has been updated:

Task: %s
New Status: %s
`,
		n.UserName,
		n.Task.Title,
		displayStatus(n.Task.Status),
	)
	if n.Task.Status == domain.TaskStatusCompleted {
		b.WriteString("Great job completing this task!\n")
	}
	b.WriteString("\nThank you!\n")
	return subject, b.String()
}

func renderReminder(n Notification) (string, string) {
	subject := "Task Reminder: " + n.Task.Title
	if n.Task.Priority == domain.PriorityCritical {
		subject = "URGENT: " + subject
	}

	urgency := "due soon"
	if days, ok := n.Task.DaysUntilDeadline(n.Today); ok {
		switch {
		case days < 0:
			urgency = fmt.Sprintf("overdue by %d days", -days)
		case days == 0:
			urgency = "DUE TODAY!"
		case days == 1:
			urgency = "due tomorrow"
		default:
			urgency = fmt.Sprintf("due in %d days", days)
		}
	}

	body := fmt.Sprintf(`Dear %s,

REMINDER: Task %s

Title: %s
Priority: %s
Due Date: %s

Please complete this task on time.

%s
`,
		n.UserName,
		urgency,
		n.Task.Title,
		displayPriority(n.Task.Priority),
		displayDueDate(n.Task.DueDate),
		signature,
	)
	return subject, body
}

func renderDigest(n Notification) (string, string) {
	d := n.Digest
	day := domain.DateOf(n.Today).Format("2006-01-02")
	subject := "Daily Task Digest - " + day

	var b strings.Builder
	fmt.Fprintf(&b, `Dear %s,

Here is your daily task summary for %s:

`, d.UserName, day)

	b.WriteString(sectionRule)
	b.WriteString("TASK STATISTICS\n")
	b.WriteString(sectionRule)
	fmt.Fprintf(&b, "Total Tasks: %d\n", d.TotalTasks)
	fmt.Fprintf(&b, "Completed: %d\n", d.CompletedTasks)
	fmt.Fprintf(&b, "Pending: %d\n", d.PendingTasks)
	fmt.Fprintf(&b, "Overdue: %d\n\n", d.OverdueTasks)

	if len(d.DueToday) > 0 {
		b.WriteString(sectionRule)
		b.WriteString("TASKS DUE TODAY\n")
		b.WriteString(sectionRule)
		for _, task := range d.DueToday {
			fmt.Fprintf(&b, "- [%s] %s\n", displayPriority(task.Priority), task.Title)
		}
		b.WriteString("\n")
	}

	if len(d.Overdue) > 0 {
		b.WriteString(sectionRule)
		b.WriteString("OVERDUE TASKS (ACTION REQUIRED!)\n")
		b.WriteString(sectionRule)
		for _, task := range d.Overdue {
			fmt.Fprintf(&b, "- [%s] %s (Due: %s)\n",
				displayPriority(task.Priority), task.Title, task.DueDate)
		}
		b.WriteString("\n")
	}

	if len(d.Upcoming) > 0 {
		b.WriteString(sectionRule)
		b.WriteString("UPCOMING TASKS (Next 7 Days)\n")
		b.WriteString(sectionRule)
		for _, task := range d.Upcoming {
			fmt.Fprintf(&b, "- %s (Due: %s - %d days)\n",
				task.Title, task.DueDate, task.DaysUntilDeadline)
		}
		b.WriteString("\n")
	}

	b.WriteString(sectionRule)
	b.WriteString("\nLog in to the system to manage your tasks.\n\n")
	b.WriteString(signature)
	b.WriteString("\n")
	return subject, b.String()
}

func displayPriority(p domain.TaskPriority) string {
	return strings.ToUpper(string(p))
}

func displayStatus(s domain.TaskStatus) string {
	return strings.ToUpper(string(s))
}

func displayDueDate(due *time.Time) string {
	if due == nil {
		return "N/A"
	}
	return domain.DateOf(*due).Format("2006-01-02")
}
