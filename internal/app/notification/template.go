package notification

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"
)

const textBody = `Hi {{.RecipientName}},

{{.Headline}}
{{with .Task}}
Task:     {{.Title}}
Priority: {{.Priority}}
{{- if .DueDate}}
Due:      {{.DueDate}}{{end}}
{{- if .Status}}
Status:   {{.Status}}{{end}}
{{- end}}
{{- if .Changes}}
Changed:  {{.Changes}}{{end}}
Board:    {{.BoardName}}
{{- if .ExpiresAt}}
This invitation expires on {{.ExpiresAt}}.{{end}}
{{if .Link}}
{{.LinkLabel}}: {{.Link}}
{{end}}
--
KanbanIQ
`

const htmlBody = `<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, Segoe UI, Helvetica, Arial, sans-serif; color: #1f2933;">
<p>Hi {{.RecipientName}},</p>
<p>{{.Headline}}</p>
{{- with .Task}}
<table cellpadding="4" style="border-collapse: collapse;">
<tr><td><strong>Task</strong></td><td>{{.Title}}</td></tr>
<tr><td><strong>Priority</strong></td><td>{{.Priority}}</td></tr>
{{- if .DueDate}}
<tr><td><strong>Due</strong></td><td>{{.DueDate}}</td></tr>{{end}}
{{- if .Status}}
<tr><td><strong>Status</strong></td><td>{{.Status}}</td></tr>{{end}}
</table>
{{- end}}
{{- if .Changes}}
<p>Changed: {{.Changes}}</p>{{end}}
<p>Board: <strong>{{.BoardName}}</strong></p>
{{- if .ExpiresAt}}
<p>This invitation expires on {{.ExpiresAt}}.</p>{{end}}
{{- if .Link}}
<p><a href="{{.Link}}">{{.LinkLabel}}</a></p>{{end}}
<p style="color: #7b8794; font-size: 12px;">KanbanIQ</p>
</body>
</html>
`

type taskView struct {
	Title    string
	Priority string
	DueDate  string
	Status   string
}

type emailData struct {
	RecipientName string
	Headline      string
	BoardName     string
	Task          *taskView
	Changes       string
	ExpiresAt     string
	Link          string
	LinkLabel     string
}

// Renderer turns an email kind and its data into subject and bodies. The HTML
// body goes through html/template so user content is escaped.
type Renderer struct {
	text *texttemplate.Template
	html *htmltemplate.Template
}

func NewRenderer() *Renderer {
	return &Renderer{
		text: texttemplate.Must(texttemplate.New("text").Parse(textBody)),
		html: htmltemplate.Must(htmltemplate.New("html").Parse(htmlBody)),
	}
}

func (r *Renderer) Render(data emailData) (text, html string, err error) {
	var tb, hb bytes.Buffer
	if err := r.text.Execute(&tb, data); err != nil {
		return "", "", fmt.Errorf("render text body: %w", err)
	}
	if err := r.html.Execute(&hb, data); err != nil {
		return "", "", fmt.Errorf("render html body: %w", err)
	}
	return tb.String(), hb.String(), nil
}

func subjectFor(kind, boardName, taskTitle string) string {
	switch kind {
	case KindTaskCreated:
		return fmt.Sprintf("[%s] New task: %s", boardName, taskTitle)
	case KindTaskAssigned:
		return fmt.Sprintf("[%s] Assigned to you: %s", boardName, taskTitle)
	case KindTaskUpdated:
		return fmt.Sprintf("[%s] Task updated: %s", boardName, taskTitle)
	case KindTaskDeleted:
		return fmt.Sprintf("[%s] Task deleted: %s", boardName, taskTitle)
	case KindBoardInvitation:
		return fmt.Sprintf("You're invited to join %s on KanbanIQ", boardName)
	case KindInvitationAccepted:
		return fmt.Sprintf("[%s] Invitation accepted", boardName)
	default:
		return "KanbanIQ notification"
	}
}

func headlineFor(kind, actorName, boardName string) string {
	switch kind {
	case KindTaskCreated:
		return fmt.Sprintf("%s created a new task on %s.", actorName, boardName)
	case KindTaskAssigned:
		return fmt.Sprintf("%s assigned you a task on %s.", actorName, boardName)
	case KindTaskUpdated:
		return fmt.Sprintf("%s updated a task on %s.", actorName, boardName)
	case KindTaskDeleted:
		return fmt.Sprintf("%s deleted a task from %s.", actorName, boardName)
	case KindBoardInvitation:
		return fmt.Sprintf("%s invited you to collaborate on the board %s.", actorName, boardName)
	case KindInvitationAccepted:
		return fmt.Sprintf("%s accepted your invitation and joined %s.", actorName, boardName)
	default:
		return ""
	}
}

func newTaskView(t TaskSnapshot) *taskView {
	priority := t.Priority
	if priority != "" {
		priority = strings.ToUpper(priority[:1]) + priority[1:]
	}
	v := &taskView{Title: t.Title, Priority: priority, Status: t.ColumnName}
	if t.DueDate != nil {
		v.DueDate = t.DueDate.UTC().Format("Mon, 02 Jan 2006")
	}
	return v
}

func formatExpiry(t time.Time) string {
	return t.UTC().Format("Mon, 02 Jan 2006 15:04 MST")
}
