package notification

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"kanbaniq/internal/app/board"
	"kanbaniq/internal/app/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier turns committed writes into emails. Calls return immediately; the
// work runs detached from the request so a slow or failing mail server never
// affects the API response.
type Notifier interface {
	TaskChanged(ctx context.Context, ev TaskEvent)
	InvitationSent(ctx context.Context, ev InvitationEvent)
	InvitationAccepted(ctx context.Context, ev AcceptedEvent)
	// Wait blocks until every notification in flight has finished.
	Wait()
}

type Options struct {
	AppURL      string
	NotifyActor bool
	Timeout     time.Duration
}

type service struct {
	userSvc    user.Service
	boardSvc   board.Service
	dispatcher Dispatcher
	renderer   *Renderer
	opts       Options
	wg         sync.WaitGroup
	logger     *zap.SugaredLogger
}

func NewService(
	userSvc user.Service,
	boardSvc board.Service,
	dispatcher Dispatcher,
	opts Options,
	logger *zap.Logger,
) Notifier {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	opts.AppURL = strings.TrimRight(opts.AppURL, "/")
	return &service{
		userSvc:    userSvc,
		boardSvc:   boardSvc,
		dispatcher: dispatcher,
		renderer:   NewRenderer(),
		opts:       opts,
		logger:     logger.Sugar(),
	}
}

func (s *service) TaskChanged(ctx context.Context, ev TaskEvent) {
	s.detach(ctx, ev.Kind, func(ctx context.Context) ([]Job, error) {
		return s.taskJobs(ctx, ev)
	})
}

func (s *service) InvitationSent(ctx context.Context, ev InvitationEvent) {
	s.detach(ctx, KindBoardInvitation, func(ctx context.Context) ([]Job, error) {
		return s.invitationJobs(ctx, ev)
	})
}

func (s *service) InvitationAccepted(ctx context.Context, ev AcceptedEvent) {
	s.detach(ctx, KindInvitationAccepted, func(ctx context.Context) ([]Job, error) {
		return s.acceptedJobs(ctx, ev)
	})
}

func (s *service) Wait() {
	s.wg.Wait()
}

func (s *service) detach(parent context.Context, kind string, build func(ctx context.Context) ([]Job, error)) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), s.opts.Timeout)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()

		jobs, err := build(ctx)
		if err != nil {
			s.logger.Errorw("Failed to prepare notifications", "kind", kind, "error", err)
			return
		}
		if len(jobs) == 0 {
			return
		}
		if err := s.dispatcher.Dispatch(ctx, jobs); err != nil {
			s.logger.Errorw("Some notifications were not delivered", "kind", kind, "jobs", len(jobs), "error", err)
			return
		}
		s.logger.Infow("Notifications dispatched", "kind", kind, "jobs", len(jobs))
	}()
}

// taskRecipients resolves assignee, assigner, board admin and, on reassignment,
// the previous assignee. Users are de-duplicated, users without an email are
// dropped and so is the actor unless NotifyActor is set.
func (s *service) taskRecipients(ctx context.Context, ev TaskEvent, adminID uint64) ([]*user.User, error) {
	seen := map[uint64]bool{}
	var ids []uint64
	add := func(id *uint64) {
		if id == nil || *id == 0 || seen[*id] {
			return
		}
		if !s.opts.NotifyActor && ev.Actor != nil && *id == ev.Actor.ID {
			return
		}
		seen[*id] = true
		ids = append(ids, *id)
	}
	add(ev.Task.AssignedToID)
	add(ev.Task.AssignedByID)
	add(&adminID)
	if ev.AssigneeChanged {
		add(ev.PreviousAssigneeID)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	users, err := s.userSvc.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve recipients: %w", err)
	}
	out := make([]*user.User, 0, len(users))
	for _, u := range users {
		if strings.TrimSpace(u.Email) != "" {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *service) taskJobs(ctx context.Context, ev TaskEvent) ([]Job, error) {
	b, err := s.boardSvc.GetBoard(ctx, ev.BoardID)
	if err != nil {
		return nil, fmt.Errorf("load board: %w", err)
	}
	recipients, err := s.taskRecipients(ctx, ev, b.AdminID)
	if err != nil {
		return nil, err
	}

	link := fmt.Sprintf("%s/boards/%d?task=%d", s.opts.AppURL, b.ID, ev.Task.ID)
	if ev.Kind == KindTaskDeleted {
		link = fmt.Sprintf("%s/boards/%d", s.opts.AppURL, b.ID)
	}

	jobs := make([]Job, 0, len(recipients))
	for _, u := range recipients {
		kind := ev.Kind
		isNewAssignee := ev.Task.AssignedToID != nil && *ev.Task.AssignedToID == u.ID
		if isNewAssignee && (ev.Kind == KindTaskCreated || (ev.Kind == KindTaskUpdated && ev.AssigneeChanged)) {
			kind = KindTaskAssigned
		}
		data := emailData{
			RecipientName: u.Name(),
			Headline:      headlineFor(kind, actorName(ev.Actor), b.Name),
			BoardName:     b.Name,
			Task:          newTaskView(ev.Task),
			Link:          link,
			LinkLabel:     "Open the board",
		}
		if kind == KindTaskUpdated && len(ev.Changes) > 0 {
			data.Changes = strings.Join(ev.Changes, ", ")
		}
		job, err := s.job(kind, u.Email, subjectFor(kind, b.Name, ev.Task.Title), data)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (s *service) invitationJobs(ctx context.Context, ev InvitationEvent) ([]Job, error) {
	b, err := s.boardSvc.GetBoard(ctx, ev.BoardID)
	if err != nil {
		return nil, fmt.Errorf("load board: %w", err)
	}
	recipientName := ev.Email
	if u, err := s.userSvc.GetByEmail(ctx, ev.Email); err == nil {
		recipientName = u.Name()
	}
	data := emailData{
		RecipientName: recipientName,
		Headline:      headlineFor(KindBoardInvitation, actorName(ev.Inviter), b.Name),
		BoardName:     b.Name,
		ExpiresAt:     formatExpiry(ev.ExpiresAt),
		Link:          fmt.Sprintf("%s/invitations/%s", s.opts.AppURL, ev.Token),
		LinkLabel:     "Accept the invitation",
	}
	job, err := s.job(KindBoardInvitation, ev.Email, subjectFor(KindBoardInvitation, b.Name, ""), data)
	if err != nil {
		return nil, err
	}
	return []Job{job}, nil
}

func (s *service) acceptedJobs(ctx context.Context, ev AcceptedEvent) ([]Job, error) {
	b, err := s.boardSvc.GetBoard(ctx, ev.BoardID)
	if err != nil {
		return nil, fmt.Errorf("load board: %w", err)
	}
	if ev.Accepter != nil && ev.Accepter.ID == b.AdminID && !s.opts.NotifyActor {
		return nil, nil
	}
	admin, err := s.userSvc.GetByID(ctx, b.AdminID)
	if err != nil {
		return nil, fmt.Errorf("load board admin: %w", err)
	}
	if admin.Email == "" {
		return nil, nil
	}
	data := emailData{
		RecipientName: admin.Name(),
		Headline:      headlineFor(KindInvitationAccepted, actorName(ev.Accepter), b.Name),
		BoardName:     b.Name,
		Link:          fmt.Sprintf("%s/boards/%d", s.opts.AppURL, b.ID),
		LinkLabel:     "Open the board",
	}
	job, err := s.job(KindInvitationAccepted, admin.Email, subjectFor(KindInvitationAccepted, b.Name, ""), data)
	if err != nil {
		return nil, err
	}
	return []Job{job}, nil
}

var headerSafe = strings.NewReplacer("\r", " ", "\n", " ")

func (s *service) job(kind, to, subject string, data emailData) (Job, error) {
	text, html, err := s.renderer.Render(data)
	if err != nil {
		return Job{}, err
	}
	return Job{
		ID:        uuid.NewString(),
		Kind:      kind,
		To:        to,
		Subject:   headerSafe.Replace(subject),
		Text:      text,
		HTML:      html,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func actorName(u *user.User) string {
	if u == nil {
		return "Someone"
	}
	return u.Name()
}
