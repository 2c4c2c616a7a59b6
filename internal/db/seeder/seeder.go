package seeder

import (
	"context"
	"time"

	"kanbaniq/internal/app/board"
	"kanbaniq/internal/app/task"
	"kanbaniq/internal/app/user"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	DemoUID   = "demo-user"
	DemoEmail = "demo@kanbaniq.local"
)

// Seeder fills an empty database with a demo user and a demo board so a fresh
// install has something to look at.
type Seeder struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewSeeder(db *gorm.DB, logger *zap.Logger) *Seeder {
	return &Seeder{
		db:     db,
		logger: logger,
	}
}

func (s *Seeder) Seed(ctx context.Context) error {
	s.logger.Info("Running database seeders...")

	var count int64
	if err := s.db.WithContext(ctx).Model(&board.Board{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		s.logger.Info("Boards already exist, skipping seed")
		return nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		demo, err := s.seedUser(tx)
		if err != nil {
			return err
		}
		return s.seedBoard(tx, demo)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Database seeders completed successfully")
	return nil
}

func (s *Seeder) seedUser(tx *gorm.DB) (*user.User, error) {
	var demo user.User
	err := tx.Where(user.User{FirebaseUID: DemoUID}).
		Attrs(user.User{Email: DemoEmail, DisplayName: "Demo User"}).
		FirstOrCreate(&demo).Error
	return &demo, err
}

func (s *Seeder) seedBoard(tx *gorm.DB, demo *user.User) error {
	now := time.Now()
	b := &board.Board{
		Name:        "Product Launch",
		Description: "A sample board. Drag the cards around, then make your own.",
		AdminID:     demo.ID,
	}
	if err := tx.Create(b).Error; err != nil {
		return err
	}
	if err := tx.Create(&board.Member{BoardID: b.ID, UserID: demo.ID, Role: board.RoleAdmin, JoinedAt: now}).Error; err != nil {
		return err
	}

	columns := make([]*board.Column, 0, len(board.DefaultColumns))
	for i, name := range board.DefaultColumns {
		columns = append(columns, &board.Column{BoardID: b.ID, Name: name, Position: i})
	}
	if err := tx.Create(&columns).Error; err != nil {
		return err
	}

	due := now.AddDate(0, 0, 7)
	assignee := demo.ID
	samples := []struct {
		column   int
		title    string
		priority string
		due      *time.Time
	}{
		{0, "Write the launch announcement", task.PriorityHigh, &due},
		{0, "Collect beta feedback", task.PriorityMedium, nil},
		{1, "Polish onboarding flow", task.PriorityMedium, nil},
		{2, "Set up the project board", task.PriorityLow, nil},
	}
	positions := map[int]int{}
	tasks := make([]*task.Task, 0, len(samples))
	for _, sample := range samples {
		t := &task.Task{
			BoardID:     b.ID,
			ColumnID:    columns[sample.column].ID,
			Title:       sample.title,
			Priority:    sample.priority,
			DueDate:     sample.due,
			Position:    positions[sample.column],
			CreatedByID: demo.ID,
		}
		if sample.due != nil {
			t.AssignedToID = &assignee
			t.AssignedByID = &assignee
		}
		positions[sample.column]++
		tasks = append(tasks, t)
	}
	if err := tx.Create(&tasks).Error; err != nil {
		return err
	}

	s.logger.Info("Seeded demo board",
		zap.Uint64("board_id", b.ID),
		zap.Int("columns", len(columns)),
		zap.Int("tasks", len(tasks)),
	)
	return nil
}
