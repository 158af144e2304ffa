package scheduleRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Skarath13/bloom-sub003/database"
	"github.com/Skarath13/bloom-sub003/models"
)

// ScheduleRepository owns working-hour rows and time blocks. Both are
// administrator-edited and read-only to the availability engine.
type ScheduleRepository interface {
	GetWorkingSchedule(ctx context.Context, technicianID string, weekday time.Weekday) (*models.WorkingSchedule, error)
	UpsertWorkingSchedule(ctx context.Context, ws models.WorkingSchedule) error

	// ListBlocksForDate returns every block that could produce an occurrence on
	// the given date: one-off blocks stored on that date plus all recurring
	// blocks (expansion decides whether an occurrence actually lands there).
	ListBlocksForDate(ctx context.Context, technicianID, date string) ([]models.TimeBlock, error)
	CreateBlock(ctx context.Context, block *models.TimeBlock) error
	DeleteBlock(ctx context.Context, blockID string) error
	AddBlockException(ctx context.Context, blockID, date string) error
}

type mongoScheduleRepo struct {
	schedules *mongo.Collection
	blocks    *mongo.Collection
}

// NewMongoScheduleRepo constructs a new MongoDB ScheduleRepository.
func NewMongoScheduleRepo() ScheduleRepository {
	db := database.MongoClient.Database(database.DatabaseName)
	return &mongoScheduleRepo{
		schedules: db.Collection("working_schedules"),
		blocks:    db.Collection("time_blocks"),
	}
}
