package scheduleRepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Skarath13/bloom-sub003/models"
)

func (r *mongoScheduleRepo) GetWorkingSchedule(ctx context.Context, technicianID string, weekday time.Weekday) (*models.WorkingSchedule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"technicianId": technicianID, "weekday": int(weekday)}
	var ws models.WorkingSchedule
	if err := r.schedules.FindOne(ctx, filter).Decode(&ws); err != nil {
		return nil, err
	}
	return &ws, nil
}

func (r *mongoScheduleRepo) UpsertWorkingSchedule(ctx context.Context, ws models.WorkingSchedule) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"technicianId": ws.TechnicianID, "weekday": int(ws.Weekday)}
	update := bson.M{"$set": ws}
	_, err := r.schedules.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *mongoScheduleRepo) ListBlocksForDate(ctx context.Context, technicianID, date string) ([]models.TimeBlock, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"technicianId": technicianID,
		"$or": bson.A{
			bson.M{"date": date},
			bson.M{"recurrence": bson.M{"$nin": bson.A{"", nil}}},
		},
	}
	cursor, err := r.blocks.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var blocks []models.TimeBlock
	if err := cursor.All(ctx, &blocks); err != nil {
		return nil, err
	}
	return blocks, nil
}

func (r *mongoScheduleRepo) CreateBlock(ctx context.Context, block *models.TimeBlock) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if block.ID == "" {
		block.ID = uuid.New().String()
	}
	block.CreatedAt = time.Now()
	_, err := r.blocks.InsertOne(ctx, block)
	return err
}

func (r *mongoScheduleRepo) DeleteBlock(ctx context.Context, blockID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.blocks.DeleteOne(ctx, bson.M{"id": blockID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoScheduleRepo) AddBlockException(ctx context.Context, blockID, date string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$addToSet": bson.M{"exceptions": date}}
	res, err := r.blocks.UpdateOne(ctx, bson.M{"id": blockID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
