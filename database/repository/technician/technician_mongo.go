package technicianRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/Skarath13/bloom-sub003/models"
)

func (r *mongoTechnicianRepo) GetByID(ctx context.Context, id string) (*models.Technician, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var tech models.Technician
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&tech); err != nil {
		return nil, err
	}
	return &tech, nil
}

func (r *mongoTechnicianRepo) ListActiveByLocation(ctx context.Context, locationID string) ([]models.Technician, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"locationId": locationID, "active": true}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var techs []models.Technician
	if err := cursor.All(ctx, &techs); err != nil {
		return nil, err
	}
	return techs, nil
}
