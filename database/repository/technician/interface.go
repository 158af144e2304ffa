package technicianRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Skarath13/bloom-sub003/database"
	"github.com/Skarath13/bloom-sub003/models"
)

type TechnicianRepository interface {
	GetByID(ctx context.Context, id string) (*models.Technician, error)
	ListActiveByLocation(ctx context.Context, locationID string) ([]models.Technician, error)
}

type mongoTechnicianRepo struct {
	coll *mongo.Collection
}

// NewMongoTechnicianRepo constructs a new MongoDB TechnicianRepository.
func NewMongoTechnicianRepo() TechnicianRepository {
	db := database.MongoClient.Database(database.DatabaseName)
	return &mongoTechnicianRepo{
		coll: db.Collection("technicians"),
	}
}
