package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/relaycrm/crm-system/internal/core/domain"
	"github.com/relaycrm/crm-system/internal/core/ports"
)

const leadsCollection = "leads"

type MongoLeadRepository struct {
	coll *mongo.Collection
}

func NewLeadRepository(db *mongo.Database) *MongoLeadRepository {
	return &MongoLeadRepository{coll: db.Collection(leadsCollection)}
}

type mongoLead struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Name       string             `bson:"name"`
	Email      string             `bson:"email,omitempty"`
	Phone      string             `bson:"phone,omitempty"`
	Source     string             `bson:"source,omitempty"`
	Status     string             `bson:"status"`
	AssignedTo string             `bson:"assigned_to,omitempty"`
	CreatedAt  int64              `bson:"created_at"`
	UpdatedAt  int64              `bson:"updated_at"`
}

func (r *MongoLeadRepository) Create(ctx context.Context, lead *domain.Lead) (*domain.Lead, error) {
	doc := mongoLead{
		Name:       lead.Name,
		Email:      lead.Email,
		Phone:      lead.Phone,
		Source:     lead.Source,
		Status:     string(lead.Status),
		AssignedTo: lead.AssignedTo,
		CreatedAt:  lead.CreatedAt.Unix(),
		UpdatedAt:  lead.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert lead: %w", err)
	}

	created := *lead
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *MongoLeadRepository) FindByID(ctx context.Context, id string) (*domain.Lead, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrLeadNotFound
	}

	var ml mongoLead
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&ml); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrLeadNotFound
		}
		return nil, fmt.Errorf("find lead: %w", err)
	}
	return ml.toDomain(), nil
}

func (r *MongoLeadRepository) List(ctx context.Context, page, limit int64) ([]*domain.Lead, int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	opts := options.Find().
		SetSkip((page - 1) * limit).
		SetLimit(limit).
		SetSort(bson.D{{Key: "_id", Value: 1}})

	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	defer cur.Close(ctx)

	var leads []*domain.Lead
	for cur.Next(ctx) {
		var ml mongoLead
		if err := cur.Decode(&ml); err != nil {
			return nil, 0, fmt.Errorf("decode lead: %w", err)
		}
		leads = append(leads, ml.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate leads: %w", err)
	}
	return leads, total, nil
}

func (r *MongoLeadRepository) Update(ctx context.Context, id string, upd ports.LeadUpdate) (*domain.Lead, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrLeadNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC().Unix()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.Phone != nil {
		set["phone"] = *upd.Phone
	}
	if upd.Status != nil {
		set["status"] = string(*upd.Status)
	}
	if upd.AssignedTo != nil {
		set["assigned_to"] = *upd.AssignedTo
	}

	var ml mongoLead
	err = r.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&ml)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrLeadNotFound
		}
		return nil, fmt.Errorf("update lead: %w", err)
	}
	return ml.toDomain(), nil
}

func (ml *mongoLead) toDomain() *domain.Lead {
	return &domain.Lead{
		ID:         ml.ID.Hex(),
		Name:       ml.Name,
		Email:      ml.Email,
		Phone:      ml.Phone,
		Source:     ml.Source,
		Status:     domain.LeadStatus(ml.Status),
		AssignedTo: ml.AssignedTo,
		CreatedAt:  unixToTime(ml.CreatedAt),
		UpdatedAt:  unixToTime(ml.UpdatedAt),
	}
}
