package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"todo-api/internal/domain"
)

type todoDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Text        string             `bson:"text"`
	Completed   bool               `bson:"completed"`
	CompletedAt *int64             `bson:"completedAt"`
	Creator     primitive.ObjectID `bson:"_creator"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

func (d todoDocument) toDomain() domain.Todo {
	return domain.Todo{
		ID:          d.ID.Hex(),
		Text:        d.Text,
		Completed:   d.Completed,
		CompletedAt: d.CompletedAt,
		OwnerID:     d.Creator.Hex(),
		CreatedAt:   d.CreatedAt,
	}
}

// MongoTodoRepository implementa TodoRepository sobre una coleccion de MongoDB.
type MongoTodoRepository struct {
	coll *mongo.Collection
}

func NewMongoTodoRepository(coll *mongo.Collection) *MongoTodoRepository {
	return &MongoTodoRepository{coll: coll}
}

func (r *MongoTodoRepository) Create(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	owner, err := primitive.ObjectIDFromHex(todo.OwnerID)
	if err != nil {
		return domain.Todo{}, ErrNotFound
	}
	doc := todoDocument{
		ID:          primitive.NewObjectID(),
		Text:        todo.Text,
		Completed:   todo.Completed,
		CompletedAt: todo.CompletedAt,
		Creator:     owner,
		CreatedAt:   todo.CreatedAt,
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return domain.Todo{}, mapMongoError(err)
	}
	return doc.toDomain(), nil
}

func (r *MongoTodoRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Todo, error) {
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return []domain.Todo{}, nil
	}
	cur, err := r.coll.Find(ctx, bson.M{"_creator": owner}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, mapMongoError(err)
	}
	var docs []todoDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mapMongoError(err)
	}
	todos := make([]domain.Todo, 0, len(docs))
	for _, d := range docs {
		todos = append(todos, d.toDomain())
	}
	return todos, nil
}

func (r *MongoTodoRepository) GetByID(ctx context.Context, id, ownerID string) (domain.Todo, error) {
	filter, err := ownedFilter(id, ownerID)
	if err != nil {
		return domain.Todo{}, err
	}
	var doc todoDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return domain.Todo{}, mapMongoError(err)
	}
	return doc.toDomain(), nil
}

func (r *MongoTodoRepository) DeleteByID(ctx context.Context, id, ownerID string) (domain.Todo, error) {
	filter, err := ownedFilter(id, ownerID)
	if err != nil {
		return domain.Todo{}, err
	}
	var doc todoDocument
	if err := r.coll.FindOneAndDelete(ctx, filter).Decode(&doc); err != nil {
		return domain.Todo{}, mapMongoError(err)
	}
	return doc.toDomain(), nil
}

func (r *MongoTodoRepository) Update(ctx context.Context, id, ownerID string, changes domain.TodoChanges) (domain.Todo, error) {
	filter, err := ownedFilter(id, ownerID)
	if err != nil {
		return domain.Todo{}, err
	}
	set := bson.M{
		"completed":   changes.Completed,
		"completedAt": changes.CompletedAt,
	}
	if changes.Text != nil {
		set["text"] = *changes.Text
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc todoDocument
	if err := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		return domain.Todo{}, mapMongoError(err)
	}
	return doc.toDomain(), nil
}

func ownedFilter(id, ownerID string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, ErrNotFound
	}
	return bson.M{"_id": oid, "_creator": owner}, nil
}
