package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"todo-api/internal/domain"
)

type accountDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	Tokens    []tokenDocument    `bson:"tokens"`
	CreatedAt time.Time          `bson:"createdAt"`
}

type tokenDocument struct {
	Access string `bson:"access"`
	Token  string `bson:"token"`
}

func (d accountDocument) toDomain() domain.Account {
	tokens := make([]domain.AccountToken, 0, len(d.Tokens))
	for _, t := range d.Tokens {
		tokens = append(tokens, domain.AccountToken{Access: t.Access, Token: t.Token})
	}
	return domain.Account{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		PasswordHash: d.Password,
		Tokens:       tokens,
		CreatedAt:    d.CreatedAt,
	}
}

// MongoAccountRepository guarda cuentas como documentos con la lista de
// tokens embebida, de modo que push/pull son atomicos por documento.
type MongoAccountRepository struct {
	coll *mongo.Collection
}

func NewMongoAccountRepository(coll *mongo.Collection) *MongoAccountRepository {
	return &MongoAccountRepository{coll: coll}
}

func (r *MongoAccountRepository) NewID() string {
	return primitive.NewObjectID().Hex()
}

func (r *MongoAccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	oid := primitive.NewObjectID()
	if account.ID != "" {
		parsed, err := primitive.ObjectIDFromHex(account.ID)
		if err != nil {
			return domain.Account{}, ErrInvalidID
		}
		oid = parsed
	}
	doc := accountDocument{
		ID:        oid,
		Email:     account.Email,
		Password:  account.PasswordHash,
		Tokens:    make([]tokenDocument, 0, len(account.Tokens)),
		CreatedAt: account.CreatedAt,
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	for _, t := range account.Tokens {
		doc.Tokens = append(doc.Tokens, tokenDocument{Access: t.Access, Token: t.Token})
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return domain.Account{}, mapMongoError(err)
	}
	return doc.toDomain(), nil
}

func (r *MongoAccountRepository) GetByID(ctx context.Context, id string) (domain.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Account{}, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoAccountRepository) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoAccountRepository) GetByToken(ctx context.Context, id, access, token string) (domain.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Account{}, ErrNotFound
	}
	return r.findOne(ctx, bson.M{
		"_id": oid,
		"tokens": bson.M{"$elemMatch": bson.M{
			"access": access,
			"token":  token,
		}},
	})
}

func (r *MongoAccountRepository) AddToken(ctx context.Context, id string, token domain.AccountToken) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$push": bson.M{"tokens": tokenDocument{Access: token.Access, Token: token.Token}}},
	)
	if err != nil {
		return mapMongoError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoAccountRepository) RemoveToken(ctx context.Context, id, token string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	_, err = r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$pull": bson.M{"tokens": bson.M{"token": token}}},
	)
	return mapMongoError(err)
}

func (r *MongoAccountRepository) findOne(ctx context.Context, filter bson.M) (domain.Account, error) {
	var doc accountDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return domain.Account{}, mapMongoError(err)
	}
	return doc.toDomain(), nil
}
