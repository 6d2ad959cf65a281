package repository

import (
	"context"
	"errors"

	"github.com/twentyhard/twentyhard/internal/db"
	"github.com/twentyhard/twentyhard/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoUserRepository struct {
	coll *mongo.Collection
}

func NewMongoUserRepository(mdb *mongo.Database) UserRepository {
	return &mongoUserRepository{coll: mdb.Collection(db.UsersCollection)}
}

func (r *mongoUserRepository) Create(ctx context.Context, user *model.User) error {
	_, err := r.coll.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *mongoUserRepository) ByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *mongoUserRepository) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	user := &model.User{}
	err := r.coll.FindOne(ctx, filter).Decode(user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *mongoUserRepository) Update(ctx context.Context, user *model.User) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": user.ID}, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *mongoUserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

type mongoChallengeRepository struct {
	coll *mongo.Collection
}

func NewMongoChallengeRepository(mdb *mongo.Database) ChallengeRepository {
	return &mongoChallengeRepository{coll: mdb.Collection(db.ChallengesCollection)}
}

func (r *mongoChallengeRepository) ByUserID(ctx context.Context, userID string) (*model.Challenge, error) {
	ch := &model.Challenge{}
	err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(ch)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrChallengeNotFound
	}
	if err != nil {
		return nil, err
	}

	for i := range ch.DailyLogs {
		tasks := make(model.Tasks, len(ch.DailyLogs[i].Tasks))
		for k, v := range ch.DailyLogs[i].Tasks {
			tasks[k] = plain(v)
		}
		ch.DailyLogs[i].Tasks = tasks
	}
	return ch, nil
}

func (r *mongoChallengeRepository) Save(ctx context.Context, ch *model.Challenge) error {
	_, err := r.coll.ReplaceOne(ctx, bson.M{"user_id": ch.UserID}, ch, options.Replace().SetUpsert(true))
	return err
}

func (r *mongoChallengeRepository) Delete(ctx context.Context, userID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrChallengeNotFound
	}
	return nil
}

func (r *mongoChallengeRepository) UserIDs(ctx context.Context) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"user_id": 1}).SetSort(bson.M{"user_id": 1})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []string
	for cur.Next(ctx) {
		var doc struct {
			UserID string `bson:"user_id"`
		}
		err = cur.Decode(&doc)
		if err != nil {
			return nil, err
		}
		ids = append(ids, doc.UserID)
	}
	return ids, cur.Err()
}

// plain turns decoded BSON containers into the map[string]any and []any
// shapes the task validators read, the same shapes encoding/json produces.
func plain(v any) any {
	switch x := v.(type) {
	case primitive.D:
		m := make(map[string]any, len(x))
		for _, e := range x {
			m[e.Key] = plain(e.Value)
		}
		return m
	case primitive.M:
		return plainMap(x)
	case model.Tasks:
		return plainMap(x)
	case map[string]any:
		return plainMap(x)
	case primitive.A:
		return plainSlice(x)
	case []any:
		return plainSlice(x)
	case primitive.DateTime:
		return x.Time().UTC()
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	default:
		return v
	}
}

func plainMap(in map[string]any) map[string]any {
	m := make(map[string]any, len(in))
	for k, v := range in {
		m[k] = plain(v)
	}
	return m
}

func plainSlice(in []any) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = plain(v)
	}
	return out
}
