package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CacheDocument represents a named cache in MongoDB.
type CacheDocument struct {
	Name      string    `bson:"_id" json:"name"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// CacheEntryDocument represents one stored response in MongoDB.
type CacheEntryDocument struct {
	Cache    string              `bson:"cache" json:"cache"`
	Key      string              `bson:"key" json:"key"`
	URL      string              `bson:"url" json:"url"`
	Status   int                 `bson:"status" json:"status"`
	Header   map[string][]string `bson:"header,omitempty" json:"header,omitempty"`
	Body     []byte              `bson:"body,omitempty" json:"-"`
	Type     string              `bson:"type" json:"type"`
	StoredAt time.Time           `bson:"stored_at" json:"stored_at"`
}

type entryID struct {
	cache string
	key   string
}

// CacheRepository provides methods for cache and cache-entry operations.
type CacheRepository struct {
	caches  *mongo.Collection
	entries *mongo.Collection
}

// NewCacheRepository creates a new cache repository.
func NewCacheRepository(db *MongoDB) *CacheRepository {
	return &CacheRepository{
		caches:  db.Caches,
		entries: db.CacheEntries,
	}
}

// EnsureCache creates the named cache if absent. It reports whether it was created.
func (r *CacheRepository) EnsureCache(ctx context.Context, name string) (bool, error) {
	res, err := r.caches.UpdateOne(ctx,
		bson.M{"_id": name},
		bson.M{"$setOnInsert": bson.M{"created_at": time.Now().UTC()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

// CacheExists reports whether the named cache exists.
func (r *CacheRepository) CacheExists(ctx context.Context, name string) (bool, error) {
	n, err := r.caches.CountDocuments(ctx, bson.M{"_id": name}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListCaches returns every cache in creation order.
func (r *CacheRepository) ListCaches(ctx context.Context) ([]CacheDocument, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.caches.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []CacheDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// DeleteCache removes a cache and all of its entries. It reports whether the cache existed.
func (r *CacheRepository) DeleteCache(ctx context.Context, name string) (bool, error) {
	if _, err := r.entries.DeleteMany(ctx, bson.M{"cache": name}); err != nil {
		return false, err
	}
	res, err := r.caches.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// FindEntry returns the entry stored under key in cache, or nil if absent.
func (r *CacheRepository) FindEntry(ctx context.Context, cache, key string) (*CacheEntryDocument, error) {
	var doc CacheEntryDocument
	err := r.entries.FindOne(ctx, bson.M{"cache": cache, "key": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// FindEntries returns every entry stored under key, across all caches.
func (r *CacheRepository) FindEntries(ctx context.Context, key string) ([]CacheEntryDocument, error) {
	cursor, err := r.entries.Find(ctx, bson.M{"key": key})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []CacheEntryDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// UpsertEntry stores doc, replacing any entry with the same cache and key.
func (r *CacheRepository) UpsertEntry(ctx context.Context, doc *CacheEntryDocument) error {
	if doc.StoredAt.IsZero() {
		doc.StoredAt = time.Now().UTC().Truncate(time.Millisecond)
	}
	_, err := r.entries.ReplaceOne(ctx,
		bson.M{"cache": doc.Cache, "key": doc.Key},
		doc,
		options.Replace().SetUpsert(true),
	)
	return err
}

// UpsertEntries stores every doc in one ordered bulk write. If the write
// fails, the entries it replaced are restored and the ones it inserted are
// removed again.
func (r *CacheRepository) UpsertEntries(ctx context.Context, docs []*CacheEntryDocument) error {
	if len(docs) == 0 {
		return nil
	}

	previous, err := r.snapshotEntries(ctx, docs)
	if err != nil {
		return err
	}

	models := make([]mongo.WriteModel, len(docs))
	for i, doc := range docs {
		if doc.StoredAt.IsZero() {
			doc.StoredAt = time.Now().UTC().Truncate(time.Millisecond)
		}
		models[i] = mongo.NewReplaceOneModel().
			SetFilter(bson.M{"cache": doc.Cache, "key": doc.Key}).
			SetReplacement(doc).
			SetUpsert(true)
	}

	_, err = r.entries.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true))
	if err == nil {
		return nil
	}

	r.rollbackEntries(ctx, docs, previous)
	return err
}

// snapshotEntries loads the entries docs would replace, keyed by cache and key.
func (r *CacheRepository) snapshotEntries(ctx context.Context, docs []*CacheEntryDocument) (map[entryID]*CacheEntryDocument, error) {
	keysByCache := make(map[string][]string)
	for _, doc := range docs {
		keysByCache[doc.Cache] = append(keysByCache[doc.Cache], doc.Key)
	}

	previous := make(map[entryID]*CacheEntryDocument)
	for cache, keys := range keysByCache {
		existing, err := r.findEntriesIn(ctx, cache, keys)
		if err != nil {
			return nil, err
		}
		for _, doc := range existing {
			previous[entryID{cache: doc.Cache, key: doc.Key}] = doc
		}
	}
	return previous, nil
}

func (r *CacheRepository) findEntriesIn(ctx context.Context, cache string, keys []string) ([]*CacheEntryDocument, error) {
	cursor, err := r.entries.Find(ctx, bson.M{"cache": cache, "key": bson.M{"$in": keys}})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []*CacheEntryDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// rollbackEntries undoes whatever part of a failed bulk write landed. The
// stored_at filter leaves entries alone that a concurrent writer has since
// replaced.
func (r *CacheRepository) rollbackEntries(ctx context.Context, docs []*CacheEntryDocument, previous map[entryID]*CacheEntryDocument) {
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	for _, doc := range docs {
		written := bson.M{"cache": doc.Cache, "key": doc.Key, "stored_at": doc.StoredAt}
		if old, ok := previous[entryID{cache: doc.Cache, key: doc.Key}]; ok {
			_, _ = r.entries.ReplaceOne(cleanupCtx, written, old)
			continue
		}
		_, _ = r.entries.DeleteOne(cleanupCtx, written)
	}
}

// ListEntryKeys returns the keys stored in cache, sorted.
func (r *CacheRepository) ListEntryKeys(ctx context.Context, cache string) ([]string, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "key", Value: 1}}).
		SetProjection(bson.M{"key": 1})
	cursor, err := r.entries.Find(ctx, bson.M{"cache": cache}, findOptions)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []struct {
		Key string `bson:"key"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	keys := make([]string, len(docs))
	for i, d := range docs {
		keys[i] = d.Key
	}
	return keys, nil
}

// DeleteEntry removes one entry. It reports whether the entry existed.
func (r *CacheRepository) DeleteEntry(ctx context.Context, cache, key string) (bool, error) {
	res, err := r.entries.DeleteOne(ctx, bson.M{"cache": cache, "key": key})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
