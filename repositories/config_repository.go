package repositories

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/seedtalent/agency_backend/config"
	"github.com/seedtalent/agency_backend/models"
)

const configCacheKey = "commission_config"
const configCacheTTL = 5 * time.Minute

// ConfigRepository wraps the singleton commission configuration document.
// Reads go through Redis when available; writes invalidate the cache.
type ConfigRepository struct {
	collection *mongo.Collection
	redis      *redis.Client
}

func NewConfigRepository(db *mongo.Client, rdb *redis.Client) *ConfigRepository {
	return &ConfigRepository{
		collection: config.GetCollection(db, "commissionConfig"),
		redis:      rdb,
	}
}

// DefaultCommissionConfig is the configuration created lazily on first read.
func DefaultCommissionConfig() models.CommissionConfig {
	return models.CommissionConfig{
		ID:                 models.CommissionConfigID,
		AgencyName:         "Seed Talent Agency",
		Description:        "Official talent agency for live streaming emitters.",
		PaymentInstitution: "Western Union",
		ReceiptNote:        "Payment corresponds to the monthly commission settlement for the listed emitters.",
		Brackets: []models.CommissionBracket{
			{Seeds: 2000, USD: 1.50},
			{Seeds: 5000, USD: 3.50},
			{Seeds: 10000, USD: 7.00},
			{Seeds: 20000, USD: 14.00},
			{Seeds: 50000, USD: 35.00},
			{Seeds: 100000, USD: 70.00},
		},
		UpdatedAt: time.Now(),
	}
}

// Read returns the commission configuration, creating it with defaults if it
// does not exist yet.
func (r *ConfigRepository) Read() (*models.CommissionConfig, error) {
	if cached := r.readCache(); cached != nil {
		return cached, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var cfg models.CommissionConfig
	err := r.collection.FindOne(ctx, bson.M{"_id": models.CommissionConfigID}).Decode(&cfg)
	if err == mongo.ErrNoDocuments {
		cfg = DefaultCommissionConfig()
		// Lazy creation; a concurrent first read may race us, last write wins
		_, err = r.collection.ReplaceOne(ctx, bson.M{"_id": models.CommissionConfigID}, cfg,
			options.Replace().SetUpsert(true))
	}
	if err != nil {
		return nil, err
	}

	r.writeCache(&cfg)
	return &cfg, nil
}

// Write overwrites the configuration wholesale. No versioning, last write wins.
func (r *ConfigRepository) Write(cfg *models.CommissionConfig, adminID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg.ID = models.CommissionConfigID
	cfg.UpdatedAt = time.Now()
	cfg.UpdatedBy = adminID

	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": models.CommissionConfigID}, cfg,
		options.Replace().SetUpsert(true))
	if err != nil {
		return err
	}

	r.invalidateCache()
	return nil
}

func (r *ConfigRepository) readCache() *models.CommissionConfig {
	if r.redis == nil {
		return nil
	}

	data, err := r.redis.Get(context.Background(), configCacheKey).Bytes()
	if err != nil {
		return nil
	}

	var cfg models.CommissionConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil
	}
	cfg.ID = models.CommissionConfigID
	return &cfg
}

func (r *ConfigRepository) writeCache(cfg *models.CommissionConfig) {
	if r.redis == nil {
		return
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		return
	}
	if err := r.redis.Set(context.Background(), configCacheKey, data, configCacheTTL).Err(); err != nil {
		log.Printf("Failed to cache commission config: %v", err)
	}
}

func (r *ConfigRepository) invalidateCache() {
	if r.redis == nil {
		return
	}
	if err := r.redis.Del(context.Background(), configCacheKey).Err(); err != nil {
		log.Printf("Failed to invalidate commission config cache: %v", err)
	}
}
