package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/transitpulse/transitpulse/pkg/redis_client"
	"github.com/transitpulse/transitpulse/pkg/transit"
)

const vehiclesAllKey = "vehicles:all"
const vehiclesTTL = 60 * time.Second

// Vehicles fronts the current-vehicle list with a short TTL. The value is
// only ever replaced wholesale by the single active ingestion cycle or by a
// read-through miss, so it is always reconstructible from the snapshot store.
type Vehicles struct {
	cache *cache.Cache[string]
}

func NewVehicles() *Vehicles {
	redisStore := redisstore.NewRedis(redis_client.Client, store.WithExpiration(vehiclesTTL))

	return &Vehicles{
		cache: cache.New[string](redisStore),
	}
}

func (v *Vehicles) Store(ctx context.Context, batch []transit.VehicleSnapshot) error {
	encoded, err := json.Marshal(batch)
	if err != nil {
		return err
	}

	return v.cache.Set(ctx, vehiclesAllKey, string(encoded), store.WithExpiration(vehiclesTTL))
}

func (v *Vehicles) Get(ctx context.Context) ([]transit.VehicleSnapshot, bool) {
	encoded, err := v.cache.Get(ctx, vehiclesAllKey)
	if err != nil {
		return nil, false
	}

	var batch []transit.VehicleSnapshot
	if err := json.Unmarshal([]byte(encoded), &batch); err != nil {
		return nil, false
	}

	return batch, true
}
