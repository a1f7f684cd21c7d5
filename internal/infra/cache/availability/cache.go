package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
)

const (
	cacheKeyPrefix   = "availability:week:"
	versionKeyPrefix = "availability:version:"

	// версия живет дольше любого запроса, иначе ее сброс в 0 пропустит устаревшую запись
	versionTTL = 24 * time.Hour
)

// ErrCache возвращается при ошибках обращения к redis
var ErrCache = errors.New("availability.cache: redis error")

// setIfVersion записывает неделю, только если с момента промаха ее никто не инвалидировал
var setIfVersion = redis.NewScript(`
local current = redis.call('GET', KEYS[2])
if (current or '0') ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`)

// RedisCache read-through кэш недельной доступности провайдера
// Источник истины всегда БД: кэш только ускоряет чтение и сбрасывается после каждой записи.
// Каждая инвалидация увеличивает версию недели; Set с версией, прочитанной до инвалидации, отбрасывается.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache создает кэш поверх redis клиента
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func weekKey(providerID uuid.UUID, week domain.Week) string {
	return fmt.Sprintf("%s%s:%d", cacheKeyPrefix, providerID, week)
}

func versionKey(providerID uuid.UUID, week domain.Week) string {
	return fmt.Sprintf("%s%s:%d", versionKeyPrefix, providerID, week)
}

// Get возвращает неделю из кэша и ее текущую версию; found=false при промахе.
// Версию нужно передать в Set после чтения из БД.
func (c *RedisCache) Get(ctx context.Context, providerID uuid.UUID, week domain.Week) (domain.WeekAvailability, int64, bool, error) {
	values, err := c.client.MGet(ctx, weekKey(providerID, week), versionKey(providerID, week)).Result()
	if err != nil {
		return nil, 0, false, fmt.Errorf("%w: mget: %v", ErrCache, err)
	}

	version, err := parseVersion(values[1])
	if err != nil {
		return nil, 0, false, fmt.Errorf("%w: version: %v", ErrCache, err)
	}

	raw, ok := values[0].(string)
	if !ok {
		return nil, version, false, nil
	}

	slots, err := decodeWeek([]byte(raw))
	if err != nil {
		return nil, version, false, fmt.Errorf("%w: decode: %v", ErrCache, err)
	}
	return slots, version, true, nil
}

// Set сохраняет неделю в кэш, если версия не изменилась с момента Get.
// stored=false означает, что неделю успели инвалидировать и запись отброшена.
func (c *RedisCache) Set(ctx context.Context, providerID uuid.UUID, week domain.Week, slots domain.WeekAvailability, version int64) (bool, error) {
	data, err := encodeWeek(slots)
	if err != nil {
		return false, fmt.Errorf("%w: encode: %v", ErrCache, err)
	}

	stored, err := setIfVersion.Run(ctx, c.client,
		[]string{weekKey(providerID, week), versionKey(providerID, week)},
		strconv.FormatInt(version, 10), data, c.ttl.Milliseconds(),
	).Int64()
	if err != nil {
		return false, fmt.Errorf("%w: set: %v", ErrCache, err)
	}
	return stored == 1, nil
}

// Invalidate удаляет неделю из кэша и увеличивает ее версию
func (c *RedisCache) Invalidate(ctx context.Context, providerID uuid.UUID, week domain.Week) error {
	vKey := versionKey(providerID, week)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, vKey)
		pipe.Expire(ctx, vKey, versionTTL)
		pipe.Del(ctx, weekKey(providerID, week))
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: invalidate: %v", ErrCache, err)
	}
	return nil
}

func parseVersion(v interface{}) (int64, error) {
	if v == nil {
		return 0, nil
	}
	raw, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("unexpected type %T", v)
	}
	return strconv.ParseInt(raw, 10, 64)
}

func encodeWeek(slots domain.WeekAvailability) ([]byte, error) {
	raw := make(map[string]string, len(slots))
	for label, mode := range slots {
		raw[string(label)] = string(mode)
	}
	return json.Marshal(raw)
}

func decodeWeek(data []byte) (domain.WeekAvailability, error) {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	slots := make(domain.WeekAvailability, len(raw))
	for label, mode := range raw {
		m, err := domain.ParseMode(mode)
		if err != nil {
			return nil, err
		}
		slots[domain.SlotLabel(label)] = m
	}
	return slots, nil
}

// NopCache кэш-заглушка, когда redis выключен в конфиге
type NopCache struct{}

func (NopCache) Get(context.Context, uuid.UUID, domain.Week) (domain.WeekAvailability, int64, bool, error) {
	return nil, 0, false, nil
}

func (NopCache) Set(context.Context, uuid.UUID, domain.Week, domain.WeekAvailability, int64) (bool, error) {
	return false, nil
}

func (NopCache) Invalidate(context.Context, uuid.UUID, domain.Week) error {
	return nil
}
