package bloom

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"hash/fnv"
	"math"

	"github.com/redis/go-redis/v9"
)

// RedisBloomFilter is a bitset bloom filter kept in a Redis string key,
// shared by every service instance.
type RedisBloomFilter struct {
	client *redis.Client
	key    string
	m      uint64 // size in bits
	k      uint64 // number of hash functions
}

func NewRedisBloomFilter(client *redis.Client, key string, m, k uint64) *RedisBloomFilter {
	return &RedisBloomFilter{
		client: client,
		key:    key,
		m:      m,
		k:      k,
	}
}

func GetOptimalParameters(expectedItems uint64, falsePositiveProb float64) (uint64, uint64) {
	m := uint64(math.Ceil(-float64(expectedItems) * math.Log(falsePositiveProb) / math.Pow(math.Log(2), 2)))
	k := uint64(math.Max(1, math.Round(float64(m)/float64(expectedItems)*math.Log(2))))
	return m, k
}

func (bf *RedisBloomFilter) Add(ctx context.Context, element string) error {
	hashes := bf.getHashes(element)

	pipe := bf.client.Pipeline()
	for i := uint64(0); i < bf.k; i++ {
		pipe.SetBit(ctx, bf.key, int64(hashes[i]%bf.m), 1)
	}

	_, err := pipe.Exec(ctx)
	return err
}

// addBatchChunk caps pipeline size so a bulk load does not buffer the
// whole catalog's SetBit commands in one request.
const addBatchChunk = 1000

func (bf *RedisBloomFilter) AddBatch(ctx context.Context, elements []string) error {
	for start := 0; start < len(elements); start += addBatchChunk {
		end := start + addBatchChunk
		if end > len(elements) {
			end = len(elements)
		}

		pipe := bf.client.Pipeline()
		for _, element := range elements[start:end] {
			hashes := bf.getHashes(element)
			for i := uint64(0); i < bf.k; i++ {
				pipe.SetBit(ctx, bf.key, int64(hashes[i]%bf.m), 1)
			}
		}

		if _, err := pipe.Exec(ctx); err != nil {
			return err
		}
	}

	return nil
}

func (bf *RedisBloomFilter) Contains(ctx context.Context, element string) (bool, error) {
	hashes := bf.getHashes(element)

	pipe := bf.client.Pipeline()
	cmds := make([]*redis.IntCmd, bf.k)
	for i := uint64(0); i < bf.k; i++ {
		cmds[i] = pipe.GetBit(ctx, bf.key, int64(hashes[i]%bf.m))
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	for _, cmd := range cmds {
		if cmd.Val() == 0 {
			return false, nil
		}
	}

	return true, nil
}

func (bf *RedisBloomFilter) Clear(ctx context.Context) error {
	return bf.client.Del(ctx, bf.key).Err()
}

func (bf *RedisBloomFilter) getHashes(element string) []uint64 {
	hashes := make([]uint64, bf.k)

	h1 := bf.hash1(element)
	h2 := bf.hash2(element)

	for i := uint64(0); i < bf.k; i++ {
		hashes[i] = h1 + i*h2
	}

	return hashes
}

func (bf *RedisBloomFilter) hash1(element string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(element))
	return h.Sum64()
}

func (bf *RedisBloomFilter) hash2(element string) uint64 {
	sum := sha256.Sum256([]byte(element))
	return binary.BigEndian.Uint64(sum[:8])
}
