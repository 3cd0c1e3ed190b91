package round_ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/fortuna/internal/models"
)

const (
	// Key prefixes for Redis
	roundKeyPrefix      = "round:"
	roomRoundsKeyPrefix = "room_rounds:"
	gamePointsKeyPrefix = "game_points:"
	gameNamesKeyPrefix  = "game_names:"
)

// Config holds configuration for the Redis round ledger repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed round ledger repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	// Validate config
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// AddRoundRecord appends a completed round to the ledger
func (r *redisRepository) AddRoundRecord(ctx context.Context, input *AddRoundRecordInput) error {
	if input == nil || input.Record == nil {
		return errors.New("input and record cannot be nil")
	}

	// Ensure the record has an ID, owners and a timestamp
	record := input.Record
	if record.ID == "" {
		return errors.New("round record ID cannot be empty")
	}
	if record.RoomID == "" || record.GameID == "" {
		return errors.New("round record needs a room ID and game ID")
	}
	if record.CompletedAt.IsZero() {
		return errors.New("round record completion time cannot be empty")
	}

	// Marshal the record to JSON
	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal round record: %w", err)
	}

	// Create a Redis transaction
	pipe := r.client.TxPipeline()

	// Store the round record
	pipe.Set(ctx, roundKeyPrefix+record.ID, recordJSON, 0)

	// Add to the room's round records sorted set
	pipe.ZAdd(ctx, roomRoundsKeyPrefix+record.RoomID, redis.Z{
		Score:  float64(record.CompletedAt.UnixMilli()),
		Member: record.ID,
	})

	// Update the game leaderboard
	if record.WinnerID != "" {
		pipe.HIncrByFloat(ctx, gamePointsKeyPrefix+record.GameID, record.WinnerID, record.Points)
		pipe.HSet(ctx, gameNamesKeyPrefix+record.GameID, record.WinnerID, record.WinnerName)
	}

	// Execute the transaction
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to add round record: %w", err)
	}

	return nil
}

// GetRoundRecordsForRoom retrieves the rounds played in a room, oldest first
func (r *redisRepository) GetRoundRecordsForRoom(ctx context.Context, input *GetRoundRecordsForRoomInput) (*GetRoundRecordsForRoomOutput, error) {
	if input == nil || input.RoomID == "" {
		return nil, errors.New("input and room ID cannot be empty")
	}

	// Get all round IDs for the room
	roundIDs, err := r.client.ZRange(ctx, roomRoundsKeyPrefix+input.RoomID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get round IDs for room: %w", err)
	}

	// If there are no rounds, return an empty slice
	if len(roundIDs) == 0 {
		return &GetRoundRecordsForRoomOutput{
			Records: []*models.RoundRecord{},
		}, nil
	}

	// Get all round records in one round trip
	pipe := r.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(roundIDs))
	for i, id := range roundIDs {
		cmds[i] = pipe.Get(ctx, roundKeyPrefix+id)
	}

	// redis.Nil for a missing member is handled per command below
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get round records: %w", err)
	}

	// Process the results
	records := make([]*models.RoundRecord, 0, len(roundIDs))
	for i, cmd := range cmds {
		recordJSON, err := cmd.Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				// Round record was deleted between getting the IDs and fetching the record
				continue
			}
			return nil, fmt.Errorf("failed to get round record %s: %w", roundIDs[i], err)
		}

		var record models.RoundRecord
		if err := json.Unmarshal([]byte(recordJSON), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal round record %s: %w", roundIDs[i], err)
		}

		records = append(records, &record)
	}

	return &GetRoundRecordsForRoomOutput{
		Records: records,
	}, nil
}

// GetLeaderboard sums banked points per winner for a game, best first
func (r *redisRepository) GetLeaderboard(ctx context.Context, input *GetLeaderboardInput) (*GetLeaderboardOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, errors.New("input and game ID cannot be empty")
	}

	pipe := r.client.Pipeline()
	pointsCmd := pipe.HGetAll(ctx, gamePointsKeyPrefix+input.GameID)
	namesCmd := pipe.HGetAll(ctx, gameNamesKeyPrefix+input.GameID)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	points, err := pointsCmd.Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get game points: %w", err)
	}

	names, err := namesCmd.Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get game names: %w", err)
	}

	entries := make([]*models.LeaderboardEntry, 0, len(points))
	for playerID, raw := range points {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid points for player %s: %w", playerID, err)
		}

		entries = append(entries, &models.LeaderboardEntry{
			PlayerID:   playerID,
			PlayerName: names[playerID],
			Points:     value,
		})
	}

	// Best first, ties by name
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].PlayerName < entries[j].PlayerName
	})

	return &GetLeaderboardOutput{
		Leaderboard: &models.Leaderboard{
			GameID:  input.GameID,
			Entries: entries,
		},
	}, nil
}
