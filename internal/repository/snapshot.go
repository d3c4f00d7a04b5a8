package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kara-india/boliapp/internal/model"
)

// State keys. Each is independently stored and independently loadable.
const (
	StateKeyListings = "listings"
	StateKeyWallet   = "wallet"
)

// ErrStateMissing reports an absent snapshot row; callers fall back to seed
// state exactly as they do for a row that fails to decode.
var ErrStateMissing = pgx.ErrNoRows

// SnapshotRepository stores the engine's serialized state as opaque JSONB
// blobs, one row per key. It never inspects listing or wallet semantics.
type SnapshotRepository struct {
	pool *pgxpool.Pool
}

func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

func (r *SnapshotRepository) save(ctx context.Context, key string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO marketplace_state (key, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`, key, payload)
	return err
}

func (r *SnapshotRepository) load(ctx context.Context, key string, out any) error {
	var payload []byte
	err := r.pool.QueryRow(ctx, `
		SELECT data FROM marketplace_state WHERE key = $1
	`, key).Scan(&payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, out)
}

func (r *SnapshotRepository) SaveListings(ctx context.Context, listings []*model.Listing) error {
	return r.save(ctx, StateKeyListings, listings)
}

func (r *SnapshotRepository) LoadListings(ctx context.Context) ([]*model.Listing, error) {
	var listings []*model.Listing
	if err := r.load(ctx, StateKeyListings, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *SnapshotRepository) SaveWallet(ctx context.Context, wallet model.Wallet) error {
	return r.save(ctx, StateKeyWallet, wallet)
}

func (r *SnapshotRepository) LoadWallet(ctx context.Context) (model.Wallet, error) {
	var wallet model.Wallet
	if err := r.load(ctx, StateKeyWallet, &wallet); err != nil {
		return model.Wallet{}, err
	}
	return wallet, nil
}
