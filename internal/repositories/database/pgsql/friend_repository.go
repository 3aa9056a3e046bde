package pgsql

import (
	"context"
	"time"

	"github.com/fireflow/fireflow_backend/internal/apperrors"
	"github.com/fireflow/fireflow_backend/internal/core/domain"
	portsrepo "github.com/fireflow/fireflow_backend/internal/core/ports/repositories"
	"github.com/fireflow/fireflow_backend/internal/models"
	"github.com/fireflow/fireflow_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxFriendshipRepository struct {
	BaseRepository
}

// newPgxFriendshipRepository creates a new repository for friendships.
func newPgxFriendshipRepository(pool *pgxpool.Pool) portsrepo.FriendshipRepositoryFacade {
	return &PgxFriendshipRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.FriendshipRepositoryFacade = (*PgxFriendshipRepository)(nil)

const friendshipSelectQuery = `
SELECT friendship_id, requester_id, addressee_id, status, responded_at,
       created_at, created_by, last_updated_at, last_updated_by, version
FROM friendships
`

func (r *PgxFriendshipRepository) getFriendships(ctx context.Context, filterQuery string, args ...any) ([]domain.Friendship, error) {
	rows, err := r.Pool.Query(ctx, friendshipSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query friendships", err)
	}
	defer rows.Close()

	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Friendship])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect friendship rows", err)
	}
	return mapping.ToDomainFriendshipSlice(ms), nil
}

func (r *PgxFriendshipRepository) FindFriendshipByID(ctx context.Context, friendshipID string) (*domain.Friendship, error) {
	fs, err := r.getFriendships(ctx, `WHERE friendship_id = $1`, friendshipID)
	if err != nil {
		return nil, err
	}
	if len(fs) == 0 {
		return nil, apperrors.NewNotFoundError("friendship " + friendshipID + " not found")
	}
	return &fs[0], nil
}

func (r *PgxFriendshipRepository) FindFriendshipBetween(ctx context.Context, userA, userB string) (*domain.Friendship, error) {
	fs, err := r.getFriendships(ctx, `
		WHERE (requester_id = $1 AND addressee_id = $2) OR (requester_id = $2 AND addressee_id = $1)
		ORDER BY created_at DESC
		LIMIT 1`, userA, userB)
	if err != nil {
		return nil, err
	}
	if len(fs) == 0 {
		return nil, apperrors.NewNotFoundError("no friendship between " + userA + " and " + userB)
	}
	return &fs[0], nil
}

func (r *PgxFriendshipRepository) ListPendingRequests(ctx context.Context, addresseeID string) ([]domain.Friendship, error) {
	return r.getFriendships(ctx, `WHERE addressee_id = $1 AND status = 'PENDING' ORDER BY created_at DESC`, addresseeID)
}

func (r *PgxFriendshipRepository) ListFriends(ctx context.Context, userID string) ([]domain.Friend, error) {
	query := `
		SELECT f.friendship_id,
		       p.user_id,
		       p.email,
		       p.display_name,
		       COALESCE(f.responded_at, f.created_at) AS since
		FROM friendships f
		JOIN profiles p
		  ON p.user_id = CASE WHEN f.requester_id = $1 THEN f.addressee_id ELSE f.requester_id END
		WHERE (f.requester_id = $1 OR f.addressee_id = $1) AND f.status = 'ACCEPTED'
		ORDER BY p.display_name, p.user_id;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query friends", err)
	}
	defer rows.Close()

	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Friend])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect friend rows", err)
	}
	return mapping.ToDomainFriendSlice(ms), nil
}

func (r *PgxFriendshipRepository) SaveFriendship(ctx context.Context, friendship domain.Friendship) error {
	m := mapping.ToModelFriendship(friendship)
	query := `
		INSERT INTO friendships (
			friendship_id, requester_id, addressee_id, status, responded_at,
			created_at, created_by, last_updated_at, last_updated_by, version
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.FriendshipID, m.RequesterID, m.AddresseeID, m.Status, m.RespondedAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		code, _ := pgErrorCode(err)
		switch code {
		case pgUniqueViolation:
			// uq_friendships_pair covers both directions
			return apperrors.NewConflictError("a friendship between these users already exists")
		case pgForeignKeyViolation:
			return apperrors.NewNotFoundError("user not found")
		}
		return apperrors.NewAppError(500, "failed to save friendship "+m.FriendshipID, err)
	}
	return nil
}

func (r *PgxFriendshipRepository) UpdateFriendshipStatus(ctx context.Context, friendshipID string, status domain.FriendshipStatus, respondedBy string, respondedAt time.Time) error {
	query := `
		UPDATE friendships
		SET status = $1, responded_at = $2, last_updated_at = $2, last_updated_by = $3, version = version + 1
		WHERE friendship_id = $4 AND status = 'PENDING';
	`
	cmdTag, err := r.Pool.Exec(ctx, query, string(status), respondedAt, respondedBy, friendshipID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update friendship "+friendshipID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewStaleWriteError("friend request " + friendshipID + " is no longer pending")
	}
	return nil
}

func (r *PgxFriendshipRepository) DeleteFriendship(ctx context.Context, friendshipID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM friendships WHERE friendship_id = $1`, friendshipID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete friendship "+friendshipID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("friendship " + friendshipID + " not found")
	}
	return nil
}
