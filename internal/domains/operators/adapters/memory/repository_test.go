package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-inventory-service/internal/domains/operators/domain"
	"github.com/Apurer/go-inventory-service/internal/domains/operators/ports"
)

func TestRepository_SaveAssignsIDs(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	first, err := repo.Save(ctx, domain.NewOperator(0, "Ada", "Lovelace", "pw"))
	require.NoError(t, err)
	second, err := repo.Save(ctx, domain.NewOperator(0, "Alan", "Turing", "pw"))
	require.NoError(t, err)

	require.Equal(t, int64(1), first.ID)
	require.Equal(t, int64(2), second.ID)
}

func TestRepository_SaveWithExplicitIDReplaces(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	_, err := repo.Save(ctx, domain.NewOperator(5, "Ada", "Lovelace", "pw"))
	require.NoError(t, err)
	_, err = repo.Save(ctx, domain.NewOperator(5, "Ada", "King", "pw2"))
	require.NoError(t, err)
	next, err := repo.Save(ctx, domain.NewOperator(0, "Alan", "Turing", "pw"))
	require.NoError(t, err)

	stored, err := repo.GetByID(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, "King", stored.LastName)
	require.Equal(t, "pw2", stored.Password)
	require.Equal(t, int64(6), next.ID)
}

func TestRepository_ReturnsClones(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	op := domain.NewOperator(0, "Ada", "Lovelace", "pw")
	op.AssignInvoices(1)
	saved, err := repo.Save(ctx, op)
	require.NoError(t, err)

	saved.InvoiceIDs[0] = 42
	op.FirstName = "changed"

	stored, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	require.Equal(t, "Ada", stored.FirstName)
	require.Equal(t, []int64{1}, stored.InvoiceIDs)
}

func TestRepository_DeleteIsIdempotent(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	saved, err := repo.Save(ctx, domain.NewOperator(0, "Ada", "Lovelace", "pw"))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, saved.ID))
	require.NoError(t, repo.Delete(ctx, saved.ID))
	_, err = repo.GetByID(ctx, saved.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_ListOrdersByID(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	for _, id := range []int64{3, 1, 2} {
		_, err := repo.Save(ctx, domain.NewOperator(id, "Op", "Erator", "pw"))
		require.NoError(t, err)
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, op := range list {
		require.Equal(t, int64(i+1), op.ID)
	}
}
