package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

func TestTxRunner_RollbackDescartaCambios(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	repos := s.Repos()
	tx := NewTxRunner(s)

	err := tx.Run(ctx, func(r inventory.TxRepos) error {
		require.NoError(t, r.Stock.Upsert(ctx, &entity.Stock{ProductID: "p1", SedeID: "s1", Quantity: decimal.NewFromInt(5)}))
		return errors.New("falla")
	})
	require.Error(t, err)

	st, err := repos.Stock.Get(ctx, "p1", "s1")
	require.NoError(t, err)
	assert.True(t, st.Quantity.IsZero())

	require.NoError(t, tx.Run(ctx, func(r inventory.TxRepos) error {
		return r.Stock.Upsert(ctx, &entity.Stock{ProductID: "p1", SedeID: "s1", Quantity: decimal.NewFromInt(5)})
	}))
	st, err = repos.Stock.Get(ctx, "p1", "s1")
	require.NoError(t, err)
	assert.True(t, st.Quantity.Equal(decimal.NewFromInt(5)))
}

func TestSequenceRepo_PorSedeYTipo(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	tx := NewTxRunner(s)

	var got []int64
	for _, sede := range []string{"s1", "s1", "s2"} {
		require.NoError(t, tx.Run(ctx, func(r inventory.TxRepos) error {
			n, err := r.Sequences.Next(ctx, sede, repository.SequenceSale)
			got = append(got, n)
			return err
		}))
	}
	assert.Equal(t, []int64{1, 2, 1}, got)
}

func TestProductRepo_CodigoDuplicado(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repos()

	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p1", Code: "ABC", Name: "Uno"}))
	err := repos.Products.Create(ctx, &entity.Product{ID: "p2", Code: "abc", Name: "Dos"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestStockRepo_BelowMinimumOrdenaPorDeficit(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repos()

	require.NoError(t, repos.Sedes.Create(ctx, &entity.Sede{ID: "s1", Name: "Centro", Active: true}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p1", Code: "A", Name: "Arroz", MinStock: decimal.NewFromInt(10), Active: true}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p2", Code: "B", Name: "Café", MinStock: decimal.NewFromInt(4), Active: true}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p3", Code: "C", Name: "Sal", Active: true}))
	require.NoError(t, repos.Stock.Upsert(ctx, &entity.Stock{ProductID: "p1", SedeID: "s1", Quantity: decimal.NewFromInt(8)}))

	lines, err := repos.Stock.BelowMinimum(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "p2", lines[0].ProductID) // déficit 4
	assert.Equal(t, "p1", lines[1].ProductID) // déficit 2

	n, err := repos.Analytics.CountLowStock(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestUserRepo_ListFiltraSinTildes(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repos()

	require.NoError(t, repos.Users.Create(ctx, &entity.User{ID: "u1", Email: "a@x.co", Name: "José Pérez", Role: entity.RoleVendedor, Status: entity.UserStatusActive, SedeIDs: []string{"s1"}}))
	require.NoError(t, repos.Users.Create(ctx, &entity.User{ID: "u2", Email: "b@x.co", Name: "Ana Gómez", Role: entity.RoleAdmin, Status: entity.UserStatusActive}))

	list, total, err := repos.Users.List(ctx, repository.UserFilter{Query: "jose perez"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "u1", list[0].ID)

	list, total, err = repos.Users.List(ctx, repository.UserFilter{SedeID: "s1", Page: repository.Page{Limit: 10}})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "u1", list[0].ID)

	// la copia devuelta no comparte el slice de sedes
	list[0].SedeIDs[0] = "otra"
	u, err := repos.Users.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, u.SedeIDs)
}
