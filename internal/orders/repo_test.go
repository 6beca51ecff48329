package orders

import (
	"context"
	"os"
	"testing"

	"github.com/ariefcatur/go-sales-orders/internal/postgres"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepo_EmptyListIsNotNil(t *testing.T) {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}
	ctx := context.Background()
	db, err := postgres.Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, postgres.Migrate(ctx, db))
	r := &Repo{DB: db}

	list, err := r.List(ctx, Filter{SellerID: uuid.NewString(), Status: StatusCompleted})
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
