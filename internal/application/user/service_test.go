package user_test

import (
	"context"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	gormlib "gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	appuser "github.com/tastebook/v1/internal/application/user"
	gormrepo "github.com/tastebook/v1/internal/infrastructure/persistence/gorm"
	apperrors "github.com/tastebook/v1/pkg/errors"
)

func newService(t *testing.T) *appuser.UserService {
	t.Helper()
	db, err := gormlib.Open(sqlite.Open("file::memory:"), &gormlib.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&gormrepo.UserModel{}))

	return appuser.NewUserService(gormrepo.NewUserRepository(db), zap.NewNop())
}

func TestFindOrCreateCreatesOnFirstLogin(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	u, err := svc.FindOrCreate(ctx, "Remy", "remy@example.com")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, "Remy", u.Name)
}

func TestFindOrCreateReturnsExisting(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	first, err := svc.FindOrCreate(ctx, "Remy", "remy@example.com")
	require.NoError(t, err)

	// the stored name wins over whatever the provider reports later
	second, err := svc.FindOrCreate(ctx, "Chef Remy", "remy@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Remy", second.Name)
}

func TestFindOrCreateValidation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.FindOrCreate(ctx, "No Email", "")
	assert.True(t, apperrors.Is(err, apperrors.CodeValidationFailed))
}

func TestFindByEmailMissing(t *testing.T) {
	svc := newService(t)
	_, err := svc.FindByEmail(context.Background(), "nobody@example.com")
	assert.True(t, apperrors.Is(err, apperrors.CodeUserNotFound))
}

func TestFindOrCreateConcurrent(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	email := gofakeit.Email()

	const goroutines = 8
	ids := make([]uint, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u, err := svc.FindOrCreate(ctx, "Racer", email)
			if assert.NoError(t, err) {
				ids[i] = u.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id, "all logins resolve to one account")
	}
}
