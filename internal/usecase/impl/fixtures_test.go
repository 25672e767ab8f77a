package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"boutique/config"
	"boutique/internal/domain/entity"
	"boutique/internal/domain/repository"
	"boutique/internal/domain/service"
	"boutique/internal/infra/auth"
	"boutique/internal/infra/cache"
	"boutique/internal/infra/identity"
	"boutique/internal/infra/navigation"
	"boutique/internal/infra/persistence/postgres"
	"boutique/internal/infra/persistence/sqlitetest"
	"boutique/internal/infra/qrcode"
	"boutique/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testAdminEmail = "admin@example.com"

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:      4,
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 24 * time.Hour,
			AdminEmails:     []string{testAdminEmail},
		},
		PasswordStrength: &config.PasswordStrengthConfig{MinLength: 8, MaxLength: 64},
		Storage:          &config.StorageConfig{MaxImageSize: 1 << 20},
		Catalog:          &config.CatalogConfig{FeaturedLimit: 4, DefaultPageSize: 12, MaxPageSize: 48},
		QRCode:           &config.QRCodeConfig{Size: 128, ErrorCorrectionLevel: "M"},
		Session:          &config.SessionConfig{HeartbeatInterval: time.Second},
	}
	cfg.SecretKey.Access = "access-secret-for-tests"
	cfg.SecretKey.Refresh = "refresh-secret-for-tests"

	return cfg
}

// testEnv wires the services over an in-memory database and the real repositories.
type testEnv struct {
	db     *gorm.DB
	cfg    *config.Config
	logger *slog.Logger
	hub    *identity.StateHub

	txManager    repository.TransactionManager
	users        repository.UserRepository
	auths        repository.AuthRepository
	tokens       repository.RefreshTokenRepository
	profiles     repository.ProfileRepository
	addresses    repository.AddressRepository
	categories   repository.CategoryRepository
	products     repository.ProductRepository
	orders       repository.OrderRepository
	tokenService service.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := sqlitetest.New(t)
	cfg := newTestConfig()
	tokenService, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	return &testEnv{
		db:           db,
		cfg:          cfg,
		logger:       newDiscardLogger(),
		hub:          identity.NewStateHub(),
		txManager:    postgres.NewTransactionManager(db),
		users:        postgres.NewUserRepository(db),
		auths:        postgres.NewAuthRepository(db),
		tokens:       postgres.NewRefreshTokenRepository(db),
		profiles:     postgres.NewProfileRepository(db),
		addresses:    postgres.NewAddressRepository(db),
		categories:   postgres.NewCategoryRepository(db),
		products:     postgres.NewProductRepository(db),
		orders:       postgres.NewOrderRepository(db),
		tokenService: tokenService,
	}
}

func (env *testEnv) authService(verifier service.FederatedIdentityVerifier) usecase.AuthUsecase {
	return NewAuthService(AuthServiceParams{
		TxManager:        env.txManager,
		UserRepo:         env.users,
		AuthRepo:         env.auths,
		RefreshTokenRepo: env.tokens,
		ProfileRepo:      env.profiles,
		Hasher:           auth.NewBcryptHasher(env.cfg),
		TokenService:     env.tokenService,
		Verifier:         verifier,
		Hub:              env.hub,
		Config:           env.cfg,
		Logger:           env.logger,
	})
}

func (env *testEnv) sessionService() usecase.SessionUsecase {
	return NewSessionService(SessionServiceParams{
		UserRepo:    env.users,
		ProfileRepo: env.profiles,
		Hub:         env.hub,
		Auth:        env.authService(nil),
		Routes:      navigation.NewRouteTable(),
		Logger:      env.logger,
	})
}

func (env *testEnv) accountService() usecase.AccountUsecase {
	return NewAccountService(AccountServiceParams{
		TxManager: env.txManager,
		AuthRepo:  env.auths,
		Hasher:    auth.NewBcryptHasher(env.cfg),
		Hub:       env.hub,
		Logger:    env.logger,
	})
}

func (env *testEnv) addressService() usecase.AddressUsecase {
	return NewAddressService(AddressServiceParams{
		TxManager:   env.txManager,
		AddressRepo: env.addresses,
		Logger:      env.logger,
	})
}

func (env *testEnv) categoryCache() service.CategoryCache {
	return cache.NewMemoryCategoryCache(time.Minute)
}

func (env *testEnv) catalogService() usecase.CatalogUsecase {
	return NewCatalogService(CatalogServiceParams{
		ProductRepo:   env.products,
		CategoryRepo:  env.categories,
		CategoryCache: env.categoryCache(),
		Config:        env.cfg,
		Logger:        env.logger,
	})
}

func (env *testEnv) orderService() usecase.OrderUsecase {
	return NewOrderService(OrderServiceParams{
		TxManager: env.txManager,
		OrderRepo: env.orders,
		QRService: qrcode.NewQRCodeService(env.cfg.QRCode),
		Logger:    env.logger,
	})
}

func (env *testEnv) adminProductService(storage service.ObjectStorage, publisher service.EventPublisher) *adminProductService {
	srv := NewAdminProductService(AdminProductServiceParams{
		ProductRepo:  env.products,
		CategoryRepo: env.categories,
		Storage:      storage,
		Publisher:    publisher,
		Config:       env.cfg,
		Logger:       env.logger,
	}).(*adminProductService)
	srv.now = func() time.Time { return time.UnixMilli(1700000000000) }

	return srv
}

func (env *testEnv) adminCategoryService() usecase.AdminCategoryUsecase {
	return NewAdminCategoryService(AdminCategoryServiceParams{
		TxManager:     env.txManager,
		CategoryRepo:  env.categories,
		ProductRepo:   env.products,
		CategoryCache: env.categoryCache(),
		Logger:        env.logger,
	})
}

func (env *testEnv) adminOrderService(publisher service.EventPublisher) usecase.AdminOrderUsecase {
	return NewAdminOrderService(AdminOrderServiceParams{
		TxManager: env.txManager,
		OrderRepo: env.orders,
		Publisher: publisher,
		QRService: qrcode.NewQRCodeService(env.cfg.QRCode),
		Config:    env.cfg,
		Logger:    env.logger,
	})
}

// registerCustomer creates an account through the auth service.
func (env *testEnv) registerCustomer(t *testing.T, first, last, email string) *usecase.AuthOutput {
	t.Helper()

	output, err := env.authService(nil).Register(context.Background(), &usecase.RegisterInput{
		FirstName:       first,
		LastName:        last,
		Email:           email,
		Password:        "motdepasse-solide",
		ConfirmPassword: "motdepasse-solide",
	})
	require.NoError(t, err)

	return output
}

func (env *testEnv) seedCategory(t *testing.T, name, slug string, parentID *uuid.UUID) *entity.Category {
	t.Helper()

	category := &entity.Category{Name: name, Slug: slug, ParentID: parentID}
	require.NoError(t, env.categories.Create(context.Background(), category))

	return category
}

func (env *testEnv) seedProduct(t *testing.T, name string, categoryID uuid.UUID, prix string, stock int) *entity.Product {
	t.Helper()

	id := uuid.New()
	product := &entity.Product{
		ID:          id,
		SKU:         entity.ProductSKU(id),
		Name:        name,
		Prix:        decimal.RequireFromString(prix),
		Stock:       stock,
		CategoryID:  categoryID,
		IsAvailable: true,
		ImagePath:   "products/" + entity.ProductSKU(id) + ".jpg",
	}
	require.NoError(t, env.products.Create(context.Background(), product))

	return product
}

func (env *testEnv) seedAddress(t *testing.T, userID uuid.UUID, name string, addressType entity.AddressType) []*entity.Address {
	t.Helper()

	addresses, err := env.addressService().Create(context.Background(), userID, &usecase.AddressInput{
		Name:    name,
		Line1:   "12 rue de la Paix",
		Zip:     "75002",
		City:    "Paris",
		Country: "France",
		Type:    addressType,
	})
	require.NoError(t, err)

	return addresses
}
