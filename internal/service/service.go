// Package service holds the catalog business rules: validation, referential checks,
// static product handling and admin authentication. It talks to storage only through
// the store interfaces.
package service

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/moementrabelsi/mma/internal/metrics"
	"github.com/moementrabelsi/mma/internal/store"
	"github.com/moementrabelsi/mma/pkg/config"
	"github.com/moementrabelsi/mma/pkg/jwtutil"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Options tunes the services independently of where the data lives
type Options struct {
	StaticProducts   bool
	DefaultPageLimit int
	Admin            config.AdminConfig
	BcryptCost       int
}

// OptionsFromConfig derives service options from the loaded configuration
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		StaticProducts:   cfg.Data.StaticProducts,
		DefaultPageLimit: cfg.Data.DefaultPageLimit,
		Admin:            cfg.Admin,
		BcryptCost:       bcrypt.DefaultCost,
	}
}

// Services bundles every service built over one store
type Services struct {
	Categories    *CategoryService
	SubCategories *SubCategoryService
	Products      *ProductService
	Auth          *AuthService
}

// base is shared by every service
type base struct {
	store    store.Store
	validate *validator.Validate
	metrics  *metrics.Metrics
	log      *zap.Logger
	now      func() time.Time
}

func (b *base) newID(requested *string) string {
	if requested != nil && *requested != "" {
		return *requested
	}
	return uuid.New().String()
}

func (b *base) timestamp() time.Time {
	return b.now().UTC()
}

// New wires the services over st
func New(st store.Store, jwt *jwtutil.JWTUtil, opts Options, m *metrics.Metrics, log *zap.Logger) *Services {
	if m == nil {
		m = metrics.NewNop()
	}
	if log == nil {
		log = zap.NewNop()
	}
	if opts.DefaultPageLimit < 1 {
		opts.DefaultPageLimit = 10
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}

	b := &base{
		store:    st,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		metrics:  m,
		log:      log,
		now:      time.Now,
	}
	return &Services{
		Categories:    &CategoryService{base: b},
		SubCategories: &SubCategoryService{base: b},
		Products:      &ProductService{base: b, staticProducts: opts.StaticProducts, defaultLimit: opts.DefaultPageLimit},
		Auth:          &AuthService{base: b, jwt: jwt, admin: opts.Admin, cost: opts.BcryptCost},
	}
}
