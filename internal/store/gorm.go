package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/moementrabelsi/mma/internal/apperr"
	"github.com/moementrabelsi/mma/internal/metrics"
	"github.com/moementrabelsi/mma/internal/model"
	"github.com/moementrabelsi/mma/internal/query"
	"gorm.io/gorm"
)

// GormStore keeps the catalog in a relational database
type GormStore struct {
	db      *gorm.DB
	metrics *metrics.Metrics
}

// NewGormStore wraps an open, migrated connection
func NewGormStore(db *gorm.DB, m *metrics.Metrics) *GormStore {
	if m == nil {
		m = metrics.NewNop()
	}
	return &GormStore{db: db, metrics: m}
}

func (s *GormStore) Categories() CategoryStore       { return &gormCategories{s} }
func (s *GormStore) SubCategories() SubCategoryStore { return &gormSubCategories{s} }
func (s *GormStore) Products() ProductStore          { return &gormProducts{s} }
func (s *GormStore) Admins() AdminStore              { return &gormAdmins{s} }

// Name returns the gorm dialect name
func (s *GormStore) Name() string { return s.db.Dialector.Name() }

// DB exposes the underlying connection for tooling
func (s *GormStore) DB() *gorm.DB { return s.db }

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return apperr.Store("ping", err)
	}
	return apperr.Store("ping", sqlDB.PingContext(ctx))
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *GormStore) conn(ctx context.Context, op string) (*gorm.DB, func()) {
	start := time.Now()
	track := s.metrics.TrackStoreOperation(op)
	return s.db.WithContext(ctx), func() { track(start) }
}

// translate maps gorm errors onto the application error kinds
func translate(op, entity string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound(entity)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Conflict("%s with this id already exists", entity)
	default:
		return apperr.Store("failed to "+op, err)
	}
}

// ensureExists turns a missing primary key into NotFound before an update
func ensureExists(db *gorm.DB, value any, id, op, entity string) error {
	var count int64
	if err := db.Model(value).Where("id = ?", id).Count(&count).Error; err != nil {
		return translate(op, entity, err)
	}
	if count == 0 {
		return apperr.NotFound(entity)
	}
	return nil
}

func deleteByID(db *gorm.DB, value any, id, op, entity string) error {
	res := db.Where("id = ?", id).Delete(value)
	if res.Error != nil {
		return translate(op, entity, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(entity)
	}
	return nil
}

type gormCategories struct{ *GormStore }

func (s *gormCategories) List(ctx context.Context) ([]model.Category, error) {
	db, done := s.conn(ctx, "categories.list")
	defer done()

	categories := []model.Category{}
	if err := db.Order("name").Find(&categories).Error; err != nil {
		return nil, translate("list categories", "Category", err)
	}
	return categories, nil
}

func (s *gormCategories) Get(ctx context.Context, id string) (*model.Category, error) {
	db, done := s.conn(ctx, "categories.get")
	defer done()

	var c model.Category
	if err := db.Where("id = ?", id).First(&c).Error; err != nil {
		return nil, translate("get category", "Category", err)
	}
	return &c, nil
}

func (s *gormCategories) Create(ctx context.Context, c *model.Category) error {
	db, done := s.conn(ctx, "categories.create")
	defer done()
	return translate("create category", "Category", db.Create(c).Error)
}

func (s *gormCategories) Update(ctx context.Context, c *model.Category) error {
	db, done := s.conn(ctx, "categories.update")
	defer done()

	if err := ensureExists(db, &model.Category{}, c.ID, "update category", "Category"); err != nil {
		return err
	}
	return translate("update category", "Category", db.Save(c).Error)
}

func (s *gormCategories) Delete(ctx context.Context, id string) error {
	db, done := s.conn(ctx, "categories.delete")
	defer done()
	return deleteByID(db, &model.Category{}, id, "delete category", "Category")
}

type gormSubCategories struct{ *GormStore }

func (s *gormSubCategories) List(ctx context.Context, categoryID string) ([]model.SubCategory, error) {
	db, done := s.conn(ctx, "subcategories.list")
	defer done()

	if categoryID != "" {
		db = db.Where("category_id = ?", categoryID)
	}
	subs := []model.SubCategory{}
	if err := db.Order("name").Find(&subs).Error; err != nil {
		return nil, translate("list subcategories", "SubCategory", err)
	}
	return subs, nil
}

func (s *gormSubCategories) Get(ctx context.Context, id string) (*model.SubCategory, error) {
	db, done := s.conn(ctx, "subcategories.get")
	defer done()

	var sub model.SubCategory
	if err := db.Where("id = ?", id).First(&sub).Error; err != nil {
		return nil, translate("get subcategory", "SubCategory", err)
	}
	return &sub, nil
}

func (s *gormSubCategories) Create(ctx context.Context, sub *model.SubCategory) error {
	db, done := s.conn(ctx, "subcategories.create")
	defer done()
	return translate("create subcategory", "SubCategory", db.Create(sub).Error)
}

func (s *gormSubCategories) Update(ctx context.Context, sub *model.SubCategory) error {
	db, done := s.conn(ctx, "subcategories.update")
	defer done()

	if err := ensureExists(db, &model.SubCategory{}, sub.ID, "update subcategory", "SubCategory"); err != nil {
		return err
	}
	return translate("update subcategory", "SubCategory", db.Save(sub).Error)
}

func (s *gormSubCategories) Delete(ctx context.Context, id string) error {
	db, done := s.conn(ctx, "subcategories.delete")
	defer done()
	return deleteByID(db, &model.SubCategory{}, id, "delete subcategory", "SubCategory")
}

type gormProducts struct{ *GormStore }

// attributeExpr returns the SQL expression extracting an attribute from the JSON column.
// key must come from attributeKeys since it is inlined.
func (s *gormProducts) attributeExpr(key string) string {
	if s.db.Dialector.Name() == "postgres" {
		return fmt.Sprintf("(attributes::jsonb ->> '%s')", key)
	}
	return fmt.Sprintf("(attributes ->> '%s')", key)
}

// likePattern builds a case-insensitive substring pattern with LIKE wildcards escaped
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(term)) + "%"
}

func (s *gormProducts) List(ctx context.Context, f query.Filter) ([]model.Product, error) {
	db, done := s.conn(ctx, "products.list")
	defer done()

	if f.Category != "" {
		db = db.Where("category = ?", f.Category)
	}
	if f.SubCategory != "" {
		db = db.Where("sub_category = ?", f.SubCategory)
	}
	if f.Search != "" {
		pattern := likePattern(f.Search)
		db = db.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	if f.Type != "" {
		db = db.Where("LOWER("+s.attributeExpr(model.AttributeType)+") = ?", strings.ToLower(f.Type))
	}
	if f.Usage != "" {
		db = db.Where("LOWER("+s.attributeExpr(model.AttributeUsage)+`) LIKE ? ESCAPE '\'`, likePattern(f.Usage))
	}
	if f.MinPrice != nil {
		db = db.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		db = db.Where("price <= ?", *f.MaxPrice)
	}
	if f.InStock != nil {
		db = db.Where("in_stock = ?", *f.InStock)
	}

	products := []model.Product{}
	if err := db.Order("id").Find(&products).Error; err != nil {
		return nil, translate("list products", "Product", err)
	}
	for i := range products {
		products[i].Normalize()
	}
	return products, nil
}

func (s *gormProducts) Get(ctx context.Context, id string) (*model.Product, error) {
	db, done := s.conn(ctx, "products.get")
	defer done()

	var p model.Product
	if err := db.Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate("get product", "Product", err)
	}
	p.Normalize()
	return &p, nil
}

func (s *gormProducts) Create(ctx context.Context, p *model.Product) error {
	db, done := s.conn(ctx, "products.create")
	defer done()
	return translate("create product", "Product", db.Create(p).Error)
}

func (s *gormProducts) Update(ctx context.Context, p *model.Product) error {
	db, done := s.conn(ctx, "products.update")
	defer done()

	if err := ensureExists(db, &model.Product{}, p.ID, "update product", "Product"); err != nil {
		return err
	}
	return translate("update product", "Product", db.Save(p).Error)
}

func (s *gormProducts) Delete(ctx context.Context, id string) error {
	db, done := s.conn(ctx, "products.delete")
	defer done()
	return deleteByID(db, &model.Product{}, id, "delete product", "Product")
}

func (s *gormProducts) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	db, done := s.conn(ctx, "products.count")
	defer done()

	var count int64
	err := db.Model(&model.Product{}).Where("category = ?", categoryID).Count(&count).Error
	return count, translate("count products", "Product", err)
}

func (s *gormProducts) CountBySubCategory(ctx context.Context, subCategoryID string) (int64, error) {
	db, done := s.conn(ctx, "products.count")
	defer done()

	var count int64
	err := db.Model(&model.Product{}).Where("sub_category = ?", subCategoryID).Count(&count).Error
	return count, translate("count products", "Product", err)
}

func (s *gormProducts) DistinctAttribute(ctx context.Context, key string) ([]string, error) {
	if !attributeKeys[key] {
		return nil, apperr.Validation(fmt.Sprintf("unsupported attribute %q", key))
	}
	db, done := s.conn(ctx, "products.distinct")
	defer done()

	expr := s.attributeExpr(key)
	values := []string{}
	err := db.Raw("SELECT DISTINCT " + expr + " FROM products WHERE " + expr + " IS NOT NULL AND " + expr + " <> ''").
		Scan(&values).Error
	if err != nil {
		return nil, translate("list attribute values", "Product", err)
	}
	return values, nil
}

type gormAdmins struct{ *GormStore }

func (s *gormAdmins) Count(ctx context.Context) (int64, error) {
	db, done := s.conn(ctx, "admins.count")
	defer done()

	var count int64
	err := db.Model(&model.Admin{}).Count(&count).Error
	return count, translate("count admins", "User", err)
}

func (s *gormAdmins) Get(ctx context.Context, id string) (*model.Admin, error) {
	db, done := s.conn(ctx, "admins.get")
	defer done()

	var a model.Admin
	if err := db.Where("id = ?", id).First(&a).Error; err != nil {
		return nil, translate("get admin", "User", err)
	}
	return &a, nil
}

func (s *gormAdmins) FindByUsername(ctx context.Context, username string) (*model.Admin, error) {
	db, done := s.conn(ctx, "admins.find")
	defer done()

	var a model.Admin
	if err := db.Where("username = ?", username).First(&a).Error; err != nil {
		return nil, translate("find admin", "User", err)
	}
	return &a, nil
}

func (s *gormAdmins) Create(ctx context.Context, a *model.Admin) error {
	db, done := s.conn(ctx, "admins.create")
	defer done()
	return translate("create admin", "User", db.Create(a).Error)
}

func (s *gormAdmins) Update(ctx context.Context, a *model.Admin) error {
	db, done := s.conn(ctx, "admins.update")
	defer done()

	if err := ensureExists(db, &model.Admin{}, a.ID, "update admin", "User"); err != nil {
		return err
	}
	return translate("update admin", "User", db.Save(a).Error)
}
