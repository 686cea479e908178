package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/moementrabelsi/mma/internal/apperr"
	"github.com/moementrabelsi/mma/internal/metrics"
	"github.com/moementrabelsi/mma/internal/model"
	"github.com/moementrabelsi/mma/internal/query"
)

// File names inside the data directory
const (
	CatalogFile = "products.json"
	AdminsFile  = "admins.json"
)

// Document is the on-disk catalog layout, also accepted by catalogctl migrate
type Document struct {
	Categories    []model.Category    `json:"categories"`
	SubCategories []model.SubCategory `json:"subCategories"`
	Products      []model.Product     `json:"products"`
}

type adminDocument struct {
	Admins []adminRecord `json:"admins"`
}

// adminRecord persists the hash, which model.Admin never serializes
type adminRecord struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (r adminRecord) admin() model.Admin {
	return model.Admin{ID: r.ID, Username: r.Username, PasswordHash: r.PasswordHash, IsAdmin: r.IsAdmin, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}

func toAdminRecord(a *model.Admin) adminRecord {
	return adminRecord{ID: a.ID, Username: a.Username, PasswordHash: a.PasswordHash, IsAdmin: a.IsAdmin, CreatedAt: a.CreatedAt, UpdatedAt: a.UpdatedAt}
}

// FileStore keeps the catalog in two JSON documents.
// Every call reads the whole document; every write rewrites it atomically.
type FileStore struct {
	dir     string
	mu      sync.Mutex
	metrics *metrics.Metrics
}

// NewFileStore creates dir and empty documents when they do not exist yet
func NewFileStore(dir string, m *metrics.Metrics) (*FileStore, error) {
	if m == nil {
		m = metrics.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperr.Store("failed to create data directory", err)
	}
	s := &FileStore{dir: dir, metrics: m}

	empty := map[string]any{
		CatalogFile: Document{Categories: []model.Category{}, SubCategories: []model.SubCategory{}, Products: []model.Product{}},
		AdminsFile:  adminDocument{Admins: []adminRecord{}},
	}
	for name, doc := range empty {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			if err := writeJSON(path, doc); err != nil {
				return nil, err
			}
		} else if err != nil {
			return nil, apperr.Store("failed to stat "+name, err)
		}
	}
	return s, nil
}

func (s *FileStore) Categories() CategoryStore       { return &fileCategories{s} }
func (s *FileStore) SubCategories() SubCategoryStore { return &fileSubCategories{s} }
func (s *FileStore) Products() ProductStore          { return &fileProducts{s} }
func (s *FileStore) Admins() AdminStore              { return &fileAdmins{s} }

func (s *FileStore) Name() string { return "file" }

// Ping checks that the catalog document is readable
func (s *FileStore) Ping(ctx context.Context) error {
	_, err := s.readCatalog()
	return err
}

func (s *FileStore) Close() error { return nil }

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apperr.Store("failed to read "+filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return apperr.Store("failed to parse "+filepath.Base(path), err)
	}
	return nil
}

// writeJSON replaces path with the pretty-printed document through a temp file and rename
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return apperr.Store("failed to encode "+filepath.Base(path), err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return apperr.Store("failed to write "+filepath.Base(path), err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return apperr.Store("failed to write "+filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return apperr.Store("failed to write "+filepath.Base(path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return apperr.Store("failed to replace "+filepath.Base(path), err)
	}
	return nil
}

func (s *FileStore) readCatalog() (*Document, error) {
	var doc Document
	if err := readJSON(filepath.Join(s.dir, CatalogFile), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// readOnly runs fn over a fresh copy of the catalog document
func (s *FileStore) readOnly(op string, fn func(doc *Document) error) error {
	defer s.metrics.TrackStoreOperation(op)(time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.readCatalog()
	if err != nil {
		return err
	}
	return fn(doc)
}

// mutate runs fn over the catalog document and persists it when fn succeeds
func (s *FileStore) mutate(op string, fn func(doc *Document) error) error {
	defer s.metrics.TrackStoreOperation(op)(time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.readCatalog()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return writeJSON(filepath.Join(s.dir, CatalogFile), doc)
}

func (s *FileStore) readAdmins(op string, write bool, fn func(doc *adminDocument) error) error {
	defer s.metrics.TrackStoreOperation(op)(time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, AdminsFile)
	var doc adminDocument
	if err := readJSON(path, &doc); err != nil {
		return err
	}
	if err := fn(&doc); err != nil {
		return err
	}
	if !write {
		return nil
	}
	return writeJSON(path, doc)
}

// indexOf returns the position of the element whose id matches, or -1
func indexOf[T any](items []T, id string, idOf func(*T) string) int {
	for i := range items {
		if idOf(&items[i]) == id {
			return i
		}
	}
	return -1
}

func categoryID(c *model.Category) string       { return c.ID }
func subCategoryID(s *model.SubCategory) string { return s.ID }
func productID(p *model.Product) string         { return p.ID }

type fileCategories struct{ *FileStore }

func (s *fileCategories) List(ctx context.Context) ([]model.Category, error) {
	var out []model.Category
	err := s.readOnly("categories.list", func(doc *Document) error {
		out = append([]model.Category{}, doc.Categories...)
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (s *fileCategories) Get(ctx context.Context, id string) (*model.Category, error) {
	var out *model.Category
	err := s.readOnly("categories.get", func(doc *Document) error {
		i := indexOf(doc.Categories, id, categoryID)
		if i < 0 {
			return apperr.NotFound("Category")
		}
		c := doc.Categories[i]
		out = &c
		return nil
	})
	return out, err
}

func (s *fileCategories) Create(ctx context.Context, c *model.Category) error {
	return s.mutate("categories.create", func(doc *Document) error {
		if indexOf(doc.Categories, c.ID, categoryID) >= 0 {
			return apperr.Conflict("Category with this id already exists")
		}
		doc.Categories = append(doc.Categories, *c)
		return nil
	})
}

func (s *fileCategories) Update(ctx context.Context, c *model.Category) error {
	return s.mutate("categories.update", func(doc *Document) error {
		i := indexOf(doc.Categories, c.ID, categoryID)
		if i < 0 {
			return apperr.NotFound("Category")
		}
		doc.Categories[i] = *c
		return nil
	})
}

func (s *fileCategories) Delete(ctx context.Context, id string) error {
	return s.mutate("categories.delete", func(doc *Document) error {
		i := indexOf(doc.Categories, id, categoryID)
		if i < 0 {
			return apperr.NotFound("Category")
		}
		doc.Categories = append(doc.Categories[:i], doc.Categories[i+1:]...)
		return nil
	})
}

type fileSubCategories struct{ *FileStore }

func (s *fileSubCategories) List(ctx context.Context, categoryID string) ([]model.SubCategory, error) {
	out := []model.SubCategory{}
	err := s.readOnly("subcategories.list", func(doc *Document) error {
		for _, sub := range doc.SubCategories {
			if categoryID == "" || sub.CategoryID == categoryID {
				out = append(out, sub)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (s *fileSubCategories) Get(ctx context.Context, id string) (*model.SubCategory, error) {
	var out *model.SubCategory
	err := s.readOnly("subcategories.get", func(doc *Document) error {
		i := indexOf(doc.SubCategories, id, subCategoryID)
		if i < 0 {
			return apperr.NotFound("SubCategory")
		}
		sub := doc.SubCategories[i]
		out = &sub
		return nil
	})
	return out, err
}

func (s *fileSubCategories) Create(ctx context.Context, sub *model.SubCategory) error {
	return s.mutate("subcategories.create", func(doc *Document) error {
		if indexOf(doc.SubCategories, sub.ID, subCategoryID) >= 0 {
			return apperr.Conflict("SubCategory with this id already exists")
		}
		doc.SubCategories = append(doc.SubCategories, *sub)
		return nil
	})
}

func (s *fileSubCategories) Update(ctx context.Context, sub *model.SubCategory) error {
	return s.mutate("subcategories.update", func(doc *Document) error {
		i := indexOf(doc.SubCategories, sub.ID, subCategoryID)
		if i < 0 {
			return apperr.NotFound("SubCategory")
		}
		doc.SubCategories[i] = *sub
		return nil
	})
}

func (s *fileSubCategories) Delete(ctx context.Context, id string) error {
	return s.mutate("subcategories.delete", func(doc *Document) error {
		i := indexOf(doc.SubCategories, id, subCategoryID)
		if i < 0 {
			return apperr.NotFound("SubCategory")
		}
		doc.SubCategories = append(doc.SubCategories[:i], doc.SubCategories[i+1:]...)
		return nil
	})
}

type fileProducts struct{ *FileStore }

func (s *fileProducts) List(ctx context.Context, f query.Filter) ([]model.Product, error) {
	var out []model.Product
	err := s.readOnly("products.list", func(doc *Document) error {
		for i := range doc.Products {
			doc.Products[i].Normalize()
			doc.Products[i].IsStatic = false
		}
		out = query.Apply(doc.Products, f)
		return nil
	})
	return out, err
}

func (s *fileProducts) Get(ctx context.Context, id string) (*model.Product, error) {
	var out *model.Product
	err := s.readOnly("products.get", func(doc *Document) error {
		i := indexOf(doc.Products, id, productID)
		if i < 0 {
			return apperr.NotFound("Product")
		}
		p := doc.Products[i]
		p.Normalize()
		p.IsStatic = false
		out = &p
		return nil
	})
	return out, err
}

func (s *fileProducts) Create(ctx context.Context, p *model.Product) error {
	return s.mutate("products.create", func(doc *Document) error {
		if indexOf(doc.Products, p.ID, productID) >= 0 {
			return apperr.Conflict("Product with this id already exists")
		}
		doc.Products = append(doc.Products, *p)
		return nil
	})
}

func (s *fileProducts) Update(ctx context.Context, p *model.Product) error {
	return s.mutate("products.update", func(doc *Document) error {
		i := indexOf(doc.Products, p.ID, productID)
		if i < 0 {
			return apperr.NotFound("Product")
		}
		doc.Products[i] = *p
		return nil
	})
}

func (s *fileProducts) Delete(ctx context.Context, id string) error {
	return s.mutate("products.delete", func(doc *Document) error {
		i := indexOf(doc.Products, id, productID)
		if i < 0 {
			return apperr.NotFound("Product")
		}
		doc.Products = append(doc.Products[:i], doc.Products[i+1:]...)
		return nil
	})
}

func (s *fileProducts) count(op string, match func(*model.Product) bool) (int64, error) {
	var n int64
	err := s.readOnly(op, func(doc *Document) error {
		for i := range doc.Products {
			if match(&doc.Products[i]) {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (s *fileProducts) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	return s.count("products.count", func(p *model.Product) bool { return p.Category == categoryID })
}

func (s *fileProducts) CountBySubCategory(ctx context.Context, subCategoryID string) (int64, error) {
	return s.count("products.count", func(p *model.Product) bool { return p.SubCategory == subCategoryID })
}

func (s *fileProducts) DistinctAttribute(ctx context.Context, key string) ([]string, error) {
	if !attributeKeys[key] {
		return nil, apperr.Validation(fmt.Sprintf("unsupported attribute %q", key))
	}
	var out []string
	err := s.readOnly("products.distinct", func(doc *Document) error {
		out = distinctAttribute(doc.Products, key)
		return nil
	})
	return out, err
}

// distinctAttribute collects the distinct non-empty values of key in first-seen order
func distinctAttribute(products []model.Product, key string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, p := range products {
		v := strings.TrimSpace(p.Attributes.Get(key))
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

type fileAdmins struct{ *FileStore }

func (s *fileAdmins) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.readAdmins("admins.count", false, func(doc *adminDocument) error {
		n = int64(len(doc.Admins))
		return nil
	})
	return n, err
}

func (s *fileAdmins) find(op string, match func(*adminRecord) bool) (*model.Admin, error) {
	var out *model.Admin
	err := s.readAdmins(op, false, func(doc *adminDocument) error {
		for i := range doc.Admins {
			if match(&doc.Admins[i]) {
				a := doc.Admins[i].admin()
				out = &a
				return nil
			}
		}
		return apperr.NotFound("User")
	})
	return out, err
}

func (s *fileAdmins) Get(ctx context.Context, id string) (*model.Admin, error) {
	return s.find("admins.get", func(r *adminRecord) bool { return r.ID == id })
}

func (s *fileAdmins) FindByUsername(ctx context.Context, username string) (*model.Admin, error) {
	return s.find("admins.find", func(r *adminRecord) bool { return r.Username == username })
}

func (s *fileAdmins) Create(ctx context.Context, a *model.Admin) error {
	return s.readAdmins("admins.create", true, func(doc *adminDocument) error {
		for _, r := range doc.Admins {
			if r.ID == a.ID || r.Username == a.Username {
				return apperr.Conflict("User already exists")
			}
		}
		doc.Admins = append(doc.Admins, toAdminRecord(a))
		return nil
	})
}

func (s *fileAdmins) Update(ctx context.Context, a *model.Admin) error {
	return s.readAdmins("admins.update", true, func(doc *adminDocument) error {
		for i := range doc.Admins {
			if doc.Admins[i].ID == a.ID {
				doc.Admins[i] = toAdminRecord(a)
				return nil
			}
		}
		return apperr.NotFound("User")
	})
}
