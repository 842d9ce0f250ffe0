package catalog

import (
	"fmt"
	"sync"

	"github.com/spf13/afero"
)

// TableInfo is what the catalog hands back for a resolved table name.
type TableInfo struct {
	OID    uint32
	Name   string
	Schema Schema
	Heap   *InMemoryTableHeap
}

// IndexInfo names an index and the base-table columns it covers.
type IndexInfo struct {
	Name      string
	TableName string
	KeySchema Schema
	Index     Index
}

// Catalog resolves table names to TableInfo and lists the indexes
// defined on a table by name — a plain map behind a RWMutex is enough to
// drive tests and the demo CLI without reimplementing a disk-backed
// system catalog.
type Catalog struct {
	mu      sync.RWMutex
	fs      afero.Fs
	tables  map[string]*TableInfo
	indexes map[string][]*IndexInfo
	nextOID uint32
}

func NewCatalog(fs afero.Fs) *Catalog {
	if fs == nil {
		fs = afero.NewMemMapFs()
	}
	return &Catalog{
		fs:      fs,
		tables:  make(map[string]*TableInfo),
		indexes: make(map[string][]*IndexInfo),
	}
}

func (c *Catalog) CreateTable(name string, schema Schema) *TableInfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	info := &TableInfo{
		OID:    c.nextOID,
		Name:   name,
		Schema: schema,
		Heap:   NewInMemoryTableHeap(c.fs, fmt.Sprintf("/%s.log", name)),
	}
	c.nextOID++
	c.tables[name] = info
	return info
}

func (c *Catalog) GetTable(name string) (*TableInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.tables[name]
	return info, ok
}

func (c *Catalog) CreateIndex(name, tableName string, keySchema Schema, keyAttrs []int) *IndexInfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	info := &IndexInfo{
		Name:      name,
		TableName: tableName,
		KeySchema: keySchema,
		Index:     NewHashIndex(keyAttrs),
	}
	c.indexes[tableName] = append(c.indexes[tableName], info)
	return info
}

// GetTableIndexes returns every index registered on tableName, in
// creation order.
func (c *Catalog) GetTableIndexes(tableName string) []*IndexInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*IndexInfo(nil), c.indexes[tableName]...)
}
