// Package cache implements the §11 scan cache: a content-addressed memo
// table so a repeat `morfx scan` over an unchanged file and rule set
// skips re-parsing and re-matching, adapted from the teacher's
// internal/db run/op journal into a single gorm model.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Entry is one memoized scan result: the matches found for a given file
// content hash under a given rule-set hash, stored as an opaque JSON
// blob the caller decodes (the rule layer's own types own that shape;
// this package only persists bytes).
type Entry struct {
	FileHash    string `gorm:"primaryKey;type:varchar(64)"`
	RuleSetHash string `gorm:"primaryKey;type:varchar(64)"`
	MatchesJSON string `gorm:"type:text"`
	CreatedAt   time.Time
}

// Cache wraps the gorm connection to a local sqlite file.
type Cache struct {
	db *gorm.DB
}

// Open connects to (creating if absent) the sqlite database at path and
// migrates the Entry table. Uses github.com/glebarez/sqlite, the same
// pure-Go (no cgo) sqlite dialector the teacher's own db.Connect
// prefers over gorm.io/driver/sqlite's cgo-backed mattn/go-sqlite3.
func Open(path string) (*Cache, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("cache: failed to open %s: %w", path, err)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("cache: migration failed: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying sqlite connection.
func (c *Cache) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Lookup returns the memoized MatchesJSON for (fileHash, ruleSetHash), if
// present.
func (c *Cache) Lookup(fileHash, ruleSetHash string) (matchesJSON string, found bool, err error) {
	var e Entry
	result := c.db.First(&e, "file_hash = ? AND rule_set_hash = ?", fileHash, ruleSetHash)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return "", false, nil
		}
		return "", false, result.Error
	}
	return e.MatchesJSON, true, nil
}

// Store memoizes matchesJSON under (fileHash, ruleSetHash), overwriting
// any prior entry for the same key. Uses an upsert rather than gorm's
// Save, since Save treats a non-zero (here: non-empty string) primary
// key as "this row already exists" and issues a plain UPDATE — which
// would silently affect zero rows on a key's first Store.
func (c *Cache) Store(fileHash, ruleSetHash, matchesJSON string) error {
	e := Entry{FileHash: fileHash, RuleSetHash: ruleSetHash, MatchesJSON: matchesJSON, CreatedAt: time.Now()}
	return c.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&e).Error
}

// HashFile returns the hex SHA-256 digest of content, the cache key
// component identifying a file's contents.
func HashFile(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// HashRuleSet returns the hex SHA-256 digest of ruleIDs (sorted, so the
// hash is independent of load order), the cache key component
// identifying which rule set a scan ran under.
func HashRuleSet(ruleIDs []string) string {
	sorted := append([]string(nil), ruleIDs...)
	sort.Strings(sorted)
	h := sha256.New()
	for _, id := range sorted {
		h.Write([]byte(id))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
