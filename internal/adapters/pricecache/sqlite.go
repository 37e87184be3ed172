package pricecache

// sqlite.go — cache durable de precios históricos.
//
// Estrategia:
//   - Una sola tabla `prices`, PK (asset_id, day). Un precio histórico es
//     un hecho inmutable: INSERT OR IGNORE, nunca UPDATE, nunca expira.
//   - Cache en memoria delante de la DB: tras el warm inicial, los hits
//     repetidos dentro del proceso no tocan disco.
//   - Las escrituras son best-effort: un fallo se loggea y se traga — el
//     lookup sigue como si no hubiera cache.

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS prices (
    asset_id TEXT NOT NULL,
    day      TEXT NOT NULL,
    usd      REAL NOT NULL,
    PRIMARY KEY (asset_id, day)
);
`

const dayLayout = "2006-01-02"

// SQLiteCache implementa ports.PriceCache usando SQLite (pure Go, sin CGo).
type SQLiteCache struct {
	db    *sql.DB
	cache map[string]float64 // "assetID|day" → precio
	mu    sync.RWMutex
}

// Open abre (o crea) la base de datos en la ruta dada, aplica el schema y
// precarga la cache en memoria.
func Open(path string) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("pricecache.Open: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("pricecache.Open: apply schema: %w", err)
	}

	c := &SQLiteCache{
		db:    db,
		cache: make(map[string]float64),
	}
	c.warm(context.Background())
	return c, nil
}

// Get devuelve el precio cacheado para (assetID, día), si existe.
func (c *SQLiteCache) Get(_ context.Context, assetID string, day time.Time) (float64, bool, error) {
	key := cacheKey(assetID, day)

	c.mu.RLock()
	price, ok := c.cache[key]
	c.mu.RUnlock()
	if ok {
		return price, true, nil
	}
	return 0, false, nil
}

// Set persiste una entrada. Inmutable: si la key ya existe se ignora — el
// mismo (activo, día) siempre mapea al mismo valor histórico. Un fallo de
// escritura a disco se loggea y se traga.
func (c *SQLiteCache) Set(ctx context.Context, assetID string, day time.Time, price float64) error {
	if price < 0 {
		return nil // un precio negativo nunca es un hecho válido
	}
	key := cacheKey(assetID, day)

	c.mu.Lock()
	if _, exists := c.cache[key]; exists {
		c.mu.Unlock()
		return nil
	}
	c.cache[key] = price
	c.mu.Unlock()

	if _, err := c.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO prices (asset_id, day, usd) VALUES (?, ?, ?)`,
		assetID, day.UTC().Format(dayLayout), price,
	); err != nil {
		slog.Warn("price cache write failed", "asset", assetID, "err", err)
	}
	return nil
}

// Close cierra la conexión a la base de datos.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

// warm precarga la cache en memoria desde la DB al arrancar. Un fallo aquí
// solo cuesta lookups de más, no es fatal.
func (c *SQLiteCache) warm(ctx context.Context) {
	rows, err := c.db.QueryContext(ctx, `SELECT asset_id, day, usd FROM prices`)
	if err != nil {
		slog.Warn("price cache warm failed", "err", err)
		return
	}
	defer rows.Close()

	c.mu.Lock()
	defer c.mu.Unlock()
	loaded := 0
	for rows.Next() {
		var assetID, day string
		var usd float64
		if rows.Scan(&assetID, &day, &usd) == nil {
			c.cache[assetID+"|"+day] = usd
			loaded++
		}
	}
	if loaded > 0 {
		slog.Debug("price cache warmed", "entries", loaded)
	}
}

// cacheKey normaliza la key a granularidad de día calendario UTC.
func cacheKey(assetID string, day time.Time) string {
	return assetID + "|" + day.UTC().Format(dayLayout)
}
