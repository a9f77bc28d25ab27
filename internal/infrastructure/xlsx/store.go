// Package xlsx persiste catálogo, libro y valoración en los tres libros de cálculo
// del sistema de referencia (product_details, inventory_catalog, master_data), con
// doble respaldo tras cada operación. Un solo escritor: las mutaciones se serializan
// con un mutex de proceso.
package xlsx

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/jhoicas/almacen-api/internal/application/catalog"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/config"
	"github.com/rs/zerolog"
)

// Nombres de los libros, los mismos del sistema de referencia.
const (
	catalogFile   = "product_details.xlsx"
	ledgerFile    = "inventory_catalog.xlsx"
	valuationFile = "master_data.xlsx"
)

// Ensure Store implements inventory.TxRunner and catalog.TxRunner.
var _ inventory.TxRunner = (*Store)(nil)
var _ catalog.TxRunner = (*Store)(nil)

// Store agrupa los tres libros bajo un mutex común.
type Store struct {
	mu      sync.RWMutex
	dataDir string
	backups []string
	log     zerolog.Logger
}

// New crea el store y asegura que existan las carpetas de datos y respaldo.
func New(cfg config.StoreConfig, log zerolog.Logger) (*Store, error) {
	dirs := []string{cfg.DataDir, cfg.BackupDir, cfg.Backup2Dir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return &Store{
		dataDir: cfg.DataDir,
		backups: []string{cfg.BackupDir, cfg.Backup2Dir},
		log:     log,
	}, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dataDir, name)
}

// Run ejecuta fn con los repos del motor de inventario bajo el lock de escritura
// y respalda los libros al terminar con éxito.
func (s *Store) Run(ctx context.Context, fn func(
	ledgerRepo repository.LedgerRepository,
	valuationRepo repository.ValuationRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := session{s: s}
	if err := fn(sess, sess); err != nil {
		return err
	}
	s.backupLocked()
	return nil
}

// RunCatalog ejecuta fn con el repo de catálogo bajo el lock de escritura.
func (s *Store) RunCatalog(ctx context.Context, fn func(catalogRepo repository.CatalogRepository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(session{s: s}); err != nil {
		return err
	}
	s.backupLocked()
	return nil
}

// Catalog devuelve una vista del catálogo segura para lecturas fuera de transacción.
func (s *Store) Catalog() repository.CatalogRepository {
	return lockedCatalog{s: s}
}

// backupLocked duplica los tres libros en las dos carpetas de respaldo, como el
// sistema de referencia tras cada acción. Un respaldo fallido no invalida la
// operación ya persistida; solo se registra.
func (s *Store) backupLocked() {
	for _, name := range []string{catalogFile, ledgerFile, valuationFile} {
		src := s.path(name)
		if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		for _, dir := range s.backups {
			if err := copyFile(src, filepath.Join(dir, name)); err != nil {
				s.log.Warn().Err(err).Str("file", name).Str("dir", dir).Msg("respaldo fallido")
			}
		}
	}
}

// session opera sobre los libros sin tomar el lock: solo existe dentro de
// Run/RunCatalog, que ya lo tienen.
type session struct {
	s *Store
}

var _ repository.CatalogRepository = session{}
var _ repository.LedgerRepository = session{}
var _ repository.ValuationRepository = session{}
