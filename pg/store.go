package pg

import (
	"github.com/jmoiron/sqlx"

	"github.com/zirius/linkcloak/models"
)

// Store adapts the package-level data access functions to the capability
// interfaces the handlers and the enrichment worker are built against, so
// the database handle is injected rather than ambient.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetLink(shortCode string) (*models.Link, error) {
	return GetLink(s.db, shortCode)
}

func (s *Store) GetLinkByID(id int64) (*models.Link, error) {
	return GetLinkByID(s.db, id)
}

func (s *Store) CreateLink(link *models.Link) error {
	return CreateLink(s.db, link)
}

func (s *Store) GetLinks() ([]models.LinkWithCount, error) {
	return GetLinks(s.db)
}

func (s *Store) CreateVisit(visit *models.Visit) error {
	return CreateVisit(s.db, visit)
}

func (s *Store) GetVisits(linkID int64, limit uint64) ([]models.Visit, error) {
	return GetVisits(s.db, linkID, limit)
}

func (s *Store) GetVisitCount(linkID int64) (int, error) {
	return GetVisitCount(s.db, linkID)
}

func (s *Store) GetAdmin(username string) (*models.Admin, error) {
	return GetAdmin(s.db, username)
}
